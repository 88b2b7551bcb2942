package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "school-portal-service"
	EventVersion = "1.0"
)

// Event types
const (
	GradeSubmitted      = "grade.submitted"
	AttendanceRecorded  = "attendance.recorded"
	NotificationCreated = "notification.created"
	ModuleCreated       = "module.created"
)

// Event is the envelope published for every committed domain write.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type GradeSubmittedData struct {
	GradeID        uint    `json:"grade_id"`
	StudentID      uint    `json:"student_id"`
	ModuleID       uint    `json:"module_id"`
	TeacherID      uint    `json:"teacher_id"`
	NotificationID uint    `json:"notification_id"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
}

type AttendanceRecordedData struct {
	AttendanceID uint   `json:"attendance_id"`
	StudentID    uint   `json:"student_id"`
	TeacherID    uint   `json:"teacher_id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Created      bool   `json:"created"`
}

type NotificationCreatedData struct {
	NotificationID uint   `json:"notification_id"`
	StudentID      uint   `json:"student_id"`
	SenderID       uint   `json:"sender_id"`
	Title          string `json:"title"`
}

type ModuleCreatedData struct {
	ModuleID   uint   `json:"module_id"`
	TeacherID  uint   `json:"teacher_id"`
	GradeLevel string `json:"grade_level"`
	Subject    string `json:"subject"`
	HasFile    bool   `json:"has_file"`
}
