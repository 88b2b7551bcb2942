package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AttendanceUniqueIndex enforces one row per (student, date).
const AttendanceUniqueIndex = "idx_attendance_student_date"

type Attendance struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date,priority:1"`
	Date       datatypes.Date   `json:"date" gorm:"not null;uniqueIndex:idx_attendance_student_date,priority:2"`
	Status     AttendanceStatus `json:"status" gorm:"not null;size:10"`
	Notes      string           `json:"notes" gorm:"type:text"`
	RecordedBy *uint            `json:"recorded_by,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student  *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Recorder *Teacher `json:"recorder,omitempty" gorm:"foreignKey:RecordedBy;constraint:OnDelete:SET NULL"`
}

func (Attendance) TableName() string {
	return "attendances"
}
