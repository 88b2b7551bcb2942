package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	publisher events.EventPublisher
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, policy *AccessPolicy, publisher events.EventPublisher) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    policy,
		publisher: publisher,
	}
}

// Record upserts the row for (student, date); the latest status and notes win.
func (s *attendanceService) Record(ctx context.Context, p *Principal, req *RecordAttendanceRequest) (*AttendanceRecordResult, error) {
	if err := s.policy.Authorize(p, ActionAttendanceRecord, nil); err != nil {
		return nil, err
	}

	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	req.Date = strings.TrimSpace(req.Date)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		return nil, NewValidationError("date", "must be a date in YYYY-MM-DD format", req.Date)
	}

	student, err := getStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}

	recorder := p.Teacher.ID
	attendance := &models.Attendance{
		StudentID:  student.ID,
		Date:       datatypes.Date(date),
		Status:     models.AttendanceStatus(req.Status),
		Notes:      req.Notes,
		RecordedBy: &recorder,
	}

	created, err := s.repo.Attendance().Upsert(ctx, attendance)
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	s.logger.Info("Attendance recorded",
		"attendance_id", attendance.ID,
		"student_id", student.ID,
		"date", req.Date,
		"status", req.Status,
		"created", created,
	)

	publishEvent(ctx, s.publisher, s.logger, events.AttendanceRecorded, events.AttendanceRecordedData{
		AttendanceID: attendance.ID,
		StudentID:    student.ID,
		TeacherID:    recorder,
		Date:         req.Date,
		Status:       req.Status,
		Created:      created,
	})

	return &AttendanceRecordResult{Attendance: attendance, Created: created}, nil
}

func (s *attendanceService) ListForStudent(ctx context.Context, p *Principal) (*StudentAttendanceResponse, error) {
	if err := s.policy.Authorize(p, ActionAttendanceListOwn, nil); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance().ListByStudent(ctx, p.Student.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	var counts models.AttendanceCounts
	for _, r := range records {
		counts.Add(r.Status)
	}

	return &StudentAttendanceResponse{
		Records:        records,
		Counts:         counts,
		AttendanceRate: counts.Rate(),
	}, nil
}

func (s *attendanceService) ListRecordedBy(ctx context.Context, p *Principal) ([]*models.Attendance, error) {
	if err := s.policy.Authorize(p, ActionAttendanceListRecorded, nil); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance().ListRecordedBy(ctx, p.Teacher.ID, repositories.RecordedByRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
