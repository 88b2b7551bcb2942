package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

type gradeService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	publisher events.EventPublisher
	now       func() time.Time
}

func NewGradeService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, policy *AccessPolicy, publisher events.EventPublisher) GradeService {
	return &gradeService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    policy,
		publisher: publisher,
		now:       time.Now,
	}
}

// Submit writes the grade and the student's notification in one transaction.
func (s *gradeService) Submit(ctx context.Context, p *Principal, req *SubmitGradeRequest) (*GradeSubmitResult, error) {
	if err := s.policy.Authorize(p, ActionGradeSubmit, nil); err != nil {
		return nil, err
	}

	s.logger.Info("Submitting grade", "teacher_id", p.Teacher.ID, "student_id", req.StudentID, "module_id", req.ModuleID)

	if errs := s.validator.GetBusinessValidator().ValidateGradeSubmit(req); len(errs) > 0 {
		return nil, errs
	}

	module, err := getModule(ctx, s.repo, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, ActionGradeSubmit, OwnedModule{Module: module}); err != nil {
		return nil, err
	}
	student, err := getStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}

	senderID := p.Teacher.ID
	result := &GradeSubmitResult{
		Grade: &models.Grade{
			Score:     req.Score,
			MaxScore:  req.MaxScore,
			Date:      s.now().UTC(),
			Comments:  req.Comments,
			StudentID: student.ID,
			ModuleID:  module.ID,
		},
		Notification: &models.Notification{
			Title:     gradeNotificationTitle(module.Title),
			Message:   gradeNotificationMessage(module.Title, req.Score, req.MaxScore),
			StudentID: student.ID,
			SenderID:  &senderID,
		},
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Grade().Create(ctx, result.Grade); err != nil {
			return err
		}
		return tx.Notification().Create(ctx, result.Notification)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit grade: %w", err)
	}

	s.logger.Info("Grade submitted", "grade_id", result.Grade.ID, "notification_id", result.Notification.ID)

	publishEvent(ctx, s.publisher, s.logger, events.GradeSubmitted, events.GradeSubmittedData{
		GradeID:        result.Grade.ID,
		StudentID:      student.ID,
		ModuleID:       module.ID,
		TeacherID:      senderID,
		NotificationID: result.Notification.ID,
		Score:          req.Score,
		MaxScore:       req.MaxScore,
	})

	return result, nil
}

func (s *gradeService) ListForStudent(ctx context.Context, p *Principal) (*StudentGradesResponse, error) {
	if err := s.policy.Authorize(p, ActionGradeListOwn, nil); err != nil {
		return nil, err
	}

	grades, err := s.repo.Grade().ListByStudent(ctx, p.Student.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	return &StudentGradesResponse{
		Grades:            grades,
		AveragePercentage: models.AverageGradePercentage(grades),
	}, nil
}

func (s *gradeService) ListForTeacher(ctx context.Context, p *Principal) ([]*models.Grade, error) {
	if err := s.policy.Authorize(p, ActionGradeListAuthored, nil); err != nil {
		return nil, err
	}

	grades, err := s.repo.Grade().ListByModuleOwner(ctx, p.Teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func gradeNotificationTitle(moduleTitle string) string {
	return "New grade for " + moduleTitle
}

func gradeNotificationMessage(moduleTitle string, score, maxScore float64) string {
	return fmt.Sprintf("You received a grade of %s/%s for %s.", formatScore(score), formatScore(maxScore), moduleTitle)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
