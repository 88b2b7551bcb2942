package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

type notificationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	publisher events.EventPublisher
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, policy *AccessPolicy, publisher events.EventPublisher) NotificationService {
	return &notificationService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    policy,
		publisher: publisher,
	}
}

func (s *notificationService) Send(ctx context.Context, p *Principal, req *SendNotificationRequest) (*models.Notification, error) {
	if err := s.policy.Authorize(p, ActionNotificationSend, nil); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := getStudent(ctx, s.repo, req.StudentID)
	if err != nil {
		return nil, err
	}

	senderID := p.Teacher.ID
	notification := &models.Notification{
		Title:     req.Title,
		Message:   req.Message,
		StudentID: student.ID,
		SenderID:  &senderID,
	}
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	s.logger.Info("Notification sent", "notification_id", notification.ID, "student_id", student.ID, "sender_id", senderID)

	publishEvent(ctx, s.publisher, s.logger, events.NotificationCreated, events.NotificationCreatedData{
		NotificationID: notification.ID,
		StudentID:      student.ID,
		SenderID:       senderID,
		Title:          notification.Title,
	})

	return notification, nil
}

func (s *notificationService) ViewForStudent(ctx context.Context, p *Principal) ([]*models.Notification, error) {
	if err := s.policy.Authorize(p, ActionNotificationViewOwn, StudentRecord{Kind: "notification", StudentID: studentIDOf(p)}); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		notifications, err = tx.Notification().ListByStudent(ctx, p.Student.ID)
		if err != nil {
			return err
		}
		_, err = tx.Notification().MarkAllRead(ctx, p.Student.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to view notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkAllReadForStudent(ctx context.Context, p *Principal) (int64, error) {
	if err := s.policy.Authorize(p, ActionNotificationViewOwn, nil); err != nil {
		return 0, err
	}

	n, err := s.repo.Notification().MarkAllRead(ctx, p.Student.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if n > 0 {
		s.logger.Info("Notifications marked read", "student_id", p.Student.ID, "count", n)
	}
	return n, nil
}

func (s *notificationService) UnreadCountForStudent(ctx context.Context, p *Principal) (int64, error) {
	if err := s.policy.Authorize(p, ActionNotificationViewOwn, nil); err != nil {
		return 0, err
	}

	n, err := s.repo.Notification().CountUnread(ctx, p.Student.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

func (s *notificationService) ListSent(ctx context.Context, p *Principal) ([]*models.Notification, error) {
	if err := s.policy.Authorize(p, ActionNotificationListSent, nil); err != nil {
		return nil, err
	}

	notifications, err := s.repo.Notification().ListBySender(ctx, p.Teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func studentIDOf(p *Principal) uint {
	if p == nil || p.Student == nil {
		return 0
	}
	return p.Student.ID
}
