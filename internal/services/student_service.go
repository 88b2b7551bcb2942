package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
)

type studentService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy *AccessPolicy
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, policy *AccessPolicy) StudentService {
	return &studentService{repo: repo, logger: logger, policy: policy}
}

// List returns every student for teacher pick lists.
func (s *studentService) List(ctx context.Context, p *Principal) ([]*models.Student, error) {
	if err := s.policy.Authorize(p, ActionStudentList, nil); err != nil {
		return nil, err
	}

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}
