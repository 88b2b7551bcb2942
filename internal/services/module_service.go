package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/storage"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

type moduleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AccessPolicy
	files     storage.FileStore
	publisher events.EventPublisher
}

func NewModuleService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, policy *AccessPolicy, files storage.FileStore, publisher events.EventPublisher) ModuleService {
	return &moduleService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    policy,
		files:     files,
		publisher: publisher,
	}
}

// Create stores the optional file first, then inserts the row. A failed
// insert removes the stored file again.
func (s *moduleService) Create(ctx context.Context, p *Principal, req *CreateModuleRequest, file *UploadedFile) (*models.Module, error) {
	if err := s.policy.Authorize(p, ActionModuleCreate, nil); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	s.logger.Info("Creating module", "teacher_id", p.Teacher.ID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	module := &models.Module{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   p.Teacher.ID,
		GradeLevel:  req.GradeLevel,
		Subject:     req.Subject,
	}

	if file != nil && file.Reader != nil {
		name, err := s.files.Store(ctx, file.Name, file.Reader)
		if err != nil {
			if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrEmptyFileName) {
				return nil, NewValidationError("file", err.Error(), file.Name)
			}
			return nil, fmt.Errorf("failed to store module file: %w", err)
		}
		module.FilePath = &name
	}

	if err := s.repo.Module().Create(ctx, module); err != nil {
		if module.HasFile() {
			if rmErr := s.files.Remove(*module.FilePath); rmErr != nil {
				s.logger.Error("Failed to remove orphaned upload", "file", *module.FilePath, "error", rmErr)
			}
		}
		return nil, fmt.Errorf("failed to create module: %w", err)
	}

	s.logger.Info("Module created", "module_id", module.ID, "has_file", module.HasFile())

	publishEvent(ctx, s.publisher, s.logger, events.ModuleCreated, events.ModuleCreatedData{
		ModuleID:   module.ID,
		TeacherID:  module.TeacherID,
		GradeLevel: module.GradeLevel,
		Subject:    module.Subject,
		HasFile:    module.HasFile(),
	})

	return module, nil
}

func (s *moduleService) ListForGrade(ctx context.Context, p *Principal, gradeLevel string) ([]*models.Module, error) {
	if err := s.policy.Authorize(p, ActionModuleListGrade, nil); err != nil {
		return nil, err
	}
	if p.Student.GradeLevel != gradeLevel {
		return nil, NewPermissionError(p.UserID(), 0, "module", string(ActionModuleListGrade), "grade level mismatch")
	}

	modules, err := s.repo.Module().ListByGradeLevel(ctx, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

func (s *moduleService) ListForTeacher(ctx context.Context, p *Principal) ([]*models.Module, error) {
	if err := s.policy.Authorize(p, ActionModuleListOwn, nil); err != nil {
		return nil, err
	}

	modules, err := s.repo.Module().ListByTeacher(ctx, p.Teacher.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	return modules, nil
}

func (s *moduleService) OpenFile(ctx context.Context, p *Principal, name string) (string, error) {
	if p == nil || p.User == nil {
		return "", ErrUnauthenticated
	}

	path, err := s.files.Resolve(name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return "", NewNotFoundError("file", name)
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	return path, nil
}
