package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/school-portal-service/internal/auth"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

// AdminSeed is the account created on first start.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

type identityService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	seed      AdminSeed
}

func NewIdentityService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager, seed AdminSeed) IdentityService {
	return &identityService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		seed:      seed,
	}
}

func (s *identityService) Register(ctx context.Context, req *RegisterRequest) (*Principal, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	s.logger.Info("Registering user", "username", req.Username, "role", req.Role)

	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	if taken, err := s.repo.User().ExistsByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, NewConflictError("username", req.Username)
	}
	if taken, err := s.repo.User().ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, NewConflictError("email", req.Email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	principal := &Principal{
		User: &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.UserRole(req.Role),
		},
	}
	today := datatypes.Date(startOfDay(time.Now()))

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, principal.User); err != nil {
			return err
		}

		switch principal.User.Role {
		case models.RoleStudent:
			principal.Student = &models.Student{
				UserID:        principal.User.ID,
				FirstName:     strings.TrimSpace(req.FirstName),
				LastName:      strings.TrimSpace(req.LastName),
				AdmissionDate: today,
				GradeLevel:    req.GradeLevel,
			}
			return tx.Student().Create(ctx, principal.Student)
		case models.RoleTeacher:
			principal.Teacher = &models.Teacher{
				UserID:     principal.User.ID,
				FirstName:  strings.TrimSpace(req.FirstName),
				LastName:   strings.TrimSpace(req.LastName),
				HireDate:   today,
				Department: req.Department,
			}
			return tx.Teacher().Create(ctx, principal.Teacher)
		}
		return nil
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, conflictFromUniqueViolation(err, req)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("User registered", "user_id", principal.User.ID, "role", principal.User.Role)
	return principal, nil
}

// conflictFromUniqueViolation handles the race where another request claimed
// the username or email between the pre-check and the insert.
func conflictFromUniqueViolation(err error, req *RegisterRequest) *ConflictError {
	if strings.Contains(repositories.UniqueViolationConstraint(err), "email") {
		return NewConflictError("email", req.Email)
	}
	return NewConflictError("username", req.Username)
}

func (s *identityService) Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Failed login attempt", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *identityService) ResolvePrincipal(ctx context.Context, userID uint) (*Principal, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.withProfile(ctx, user)
}

func (s *identityService) ResolvePrincipalByUsername(ctx context.Context, username string) (*Principal, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.withProfile(ctx, user)
}

func (s *identityService) withProfile(ctx context.Context, user *models.User) (*Principal, error) {
	principal := &Principal{User: user}

	var err error
	switch user.Role {
	case models.RoleStudent:
		principal.Student, err = s.repo.Student().GetByUserID(ctx, user.ID)
	case models.RoleTeacher:
		principal.Teacher, err = s.repo.Teacher().GetByUserID(ctx, user.ID)
	}
	// A missing profile is left nil; AccessPolicy rejects the principal later.
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return principal, nil
}

func (s *identityService) Bootstrap(ctx context.Context) (bool, error) {
	if s.seed.Username == "" || s.seed.Password == "" {
		return false, errors.New("admin seed credentials are not configured")
	}

	seeded := false
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		count, err := tx.User().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := auth.HashPassword(s.seed.Password)
		if err != nil {
			return err
		}
		if err := tx.User().Create(ctx, &models.User{
			Username:     s.seed.Username,
			Email:        s.seed.Email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}

	if seeded {
		s.logger.Info("Admin account seeded", "username", s.seed.Username)
	}
	return seeded, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
