package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// UserRepository owns identities. There is no update path for role.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Student, error)
	// Ordered by last name, then first name.
	List(ctx context.Context) ([]*models.Student, error)
	Count(ctx context.Context) (int64, error)
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id uint) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Teacher, error)
}
