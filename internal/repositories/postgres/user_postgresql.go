package postgres

import (
	"context"

	"github.com/SAP-F-2025/school-portal-service/internal/cache"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

type userPostgreSQL struct {
	base
}

func (r *userPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *userPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}
	return &user, nil
}

func (r *userPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by username")
	}
	return &user, nil
}

func (r *userPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userPostgreSQL) exists(ctx context.Context, where string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(where, arg).Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user exists")
	}
	return count > 0, nil
}

func (r *userPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count users")
	}
	return count, nil
}

type studentPostgreSQL struct {
	base
}

func (r *studentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(student).Error; err != nil {
		return handleDBError(err, "create student")
	}
	r.hooks.after(ctx, func(ctx context.Context) {
		cache.InvalidateStudentCountCache(ctx, r.cache)
	})
	return nil
}

func (r *studentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, handleDBError(err, "get student by id")
	}
	return &student, nil
}

func (r *studentPostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, handleDBError(err, "get student by user id")
	}
	return &student, nil
}

func (r *studentPostgreSQL) List(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	if err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&students).Error; err != nil {
		return nil, handleDBError(err, "list students")
	}
	return students, nil
}

func (r *studentPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.readCache(r.cache.Stats).CacheOrExecute(ctx, cache.StudentCountKey, &count, cache.StatsCacheConfig.TTL,
		func() (interface{}, error) {
			var n int64
			if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&n).Error; err != nil {
				return nil, handleDBError(err, "count students")
			}
			return n, nil
		})
	return count, err
}

type teacherPostgreSQL struct {
	base
}

func (r *teacherPostgreSQL) Create(ctx context.Context, teacher *models.Teacher) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(teacher).Error; err != nil {
		return handleDBError(err, "create teacher")
	}
	return nil
}

func (r *teacherPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, handleDBError(err, "get teacher by id")
	}
	return &teacher, nil
}

func (r *teacherPostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, handleDBError(err, "get teacher by user id")
	}
	return &teacher, nil
}
