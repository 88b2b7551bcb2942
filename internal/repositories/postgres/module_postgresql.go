package postgres

import (
	"context"

	"github.com/SAP-F-2025/school-portal-service/internal/cache"
	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

type modulePostgreSQL struct {
	base
}

func (r *modulePostgreSQL) Create(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Omit("Teacher").Create(module).Error; err != nil {
		return handleDBError(err, "create module")
	}

	gradeLevel, teacherID := module.GradeLevel, module.TeacherID
	r.hooks.after(ctx, func(ctx context.Context) {
		cache.InvalidateModuleCache(ctx, r.cache, gradeLevel, teacherID)
	})
	return nil
}

func (r *modulePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, handleDBError(err, "get module by id")
	}
	return &module, nil
}

func (r *modulePostgreSQL) ListByGradeLevel(ctx context.Context, gradeLevel string) ([]*models.Module, error) {
	var modules []*models.Module
	err := r.readCache(r.cache.Module).CacheOrExecute(ctx, cache.ModuleGradeListKey(gradeLevel), &modules, cache.ModuleListTTL,
		func() (interface{}, error) {
			var rows []*models.Module
			if err := r.db.WithContext(ctx).
				Preload("Teacher").
				Where("grade_level = ?", gradeLevel).
				Order("created_at DESC, id DESC").
				Find(&rows).Error; err != nil {
				return nil, handleDBError(err, "list modules by grade level")
			}
			return rows, nil
		})
	return modules, err
}

func (r *modulePostgreSQL) ListByTeacher(ctx context.Context, teacherID uint, limit int) ([]*models.Module, error) {
	var modules []*models.Module
	query := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC, id DESC")
	if err := applyLimit(query, limit).Find(&modules).Error; err != nil {
		return nil, handleDBError(err, "list modules by teacher")
	}
	return modules, nil
}

func (r *modulePostgreSQL) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.readCache(r.cache.Module).CacheOrExecute(ctx, cache.ModuleTeacherCountKey(teacherID), &count, cache.ModuleCacheConfig.TTL,
		func() (interface{}, error) {
			var n int64
			if err := r.db.WithContext(ctx).Model(&models.Module{}).Where("teacher_id = ?", teacherID).Count(&n).Error; err != nil {
				return nil, handleDBError(err, "count modules by teacher")
			}
			return n, nil
		})
	return count, err
}

func (r *modulePostgreSQL) CountByGradeLevel(ctx context.Context, gradeLevel string) (int64, error) {
	var count int64
	err := r.readCache(r.cache.Module).CacheOrExecute(ctx, cache.ModuleGradeCountKey(gradeLevel), &count, cache.ModuleCacheConfig.TTL,
		func() (interface{}, error) {
			var n int64
			if err := r.db.WithContext(ctx).Model(&models.Module{}).Where("grade_level = ?", gradeLevel).Count(&n).Error; err != nil {
				return nil, handleDBError(err, "count modules by grade level")
			}
			return n, nil
		})
	return count, err
}
