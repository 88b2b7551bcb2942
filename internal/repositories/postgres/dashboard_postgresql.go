package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

type dashboardPostgreSQL struct {
	base
}

func (r *dashboardPostgreSQL) GetSystemCounts(ctx context.Context) (*models.SystemCounts, error) {
	counts := &models.SystemCounts{}

	targets := []struct {
		model any
		dest  *int64
		name  string
	}{
		{&models.User{}, &counts.Users, "users"},
		{&models.Student{}, &counts.Students, "students"},
		{&models.Teacher{}, &counts.Teachers, "teachers"},
		{&models.Module{}, &counts.Modules, "modules"},
		{&models.Grade{}, &counts.Grades, "grades"},
		{&models.Attendance{}, &counts.Attendance, "attendance"},
	}

	for _, t := range targets {
		if err := r.db.WithContext(ctx).Model(t.model).Count(t.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", t.name, err)
		}
	}

	return counts, nil
}
