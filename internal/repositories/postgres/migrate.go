package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// Migrate creates or updates the seven tables with their foreign keys and the
// (student_id, date) unique index on attendances.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	if !db.Migrator().HasIndex(&models.Attendance{}, models.AttendanceUniqueIndex) {
		if err := db.Migrator().CreateIndex(&models.Attendance{}, models.AttendanceUniqueIndex); err != nil {
			return fmt.Errorf("create attendance unique index failed: %w", err)
		}
	}

	return nil
}
