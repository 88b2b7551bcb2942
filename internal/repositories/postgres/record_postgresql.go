package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// ===== GRADES =====

type gradePostgreSQL struct {
	base
}

func (r *gradePostgreSQL) Create(ctx context.Context, grade *models.Grade) error {
	if err := r.db.WithContext(ctx).Omit("Student", "Module").Create(grade).Error; err != nil {
		return handleDBError(err, "create grade")
	}
	return nil
}

func (r *gradePostgreSQL) ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Grade, error) {
	var grades []*models.Grade
	query := r.db.WithContext(ctx).
		Preload("Module").
		Where("student_id = ?", studentID).
		Order("date DESC, id DESC")
	if err := applyLimit(query, limit).Find(&grades).Error; err != nil {
		return nil, handleDBError(err, "list grades by student")
	}
	return grades, nil
}

func (r *gradePostgreSQL) ListByModuleOwner(ctx context.Context, teacherID uint) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := r.db.WithContext(ctx).
		Joins("JOIN modules ON modules.id = grades.module_id").
		Where("modules.teacher_id = ?", teacherID).
		Preload("Student").
		Preload("Module").
		Order("grades.date DESC, grades.id DESC").
		Find(&grades).Error; err != nil {
		return nil, handleDBError(err, "list grades by module owner")
	}
	return grades, nil
}

// ===== ATTENDANCE =====

type attendancePostgreSQL struct {
	base
}

// Upsert relies on the unique (student_id, date) index so concurrent writers
// for the same pair converge on one row. created_at is only written on insert,
// so comparing the returned value tells an insert from an update.
func (r *attendancePostgreSQL) Upsert(ctx context.Context, attendance *models.Attendance) (bool, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	attendance.ID = 0
	attendance.CreatedAt = now
	attendance.UpdatedAt = now

	err := upsertAttendance(r.db.WithContext(ctx), attendance).Error
	if err != nil {
		return false, handleDBError(err, "upsert attendance")
	}

	return attendance.CreatedAt.Equal(now), nil
}

func upsertAttendance(db *gorm.DB, attendance *models.Attendance) *gorm.DB {
	return db.
		Omit("Student", "Recorder").
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "recorded_by", "updated_at"}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
		).
		Create(attendance)
}

func (r *attendancePostgreSQL) ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Attendance, error) {
	var rows []*models.Attendance
	query := r.db.WithContext(ctx).
		Preload("Recorder").
		Where("student_id = ?", studentID).
		Order("date DESC, id DESC")
	if err := applyLimit(query, limit).Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list attendance by student")
	}
	return rows, nil
}

func (r *attendancePostgreSQL) ListRecordedBy(ctx context.Context, teacherID uint, limit int) ([]*models.Attendance, error) {
	var rows []*models.Attendance
	query := r.db.WithContext(ctx).
		Preload("Student").
		Where("recorded_by = ?", teacherID).
		Order("date DESC, id DESC")
	if err := applyLimit(query, limit).Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list attendance recorded by teacher")
	}
	return rows, nil
}

// ===== NOTIFICATIONS =====

type notificationPostgreSQL struct {
	base
}

func (r *notificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit("Student", "Sender").Create(notification).Error; err != nil {
		return handleDBError(err, "create notification")
	}
	return nil
}

func (r *notificationPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.Notification, error) {
	var rows []*models.Notification
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list notifications by student")
	}
	return rows, nil
}

func (r *notificationPostgreSQL) ListBySender(ctx context.Context, teacherID uint) ([]*models.Notification, error) {
	var rows []*models.Notification
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("sender_id = ?", teacherID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, handleDBError(err, "list notifications by sender")
	}
	return rows, nil
}

func (r *notificationPostgreSQL) CountUnread(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count unread notifications")
	}
	return count, nil
}

func (r *notificationPostgreSQL) MarkAllRead(ctx context.Context, studentID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, handleDBError(result.Error, "mark notifications read")
	}
	return result.RowsAffected, nil
}
