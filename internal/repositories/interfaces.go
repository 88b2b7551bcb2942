package repositories

import (
	"context"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// Recent-items limits used by dashboards and teacher lists.
const (
	DashboardRecentLimit  = 5
	RecordedByRecentLimit = 20
)

// ModuleRepository persists the content registry.
type ModuleRepository interface {
	Create(ctx context.Context, module *models.Module) error
	GetByID(ctx context.Context, id uint) (*models.Module, error)

	// Newest first. A limit <= 0 returns every row.
	ListByGradeLevel(ctx context.Context, gradeLevel string) ([]*models.Module, error)
	ListByTeacher(ctx context.Context, teacherID uint, limit int) ([]*models.Module, error)

	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
	CountByGradeLevel(ctx context.Context, gradeLevel string) (int64, error)
}

type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error

	// Newest first, module preloaded. A limit <= 0 returns every row.
	ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Grade, error)
	// Grades on modules owned by the teacher, newest first, student and module preloaded.
	ListByModuleOwner(ctx context.Context, teacherID uint) ([]*models.Grade, error)
}

type AttendanceRepository interface {
	// Upsert inserts or overwrites the row for (StudentID, Date). created is
	// false when an existing row was updated.
	Upsert(ctx context.Context, attendance *models.Attendance) (created bool, err error)

	// Date descending. A limit <= 0 returns every row.
	ListByStudent(ctx context.Context, studentID uint, limit int) ([]*models.Attendance, error)
	ListRecordedBy(ctx context.Context, teacherID uint, limit int) ([]*models.Attendance, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error

	// Newest first.
	ListByStudent(ctx context.Context, studentID uint) ([]*models.Notification, error)
	ListBySender(ctx context.Context, teacherID uint) ([]*models.Notification, error)

	CountUnread(ctx context.Context, studentID uint) (int64, error)
	// MarkAllRead flips every unread row for the student in one statement.
	MarkAllRead(ctx context.Context, studentID uint) (int64, error)
}
