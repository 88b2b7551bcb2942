package repositories

import "context"

// Repository aggregates every repository behind one handle.
type Repository interface {
	// Identity domain
	User() UserRepository
	Student() StudentRepository
	Teacher() TeacherRepository

	// Content and records
	Module() ModuleRepository
	Grade() GradeRepository
	Attendance() AttendanceRepository
	Notification() NotificationRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// WithTransaction runs fn against repositories bound to one database
	// transaction. Returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize checks connections and applies the schema.
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
