package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/school-portal-service/internal/auth"
	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/repositories"
	"github.com/SAP-F-2025/school-portal-service/internal/storage"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	AdminSeed       AdminSeed
	AssistantAPIKey string
}

// ServiceDeps are the collaborators shared by every service.
type ServiceDeps struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Files     storage.FileStore
	Publisher events.EventPublisher
	Tokens    *auth.TokenManager
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	deps   ServiceDeps
	config ServiceManagerConfig
	policy *AccessPolicy

	// Service instances
	identityService     IdentityService
	moduleService       ModuleService
	gradeService        GradeService
	attendanceService   AttendanceService
	notificationService NotificationService
	studentService      StudentService
	dashboardService    DashboardService
	reportService       ReportService
	assistantService    AssistantService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDeps, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		deps:   deps,
		config: config,
		policy: NewAccessPolicy(),
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if err := sm.initializeServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices() error {
	d := sm.deps
	if d.Repo == nil || d.Logger == nil || d.Validator == nil {
		return fmt.Errorf("repository, logger and validator are required")
	}
	if d.Files == nil || d.Tokens == nil {
		return fmt.Errorf("file store and token manager are required")
	}

	sm.identityService = NewIdentityService(d.Repo, d.Logger, d.Validator, d.Tokens, sm.config.AdminSeed)
	sm.moduleService = NewModuleService(d.Repo, d.Logger, d.Validator, sm.policy, d.Files, d.Publisher)
	sm.gradeService = NewGradeService(d.Repo, d.Logger, d.Validator, sm.policy, d.Publisher)
	sm.attendanceService = NewAttendanceService(d.Repo, d.Logger, d.Validator, sm.policy, d.Publisher)
	sm.notificationService = NewNotificationService(d.Repo, d.Logger, d.Validator, sm.policy, d.Publisher)
	sm.studentService = NewStudentService(d.Repo, d.Logger, sm.policy)
	sm.dashboardService = NewDashboardService(d.Repo, d.Logger, sm.policy)
	sm.reportService = NewReportService(d.Logger, sm.policy, sm.gradeService, sm.attendanceService)
	sm.assistantService = NewAssistantService(d.Logger, sm.policy, sm.config.AssistantAPIKey)

	if sm.config.AssistantAPIKey == "" {
		d.Logger.Warn("Assistant API key not set, AI endpoints will return 500")
	}

	return nil
}

func (sm *serviceManager) mustBeReady() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.identityService
}

func (sm *serviceManager) Module() ModuleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.moduleService
}

func (sm *serviceManager) Grade() GradeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.gradeService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.attendanceService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.notificationService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.studentService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.dashboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.reportService
}

func (sm *serviceManager) Assistant() AssistantService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.assistantService
}

func (sm *serviceManager) Policy() *AccessPolicy {
	return sm.policy
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}
