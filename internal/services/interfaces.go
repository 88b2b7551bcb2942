package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateModuleRequest = validator.ModuleCreateRequest
type SubmitGradeRequest = validator.GradeSubmitRequest
type RecordAttendanceRequest = validator.AttendanceRecordRequest
type SendNotificationRequest = validator.NotificationSendRequest
type TextToSpeechRequest = validator.TextToSpeechRequest
type PromptRequest = validator.PromptRequest

// UploadedFile is an optional file attached to a module.
type UploadedFile struct {
	Name   string
	Reader io.Reader
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type GradeSubmitResult struct {
	Grade        *models.Grade        `json:"grade"`
	Notification *models.Notification `json:"notification"`
}

type StudentGradesResponse struct {
	Grades            []*models.Grade `json:"grades"`
	AveragePercentage float64         `json:"average_percentage"`
}

type AttendanceRecordResult struct {
	Attendance *models.Attendance `json:"attendance"`
	Created    bool               `json:"created"`
}

type StudentAttendanceResponse struct {
	Records        []*models.Attendance    `json:"records"`
	Counts         models.AttendanceCounts `json:"counts"`
	AttendanceRate float64                 `json:"attendance_rate"`
}

type StudentDashboardResponse struct {
	Student          *models.Student      `json:"student"`
	RecentGrades     []*models.Grade      `json:"recent_grades"`
	RecentAttendance []*models.Attendance `json:"recent_attendance"`
	UnreadCount      int64                `json:"unread_notifications"`
	ModuleCount      int64                `json:"module_count"`
}

type TeacherDashboardResponse struct {
	Teacher       *models.Teacher  `json:"teacher"`
	ModuleCount   int64            `json:"module_count"`
	TotalStudents int64            `json:"total_students"`
	RecentModules []*models.Module `json:"recent_modules"`
}

type AdminDashboardResponse struct {
	User   *models.User         `json:"user"`
	Counts *models.SystemCounts `json:"counts"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type AttendanceImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

// AssistantResult is a JSON payload plus the HTTP status it should go out with.
type AssistantResult struct {
	Payload map[string]interface{}
	Status  int
}

// ===== SERVICE INTERFACES =====

type IdentityService interface {
	Register(ctx context.Context, req *RegisterRequest) (*Principal, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ResolvePrincipal(ctx context.Context, userID uint) (*Principal, error)
	ResolvePrincipalByUsername(ctx context.Context, username string) (*Principal, error)
	// Bootstrap seeds the admin account when the users table is empty.
	Bootstrap(ctx context.Context) (bool, error)
}

type ModuleService interface {
	Create(ctx context.Context, p *Principal, req *CreateModuleRequest, file *UploadedFile) (*models.Module, error)
	ListForGrade(ctx context.Context, p *Principal, gradeLevel string) ([]*models.Module, error)
	ListForTeacher(ctx context.Context, p *Principal) ([]*models.Module, error)
	// OpenFile resolves a stored upload name to a local path.
	OpenFile(ctx context.Context, p *Principal, name string) (string, error)
}

type GradeService interface {
	Submit(ctx context.Context, p *Principal, req *SubmitGradeRequest) (*GradeSubmitResult, error)
	ListForStudent(ctx context.Context, p *Principal) (*StudentGradesResponse, error)
	ListForTeacher(ctx context.Context, p *Principal) ([]*models.Grade, error)
}

type AttendanceService interface {
	Record(ctx context.Context, p *Principal, req *RecordAttendanceRequest) (*AttendanceRecordResult, error)
	ListForStudent(ctx context.Context, p *Principal) (*StudentAttendanceResponse, error)
	ListRecordedBy(ctx context.Context, p *Principal) ([]*models.Attendance, error)
}

type NotificationService interface {
	Send(ctx context.Context, p *Principal, req *SendNotificationRequest) (*models.Notification, error)
	// ViewForStudent returns the list as it was before marking everything read.
	ViewForStudent(ctx context.Context, p *Principal) ([]*models.Notification, error)
	MarkAllReadForStudent(ctx context.Context, p *Principal) (int64, error)
	UnreadCountForStudent(ctx context.Context, p *Principal) (int64, error)
	ListSent(ctx context.Context, p *Principal) ([]*models.Notification, error)
}

type StudentService interface {
	List(ctx context.Context, p *Principal) ([]*models.Student, error)
}

type DashboardService interface {
	Student(ctx context.Context, p *Principal) (*StudentDashboardResponse, error)
	Teacher(ctx context.Context, p *Principal) (*TeacherDashboardResponse, error)
	Admin(ctx context.Context, p *Principal) (*AdminDashboardResponse, error)
}

type ReportService interface {
	ExportGradebook(ctx context.Context, p *Principal, w io.Writer) error
	ImportAttendance(ctx context.Context, p *Principal, r io.Reader) (*AttendanceImportResult, error)
}

type AssistantService interface {
	TextToSpeech(ctx context.Context, p *Principal, req *TextToSpeechRequest) AssistantResult
	SpeechToText(ctx context.Context, p *Principal, audio *UploadedFile) AssistantResult
	SpeechToSpeechTranslation(ctx context.Context, p *Principal, audio *UploadedFile, targetLanguage string) AssistantResult
	TextToImage(ctx context.Context, p *Principal, req *PromptRequest) AssistantResult
	EducationalAssistant(ctx context.Context, p *Principal, req *PromptRequest) AssistantResult
}

type ServiceManager interface {
	// Core service getters
	Identity() IdentityService
	Module() ModuleService
	Grade() GradeService
	Attendance() AttendanceService
	Notification() NotificationService
	Student() StudentService
	Dashboard() DashboardService

	// Additional service getters
	Report() ReportService
	Assistant() AssistantService
	Policy() *AccessPolicy

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
