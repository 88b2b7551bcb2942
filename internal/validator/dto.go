package validator

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// RegisterRequest creates a student or teacher account with its profile.
type RegisterRequest struct {
	Username   string `json:"username" form:"username" validate:"required,min=4,max=64"`
	Email      string `json:"email" form:"email" validate:"required,email,max=120"`
	Password   string `json:"password" form:"password" validate:"required,min=8,max=128"`
	Role       string `json:"role" form:"role" validate:"required,user_role_register"`
	FirstName  string `json:"first_name" form:"first_name" validate:"required,not_blank,max=64"`
	LastName   string `json:"last_name" form:"last_name" validate:"required,not_blank,max=64"`
	GradeLevel string `json:"grade_level" form:"grade_level"`
	Department string `json:"department" form:"department"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ModuleCreateRequest carries the form fields of a module upload. The file
// itself travels separately.
type ModuleCreateRequest struct {
	Title       string `json:"title" form:"title" validate:"required,not_blank,max=128"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	GradeLevel  string `json:"grade_level" form:"grade_level" validate:"required,grade_level"`
	Subject     string `json:"subject" form:"subject" validate:"required,subject"`
}

type GradeSubmitRequest struct {
	StudentID uint    `json:"student_id" form:"student_id" validate:"required"`
	ModuleID  uint    `json:"module_id" form:"module_id" validate:"required"`
	Score     float64 `json:"score" form:"score"`
	MaxScore  float64 `json:"max_score" form:"max_score"`
	Comments  string  `json:"comments" form:"comments" validate:"max=2000"`
}

type AttendanceRecordRequest struct {
	StudentID uint   `json:"student_id" form:"student_id" validate:"required"`
	Date      string `json:"date" form:"date" validate:"required,iso_date"`
	Status    string `json:"status" form:"status" validate:"required,attendance_status"`
	Notes     string `json:"notes" form:"notes" validate:"max=2000"`
}

type NotificationSendRequest struct {
	StudentID uint   `json:"student_id" form:"student_id" validate:"required"`
	Title     string `json:"title" form:"title" validate:"required,not_blank,max=128"`
	Message   string `json:"message" form:"message" validate:"required,not_blank"`
}

type TextToSpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}
