package services

import (
	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

// Principal is the authenticated caller with its profile resolved.
type Principal struct {
	User    *models.User    `json:"user"`
	Student *models.Student `json:"student,omitempty"`
	Teacher *models.Teacher `json:"teacher,omitempty"`
}

func (p *Principal) Role() models.UserRole {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

func (p *Principal) UserID() uint {
	if p == nil || p.User == nil {
		return 0
	}
	return p.User.ID
}

type Action string

const (
	ActionModuleCreate    Action = "module:create"
	ActionModuleListOwn   Action = "module:list_own"
	ActionModuleListGrade Action = "module:list_grade"

	ActionGradeSubmit       Action = "grade:submit"
	ActionGradeListOwn      Action = "grade:list_own"
	ActionGradeListAuthored Action = "grade:list_authored"

	ActionAttendanceRecord       Action = "attendance:record"
	ActionAttendanceListOwn      Action = "attendance:list_own"
	ActionAttendanceListRecorded Action = "attendance:list_recorded"

	ActionNotificationSend     Action = "notification:send"
	ActionNotificationViewOwn  Action = "notification:view_own"
	ActionNotificationListSent Action = "notification:list_sent"

	ActionReportExportGrades     Action = "report:export_grades"
	ActionReportImportAttendance Action = "report:import_attendance"

	ActionDashboardStudent Action = "dashboard:student"
	ActionDashboardTeacher Action = "dashboard:teacher"
	ActionDashboardAdmin   Action = "dashboard:admin"

	ActionAssistantUse Action = "assistant:use"

	ActionStudentList Action = "student:list"
)

var actionRoles = map[Action][]models.UserRole{
	ActionModuleCreate:    {models.RoleTeacher},
	ActionModuleListOwn:   {models.RoleTeacher},
	ActionModuleListGrade: {models.RoleStudent},

	ActionGradeSubmit:       {models.RoleTeacher},
	ActionGradeListOwn:      {models.RoleStudent},
	ActionGradeListAuthored: {models.RoleTeacher},

	ActionAttendanceRecord:       {models.RoleTeacher},
	ActionAttendanceListOwn:      {models.RoleStudent},
	ActionAttendanceListRecorded: {models.RoleTeacher},

	ActionNotificationSend:     {models.RoleTeacher},
	ActionNotificationViewOwn:  {models.RoleStudent},
	ActionNotificationListSent: {models.RoleTeacher},

	ActionReportExportGrades:     {models.RoleTeacher},
	ActionReportImportAttendance: {models.RoleTeacher},

	ActionDashboardStudent: {models.RoleStudent},
	ActionDashboardTeacher: {models.RoleTeacher},
	ActionDashboardAdmin:   {models.RoleAdmin},

	ActionAssistantUse: {models.RoleStudent, models.RoleTeacher, models.RoleAdmin},

	ActionStudentList: {models.RoleTeacher, models.RoleAdmin},
}

// Target narrows an authorization check to one record.
type Target interface {
	permits(p *Principal) bool
	resource() (name string, id uint)
}

// OwnedModule is satisfied only by the module's owning teacher.
type OwnedModule struct {
	Module *models.Module
}

func (t OwnedModule) permits(p *Principal) bool {
	return p.Teacher != nil && t.Module != nil && t.Module.OwnedBy(p.Teacher.ID)
}

func (t OwnedModule) resource() (string, uint) {
	if t.Module == nil {
		return "module", 0
	}
	return "module", t.Module.ID
}

// StudentRecord scopes a read to one student's rows. Students only pass for
// their own profile id. Teachers always pass.
type StudentRecord struct {
	Kind      string
	StudentID uint
}

func (t StudentRecord) permits(p *Principal) bool {
	switch p.Role() {
	case models.RoleStudent:
		return p.Student != nil && p.Student.ID == t.StudentID
	case models.RoleTeacher:
		return true
	}
	return false
}

func (t StudentRecord) resource() (string, uint) {
	return t.Kind, t.StudentID
}

// AccessPolicy decides whether a principal may perform an action.
type AccessPolicy struct {
	table map[Action][]models.UserRole
}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{table: actionRoles}
}

// Authorize returns nil when allowed. target may be nil for role-only checks.
func (ap *AccessPolicy) Authorize(p *Principal, action Action, target Target) error {
	if p == nil || p.User == nil {
		return ErrUnauthenticated
	}

	resource, resourceID := string(action), uint(0)
	if target != nil {
		resource, resourceID = target.resource()
	}

	if !ap.roleAllowed(p.Role(), action) {
		return NewPermissionError(p.UserID(), resourceID, resource, string(action), "role not permitted")
	}

	switch p.Role() {
	case models.RoleStudent:
		if p.Student == nil {
			return NewPermissionError(p.UserID(), resourceID, resource, string(action), "student profile missing")
		}
	case models.RoleTeacher:
		if p.Teacher == nil {
			return NewPermissionError(p.UserID(), resourceID, resource, string(action), "teacher profile missing")
		}
	}

	if target != nil && !target.permits(p) {
		return NewPermissionError(p.UserID(), resourceID, resource, string(action), "not owner")
	}

	return nil
}

func (ap *AccessPolicy) roleAllowed(role models.UserRole, action Action) bool {
	for _, r := range ap.table[action] {
		if r == role {
			return true
		}
	}
	return false
}
