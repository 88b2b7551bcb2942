package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TeacherHandler serves the teacher namespace: authoring modules and
// recording grades, attendance and notifications.
type TeacherHandler struct {
	BaseHandler
	modules       services.ModuleService
	grades        services.GradeService
	attendance    services.AttendanceService
	notifications services.NotificationService
	students      services.StudentService
	reports       services.ReportService
}

func NewTeacherHandler(sm services.ServiceManager, logger utils.Logger) *TeacherHandler {
	return &TeacherHandler{
		BaseHandler:   NewBaseHandler(logger),
		modules:       sm.Module(),
		grades:        sm.Grade(),
		attendance:    sm.Attendance(),
		notifications: sm.Notification(),
		students:      sm.Student(),
		reports:       sm.Report(),
	}
}

// ===== MODULES =====

// ListModules lists the teacher's modules, newest first
// @Summary My modules
// @Tags teachers
// @Produce json
// @Success 200 {array} models.Module
// @Router /api/v1/teacher/modules [get]
func (h *TeacherHandler) ListModules(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	modules, err := h.modules.ListForTeacher(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, modules)
}

// CreateModule creates a module with an optional attached file
// @Summary Create module
// @Tags teachers
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param grade_level formData string true "Grade level"
// @Param subject formData string true "Subject"
// @Param file formData file false "Attachment"
// @Success 201 {object} models.Module
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Router /api/v1/teacher/modules [post]
func (h *TeacherHandler) CreateModule(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.CreateModuleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.handleFormError(c, err)
		return
	}

	var upload *services.UploadedFile
	header, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := header.Open()
		if err != nil {
			h.handleFormError(c, err)
			return
		}
		defer f.Close()
		upload = &services.UploadedFile{Name: header.Filename, Reader: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no attachment
	default:
		h.handleFormError(c, err)
		return
	}

	h.LogRequest(c, "Creating module", "title", req.Title, "has_file", upload != nil)

	module, err := h.modules.Create(c.Request.Context(), p, &req, upload)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, module)
}

// ===== GRADES =====

// ListGrades lists grades on the teacher's modules
// @Summary Grades on my modules
// @Tags teachers
// @Produce json
// @Success 200 {array} models.Grade
// @Router /api/v1/teacher/grades [get]
func (h *TeacherHandler) ListGrades(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	grades, err := h.grades.ListForTeacher(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// SubmitGrade records a grade and notifies the student
// @Summary Submit grade
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body services.SubmitGradeRequest true "Grade"
// @Success 201 {object} services.GradeSubmitResult
// @Failure 403 {object} ErrorResponse "Module not owned by caller"
// @Router /api/v1/teacher/grades [post]
func (h *TeacherHandler) SubmitGrade(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.SubmitGradeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.grades.Submit(c.Request.Context(), p, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ExportGrades downloads the gradebook as xlsx
// @Summary Export gradebook
// @Tags teachers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/v1/teacher/grades/export [get]
func (h *TeacherHandler) ExportGrades(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reports.ExportGradebook(c.Request.Context(), p, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("gradebook-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ===== ATTENDANCE =====

// ListAttendance lists attendance rows recorded by the teacher
// @Summary Attendance I recorded
// @Tags teachers
// @Produce json
// @Success 200 {array} models.Attendance
// @Router /api/v1/teacher/attendance [get]
func (h *TeacherHandler) ListAttendance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	rows, err := h.attendance.ListRecordedBy(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// RecordAttendance creates or replaces the row for (student, date)
// @Summary Record attendance
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body services.RecordAttendanceRequest true "Attendance"
// @Success 201 {object} services.AttendanceRecordResult "Created"
// @Success 200 {object} services.AttendanceRecordResult "Updated"
// @Router /api/v1/teacher/attendance [post]
func (h *TeacherHandler) RecordAttendance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.RecordAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.attendance.Record(c.Request.Context(), p, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// ImportAttendance records attendance from an uploaded xlsx sheet
// @Summary Import attendance
// @Tags teachers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx with student_id, date, status, notes"
// @Success 200 {object} services.AttendanceImportResult
// @Router /api/v1/teacher/attendance/import [post]
func (h *TeacherHandler) ImportAttendance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	f, ok := h.openFormFile(c, "file")
	if !ok {
		return
	}
	defer f.Close()

	result, err := h.reports.ImportAttendance(c.Request.Context(), p, f)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ===== NOTIFICATIONS =====

// ListNotifications lists notifications the teacher sent
// @Summary Sent notifications
// @Tags teachers
// @Produce json
// @Success 200 {array} models.Notification
// @Router /api/v1/teacher/notifications [get]
func (h *TeacherHandler) ListNotifications(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	sent, err := h.notifications.ListSent(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sent)
}

// SendNotification sends a notification to one student
// @Summary Send notification
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body services.SendNotificationRequest true "Notification"
// @Success 201 {object} models.Notification
// @Router /api/v1/teacher/notifications [post]
func (h *TeacherHandler) SendNotification(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req services.SendNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.notifications.Send(c.Request.Context(), p, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

// ===== STUDENTS =====

// ListStudents lists students to pick from when grading
// @Summary Students
// @Tags teachers
// @Produce json
// @Success 200 {array} models.Student
// @Router /api/v1/teacher/students [get]
func (h *TeacherHandler) ListStudents(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	students, err := h.students.List(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *TeacherHandler) openFormFile(c *gin.Context, field string) (multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("%s is required", field)})
			return nil, false
		}
		h.handleFormError(c, err)
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		h.handleFormError(c, err)
		return nil, false
	}
	return f, true
}
