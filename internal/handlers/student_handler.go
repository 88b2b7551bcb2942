package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

// StudentHandler serves the read-only student namespace.
type StudentHandler struct {
	BaseHandler
	modules       services.ModuleService
	grades        services.GradeService
	attendance    services.AttendanceService
	notifications services.NotificationService
}

func NewStudentHandler(sm services.ServiceManager, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:   NewBaseHandler(logger),
		modules:       sm.Module(),
		grades:        sm.Grade(),
		attendance:    sm.Attendance(),
		notifications: sm.Notification(),
	}
}

// ===== STUDENT ENDPOINTS =====

// GetModules lists modules for the student's grade level
// @Summary Modules for my grade
// @Tags students
// @Produce json
// @Param grade_level query string false "Grade level, defaults to the student's own"
// @Success 200 {array} models.Module
// @Failure 403 {object} ErrorResponse "Grade level mismatch"
// @Router /api/v1/student/modules [get]
func (h *StudentHandler) GetModules(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	gradeLevel := strings.TrimSpace(c.Query("grade_level"))
	if gradeLevel == "" && p.Student != nil {
		gradeLevel = p.Student.GradeLevel
	}
	h.LogRequest(c, "Listing modules for grade", "grade_level", gradeLevel)

	modules, err := h.modules.ListForGrade(c.Request.Context(), p, gradeLevel)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, modules)
}

// GetGrades returns the student's grades and average percentage
// @Summary My grades
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentGradesResponse
// @Router /api/v1/student/grades [get]
func (h *StudentHandler) GetGrades(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.grades.ListForStudent(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAttendance returns the student's attendance, counts and rate
// @Summary My attendance
// @Tags students
// @Produce json
// @Success 200 {object} services.StudentAttendanceResponse
// @Router /api/v1/student/attendance [get]
func (h *StudentHandler) GetAttendance(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.attendance.ListForStudent(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetNotifications returns the student's notifications and marks them read.
// The response shows the read flags as they were before this call.
// @Summary My notifications
// @Tags students
// @Produce json
// @Success 200 {array} models.Notification
// @Router /api/v1/student/notifications [get]
func (h *StudentHandler) GetNotifications(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	notifications, err := h.notifications.ViewForStudent(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}
