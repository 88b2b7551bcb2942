package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// StudentDashboard returns recent grades, attendance and unread notifications
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.StudentDashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /api/v1/student/dashboard [get]
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	h.LogRequest(c, "Getting student dashboard", "user_id", p.UserID())

	dash, err := h.service.Student(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// TeacherDashboard returns module and student counts with recent modules
// @Summary Teacher dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.TeacherDashboardResponse
// @Router /api/v1/teacher/dashboard [get]
func (h *DashboardHandler) TeacherDashboard(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	h.LogRequest(c, "Getting teacher dashboard", "user_id", p.UserID())

	dash, err := h.service.Teacher(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}

// AdminDashboard returns system-wide counts
// @Summary Admin dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.AdminDashboardResponse
// @Router /api/v1/admin/dashboard [get]
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	dash, err := h.service.Admin(c.Request.Context(), p)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}
