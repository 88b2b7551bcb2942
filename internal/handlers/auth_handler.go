package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	service services.IdentityService
}

func NewAuthHandler(service services.IdentityService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// PrincipalResponse is the caller as seen by clients.
type PrincipalResponse struct {
	User    interface{} `json:"user"`
	Student interface{} `json:"student,omitempty"`
	Teacher interface{} `json:"teacher,omitempty"`
}

func principalResponse(p *services.Principal) PrincipalResponse {
	resp := PrincipalResponse{User: p.User}
	if p.Student != nil {
		resp.Student = p.Student
	}
	if p.Teacher != nil {
		resp.Teacher = p.Teacher
	}
	return resp
}

// Register creates a student or teacher identity with its profile
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration data"
// @Success 201 {object} PrincipalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Registering user", "username", req.Username, "role", req.Role)

	p, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, principalResponse(p))
}

// Login exchanges credentials for a bearer token
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Authenticate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated caller
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} PrincipalResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, principalResponse(p))
}
