package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

type FileHandler struct {
	BaseHandler
	modules services.ModuleService
}

func NewFileHandler(modules services.ModuleService, logger utils.Logger) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		modules:     modules,
	}
}

// ServeFile streams a stored module attachment to any signed-in user
// @Summary Download module file
// @Tags files
// @Param name path string true "Stored file name"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /files/{name} [get]
func (h *FileHandler) ServeFile(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	path, err := h.modules.OpenFile(c.Request.Context(), p, c.Param("name"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.File(path)
}
