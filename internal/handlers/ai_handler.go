package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
	"github.com/SAP-F-2025/school-portal-service/internal/utils"
)

// AIHandler exposes the assistant endpoints. The service decides the status
// code, so every response is written as returned.
type AIHandler struct {
	BaseHandler
	service services.AssistantService
}

func NewAIHandler(service services.AssistantService, logger utils.Logger) *AIHandler {
	return &AIHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *AIHandler) write(c *gin.Context, res services.AssistantResult) {
	c.JSON(res.Status, res.Payload)
}

// TextToSpeech
// @Summary Text to speech
// @Tags ai
// @Accept json
// @Produce json
// @Param request body services.TextToSpeechRequest true "Text and voice"
// @Router /api/ai/text_to_speech [post]
func (h *AIHandler) TextToSpeech(c *gin.Context) {
	p, _ := GetPrincipal(c)
	var req services.TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}
	h.write(c, h.service.TextToSpeech(c.Request.Context(), p, &req))
}

// SpeechToText
// @Summary Speech to text
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio"
// @Router /api/ai/speech_to_text [post]
func (h *AIHandler) SpeechToText(c *gin.Context) {
	p, _ := GetPrincipal(c)
	audio, closeFn, ok := h.audioUpload(c)
	if !ok {
		return
	}
	defer closeFn()
	h.write(c, h.service.SpeechToText(c.Request.Context(), p, audio))
}

// SpeechToSpeechTranslation
// @Summary Translate speech
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio"
// @Param target_language formData string false "Target language" default(English)
// @Router /api/ai/speech_to_speech_translation [post]
func (h *AIHandler) SpeechToSpeechTranslation(c *gin.Context) {
	p, _ := GetPrincipal(c)
	audio, closeFn, ok := h.audioUpload(c)
	if !ok {
		return
	}
	defer closeFn()
	target := c.PostForm("target_language")
	h.write(c, h.service.SpeechToSpeechTranslation(c.Request.Context(), p, audio, target))
}

// TextToImage
// @Summary Text to image
// @Tags ai
// @Accept json
// @Produce json
// @Param request body services.PromptRequest true "Prompt"
// @Router /api/ai/text_to_image [post]
func (h *AIHandler) TextToImage(c *gin.Context) {
	p, _ := GetPrincipal(c)
	var req services.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}
	h.write(c, h.service.TextToImage(c.Request.Context(), p, &req))
}

// EducationalAssistant
// @Summary Educational assistant
// @Tags ai
// @Accept json
// @Produce json
// @Param request body services.PromptRequest true "Prompt"
// @Router /api/ai/educational_assistant [post]
func (h *AIHandler) EducationalAssistant(c *gin.Context) {
	p, _ := GetPrincipal(c)
	var req services.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}
	h.write(c, h.service.EducationalAssistant(c.Request.Context(), p, &req))
}

// audioUpload returns a nil file when the form has no audio part, leaving
// the service to report it.
func (h *AIHandler) audioUpload(c *gin.Context) (*services.UploadedFile, func(), bool) {
	noop := func() {}
	header, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Audio file too large"})
			return nil, noop, false
		}
		return nil, noop, true
	}
	f, err := header.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open audio upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audio"})
		return nil, noop, false
	}
	return &services.UploadedFile{Name: header.Filename, Reader: f}, func() { f.Close() }, true
}
