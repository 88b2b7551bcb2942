package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-portal-service/internal/services"
)

func newAIRouter(p *services.Principal, apiKey string) *gin.Engine {
	logger := testLogger()
	h := NewAIHandler(services.NewAssistantService(logger.Slog(), services.NewAccessPolicy(), apiKey), logger)

	r := gin.New()
	ai := r.Group("/api/ai", withPrincipal(p))
	ai.POST("/text_to_speech", h.TextToSpeech)
	ai.POST("/speech_to_text", h.SpeechToText)
	ai.POST("/speech_to_speech_translation", h.SpeechToSpeechTranslation)
	ai.POST("/educational_assistant", h.EducationalAssistant)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAIHandler_TextToSpeech(t *testing.T) {
	r := newAIRouter(studentPrincipal(1, "sam"), "key")

	w := postJSON(r, "/api/ai/text_to_speech", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "aGk=", body["audio"])
	assert.Equal(t, "mp3", body["format"])

	w = postJSON(r, "/api/ai/text_to_speech", `{"voice":"nova"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Text is required", decodeBody(t, w)["error"])
}

func TestAIHandler_NotConfigured(t *testing.T) {
	r := newAIRouter(teacherPrincipal(2, "mr_t"), "")

	w := postJSON(r, "/api/ai/educational_assistant", `{"prompt":"lesson plan"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "assistant not configured", decodeBody(t, w)["error"])
}

func TestAIHandler_SpeechToText(t *testing.T) {
	r := newAIRouter(studentPrincipal(1, "sam"), "key")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("target_language", "French"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ai/speech_to_text", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Audio file is required", decodeBody(t, w)["error"])

	body.Reset()
	mw = multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("target_language", "French"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/ai/speech_to_speech_translation", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mp3", decodeBody(t, w)["format"])
}

func TestAIHandler_Anonymous(t *testing.T) {
	r := newAIRouter(nil, "key")

	w := postJSON(r, "/api/ai/text_to_speech", `{"text":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
