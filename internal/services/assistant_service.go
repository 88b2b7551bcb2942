package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/school-portal-service/internal/models"
)

const (
	defaultVoice          = "alloy"
	defaultTargetLanguage = "English"
	placeholderImageURL   = "https://via.placeholder.com/1024x1024.png?text=AI+Generated+Image"
	simulatedTranscript   = "This is a simulated transcription of the audio file."
	// maxAudioBytes caps how much of an upload the stub drains.
	maxAudioBytes = 16 << 20
)

type assistantTopic struct {
	keywords []string
	reply    string
}

var (
	studentTopics = []assistantTopic{
		{
			keywords: []string{"math", "mathematics", "algebra", "geometry", "calculus"},
			reply: "Let's work through this mathematical idea together.\n\n" +
				"1. Write down what you are given and what you need to find.\n" +
				"2. Split the problem into smaller steps and solve each one.\n" +
				"3. Check that the answer makes sense, including its units.\n\n" +
				"Would you like a practice problem on this topic?",
		},
		{
			keywords: []string{"science", "biology", "chemistry", "physics"},
			reply: "Here is a way to approach this science topic.\n\n" +
				"1. Start from what you can observe.\n" +
				"2. Form a hypothesis and think about how you could test it.\n" +
				"3. Link the idea to something you see in everyday life.\n\n" +
				"Would you like a simple experiment to try?",
		},
	}
	studentGeneral = "I'm happy to help you understand this.\n\n" +
		"Break the idea into smaller parts and connect each part to something you already know. " +
		"Try explaining it in your own words, then check where you get stuck.\n\n" +
		"Which part would you like me to explain further?"

	teacherTopics = []assistantTopic{
		{
			keywords: []string{"lesson", "plan", "curriculum", "teach"},
			reply: "# Lesson plan outline\n\n" +
				"- Objectives: what students will know and be able to do\n" +
				"- Hook: a question or demonstration to open the lesson\n" +
				"- Instruction: model the skill with worked examples\n" +
				"- Practice: guided work first, then independent tasks\n" +
				"- Closure: an exit ticket that checks the objectives\n\n" +
				"Would you like this adapted to a particular grade level?",
		},
		{
			keywords: []string{"assessment", "evaluate", "grading", "test"},
			reply: "# Assessment strategy\n\n" +
				"- Align every question with a stated learning objective\n" +
				"- Use short formative checks to adjust teaching early\n" +
				"- Share scoring criteria with students before the task\n" +
				"- Give feedback that names a concrete next step\n\n" +
				"Would you like a sample rubric?",
		},
	}
	teacherGeneral = "# Teaching strategies\n\n" +
		"- Set clear routines and expectations\n" +
		"- Connect content to students' interests\n" +
		"- Differentiate tasks by readiness\n" +
		"- Check for understanding throughout the lesson\n\n" +
		"Which area would you like to explore in more depth?"
)

// assistantService simulates the external AI provider. It keeps response
// shapes only.
type assistantService struct {
	logger *slog.Logger
	policy *AccessPolicy
	apiKey string
}

func NewAssistantService(logger *slog.Logger, policy *AccessPolicy, apiKey string) AssistantService {
	return &assistantService{logger: logger, policy: policy, apiKey: apiKey}
}

func (s *assistantService) TextToSpeech(ctx context.Context, p *Principal, req *TextToSpeechRequest) AssistantResult {
	if res, ok := s.gate(p); !ok {
		return res
	}
	if strings.TrimSpace(req.Text) == "" {
		return errorResult(http.StatusBadRequest, "Text is required")
	}
	if res, ok := s.configured(); !ok {
		return res
	}
	return s.synthesize(req.Text, req.Voice)
}

func (s *assistantService) SpeechToText(ctx context.Context, p *Principal, audio *UploadedFile) AssistantResult {
	if res, ok := s.gate(p); !ok {
		return res
	}
	if audio == nil || audio.Reader == nil {
		return errorResult(http.StatusBadRequest, "Audio file is required")
	}
	if res, ok := s.configured(); !ok {
		return res
	}
	return s.transcribe(audio)
}

func (s *assistantService) SpeechToSpeechTranslation(ctx context.Context, p *Principal, audio *UploadedFile, targetLanguage string) AssistantResult {
	if res, ok := s.gate(p); !ok {
		return res
	}
	if audio == nil || audio.Reader == nil {
		return errorResult(http.StatusBadRequest, "Audio file is required")
	}
	if res, ok := s.configured(); !ok {
		return res
	}
	if strings.TrimSpace(targetLanguage) == "" {
		targetLanguage = defaultTargetLanguage
	}

	transcript := s.transcribe(audio)
	if transcript.Status != http.StatusOK {
		return transcript
	}
	text, _ := transcript.Payload["text"].(string)

	s.logger.Info("Translation requested", "target_language", targetLanguage)
	return s.synthesize(fmt.Sprintf("[Translated to %s] %s", targetLanguage, text), "")
}

func (s *assistantService) TextToImage(ctx context.Context, p *Principal, req *PromptRequest) AssistantResult {
	if res, ok := s.gate(p); !ok {
		return res
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return errorResult(http.StatusBadRequest, "Prompt is required")
	}
	if res, ok := s.configured(); !ok {
		return res
	}

	s.logger.Info("Image generation requested", "prompt", truncate(req.Prompt, 50))
	return AssistantResult{
		Status: http.StatusOK,
		Payload: map[string]interface{}{
			"image_url": placeholderImageURL,
			"message":   "Using image generation simulation",
		},
	}
}

func (s *assistantService) EducationalAssistant(ctx context.Context, p *Principal, req *PromptRequest) AssistantResult {
	if res, ok := s.gate(p); !ok {
		return res
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return errorResult(http.StatusBadRequest, "Prompt is required")
	}
	if res, ok := s.configured(); !ok {
		return res
	}

	role := models.RoleTeacher
	if p.Role() == models.RoleStudent {
		role = models.RoleStudent
	}

	s.logger.Info("Educational assistant requested", "role", role, "prompt", truncate(req.Prompt, 50))
	return AssistantResult{
		Status: http.StatusOK,
		Payload: map[string]interface{}{
			"response": assistantReply(role, req.Prompt),
			"message":  "Comprehensive educational assistant response",
		},
	}
}

func (s *assistantService) gate(p *Principal) (AssistantResult, bool) {
	if err := s.policy.Authorize(p, ActionAssistantUse, nil); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return errorResult(http.StatusUnauthorized, err.Error()), false
		}
		return errorResult(http.StatusForbidden, err.Error()), false
	}
	return AssistantResult{}, true
}

func (s *assistantService) configured() (AssistantResult, bool) {
	if s.apiKey == "" {
		return errorResult(http.StatusInternalServerError, ErrAssistantNotConfigured.Error()), false
	}
	return AssistantResult{}, true
}

func (s *assistantService) synthesize(text, voice string) AssistantResult {
	if voice == "" {
		voice = defaultVoice
	}
	s.logger.Info("Text to speech requested", "voice", voice, "text", truncate(text, 50))
	return AssistantResult{
		Status: http.StatusOK,
		Payload: map[string]interface{}{
			"audio":   base64.StdEncoding.EncodeToString([]byte(text)),
			"format":  "mp3",
			"message": "Using text-to-speech simulation",
		},
	}
}

func (s *assistantService) transcribe(audio *UploadedFile) AssistantResult {
	n, err := io.Copy(io.Discard, io.LimitReader(audio.Reader, maxAudioBytes))
	if err != nil {
		s.logger.Error("Failed to read audio upload", "error", err)
		return errorResult(http.StatusInternalServerError, "failed to read audio")
	}
	s.logger.Info("Speech to text requested", "file", audio.Name, "bytes", n)
	return AssistantResult{
		Status: http.StatusOK,
		Payload: map[string]interface{}{
			"text":    simulatedTranscript,
			"message": "Using speech-to-text simulation",
		},
	}
}

// assistantReply picks a canned reply from the first topic whose keyword
// appears as a word in the prompt.
func assistantReply(role models.UserRole, prompt string) string {
	topics, general := teacherTopics, teacherGeneral
	if role == models.RoleStudent {
		topics, general = studentTopics, studentGeneral
	}

	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}

	for _, topic := range topics {
		for _, k := range topic.keywords {
			if _, ok := words[k]; ok {
				return topic.reply
			}
		}
	}
	return general
}

func errorResult(status int, message string) AssistantResult {
	return AssistantResult{Status: status, Payload: map[string]interface{}{"error": message}}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
