// Gemini [Interpreter] implementation
//
// Sends mood messages to the Gemini generateContent endpoint and parses the
// structured JSON response into a [models.MoodProfile].
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel = "gemini-2.0-flash"
)

const moodPrompt = `You are a music mood interpreter. Given a listener's message, respond with ONLY a valid JSON object, no conversational text and no markdown fences, shaped as:
{"tag": "<one or two word mood label>", "terms": ["<search query 1>", "<search query 2>", "<search query 3>"], "commentary": "<one warm sentence acknowledging the mood>"}
Rules:
- terms are queries for a music catalog search, mixing genre, era and descriptor words.
- Never include artist names the listener did not mention.
- tag is lowercase.`

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		ResponseMIMEType string `json:"responseMimeType,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeminiService implements the Interpreter interface using the Gemini API.
type GeminiService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService creates a Gemini interpreter with the given API key and model.
func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiService{
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the interpreter name.
func (g *GeminiService) Name() string {
	return "Gemini"
}

// SetBaseURL overrides the API base URL. Used in tests.
func (g *GeminiService) SetBaseURL(baseURL string) {
	g.baseURL = strings.TrimRight(baseURL, "/")
}

// Interpret derives a mood profile from a listener's free-text message.
func (g *GeminiService) Interpret(ctx context.Context, message string) (*models.MoodProfile, error) {
	if strings.TrimSpace(message) == "" {
		return nil, shared.ErrEmptyMessage
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api_key", shared.ErrMissingCredentials)
	}

	payload := generateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: message}}},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: moodPrompt}},
		},
	}
	payload.GenerationConfig.ResponseMIMEType = "application/json"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: gemini status %d", shared.ErrInterpretation, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrInterpretation, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response", shared.ErrInterpretation)
	}

	text := stripFences(parsed.Candidates[0].Content.Parts[0].Text)

	var profile models.MoodProfile
	if err := json.Unmarshal([]byte(text), &profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", shared.ErrInterpretation, err)
	}

	if profile.Tag == "" || len(profile.Terms) == 0 {
		return nil, fmt.Errorf("%w: incomplete profile", shared.ErrInterpretation)
	}

	profile.Source = "gemini"
	return &profile, nil
}

// stripFences removes markdown code fences the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
