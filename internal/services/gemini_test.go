package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/muse/internal/shared"
)

func geminiServer(t *testing.T, handler http.HandlerFunc) *GeminiService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv := NewGeminiService("test_key", "test-model")
	srv.SetBaseURL(server.URL)
	return srv
}

func generateJSON(text string) string {
	body := `{"candidates": [{"content": {"role": "model", "parts": [{"text": ` + text + `}]}}]}`
	return body
}

func TestGeminiService(t *testing.T) {
	t.Run("Interpret", func(t *testing.T) {
		srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.URL.Path, "test-model:generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("key") != "test_key" {
				t.Errorf("expected api key in query")
			}

			w.Write([]byte(generateJSON(`"{\"tag\": \"melancholy\", \"terms\": [\"sad acoustic\", \"rainy day indie\"], \"commentary\": \"Here for you.\"}"`)))
		})

		profile, err := srv.Interpret(context.Background(), "feeling pretty low today")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "melancholy" {
			t.Errorf("expected tag melancholy, got %s", profile.Tag)
		}
		if len(profile.Terms) != 2 {
			t.Errorf("expected 2 terms, got %d", len(profile.Terms))
		}
		if profile.Source != "gemini" {
			t.Errorf("expected source gemini, got %s", profile.Source)
		}
	})

	t.Run("Strips Markdown Fences", func(t *testing.T) {
		srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(generateJSON(`"` + "```json\\n{\\\"tag\\\": \\\"calm\\\", \\\"terms\\\": [\\\"ambient\\\"], \\\"commentary\\\": \\\"ok\\\"}\\n```" + `"`)))
		})

		profile, err := srv.Interpret(context.Background(), "need to wind down")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "calm" {
			t.Errorf("expected tag calm, got %s", profile.Tag)
		}
	})

	t.Run("Empty Message", func(t *testing.T) {
		srv := NewGeminiService("test_key", "")
		if _, err := srv.Interpret(context.Background(), "   "); !errors.Is(err, shared.ErrEmptyMessage) {
			t.Errorf("expected ErrEmptyMessage, got %v", err)
		}
	})

	t.Run("Missing API Key", func(t *testing.T) {
		srv := NewGeminiService("", "")
		if _, err := srv.Interpret(context.Background(), "hello"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		if _, err := srv.Interpret(context.Background(), "hello"); !errors.Is(err, shared.ErrInterpretation) {
			t.Errorf("expected ErrInterpretation, got %v", err)
		}
	})

	t.Run("Incomplete Profile", func(t *testing.T) {
		srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(generateJSON(`"{\"tag\": \"\", \"terms\": []}"`)))
		})

		if _, err := srv.Interpret(context.Background(), "hello"); !errors.Is(err, shared.ErrInterpretation) {
			t.Errorf("expected ErrInterpretation, got %v", err)
		}
	})
}

func TestKeywordInterpreter(t *testing.T) {
	interpreter := NewKeywordInterpreter()

	t.Run("Matches Mood Words", func(t *testing.T) {
		profile, err := interpreter.Interpret(context.Background(), "I'm so sad and lonely tonight")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "melancholy" {
			t.Errorf("expected tag melancholy, got %s", profile.Tag)
		}
		if profile.Source != "keywords" {
			t.Errorf("expected source keywords, got %s", profile.Source)
		}
		if len(profile.Terms) == 0 {
			t.Error("expected search terms")
		}
	})

	t.Run("Most Hits Wins", func(t *testing.T) {
		profile, err := interpreter.Interpret(context.Background(), "gym session, need energy, feeling pumped but a bit tired")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "energetic" {
			t.Errorf("expected tag energetic, got %s", profile.Tag)
		}
	})

	t.Run("Quoted Song Request", func(t *testing.T) {
		profile, err := interpreter.Interpret(context.Background(), `"Midnight City" by M83`)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "request" {
			t.Errorf("expected tag request, got %s", profile.Tag)
		}
		if len(profile.Terms) != 1 || profile.Terms[0] != "Midnight City M83" {
			t.Errorf("expected direct search term, got %v", profile.Terms)
		}
	})

	t.Run("Unquoted By Stays A Mood", func(t *testing.T) {
		profile, err := interpreter.Interpret(context.Background(), "beat down by the day, feeling blue")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "melancholy" {
			t.Errorf("expected tag melancholy, got %s", profile.Tag)
		}
	})

	t.Run("General Fallback", func(t *testing.T) {
		profile, err := interpreter.Interpret(context.Background(), "quux zorble")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if profile.Tag != "general" {
			t.Errorf("expected tag general, got %s", profile.Tag)
		}
	})

	t.Run("Empty Message", func(t *testing.T) {
		if _, err := interpreter.Interpret(context.Background(), ""); !errors.Is(err, shared.ErrEmptyMessage) {
			t.Errorf("expected ErrEmptyMessage, got %v", err)
		}
	})
}
