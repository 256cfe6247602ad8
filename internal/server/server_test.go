package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/tasks"
	museTesting "github.com/desertthunder/muse/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func candidateList(n int) []models.TrackCandidate {
	candidates := make([]models.TrackCandidate, n)
	for i := range candidates {
		candidates[i] = models.TrackCandidate{
			Provider:   "spotify",
			ProviderID: fmt.Sprintf("track%d", i),
			Title:      fmt.Sprintf("Track %d", i),
			Artist:     fmt.Sprintf("Artist %d", i),
			Popularity: 60,
		}
	}
	return candidates
}

type testServer struct {
	url       string
	registry  *SessionRegistry
	searcher  *museTesting.MockSearcher
	sessions  *repositories.SessionRepository
	history   *repositories.HistoryAdapter
	trackRepo *repositories.RecommendationRepository
}

func newTestServer(t *testing.T, candidates []models.TrackCandidate) *testServer {
	t.Helper()

	db := setupTestDB(t)
	sessions := repositories.NewSessionRepository(db)
	trackRepo := repositories.NewRecommendationRepository(db)
	history := repositories.NewHistoryAdapter(trackRepo)
	registry := NewSessionRegistry(sessions, history, memory.DefaultCap)

	searcher := &museTesting.MockSearcher{Candidates: candidates}
	interpreter := &museTesting.MockInterpreter{
		Profile: &models.MoodProfile{Tag: "calm", Terms: []string{"ambient chill"}, Source: "mock"},
	}
	resolver := &museTesting.MockResolver{Link: "https://www.youtube.com/watch?v=abc123"}

	engine := tasks.NewMoodEngine(interpreter, nil, []services.Searcher{searcher}, resolver, history, tasks.EngineOpts{Seed: 42})

	handler := NewAPIHandler(engine, registry, trackRepo, shared.NewLogger(io.Discard))
	handler.SetProviderStatus("spotify", true)
	handler.SetProviderStatus("youtube", true)
	router := NewBasicRouter()
	router.Use(RequestIDMiddleware(), CORSMiddleware())
	router.Handler(handler)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		url:       srv.URL,
		registry:  registry,
		searcher:  searcher,
		sessions:  sessions,
		history:   history,
		trackRepo: trackRepo,
	}
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeInto(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, candidateList(5))

	resp, err := http.Get(ts.url + "/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status    string          `json:"status"`
		Providers map[string]bool `json:"providers"`
	}
	decodeInto(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("Expected status ok, got %q", body.Status)
	}
	if !body.Providers["spotify"] || !body.Providers["youtube"] {
		t.Errorf("Expected spotify and youtube available, got %v", body.Providers)
	}

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected a generated X-Request-ID header")
	}

	t.Run("Echoes Client Request ID", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.url+"/health", nil)
		if err != nil {
			t.Fatalf("Failed to build request: %v", err)
		}
		req.Header.Set("X-Request-ID", "client-id-1")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("X-Request-ID"); got != "client-id-1" {
			t.Errorf("Expected echoed request ID, got %q", got)
		}
	})
}

func TestCreateSessionEndpoint(t *testing.T) {
	ts := newTestServer(t, candidateList(5))

	resp := postJSON(t, ts.url+"/api/sessions", map[string]string{"label": "evening"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var session sessionResponse
	decodeInto(t, resp, &session)

	if session.ID == "" {
		t.Error("Expected session ID to be set")
	}
	if session.Label != "evening" {
		t.Errorf("Expected label evening, got %q", session.Label)
	}

	t.Run("Session Is Persisted", func(t *testing.T) {
		if _, err := ts.sessions.Get(session.ID); err != nil {
			t.Errorf("Expected session to exist: %v", err)
		}
	})
}

func TestRecommendEndpoint(t *testing.T) {
	t.Run("Creates Session When Absent", func(t *testing.T) {
		ts := newTestServer(t, candidateList(5))

		resp := postJSON(t, ts.url+"/api/recommend", recommendRequest{Message: "need something mellow"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}

		var result recommendResponse
		decodeInto(t, resp, &result)

		if result.SessionID == "" {
			t.Error("Expected a session ID in the response")
		}
		if result.Track.Title == "" {
			t.Error("Expected a selected track")
		}
		if result.Mood == nil || result.Mood.Tag != "calm" {
			t.Errorf("Expected calm mood, got %+v", result.Mood)
		}
		if result.VideoLink == "" {
			t.Error("Expected a resolved video link")
		}
	})

	t.Run("Empty Message", func(t *testing.T) {
		ts := newTestServer(t, candidateList(5))

		resp := postJSON(t, ts.url+"/api/recommend", recommendRequest{Message: "   "})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		ts := newTestServer(t, candidateList(5))

		resp := postJSON(t, ts.url+"/api/recommend", recommendRequest{SessionID: "nope", Message: "hello"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})

	t.Run("Conflict When Exhausted", func(t *testing.T) {
		ts := newTestServer(t, candidateList(1))

		first := postJSON(t, ts.url+"/api/recommend", recommendRequest{Message: "mellow please"})
		if first.StatusCode != http.StatusOK {
			t.Fatalf("Expected first turn to succeed, got %d", first.StatusCode)
		}

		var result recommendResponse
		decodeInto(t, first, &result)

		// The broadened retry returns the same single candidate, so the
		// session has nothing left to serve
		second := postJSON(t, ts.url+"/api/recommend", recommendRequest{SessionID: result.SessionID, Message: "more mellow"})
		if second.StatusCode != http.StatusConflict {
			t.Errorf("Expected status 409, got %d", second.StatusCode)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		ts := newTestServer(t, candidateList(5))

		resp, err := http.Post(ts.url+"/api/recommend", "application/json", bytes.NewReader([]byte("{not json")))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
	})
}

func TestHistoryEndpoint(t *testing.T) {
	ts := newTestServer(t, candidateList(3))

	resp := postJSON(t, ts.url+"/api/recommend", recommendRequest{Message: "something soft"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result recommendResponse
	decodeInto(t, resp, &result)

	t.Run("Lists Delivered Tracks", func(t *testing.T) {
		histResp, err := http.Get(ts.url + "/api/sessions/" + result.SessionID + "/history")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer histResp.Body.Close()

		if histResp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", histResp.StatusCode)
		}

		var history historyResponse
		decodeInto(t, histResp, &history)

		if history.SessionID != result.SessionID {
			t.Errorf("Expected session %s, got %s", result.SessionID, history.SessionID)
		}
		if len(history.Entries) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(history.Entries))
		}
		if history.Entries[0].Track.Title != result.Track.Title {
			t.Errorf("Expected track %q, got %q", result.Track.Title, history.Entries[0].Track.Title)
		}
		if history.Entries[0].MoodTag != "calm" {
			t.Errorf("Expected mood tag calm, got %q", history.Entries[0].MoodTag)
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		histResp, err := http.Get(ts.url + "/api/sessions/missing/history")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer histResp.Body.Close()

		if histResp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", histResp.StatusCode)
		}
	})
}

func TestTrendingEndpoint(t *testing.T) {
	ts := newTestServer(t, candidateList(5))

	resp, err := http.Get(ts.url + "/api/trending?limit=3")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var trending trendingResponse
	decodeInto(t, resp, &trending)

	if len(trending.Tracks) != 3 {
		t.Errorf("Expected 3 tracks, got %d", len(trending.Tracks))
	}

	t.Run("Invalid Limit", func(t *testing.T) {
		badResp, err := http.Get(ts.url + "/api/trending?limit=abc")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer badResp.Body.Close()

		if badResp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", badResp.StatusCode)
		}
	})
}

func TestSessionRegistry(t *testing.T) {
	db := setupTestDB(t)
	sessions := repositories.NewSessionRepository(db)
	trackRepo := repositories.NewRecommendationRepository(db)
	history := repositories.NewHistoryAdapter(trackRepo)
	registry := NewSessionRegistry(sessions, history, memory.DefaultCap)

	session, err := registry.Create("test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("Hydrates Memory From History", func(t *testing.T) {
		track := models.TrackCandidate{
			Provider:   "spotify",
			ProviderID: "track999",
			Title:      "Midnight City",
			Artist:     "M83",
			Popularity: 80,
		}
		if err := history.RecordRecommendation(session.ID(), "energetic", track); err != nil {
			t.Fatalf("Failed to record recommendation: %v", err)
		}

		// Drop the in-process memory to force hydration from the database
		fresh := NewSessionRegistry(sessions, history, memory.DefaultCap)
		mem, err := fresh.MemoryFor(session.ID())
		if err != nil {
			t.Fatalf("Failed to get memory: %v", err)
		}

		if !mem.Seen("Midnight City", "M83") {
			t.Error("Expected hydrated memory to contain the recorded track")
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		if _, err := registry.MemoryFor("missing"); err == nil {
			t.Error("Expected an error for an unknown session")
		}
	})

	t.Run("Same Memory Across Calls", func(t *testing.T) {
		first, err := registry.MemoryFor(session.ID())
		if err != nil {
			t.Fatalf("Failed to get memory: %v", err)
		}
		second, err := registry.MemoryFor(session.ID())
		if err != nil {
			t.Fatalf("Failed to get memory: %v", err)
		}
		if first != second {
			t.Error("Expected the same memory instance for repeated lookups")
		}
	})
}
