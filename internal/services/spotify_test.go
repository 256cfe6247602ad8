package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/muse/internal/shared"
	mocks "github.com/desertthunder/muse/internal/testing"
)

func searchJSON(items string) string {
	return `{"tracks": {"items": [` + items + `], "total": 1}}`
}

const trackJSON = `{
	"id": "track123",
	"name": "Midnight City",
	"artists": [{"id": "artist1", "name": "M83"}],
	"album": {"id": "album1", "name": "Hurry Up, We're Dreaming", "images": [{"url": "https://img.example/cover.jpg", "height": 640, "width": 640}]},
	"duration_ms": 243000,
	"popularity": 78,
	"external_urls": {"spotify": "https://open.spotify.com/track/track123"}
}`

func mockedSpotify(t *testing.T, status int, body string) *SpotifyService {
	t.Helper()

	credentials := map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	}

	srv, err := NewSpotifyService(credentials)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	srv.httpClient = &http.Client{
		Transport: mocks.NewMockRoundTripper(&http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil),
	}

	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			credentials := map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"market":        "GB",
			}

			srv, err := NewSpotifyService(credentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}

			if srv.market != "GB" {
				t.Errorf("expected market GB, got %s", srv.market)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			credentials := map[string]string{
				"client_secret": "test_client_secret",
			}

			if _, err := NewSpotifyService(credentials); err == nil {
				t.Error("expected error for missing client_id")
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			credentials := map[string]string{
				"client_id": "test_client_id",
			}

			if _, err := NewSpotifyService(credentials); err == nil {
				t.Error("expected error for missing client_secret")
			}
		})

		t.Run("Default Market", func(t *testing.T) {
			credentials := map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			}

			srv, err := NewSpotifyService(credentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.market != "US" {
				t.Errorf("expected default market US, got %s", srv.market)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Not Authenticated", func(t *testing.T) {
			credentials := map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			}

			srv, _ := NewSpotifyService(credentials)
			if _, err := srv.Search(context.Background(), "synthwave", 10); err == nil {
				t.Error("expected error before authentication")
			}
		})

		t.Run("Maps Tracks To Candidates", func(t *testing.T) {
			srv := mockedSpotify(t, http.StatusOK, searchJSON(trackJSON))

			candidates, err := srv.Search(context.Background(), "synthwave night drive", 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(candidates) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(candidates))
			}

			c := candidates[0]
			if c.Provider != "spotify" {
				t.Errorf("expected provider spotify, got %s", c.Provider)
			}
			if c.Title != "Midnight City" {
				t.Errorf("expected title Midnight City, got %s", c.Title)
			}
			if c.Artist != "M83" {
				t.Errorf("expected artist M83, got %s", c.Artist)
			}
			if c.Popularity != 78 {
				t.Errorf("expected popularity 78, got %d", c.Popularity)
			}
			if c.Link != "https://open.spotify.com/track/track123" {
				t.Errorf("unexpected link %s", c.Link)
			}
			if c.ArtworkURL != "https://img.example/cover.jpg" {
				t.Errorf("unexpected artwork %s", c.ArtworkURL)
			}
		})

		t.Run("API Error Status", func(t *testing.T) {
			srv := mockedSpotify(t, http.StatusTooManyRequests, `{"error": {"status": 429}}`)

			if _, err := srv.Search(context.Background(), "anything", 10); err == nil {
				t.Error("expected error for non-2xx status")
			}
		})
	})

	t.Run("FindTrack", func(t *testing.T) {
		t.Run("Strong Match", func(t *testing.T) {
			srv := mockedSpotify(t, http.StatusOK, searchJSON(trackJSON))

			track, err := srv.FindTrack(context.Background(), "Midnight City", "M83")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if track.ProviderID != "track123" {
				t.Errorf("expected track123, got %s", track.ProviderID)
			}
		})

		t.Run("Below Threshold", func(t *testing.T) {
			srv := mockedSpotify(t, http.StatusOK, searchJSON(trackJSON))

			_, err := srv.FindTrack(context.Background(), "Completely Different Song", "Nobody")
			if !errors.Is(err, shared.ErrNoCandidates) {
				t.Errorf("expected ErrNoCandidates, got %v", err)
			}
		})
	})
}
