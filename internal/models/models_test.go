package models

import (
	"testing"
	"time"
)

func TestSession(t *testing.T) {
	t.Run("NewSession", func(t *testing.T) {
		session := NewSession(1, "late night")

		if session.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", session.Sequence())
		}
		if session.Label() != "late night" {
			t.Errorf("expected label 'late night', got %s", session.Label())
		}
		if session.CreatedAt().IsZero() {
			t.Error("expected created_at to be set")
		}
		if session.DeletedAt() != nil {
			t.Error("expected new session to not be deleted")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		session := NewSession(1, "")
		if err := session.Validate(); err == nil {
			t.Error("expected validation to fail without an ID")
		}

		session.SetID("abc-123")
		if err := session.Validate(); err != nil {
			t.Errorf("expected validation to pass, got %v", err)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		session := NewSession(1, "")
		now := time.Now()
		session.SetDeletedAt(&now)

		if session.DeletedAt() == nil {
			t.Error("expected deleted_at to be set")
		}
	})
}

func TestRecommendation(t *testing.T) {
	track := TrackCandidate{
		Provider:   "spotify",
		ProviderID: "4uLU6hMCjMI75M1A2tKUQC",
		Title:      "Never Gonna Give You Up",
		Artist:     "Rick Astley",
		Popularity: 80,
	}

	t.Run("NewRecommendation", func(t *testing.T) {
		rec := NewRecommendation(1, "session-1", "upbeat", track)

		if rec.SessionID() != "session-1" {
			t.Errorf("expected session-1, got %s", rec.SessionID())
		}
		if rec.MoodTag() != "upbeat" {
			t.Errorf("expected mood tag upbeat, got %s", rec.MoodTag())
		}
		if rec.Track().Title != track.Title {
			t.Errorf("expected track title %s, got %s", track.Title, rec.Track().Title)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		rec := NewRecommendation(1, "session-1", "upbeat", track)
		if err := rec.Validate(); err == nil {
			t.Error("expected validation to fail without an ID")
		}

		rec.SetID("rec-1")
		if err := rec.Validate(); err != nil {
			t.Errorf("expected validation to pass, got %v", err)
		}

		missing := NewRecommendation(2, "session-1", "upbeat", TrackCandidate{Provider: "spotify"})
		missing.SetID("rec-2")
		if err := missing.Validate(); err == nil {
			t.Error("expected validation to fail for incomplete track")
		}
	})
}

func TestTrackCandidateKey(t *testing.T) {
	a := TrackCandidate{Title: "Back In Black", Artist: "AC/DC"}
	b := TrackCandidate{Title: "back in black", Artist: "ACDC"}

	if a.Key() != b.Key() {
		t.Errorf("expected matching keys, got %q and %q", a.Key(), b.Key())
	}
}
