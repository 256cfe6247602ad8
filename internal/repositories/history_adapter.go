package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/muse/internal/models"
)

// HistoryAdapter implements tasks.HistoryRecorder using RecommendationRepository.
//
// Records delivered tracks with deduplication via session+provider+provider_id constraints.
// Duplicate deliveries are silently ignored (UNIQUE constraint violations).
type HistoryAdapter struct {
	repo *RecommendationRepository
}

// NewHistoryAdapter creates a new HistoryAdapter with the given repository
func NewHistoryAdapter(repo *RecommendationRepository) *HistoryAdapter {
	return &HistoryAdapter{repo: repo}
}

// RecordRecommendation persists a delivered track for a session.
// Returns nil if the track was already recorded (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *HistoryAdapter) RecordRecommendation(sessionID, moodTag string, track models.TrackCandidate) error {
	rec := models.NewRecommendation(0, sessionID, moodTag, track)

	err := a.repo.Create(rec)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to record recommendation: %w", err)
	}

	return nil
}

// SeenKeys returns the normalized keys of every track a session has been recommended.
// Used to hydrate seen-memory when a session resumes.
func (a *HistoryAdapter) SeenKeys(sessionID string) ([]string, error) {
	recs, err := a.repo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, rec.Track().Key())
	}

	return keys, nil
}
