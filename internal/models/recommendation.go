package models

import (
	"fmt"
	"time"
)

// Recommendation is a persistent record of a track delivered to a session.
type Recommendation struct {
	id        string
	sequence  int
	sessionID string
	moodTag   string
	track     TrackCandidate
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewRecommendation creates a Recommendation linking a track to a session.
func NewRecommendation(sequence int, sessionID, moodTag string, track TrackCandidate) *Recommendation {
	now := time.Now()
	return &Recommendation{
		sequence:  sequence,
		sessionID: sessionID,
		moodTag:   moodTag,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the unique identifier for this recommendation
func (r *Recommendation) ID() string { return r.id }

// Sequence returns the monotonic insertion order for this recommendation
func (r *Recommendation) Sequence() int { return r.sequence }

// SessionID returns the owning session's identifier
func (r *Recommendation) SessionID() string { return r.sessionID }

// MoodTag returns the mood label the recommendation was made under
func (r *Recommendation) MoodTag() string { return r.moodTag }

// Track returns the recommended track
func (r *Recommendation) Track() TrackCandidate { return r.track }

// CreatedAt returns when this recommendation was created
func (r *Recommendation) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when this recommendation was last updated
func (r *Recommendation) UpdatedAt() time.Time { return r.updatedAt }

// DeletedAt returns the soft-delete timestamp, or nil if the recommendation is active
func (r *Recommendation) DeletedAt() *time.Time { return r.deletedAt }

// SetID sets the recommendation's unique identifier
func (r *Recommendation) SetID(id string) { r.id = id }

// SetCreatedAt sets the creation timestamp
func (r *Recommendation) SetCreatedAt(t time.Time) { r.createdAt = t }

// SetUpdatedAt sets the last-updated timestamp
func (r *Recommendation) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// SetDeletedAt sets the soft-delete timestamp
func (r *Recommendation) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks that the recommendation references a session and a complete track.
func (r *Recommendation) Validate() error {
	if r.id == "" {
		return fmt.Errorf("recommendation ID is required")
	}
	if r.sessionID == "" {
		return fmt.Errorf("recommendation session ID is required")
	}
	if r.track.Provider == "" || r.track.ProviderID == "" {
		return fmt.Errorf("recommendation track provider and provider ID are required")
	}
	if r.track.Title == "" {
		return fmt.Errorf("recommendation track title is required")
	}
	return nil
}
