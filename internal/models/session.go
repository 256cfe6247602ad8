package models

import (
	"fmt"
	"time"
)

// Session is a persistent listening session. Each session owns its own
// recommendation history and seen-memory.
type Session struct {
	id        string
	sequence  int
	label     string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSession creates a Session with the given sequence and optional label.
func NewSession(sequence int, label string) *Session {
	now := time.Now()
	return &Session{
		sequence:  sequence,
		label:     label,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the unique identifier for this session
func (s *Session) ID() string { return s.id }

// Sequence returns the monotonic insertion order for this session
func (s *Session) Sequence() int { return s.sequence }

// Label returns the human-readable session label, which may be empty
func (s *Session) Label() string { return s.label }

// CreatedAt returns when this session was created
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when this session was last updated
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// DeletedAt returns the soft-delete timestamp, or nil if the session is active
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

// SetID sets the session's unique identifier
func (s *Session) SetID(id string) { s.id = id }

// SetLabel sets the session's label
func (s *Session) SetLabel(label string) { s.label = label }

// SetCreatedAt sets the creation timestamp
func (s *Session) SetCreatedAt(t time.Time) { s.createdAt = t }

// SetUpdatedAt sets the last-updated timestamp
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// SetDeletedAt sets the soft-delete timestamp
func (s *Session) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the session has an ID and a non-negative sequence.
func (s *Session) Validate() error {
	if s.id == "" {
		return fmt.Errorf("session ID is required")
	}
	if s.sequence < 0 {
		return fmt.Errorf("session sequence must be non-negative")
	}
	return nil
}
