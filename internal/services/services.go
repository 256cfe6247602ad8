// package services defines interfaces for interacting with HTTP APIs
//
// Spotify, YouTube, Gemini
package services

import (
	"context"

	"github.com/desertthunder/muse/internal/models"
)

// Searcher defines the interface for music providers that can search for track candidates.
type Searcher interface {
	// Authenticate performs OAuth or API key authentication with the provider.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Search retrieves track candidates matching a free-text query.
	Search(ctx context.Context, query string, limit int) ([]models.TrackCandidate, error)

	// FindTrack searches for a specific track by title and artist.
	// Returns the best match or an error if no match scores high enough.
	FindTrack(ctx context.Context, title, artist string) (*models.TrackCandidate, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}

// Interpreter defines the interface for turning a mood message into a search profile.
type Interpreter interface {
	// Interpret derives a mood profile from a listener's free-text message.
	Interpret(ctx context.Context, message string) (*models.MoodProfile, error)

	// Name returns the name of the interpreter (e.g., "Gemini")
	Name() string
}

// LinkResolver defines the interface for resolving a playable link for a track.
type LinkResolver interface {
	// ResolveLink returns a watchable or playable URL for the given track.
	ResolveLink(ctx context.Context, title, artist string) (string, error)
}
