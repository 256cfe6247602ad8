package models

import "github.com/desertthunder/muse/internal/shared"

// MoodProfile captures the interpreted intent behind a listener's mood message.
type MoodProfile struct {
	Tag        string   `json:"tag"`        // Tag is a short mood label such as "melancholy" or "energetic"
	Terms      []string `json:"terms"`      // Terms are provider search queries derived from the mood
	Commentary string   `json:"commentary"` // Commentary is a one-line response shown to the listener
	Source     string   `json:"source"`     // Source names the interpreter that produced this profile
}

// TrackCandidate is a track returned by a provider search, prior to selection.
type TrackCandidate struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	Link       string `json:"link,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	Popularity int    `json:"popularity"`
}

// Key returns the normalized comparison key used for seen-memory checks.
func (t TrackCandidate) Key() string {
	return shared.NormalizeTrackKey(t.Title, t.Artist)
}
