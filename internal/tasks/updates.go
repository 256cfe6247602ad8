package tasks

import (
	"fmt"

	"github.com/desertthunder/muse/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Interpret Phase = iota
	SearchCandidates
	FilterCandidates
	SelectTrack
	ResolveLink
	RecordHistory
	FetchTrending
)

func (p Phase) String() string {
	switch p {
	case Interpret:
		return "interpret"
	case SearchCandidates:
		return "search_candidates"
	case FilterCandidates:
		return "filter_candidates"
	case SelectTrack:
		return "select_track"
	case ResolveLink:
		return "resolve_link"
	case RecordHistory:
		return "record_history"
	case FetchTrending:
		return "fetch_trending"
	default:
		return ""
	}
}

func interpretingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Interpret,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Interpreting mood (%s)...", name),
	}
}

func interpretedUpdate(profile *models.MoodProfile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Interpret,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Mood: %s (%d search terms)", profile.Tag, len(profile.Terms)),
		Data:    profile,
	}
}

func fallbackUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Interpret,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Interpreter unavailable, falling back to %s...", name),
	}
}

func searchingUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCandidates,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, query),
	}
}

func filteredUpdate(kept, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Kept %d of %d candidates", kept, total),
	}
}

func selectingUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectTrack,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Picking from %d fresh candidates...", count),
	}
}

func selectedUpdate(track *models.TrackCandidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectTrack,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Selected: %s - %s", track.Artist, track.Title),
		Data:    track,
	}
}

func broadeningUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCandidates,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("All candidates seen, broadening search: %s", query),
	}
}

func resolvingUpdate(track *models.TrackCandidate) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveLink,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Finding video for %s - %s...", track.Artist, track.Title),
	}
}

func recordedUpdate(sessionID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded in session %s", sessionID),
	}
}

func trendingUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrending,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching trending: %s", step, total, query),
	}
}

func trendingCachedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrending,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Serving %d trending tracks from cache", count),
	}
}
