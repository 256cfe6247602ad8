package ui

import (
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/tasks"
)

// recommendCompleteMsg carries a finished recommendation turn.
type recommendCompleteMsg struct {
	result *tasks.RecommendResult
	err    error
}

// progressUpdateMsg wraps pipeline progress for the Update loop.
type progressUpdateMsg tasks.ProgressUpdate

// historyFetchedMsg carries the session's delivered tracks.
type historyFetchedMsg struct {
	entries []*models.Recommendation
	err     error
}
