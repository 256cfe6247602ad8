package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// trendingTTL is how long a fetched trending list stays fresh.
const trendingTTL = time.Hour

// trendingQueries are the catalog searches merged into the trending list.
var trendingQueries = []string{
	"top hits",
	"viral hits",
	"trending songs",
}

// trendingCache holds the last fetched trending list.
type trendingCache struct {
	mu        sync.Mutex
	tracks    []models.TrackCandidate
	fetchedAt time.Time
}

// get returns the cached tracks when still fresh.
func (c *trendingCache) get() ([]models.TrackCandidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tracks == nil || time.Since(c.fetchedAt) > trendingTTL {
		return nil, false
	}

	tracks := make([]models.TrackCandidate, len(c.tracks))
	copy(tracks, c.tracks)
	return tracks, true
}

// set stores a freshly fetched trending list.
func (c *trendingCache) set(tracks []models.TrackCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks = tracks
	c.fetchedAt = time.Now()
}

// Trending returns popular tracks sorted by popularity.
//
// Fetches are cached for an hour; repeated calls within the window never hit
// the providers. Trending applies a higher popularity floor than mood search.
func (e *MoodEngine) Trending(ctx context.Context, progress chan<- ProgressUpdate, limit int) ([]models.TrackCandidate, error) {
	if len(e.searchers) == 0 {
		return nil, fmt.Errorf("%w: no searchers configured", shared.ErrServiceUnavailable)
	}
	if limit <= 0 {
		limit = 10
	}

	if cached, ok := e.trending.get(); ok {
		e.sendProgress(progress, trendingCachedUpdate(len(cached)))
		return trim(cached, limit), nil
	}

	for i, query := range trendingQueries {
		e.sendProgress(progress, trendingUpdate(i+1, len(trendingQueries), query))
	}

	candidates := e.fetchCandidates(ctx, progress, trendingQueries)
	tracks := e.applyFloor(candidates, e.opts.TrendingFloor)

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: trending", shared.ErrNoCandidates)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Popularity > tracks[j].Popularity
	})

	e.trending.set(tracks)
	return trim(tracks, limit), nil
}

func trim(tracks []models.TrackCandidate, limit int) []models.TrackCandidate {
	if len(tracks) <= limit {
		return tracks
	}
	return tracks[:limit]
}
