// package tasks implements the mood recommendation pipeline.
//
// The core abstraction is RecommendEngine, which orchestrates mood interpretation,
// candidate search, seen-memory selection, and history recording.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
	"golang.org/x/time/rate"
)

// RecommendRequest carries one recommendation turn's inputs.
type RecommendRequest struct {
	SessionID string             // Owning session identifier
	Message   string             // Listener's free-text mood message
	Memory    *memory.SeenMemory // Session's seen-memory, hydrated by the caller
}

// RecommendResult contains all data from a recommendation turn.
type RecommendResult struct {
	Profile        *models.MoodProfile   // Interpreted mood
	Track          models.TrackCandidate // Selected track
	VideoLink      string                // Watchable link, empty when resolution failed
	CandidateCount int                   // Candidates fetched before filtering
	FilteredCount  int                   // Candidates surviving the popularity floor
	Broadened      bool                  // True when selection needed the broadened retry
}

// HistoryRecorder persists delivered tracks for a session.
type HistoryRecorder interface {
	RecordRecommendation(sessionID, moodTag string, track models.TrackCandidate) error
}

// RecommendEngine defines operations for mood-based recommendations.
type RecommendEngine interface {
	// Recommend runs a full mood → track turn: interprets the message, fetches
	// candidates, selects an unseen track, and records it in the session history.
	Recommend(ctx context.Context, progress chan<- ProgressUpdate, req RecommendRequest) (*RecommendResult, error)

	// Trending returns popular tracks, served from a short-lived cache.
	Trending(ctx context.Context, progress chan<- ProgressUpdate, limit int) ([]models.TrackCandidate, error)
}

// EngineOpts contains tuning knobs for the recommendation pipeline.
type EngineOpts struct {
	CandidateLimit  int     // Results requested per search query (default: 10)
	PopularityFloor int     // Minimum popularity for scored candidates (default: 15)
	TrendingFloor   int     // Minimum popularity for trending tracks (default: 30)
	NumWorkers      int     // Concurrent search workers (default: 3)
	RateLimit       float64 // Search requests per second (default: 5)
	Seed            int64   // Shuffle seed, zero randomizes per call
}

// MoodEngine implements RecommendEngine.
// Contains dependencies on the interpreter chain, music searchers, and history recording.
type MoodEngine struct {
	interpreter services.Interpreter
	fallback    services.Interpreter
	searchers   []services.Searcher
	resolver    services.LinkResolver
	recorder    HistoryRecorder
	opts        EngineOpts

	trending trendingCache
}

// NewMoodEngine creates a MoodEngine with the provided dependencies.
//
// interpreter may be nil when only the fallback is configured. resolver and
// recorder are optional; their phases are skipped when absent.
func NewMoodEngine(interpreter, fallback services.Interpreter, searchers []services.Searcher, resolver services.LinkResolver, recorder HistoryRecorder, opts EngineOpts) *MoodEngine {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 10
	}
	if opts.PopularityFloor <= 0 {
		opts.PopularityFloor = 15
	}
	if opts.TrendingFloor <= 0 {
		opts.TrendingFloor = 30
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	return &MoodEngine{
		interpreter: interpreter,
		fallback:    fallback,
		searchers:   searchers,
		resolver:    resolver,
		recorder:    recorder,
		opts:        opts,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MoodEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Recommend runs a full mood → track turn.
func (e *MoodEngine) Recommend(ctx context.Context, progress chan<- ProgressUpdate, req RecommendRequest) (*RecommendResult, error) {
	if len(e.searchers) == 0 {
		return nil, fmt.Errorf("%w: no searchers configured", shared.ErrServiceUnavailable)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, shared.ErrEmptyMessage
	}
	if req.Memory == nil {
		return nil, fmt.Errorf("%w: request memory not set", shared.ErrInvalidInput)
	}

	profile, err := e.interpret(ctx, progress, req.Message)
	if err != nil {
		return nil, err
	}

	result := &RecommendResult{Profile: profile}

	candidates := e.fetchCandidates(ctx, progress, profile.Terms)
	result.CandidateCount = len(candidates)

	filtered := e.applyFloor(candidates, e.opts.PopularityFloor)
	result.FilteredCount = len(filtered)
	e.sendProgress(progress, filteredUpdate(len(filtered), len(candidates)))

	if len(filtered) == 0 {
		return result, fmt.Errorf("%w: for mood %q", shared.ErrNoCandidates, profile.Tag)
	}

	e.sendProgress(progress, selectingUpdate(len(filtered)))
	track, err := Select(filtered, req.Memory, e.opts.Seed)

	if errors.Is(err, shared.ErrExhausted) {
		// One broadened retry with the popularity floor dropped
		query := fmt.Sprintf("%s music", profile.Tag)
		e.sendProgress(progress, broadeningUpdate(query))

		broadened := e.fetchCandidates(ctx, progress, []string{query})
		result.CandidateCount += len(broadened)
		result.Broadened = true

		if len(broadened) == 0 {
			// An empty retry is still exhaustion, not a missing-candidates case
			err = fmt.Errorf("%w: broadened retry found nothing new", shared.ErrExhausted)
		} else {
			track, err = Select(broadened, req.Memory, e.opts.Seed)
		}
	}
	if err != nil {
		return result, err
	}

	result.Track = *track
	e.sendProgress(progress, selectedUpdate(track))

	if e.resolver != nil {
		e.sendProgress(progress, resolvingUpdate(track))
		// Best effort: a missing video never fails the recommendation
		if link, resolveErr := e.resolver.ResolveLink(ctx, track.Title, track.Artist); resolveErr == nil {
			result.VideoLink = link
		}
	}

	if e.recorder != nil && req.SessionID != "" {
		if recordErr := e.recorder.RecordRecommendation(req.SessionID, profile.Tag, *track); recordErr == nil {
			e.sendProgress(progress, recordedUpdate(req.SessionID))
		}
	}

	return result, nil
}

// interpret runs the primary interpreter, falling back when it fails.
func (e *MoodEngine) interpret(ctx context.Context, progress chan<- ProgressUpdate, message string) (*models.MoodProfile, error) {
	if e.interpreter != nil {
		e.sendProgress(progress, interpretingUpdate(e.interpreter.Name()))

		profile, err := e.interpreter.Interpret(ctx, message)
		if err == nil {
			e.sendProgress(progress, interpretedUpdate(profile))
			return profile, nil
		}
		if errors.Is(err, shared.ErrEmptyMessage) || e.fallback == nil {
			return nil, err
		}

		e.sendProgress(progress, fallbackUpdate(e.fallback.Name()))
	} else if e.fallback == nil {
		return nil, fmt.Errorf("%w: no interpreter configured", shared.ErrServiceUnavailable)
	}

	profile, err := e.fallback.Interpret(ctx, message)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, interpretedUpdate(profile))
	return profile, nil
}

type searchJob struct {
	searcher services.Searcher
	query    string
}

// fetchCandidates fans queries out to every searcher through a rate-limited
// worker pool and returns the deduplicated union of results.
//
// Individual search failures are dropped rather than failing the turn.
func (e *MoodEngine) fetchCandidates(ctx context.Context, progress chan<- ProgressUpdate, queries []string) []models.TrackCandidate {
	total := len(queries) * len(e.searchers)
	if total == 0 {
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(e.opts.RateLimit), 1)

	jobs := make(chan searchJob, total)
	results := make(chan []models.TrackCandidate, total)

	var wg sync.WaitGroup
	for i := 0; i < e.opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := limiter.Wait(ctx); err != nil {
					return
				}

				candidates, err := job.searcher.Search(ctx, job.query, e.opts.CandidateLimit)
				if err != nil {
					continue
				}
				results <- candidates
			}
		}()
	}

	step := 0
	for _, query := range queries {
		for _, searcher := range e.searchers {
			step++
			e.sendProgress(progress, searchingUpdate(step, total, query))
			jobs <- searchJob{searcher: searcher, query: query}
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make(map[string]struct{})
	var merged []models.TrackCandidate
	for batch := range results {
		for _, candidate := range batch {
			key := candidate.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, candidate)
		}
	}

	return merged
}

// applyFloor drops scored candidates below the popularity floor.
// Candidates without a popularity signal pass through untouched.
func (e *MoodEngine) applyFloor(candidates []models.TrackCandidate, floor int) []models.TrackCandidate {
	var kept []models.TrackCandidate
	for _, candidate := range candidates {
		if candidate.Popularity == 0 || candidate.Popularity >= floor {
			kept = append(kept, candidate)
		}
	}
	return kept
}
