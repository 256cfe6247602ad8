package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Recommend runs a single mood → track turn and prints the result.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	message := strings.TrimSpace(cmd.StringArg("message"))
	if message == "" {
		return fmt.Errorf("%w: a mood message is required", shared.ErrMissingArgument)
	}

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions := repositories.NewSessionRepository(db)
	recommendations := repositories.NewRecommendationRepository(db)
	history := repositories.NewHistoryAdapter(recommendations)

	sessionID := cmd.String("session")
	if sessionID == "" {
		session := models.NewSession(0, cmd.String("label"))
		if err := sessions.Create(session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = session.ID()
		r.logger.Info("created session", "id", sessionID)
	} else if _, err := sessions.Get(sessionID); err != nil {
		return err
	}

	mem := memory.NewSeenMemory(r.config.Recommender.MemoryCap)
	keys, err := history.SeenKeys(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}
	for _, key := range keys {
		mem.RememberKey(key)
	}

	if seed := cmd.Int("seed"); seed != 0 {
		r.config.Recommender.Seed = int64(seed)
	}

	engine := r.newEngine(history)
	useJSON := cmd.Bool("json")

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if useJSON {
		close(done)
	} else {
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(done)
			for update := range progressCh {
				switch update.Phase {
				case tasks.Interpret:
					r.writePlain("🎭 %s\n", update.Message)
				case tasks.SearchCandidates:
					r.writePlain("🔍 %s\n", update.Message)
				case tasks.SelectTrack:
					r.writePlain("🎲 %s\n", update.Message)
				case tasks.ResolveLink:
					r.writePlain("📺 %s\n", update.Message)
				}
			}
		}()
	}

	result, err := engine.Recommend(ctx, progressCh, tasks.RecommendRequest{
		SessionID: sessionID,
		Message:   message,
		Memory:    mem,
	})
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"session_id": sessionID,
			"mood":       result.Profile,
			"track":      result.Track,
			"video_link": result.VideoLink,
			"broadened":  result.Broadened,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Recommendation")
	r.writePlain("Session: %s\n", sessionID)
	r.writePlain("Mood: %s\n", result.Profile.Tag)
	if result.Profile.Commentary != "" {
		r.writePlain("Note: %s\n", result.Profile.Commentary)
	}

	track := result.Track
	r.writePlain("\n♪ %s - %s\n", track.Artist, track.Title)
	if track.Album != "" {
		r.writePlain("  Album: %s\n", track.Album)
	}
	if track.Link != "" {
		r.writePlain("  Listen: %s\n", track.Link)
	}
	if result.VideoLink != "" {
		r.writePlain("  Watch: %s\n", result.VideoLink)
	}
	if result.Broadened {
		r.writePlain("  (broadened search, the usual well ran dry)\n")
	}

	return nil
}

// Trending prints popular tracks.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	engine := r.newEngine(nil)
	useJSON := cmd.Bool("json")

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if useJSON {
		close(done)
	} else {
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(done)
			for update := range progressCh {
				r.writePlain("🔥 %s\n", update.Message)
			}
		}()
	}

	tracks, err := engine.Trending(ctx, progressCh, cmd.Int("limit"))
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Trending")
	for i, track := range tracks {
		r.writePlain("%2d. %s - %s", i+1, track.Artist, track.Title)
		if track.Popularity > 0 {
			r.writePlain(" (%d)", track.Popularity)
		}
		r.writePlain("\n")
	}

	return nil
}
