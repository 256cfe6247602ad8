package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive mood chat.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil && len(r.searchers) == 0 {
		return fmt.Errorf("%w: no music services configured", shared.ErrServiceUnavailable)
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
		session := models.NewSession(0, "")
		if err := sessions.Create(session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = session.ID()
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

	engine := r.newEngine(history)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/muse-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, engine, recommendations, sessionID, mem)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
