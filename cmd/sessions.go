package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/urfave/cli/v3"
)

// SessionsCreate creates a new listening session.
func (r *Runner) SessionsCreate(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions := repositories.NewSessionRepository(db)

	session := models.NewSession(0, cmd.String("label"))
	if err := sessions.Create(session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Info("session created", "id", session.ID())
	r.writePlain("Created session: %s\n", session.ID())
	if session.Label() != "" {
		r.writePlain("Label: %s\n", session.Label())
	}

	return nil
}

// SessionsList lists sessions, optionally filtered by label.
func (r *Runner) SessionsList(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions := repositories.NewSessionRepository(db)

	criteria := map[string]any{}
	if label := cmd.String("label"); label != "" {
		criteria["label"] = label
	}

	results, err := sessions.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(results))
		for _, session := range results {
			out = append(out, map[string]any{
				"id":         session.ID(),
				"label":      session.Label(),
				"created_at": session.CreatedAt(),
			})
		}
		return r.writeJSON(out, true)
	}

	if len(results) == 0 {
		r.writePlain("No sessions found\n")
		return nil
	}

	r.writePlainHeader("Sessions")
	for _, session := range results {
		line := fmt.Sprintf("%s  %s", session.ID(), session.CreatedAt().Format(time.DateTime))
		if session.Label() != "" {
			line += fmt.Sprintf("  (%s)", session.Label())
		}
		r.writePlain("%s\n", line)
	}

	return nil
}
