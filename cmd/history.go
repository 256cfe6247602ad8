package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/formatter"
	"github.com/desertthunder/muse/internal/repositories"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints a session's delivered tracks.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions := repositories.NewSessionRepository(db)
	recommendations := repositories.NewRecommendationRepository(db)

	session, err := sessions.Get(sessionID)
	if err != nil {
		return err
	}

	entries, err := recommendations.ListBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(entries))
		for _, entry := range entries {
			out = append(out, map[string]any{
				"mood_tag":   entry.MoodTag(),
				"track":      entry.Track(),
				"created_at": entry.CreatedAt(),
			})
		}
		return r.writeJSON(out, true)
	}

	title := session.Label()
	if title == "" {
		title = session.ID()
	}
	r.writePlainHeader(fmt.Sprintf("History: %s", title))

	if len(entries) == 0 {
		r.writePlain("No tracks delivered yet\n")
		return nil
	}

	for i, entry := range entries {
		track := entry.Track()
		r.writePlain("%2d. %s - %s [%s]  %s\n", i+1, track.Artist, track.Title, entry.MoodTag(), entry.CreatedAt().Format(time.DateTime))
	}

	return nil
}

// HistoryExport writes a session's history to a file in the chosen format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")
	format := cmd.String("format")
	output := cmd.String("output")

	db, closeDB, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()

	sessions := repositories.NewSessionRepository(db)
	recommendations := repositories.NewRecommendationRepository(db)

	session, err := sessions.Get(sessionID)
	if err != nil {
		return err
	}

	entries, err := recommendations.ListBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	export := &formatter.HistoryExport{Session: session, Entries: entries}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks\n", len(entries))
		r.writePlain("Tracks: %s\n", result.TracksFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		written, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(entries), written)
	case "text", "txt":
		written, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(entries), written)
	case "json":
		written, err := formatter.WriteJSONExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(entries), written)
	default:
		return fmt.Errorf("%w: unknown format %q (expected csv, json, markdown, or text)", shared.ErrInvalidFlag, format)
	}

	return nil
}
