package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/muse/internal/models"
	th "github.com/desertthunder/muse/internal/testing"
)

func sampleExport() *HistoryExport {
	session := models.NewSession(1, "Late Night")
	session.SetID("session123")

	first := models.NewRecommendation(1, "session123", "melancholy", models.TrackCandidate{
		Provider:   "spotify",
		ProviderID: "track1",
		Title:      "Song One",
		Artist:     "Artist One",
		Album:      "Album One",
		Link:       "https://open.spotify.com/track/track1",
		Popularity: 70,
	})
	first.SetID("rec1")

	second := models.NewRecommendation(2, "session123", "melancholy", models.TrackCandidate{
		Provider:   "youtube",
		ProviderID: "vid2",
		Title:      "Song Two",
		Artist:     "Artist Two",
	})
	second.SetID("rec2")

	return &HistoryExport{
		Session: session,
		Entries: []*models.Recommendation{first, second},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Provider,ID,Title,Artist,Album,Mood,Popularity,Delivered") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing first track ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing first track title")
		}
		if !strings.Contains(output, "melancholy") {
			t.Errorf("CSV missing mood tag")
		}
		if !strings.Contains(output, "youtube") {
			t.Errorf("CSV missing second track provider")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Late Night") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Session**: session123") {
			t.Errorf("Markdown missing session ID")
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "## Tracks") {
			t.Errorf("Markdown missing tracks section")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [melancholy]") {
			t.Errorf("Markdown missing first track line, got: %s", output)
		}
		if !strings.Contains(output, "[listen](https://open.spotify.com/track/track1)") {
			t.Errorf("Markdown missing track link")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two [melancholy]") {
			t.Errorf("Markdown missing second track line, got: %s", output)
		}

		t.Run("falls back to session ID without a label", func(t *testing.T) {
			export := sampleExport()
			export.Session.SetLabel("")

			data, err := ExportToMarkdown(export)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "# session123") {
				t.Errorf("Markdown should use session ID as title")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Session: session123") {
			t.Errorf("Text missing session ID")
		}
		if !strings.Contains(output, "Label: Late Night") {
			t.Errorf("Text missing label")
		}
		if !strings.Contains(output, "1. Artist One - Song One [melancholy]") {
			t.Errorf("Text missing first track line, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var payload struct {
			Session struct {
				ID     string `json:"id"`
				Tracks int    `json:"tracks"`
			} `json:"session"`
			Tracks []struct {
				Track   models.TrackCandidate `json:"track"`
				MoodTag string                `json:"mood_tag"`
			} `json:"tracks"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("Export is not valid JSON: %v", err)
		}

		if payload.Session.ID != "session123" {
			t.Errorf("Expected session123, got %s", payload.Session.ID)
		}
		if len(payload.Tracks) != 2 {
			t.Fatalf("Expected 2 tracks, got %d", len(payload.Tracks))
		}
		if payload.Tracks[0].Track.Title != "Song One" {
			t.Errorf("Expected Song One first, got %s", payload.Tracks[0].Track.Title)
		}
		if payload.Tracks[1].MoodTag != "melancholy" {
			t.Errorf("Expected melancholy mood tag, got %s", payload.Tracks[1].MoodTag)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleExport())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var meta map[string]any
		if err := json.Unmarshal(data, &meta); err != nil {
			t.Fatalf("Metadata is not valid JSON: %v", err)
		}

		if meta["id"] != "session123" {
			t.Errorf("Expected id session123, got %v", meta["id"])
		}
		if meta["label"] != "Late Night" {
			t.Errorf("Expected label Late Night, got %v", meta["label"])
		}
		if meta["tracks"] != float64(2) {
			t.Errorf("Expected 2 tracks, got %v", meta["tracks"])
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "export")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.TracksFile)
		th.AssertFileExists(t, result.MetadataFile)

		content := th.MustReadFile(t, result.TracksFile)
		if !strings.Contains(content, "Song One") {
			t.Errorf("CSV file missing track data")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "history.md")

		written, err := WriteMarkdownExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if written != path {
			t.Errorf("Expected path %s, got %s", path, written)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "# Late Night") {
			t.Errorf("Markdown file missing title")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "history.json")

		written, err := WriteJSONExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "\"session123\"") {
			t.Errorf("JSON file missing session ID")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "history.txt")

		written, err := WriteTextExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "Session: session123") {
			t.Errorf("Text file missing session line")
		}
	})
}
