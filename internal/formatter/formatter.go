// package formatter provides functions to export session history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// HistoryExport bundles a session with its delivered recommendations.
type HistoryExport struct {
	Session *models.Session
	Entries []*models.Recommendation
}

// ExportToCSV converts a HistoryExport to CSV format with columns: Provider, ID, Title, Artist, Album, Mood, Popularity, Delivered
func ExportToCSV(export *HistoryExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Provider", "ID", "Title", "Artist", "Album", "Mood", "Popularity", "Delivered"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range export.Entries {
		track := entry.Track()
		record := []string{
			track.Provider,
			track.ProviderID,
			track.Title,
			track.Artist,
			track.Album,
			entry.MoodTag(),
			strconv.Itoa(track.Popularity),
			entry.CreatedAt().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a HistoryExport to Markdown format
func ExportToMarkdown(export *HistoryExport) ([]byte, error) {
	var buf bytes.Buffer

	title := export.Session.Label()
	if title == "" {
		title = export.Session.ID()
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Session**: %s\n", export.Session.ID()))
	buf.WriteString(fmt.Sprintf("**Started**: %s\n", export.Session.CreatedAt().Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(export.Entries)))

	buf.WriteString("## Tracks\n\n")
	for i, entry := range export.Entries {
		track := entry.Track()
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		linkPart := ""
		if track.Link != "" {
			linkPart = fmt.Sprintf(" ([listen](%s))", track.Link)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]%s\n", i+1, track.Artist, track.Title, albumPart, entry.MoodTag(), linkPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a HistoryExport to plain text format
func ExportToText(export *HistoryExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Session: %s\n", export.Session.ID()))
	if export.Session.Label() != "" {
		buf.WriteString(fmt.Sprintf("Label: %s\n", export.Session.Label()))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Entries)))

	for i, entry := range export.Entries {
		track := entry.Track()
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, entry.MoodTag()))
	}

	return buf.Bytes(), nil
}

// sessionMetadata is the JSON shape written next to CSV exports.
type sessionMetadata struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tracks    int       `json:"tracks"`
}

// ToMetadataJSON generates a JSON representation of session metadata (without tracks)
func ToMetadataJSON(export *HistoryExport) ([]byte, error) {
	meta := sessionMetadata{
		ID:        export.Session.ID(),
		Label:     export.Session.Label(),
		CreatedAt: export.Session.CreatedAt(),
		UpdatedAt: export.Session.UpdatedAt(),
		Tracks:    len(export.Entries),
	}
	return shared.MarshalJSON(meta, true)
}

// exportedTrack is the per-entry JSON shape produced by ExportToJSON.
type exportedTrack struct {
	Track     models.TrackCandidate `json:"track"`
	MoodTag   string                `json:"mood_tag"`
	Delivered time.Time             `json:"delivered"`
}

// ExportToJSON converts a HistoryExport to JSON with session metadata and tracks
func ExportToJSON(export *HistoryExport) ([]byte, error) {
	tracks := make([]exportedTrack, 0, len(export.Entries))
	for _, entry := range export.Entries {
		tracks = append(tracks, exportedTrack{
			Track:     entry.Track(),
			MoodTag:   entry.MoodTag(),
			Delivered: entry.CreatedAt(),
		})
	}

	payload := struct {
		Session sessionMetadata `json:"session"`
		Tracks  []exportedTrack `json:"tracks"`
	}{
		Session: sessionMetadata{
			ID:        export.Session.ID(),
			Label:     export.Session.Label(),
			CreatedAt: export.Session.CreatedAt(),
			UpdatedAt: export.Session.UpdatedAt(),
			Tracks:    len(export.Entries),
		},
		Tracks: tracks,
	}
	return shared.MarshalJSON(payload, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a session's history to CSV format with accompanying metadata JSON file.
//
// Defaults to the session ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(export *HistoryExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Session.ID()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a session's history to Markdown.
//
// Defaults to {session.ID}_history.md as the filename.
func WriteMarkdownExport(export *HistoryExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_history.md", export.Session.ID())
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports a session's history to JSON.
//
// Defaults to {session.ID}_history.json as the filename.
func WriteJSONExport(export *HistoryExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_history.json", export.Session.ID())
	}

	jsonData, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports a session's history to plain text format.
//
// Defaults to {session.ID}_tracks.txt as the filename.
func WriteTextExport(export *HistoryExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", export.Session.ID())
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
