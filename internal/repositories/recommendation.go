package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// RecommendationRepository implements [models.Repository] for [models.Recommendation] persistence.
//
// One row records each track delivered to a session. The (session_id, provider,
// provider_id) unique constraint backs the seen-memory guarantee at the storage layer.
type RecommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new [RecommendationRepository] with the given database connection
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create inserts a new recommendation into the database with generated ID and sequence
func (r *RecommendationRepository) Create(rec *models.Recommendation) error {
	sequence, err := NextSequence(r.db, "recommendations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	rec.SetID(id)

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	track := rec.Track()
	query := `
		INSERT INTO recommendations (id, sequence, session_id, provider, provider_id, title, artist, album, link, artwork_url, popularity, mood_tag, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		rec.SessionID(),
		track.Provider,
		track.ProviderID,
		track.Title,
		track.Artist,
		track.Album,
		track.Link,
		track.ArtworkURL,
		track.Popularity,
		rec.MoodTag(),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// Get retrieves a recommendation by ID, excluding soft-deleted recommendations
func (r *RecommendationRepository) Get(id string) (*models.Recommendation, error) {
	query := `
		SELECT id, sequence, session_id, provider, provider_id, title, artist, album, link, artwork_url, popularity, mood_tag, created_at, updated_at, deleted_at
		FROM recommendations
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing recommendation in the database
func (r *RecommendationRepository) Update(rec *models.Recommendation) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	rec.SetUpdatedAt(now)

	track := rec.Track()
	query := `
		UPDATE recommendations
		SET title = ?, artist = ?, album = ?, link = ?, artwork_url = ?, popularity = ?, mood_tag = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Title,
		track.Artist,
		track.Album,
		track.Link,
		track.ArtworkURL,
		track.Popularity,
		rec.MoodTag(),
		now,
		rec.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("recommendation not found or already deleted: %s", rec.ID())
	}

	return nil
}

// Delete soft-deletes a recommendation by ID
func (r *RecommendationRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE recommendations
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("recommendation not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all recommendations matching the given criteria, excluding soft-deleted recommendations
func (r *RecommendationRepository) List(criteria map[string]any) ([]*models.Recommendation, error) {
	query := `
		SELECT id, sequence, session_id, provider, provider_id, title, artist, album, link, artwork_url, popularity, mood_tag, created_at, updated_at, deleted_at
		FROM recommendations
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	if moodTag, ok := criteria["mood_tag"].(string); ok && moodTag != "" {
		query += " AND mood_tag = ?"
		args = append(args, moodTag)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recs, nil
}

// ListBySession retrieves a session's recommendations in delivery order.
func (r *RecommendationRepository) ListBySession(sessionID string) ([]*models.Recommendation, error) {
	return r.List(map[string]any{"session_id": sessionID})
}

// scanOne scans a single [sql.Row] into a [models.Recommendation]
func (r *RecommendationRepository) scanOne(row *sql.Row) (*models.Recommendation, error) {
	var (
		id         string
		sequence   int
		sessionID  string
		provider   string
		providerID string
		title      string
		artist     string
		album      string
		link       string
		artworkURL string
		popularity int
		moodTag    string
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &sessionID, &provider, &providerID, &title, &artist, &album, &link, &artworkURL, &popularity, &moodTag, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recommendation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}

	track := models.TrackCandidate{
		Provider:   provider,
		ProviderID: providerID,
		Title:      title,
		Artist:     artist,
		Album:      album,
		Link:       link,
		ArtworkURL: artworkURL,
		Popularity: popularity,
	}

	rec := models.NewRecommendation(sequence, sessionID, moodTag, track)
	rec.SetID(id)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		rec.SetDeletedAt(&deletedAt.Time)
	}

	return rec, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Recommendation]
func (r *RecommendationRepository) scanRow(rows *sql.Rows) (*models.Recommendation, error) {
	var (
		id         string
		sequence   int
		sessionID  string
		provider   string
		providerID string
		title      string
		artist     string
		album      string
		link       string
		artworkURL string
		popularity int
		moodTag    string
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &sessionID, &provider, &providerID, &title, &artist, &album, &link, &artworkURL, &popularity, &moodTag, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}

	track := models.TrackCandidate{
		Provider:   provider,
		ProviderID: providerID,
		Title:      title,
		Artist:     artist,
		Album:      album,
		Link:       link,
		ArtworkURL: artworkURL,
		Popularity: popularity,
	}

	rec := models.NewRecommendation(sequence, sessionID, moodTag, track)
	rec.SetID(id)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		rec.SetDeletedAt(&deletedAt.Time)
	}

	return rec, nil
}
