// Spotify API implementation of [Searcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// matchThreshold is the minimum score FindTrack accepts as a match.
	matchThreshold = 0.6
	// strongMatch short-circuits candidate scanning.
	strongMatch = 0.8
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifySearchResponse represents the track portion of a search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
	} `json:"tracks"`
}

// SpotifyService implements the Searcher interface for Spotify API interactions.
// Uses the OAuth2 client credentials flow, which covers the public catalog
// endpoints without a user login.
type SpotifyService struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	market     string
}

// NewSpotifyService creates a new Spotify service with the given credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	market, ok := credentials["market"]
	if !ok || market == "" {
		market = "US"
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		config: config,
		market: market,
	}, nil
}

// Authenticate exchanges the client credentials for an access token and
// installs a self-refreshing HTTP client.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	s.httpClient = s.config.Client(ctx)
	return nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, result interface{}) error {
	if s.httpClient == nil {
		return fmt.Errorf("not authenticated: call Authenticate first")
	}

	apiURL := spotifyBaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTracks performs a raw track search against the catalog.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) (*SpotifySearchResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d&market=%s", url.QueryEscape(query), limit, url.QueryEscape(s.market))

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "GET", endpoint, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Search retrieves track candidates matching a free-text query.
func (s *SpotifyService) Search(ctx context.Context, query string, limit int) ([]models.TrackCandidate, error) {
	response, err := s.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	var candidates []models.TrackCandidate
	for _, st := range response.Tracks.Items {
		candidates = append(candidates, toCandidate(st))
	}

	return candidates, nil
}

// FindTrack searches for a specific track by title and artist.
//
// Results are scored on title and artist similarity. Scanning stops early at a
// strong match, otherwise the best candidate above the threshold wins.
func (s *SpotifyService) FindTrack(ctx context.Context, title, artist string) (*models.TrackCandidate, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	response, err := s.SearchTracks(ctx, query, 10)
	if err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		// Field filters can be too strict for loose titles
		response, err = s.SearchTracks(ctx, fmt.Sprintf("%s %s", title, artist), 10)
		if err != nil {
			return nil, err
		}
	}

	var best *models.TrackCandidate
	bestScore := 0.0

	for _, st := range response.Tracks.Items {
		candidate := toCandidate(st)
		score := shared.MatchScore(title, artist, candidate.Title, candidate.Artist)
		if score > bestScore {
			bestScore = score
			c := candidate
			best = &c
		}
		if score >= strongMatch {
			break
		}
	}

	if best == nil || bestScore < matchThreshold {
		return nil, fmt.Errorf("%w: %s by %s", shared.ErrNoCandidates, title, artist)
	}

	return best, nil
}

// toCandidate maps a Spotify track onto the provider-agnostic candidate type.
func toCandidate(st SpotifyTrack) models.TrackCandidate {
	candidate := models.TrackCandidate{
		Provider:   "spotify",
		ProviderID: st.ID,
		Title:      st.Name,
		Album:      st.Album.Name,
		Link:       st.ExternalURLs.Spotify,
		Popularity: st.Popularity,
	}

	if len(st.Artists) > 0 {
		candidate.Artist = st.Artists[0].Name
	}

	if len(st.Album.Images) > 0 {
		candidate.ArtworkURL = st.Album.Images[0].URL
	}

	return candidate
}
