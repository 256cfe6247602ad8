// YouTube Data API v3 [Searcher] and [LinkResolver] implementation
//
// Response types based on https://developers.google.com/youtube/v3/docs/search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

const (
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3"
	youtubeWatchURL = "https://www.youtube.com/watch?v="

	// musicCategoryID restricts searches to YouTube's Music category.
	musicCategoryID = "10"
)

// YouTubeThumbnail represents a video thumbnail.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type youtubeThumbnails struct {
	Default *YouTubeThumbnail `json:"default"`
	Medium  *YouTubeThumbnail `json:"medium"`
	High    *YouTubeThumbnail `json:"high"`
}

// YouTubeSnippet represents the snippet portion of a search result.
type YouTubeSnippet struct {
	Title        string            `json:"title"`
	ChannelTitle string            `json:"channelTitle"`
	Description  string            `json:"description"`
	Thumbnails   youtubeThumbnails `json:"thumbnails"`
}

type youtubeVideoID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// YouTubeSearchItem represents one result from the search endpoint.
type YouTubeSearchItem struct {
	ID      youtubeVideoID `json:"id"`
	Snippet YouTubeSnippet `json:"snippet"`
}

// YouTubeSearchResponse represents a search endpoint response.
type YouTubeSearchResponse struct {
	Items []YouTubeSearchItem `json:"items"`
}

// YouTubeService implements Searcher and LinkResolver against the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube service instance.
func NewYouTubeService(baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = youtubeBaseURL
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Name returns the provider name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Authenticate stores the API key for subsequent requests.
//
// Expects credentials["api_key"] to contain a YouTube Data API key.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	apiKey, ok := credentials["api_key"]
	if !ok || apiKey == "" {
		return fmt.Errorf("missing api_key in credentials")
	}

	y.apiKey = apiKey
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if y.apiKey == "" {
		return fmt.Errorf("not authenticated: call Authenticate first")
	}

	params.Set("key", y.apiKey)
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchVideos performs a raw video search restricted to the music category.
func (y *YouTubeService) SearchVideos(ctx context.Context, query string, limit int) (*YouTubeSearchResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", strconv.Itoa(limit))

	var response YouTubeSearchResponse
	if err := y.doRequest(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Search retrieves track candidates matching a free-text query.
//
// YouTube search results carry no popularity signal, so candidates report
// zero popularity and survive any floor applied downstream.
func (y *YouTubeService) Search(ctx context.Context, query string, limit int) ([]models.TrackCandidate, error) {
	response, err := y.SearchVideos(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	var candidates []models.TrackCandidate
	for _, item := range response.Items {
		if item.ID.VideoID == "" {
			continue
		}

		candidate := models.TrackCandidate{
			Provider:   "youtube",
			ProviderID: item.ID.VideoID,
			Title:      item.Snippet.Title,
			Artist:     item.Snippet.ChannelTitle,
			Link:       youtubeWatchURL + item.ID.VideoID,
		}
		if item.Snippet.Thumbnails.High != nil {
			candidate.ArtworkURL = item.Snippet.Thumbnails.High.URL
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// FindTrack searches for a specific track by title and artist.
func (y *YouTubeService) FindTrack(ctx context.Context, title, artist string) (*models.TrackCandidate, error) {
	candidates, err := y.Search(ctx, fmt.Sprintf("%s %s official music video", title, artist), 5)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s by %s", shared.ErrNoCandidates, title, artist)
	}

	best := candidates[0]
	bestScore := 0.0
	for _, c := range candidates {
		score := shared.MatchScore(title, artist, c.Title, c.Artist)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}

	return &best, nil
}

// ResolveLink returns a watch URL for the given track.
func (y *YouTubeService) ResolveLink(ctx context.Context, title, artist string) (string, error) {
	track, err := y.FindTrack(ctx, title, artist)
	if err != nil {
		return "", err
	}
	return track.Link, nil
}
