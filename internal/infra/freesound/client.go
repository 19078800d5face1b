// Package freesound provides a client for the Freesound.org API.
package freesound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Client is a Freesound API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// Cache for search results keyed by query
	searchCache map[string][]Sound
	cacheMu     sync.RWMutex
}

// Config represents Freesound client configuration.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// Sound represents a single search hit.
type Sound struct {
	ID       int
	Name     string
	Duration float64 // seconds
	Username string
	Previews Previews
}

// Previews holds the preview URLs of a sound.
type Previews struct {
	HQMP3 string `json:"preview-hq-mp3"`
	LQMP3 string `json:"preview-lq-mp3"`
	HQOGG string `json:"preview-hq-ogg"`
	LQOGG string `json:"preview-lq-ogg"`
}

// PreviewURL returns the best MP3 preview, preferring high quality.
func (s *Sound) PreviewURL() string {
	if s.Previews.HQMP3 != "" {
		return s.Previews.HQMP3
	}
	return s.Previews.LQMP3
}

// SearchResponse represents the response from the text search API.
type SearchResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID       int      `json:"id"`
		Name     string   `json:"name"`
		Duration float64  `json:"duration"`
		Username string   `json:"username"`
		Previews Previews `json:"previews"`
	} `json:"results"`
}

// APIError represents a non-success response from Freesound.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("freesound API error %d: %s", e.StatusCode, e.Detail)
}

// SearchOptions narrows a text search.
type SearchOptions struct {
	MinDuration int // seconds
	MaxDuration int // seconds
	PageSize    int
}

// New creates a new Freesound client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("freesound API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     "https://freesound.org/apiv2/",
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		searchCache: make(map[string][]Sound),
	}, nil
}

// Search runs a text search sorted by rating.
// Reference: https://freesound.org/docs/api/resources_apiv2.html#search-resources
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Sound, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("query is required")
	}
	if opts.MinDuration <= 0 {
		opts.MinDuration = 30
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 180
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("filter", fmt.Sprintf("duration:[%d TO %d]", opts.MinDuration, opts.MaxDuration))
	params.Set("fields", "id,name,previews,duration,username")
	params.Set("page_size", fmt.Sprintf("%d", opts.PageSize))
	params.Set("sort", "rating_desc")
	reqURL := c.baseURL + "search/text/?" + params.Encode()

	cacheKey := reqURL
	c.cacheMu.RLock()
	if sounds, ok := c.searchCache[cacheKey]; ok {
		c.cacheMu.RUnlock()
		zlog.Debug().Msgf("using cached freesound results for: %s", query)
		return sounds, nil
	}
	c.cacheMu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		detail := string(body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
			detail = apiErr.Detail
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}

	sounds := make([]Sound, 0, len(response.Results))
	for _, r := range response.Results {
		sounds = append(sounds, Sound{
			ID:       r.ID,
			Name:     r.Name,
			Duration: r.Duration,
			Username: r.Username,
			Previews: r.Previews,
		})
	}

	// empty results are not cached so a later search can pick up new uploads
	if len(sounds) > 0 {
		c.cacheMu.Lock()
		c.searchCache[cacheKey] = sounds
		c.cacheMu.Unlock()
		zlog.Debug().Msgf("cached freesound results for: %s (count: %d)", query, len(sounds))
	}

	return sounds, nil
}
