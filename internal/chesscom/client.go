// Package chesscom fetches completed games from the chess.com published-data
// API. The API is read-only and unauthenticated; games are bucketed by
// (player, year, month).
//
// Rate limiting is handled via a token bucket limiter.
package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production published-data endpoint.
const DefaultBaseURL = "https://api.chess.com"

// Client is a rate-limited HTTP client for the published-data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a chess.com client with rate limiting.
func New(baseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// monthlyArchive is the response wrapper for a player's month bucket.
type monthlyArchive struct {
	Games []Game `json:"games"`
}

// MonthlyGames fetches every game a player finished in the given calendar
// month. A 404 means the player has no archive for that month and yields an
// empty result, not an error.
func (c *Client) MonthlyGames(ctx context.Context, username string, year, month int) ([]Game, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/pub/player/%s/games/%d/%02d", c.baseURL, username, year, month)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch games for %s %d/%02d: %w", username, year, month, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No archive bucket for this user/month.
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chess.com %s returned %d: %s", u, resp.StatusCode, truncate(body, 200))
	}

	var archive monthlyArchive
	if err := json.Unmarshal(body, &archive); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return archive.Games, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
