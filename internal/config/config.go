// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/reconcile.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Game type registry
// --------------------------------------------------------------------------

// GameTypes lists the rulesets a season may be configured with. The value is
// the chess.com "rules" tag a fetched game must carry to count for that
// season.
var GameTypes = map[string]string{
	"chess":    "chess",
	"chess960": "chess960",
}

// --------------------------------------------------------------------------
// Sheet layout — single source of truth for tab names and ranges
// --------------------------------------------------------------------------

const (
	SeasonsRange  = "Seasons!A1:Z"  // header row included
	ScheduleRange = "Schedule!A2:K" // fixed column order, no header
	ResultsRange  = "Results!A2:AB"
	ResultsAppend = "Results!A3"
)

// CheckmarkColumn is the Schedule column holding the completion marker.
const CheckmarkColumn = "J"

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Spreadsheet store
	SpreadsheetID   string
	GoogleCredsJSON string // service account JSON, inline

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (trigger endpoint)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// chess.com published-data API
	ChessComBaseURL   string
	ChessComPerMinute int

	// Discord notifications
	DiscordToken          string
	DiscordRecipients     []string // user IDs for per-match DMs
	DiscordSummaryChannel string   // operator channel for run summaries
	NotifyPlayers         bool

	// Pipeline toggles
	DedupStrategy      string // "matchup-week" (default) or "game-id"
	EnrichDisplayNames bool

	// Debug snapshots
	SnapshotDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	spreadsheetID := envOr("SPREADSHEET_ID", "")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID must be set")
	}
	creds := envOr("GOOGLE_SERVICE_ACCOUNT", "")
	if creds == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT must be set")
	}

	return &Config{
		SpreadsheetID:   spreadsheetID,
		GoogleCredsJSON: creds,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 3000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", nil),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		ChessComBaseURL:   envOr("CHESSCOM_BASE_URL", "https://api.chess.com"),
		ChessComPerMinute: envInt("CHESSCOM_REQUESTS_PER_MINUTE", 60),

		DiscordToken:          envOr("CHESS_BOT_DISCORD_TOKEN", ""),
		DiscordRecipients:     envList("DISCORD_RECIPIENT_IDS", nil),
		DiscordSummaryChannel: envOr("DISCORD_SUMMARY_CHANNEL_ID", ""),
		NotifyPlayers:         envBool("NOTIFY_PLAYERS", false),

		DedupStrategy:      envOr("DEDUP_STRATEGY", "matchup-week"),
		EnrichDisplayNames: envBool("ENRICH_DISPLAY_NAMES", true),

		SnapshotDir: envOr("SNAPSHOT_DIR", "data"),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
