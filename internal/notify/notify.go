// Package notify delivers result notifications: a direct message to each
// registered recipient when a match is recorded, and one operator summary
// per season+week run.
//
// Delivery failures are logged and never escalated; a lost notification must
// not roll back an appended result.
package notify

import (
	"context"
	"fmt"
	"time"
)

// MatchUpdate describes one newly recorded result.
type MatchUpdate struct {
	SeasonID    string
	GameType    string
	WeekStart   time.Time
	WhiteName   string // display name, falling back to provider username
	WhiteResult string
	BlackName   string
	BlackResult string
	URL         string
}

// Summary describes one season+week run outcome.
type Summary struct {
	SeasonID   string
	GameType   string
	WeekStart  time.Time
	NewResults int
}

// Notifier is the outbound channel the orchestrator talks to.
type Notifier interface {
	MatchRecorded(ctx context.Context, u MatchUpdate) error
	RunSummary(ctx context.Context, s Summary) error
}

// Noop discards all notifications. Used when no token is configured.
type Noop struct{}

func (Noop) MatchRecorded(context.Context, MatchUpdate) error { return nil }
func (Noop) RunSummary(context.Context, Summary) error        { return nil }

// formatMatch renders the per-recipient direct message.
func formatMatch(u MatchUpdate) string {
	msg := fmt.Sprintf(
		"♟️ **Chess Score Update**\nSeason: %s\nGame Type: %s\nWeek Start: %s\nPlayer 1: %s — %s\nPlayer 2: %s — %s",
		u.SeasonID, u.GameType, u.WeekStart.UTC().Format("2006-01-02"),
		u.WhiteName, orNA(u.WhiteResult),
		u.BlackName, orNA(u.BlackResult),
	)
	if u.URL != "" {
		msg += "\n" + u.URL
	}
	return msg
}

// formatSummary renders the operator summary message.
func formatSummary(s Summary) string {
	return fmt.Sprintf("Results updated for Season %s (%s) Week %s with %d new games.",
		s.SeasonID, s.GameType, s.WeekStart.UTC().Format("2006-01-02"), s.NewResults)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
