package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Discord sends match DMs and operator summaries through a bot account.
// REST-only: DMs and channel messages need no gateway connection.
type Discord struct {
	session        *discordgo.Session
	recipients     []string // user IDs registered for per-match DMs
	summaryChannel string   // operator channel; "" disables summaries
	logger         *slog.Logger
}

// NewDiscord creates a Discord notifier from a bot token.
func NewDiscord(token string, recipients []string, summaryChannel string, logger *slog.Logger) (*Discord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Discord{
		session:        session,
		recipients:     recipients,
		summaryChannel: summaryChannel,
		logger:         logger,
	}, nil
}

// Close releases the underlying session.
func (d *Discord) Close() error {
	return d.session.Close()
}

// MatchRecorded DMs every registered recipient. An unreachable recipient is
// logged and skipped; the method never returns a per-recipient failure.
func (d *Discord) MatchRecorded(ctx context.Context, u MatchUpdate) error {
	msg := formatMatch(u)
	for _, id := range d.recipients {
		ch, err := d.session.UserChannelCreate(id, discordgo.WithContext(ctx))
		if err != nil {
			d.logger.Warn("open DM channel failed", "recipient", id, "error", err)
			continue
		}
		if _, err := d.session.ChannelMessageSend(ch.ID, msg, discordgo.WithContext(ctx)); err != nil {
			d.logger.Warn("send DM failed", "recipient", id, "error", err)
		}
	}
	return nil
}

// RunSummary posts the season+week summary to the operator channel.
func (d *Discord) RunSummary(ctx context.Context, s Summary) error {
	if d.summaryChannel == "" {
		return nil
	}
	if _, err := d.session.ChannelMessageSend(d.summaryChannel, formatSummary(s), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send summary to channel %s: %w", d.summaryChannel, err)
	}
	return nil
}
