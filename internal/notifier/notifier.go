package notifier

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// A player was stored for the first time.
	SendNewMember(ctx context.Context, player brawlstars.Player, dryRun bool) error
	// Post the current club rankings to the channel.
	SendRankings(ctx context.Context, clubName string, rankings []stats.Ranking, dryRun bool) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendNewMember(ctx context.Context, player brawlstars.Player, dryRun bool) error {
	log.Debug("Notifications disabled, skipping new member message", "tag", player.Tag)
	return nil
}

func (Noop) SendRankings(ctx context.Context, clubName string, rankings []stats.Ranking, dryRun bool) error {
	log.Debug("Notifications disabled, skipping rankings message", "club", clubName)
	return nil
}
