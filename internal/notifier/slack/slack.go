package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendNewMember(ctx context.Context, player brawlstars.Player, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatNewMember(player), dryRun)
	return err
}

func (s *Notifier) SendRankings(ctx context.Context, clubName string, rankings []stats.Ranking, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatRankings(clubName, rankings), dryRun)
	return err
}

// formatNewMember creates the welcome message for a newly stored player using Block Kit.
func (s *Notifier) formatNewMember(player brawlstars.Player) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", "🎉 New brawler spotted! 🎉", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("*%s* (`%s`)\n🏆 Trophies: %d\n⬆️ Exp level: %d", player.Name, player.Tag, player.Trophies, player.ExpLevel)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", details, false, false), nil, nil))

	if player.Club != nil {
		clubText := fmt.Sprintf("⚔️ Welcome to %s!", player.Club.Name)
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", clubText, true, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatRankings creates the rankings message using Block Kit.
func (s *Notifier) formatRankings(clubName string, rankings []stats.Ranking) slack.Message {
	blocks := make([]slack.Block, 0, 2)

	title := "🏆 Club rankings"
	if clubName != "" {
		title = fmt.Sprintf("🏆 %s rankings", clubName)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	if len(rankings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rankings yet.", false, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, r := range rankings {
		lines = append(lines, fmt.Sprintf("%s *%s* `%s` | Score: *%.2f*", rankPrefix(i+1), r.Name, r.Tag, r.Score))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

func rankPrefix(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", position)
	}
}
