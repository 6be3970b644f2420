// Package commands turns chat commands into text replies. It is independent
// of the chat platform; replies use Slack mrkdwn.
package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/mauv0809/brawlboss/internal/store"
)

// Command names.
const (
	Ping     = "ping"
	Profile  = "profile"
	Rankings = "rankings"
	Link     = "link"
	Unlink   = "unlink"
	Slap     = "slap"
	Engage   = "engage"
	Events   = "events"
	Emoji    = "emoji"
)

// Names lists every command the Responder understands.
var Names = []string{Ping, Profile, Rankings, Link, Unlink, Slap, Engage, Events, Emoji}

// Request is a single chat command invocation.
type Request struct {
	Command string
	// UserID is the chat user who sent the command.
	UserID string
	// Text is everything after the command name.
	Text string
}

// Responder answers chat commands.
type Responder struct {
	store   store.Store
	client  brawlstars.Client
	stats   *stats.Service
	metrics metrics.Metrics
	clubTag string
	pick    pick
}

// NewResponder creates a Responder for the given club.
func NewResponder(s store.Store, client brawlstars.Client, statsService *stats.Service, m metrics.Metrics, clubTag string) *Responder {
	return &Responder{
		store:   s,
		client:  client,
		stats:   statsService,
		metrics: m,
		clubTag: brawlstars.NormalizeTag(clubTag),
		pick:    defaultPick,
	}
}

// Handle runs a command and returns the reply. It never fails: missing data
// and internal errors are turned into a fallback message.
func (r *Responder) Handle(ctx context.Context, req Request) string {
	command := strings.ToLower(strings.TrimPrefix(req.Command, "/"))
	if slices.Contains(Names, command) {
		r.metrics.IncCommands(command)
	} else {
		r.metrics.IncCommands("unknown")
	}
	log.Info("Handling command", "command", command, "user", req.UserID, "text", req.Text)

	switch command {
	case Ping:
		return "pong"
	case Profile:
		return r.profile(ctx, req)
	case Rankings:
		return r.rankings(ctx)
	case Link:
		return r.link(ctx, req)
	case Unlink:
		return r.unlink(ctx, req)
	case Slap:
		return r.fun(req, Slap, randomSlap)
	case Engage:
		return r.fun(req, Engage, randomEngage)
	case Events:
		return r.events(ctx)
	case Emoji:
		return r.emoji(ctx, req)
	default:
		return fmt.Sprintf("Unknown command `%s`. Try one of: %s", command, strings.Join(Names, ", "))
	}
}

func (r *Responder) profile(ctx context.Context, req Request) string {
	userID := req.UserID
	if mentioned, ok := firstMention(req.Text); ok {
		userID = mentioned
	}

	player, err := r.store.PlayerFromUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("Sorry, no player found for %s. Use `/link #TAG` to link a Brawl Stars account.", mention(userID))
	}
	if err != nil {
		log.Error("Failed to load player for profile", "error", err, "user", userID)
		return "Sorry, I couldn't load that profile right now."
	}

	profile, err := r.stats.PlayerProfile(ctx, player.Tag)
	if err != nil {
		log.Error("Failed to compute profile stats", "error", err, "tag", player.Tag)
		return "Sorry, I couldn't load that profile right now."
	}
	emojis, err := r.store.Emojis(ctx)
	if err != nil {
		log.Warn("Failed to load emoji overrides, using defaults", "error", err)
		emojis = nil
	}
	return FormatProfile(player, profile, emojis)
}

func (r *Responder) rankings(ctx context.Context) string {
	rankings, err := r.stats.ClubRankings(ctx, r.clubTag)
	if errors.Is(err, stats.ErrClubNotFound) {
		return "No club data yet. Try again after the next update."
	}
	if err != nil {
		log.Error("Failed to compute rankings", "error", err, "club", r.clubTag)
		return "Sorry, I couldn't compute the rankings right now."
	}
	return FormatRankings(rankings)
}

func (r *Responder) link(ctx context.Context, req Request) string {
	fields := args(req.Text)
	if len(fields) == 0 {
		return "Usage: `/link #PLAYERTAG`"
	}
	tag := brawlstars.NormalizeTag(fields[0])
	if tag == "" {
		return "Usage: `/link #PLAYERTAG`"
	}

	player, err := r.client.GetPlayer(ctx, tag)
	if errors.Is(err, brawlstars.ErrNoData) {
		return fmt.Sprintf("No Brawl Stars account exists for `%s`", tag)
	}
	if err != nil {
		log.Error("Failed to verify player tag", "error", err, "tag", tag)
		return "Sorry, I couldn't reach Brawl Stars right now. Try again later."
	}

	if _, err := r.store.UpsertLink(ctx, store.Link{UserID: req.UserID, Tag: player.Tag}); err != nil {
		log.Error("Failed to store link", "error", err, "user", req.UserID, "tag", tag)
		return fmt.Sprintf("Sorry, couldn't link `%s` to your account", tag)
	}
	// Players outside the club are never ingested, so store them now for /profile.
	if _, err := r.store.UpsertPlayer(ctx, player); err != nil {
		log.Warn("Failed to store linked player", "error", err, "tag", tag)
	}
	return fmt.Sprintf("Brawl Stars account `%s` was successfully linked to %s", player.Tag, mention(req.UserID))
}

func (r *Responder) unlink(ctx context.Context, req Request) string {
	deleted, err := r.store.DeleteLink(ctx, req.UserID)
	if err != nil {
		log.Error("Failed to delete link", "error", err, "user", req.UserID)
		return "Sorry, I couldn't remove your link right now."
	}
	if !deleted {
		return "You don't have a linked Brawl Stars account."
	}
	return "Your Brawl Stars account was unlinked."
}

func (r *Responder) fun(req Request, command string, phrase func(pick, string, string) string) string {
	target, ok := firstMention(req.Text)
	if !ok {
		return fmt.Sprintf("Usage: `/%s @member`", command)
	}
	return "> " + phrase(r.pick, mention(req.UserID), mention(target))
}

func (r *Responder) events(ctx context.Context) string {
	slots, err := r.client.GetEventRotation(ctx)
	if errors.Is(err, brawlstars.ErrNoData) {
		return "No event data available right now."
	}
	if err != nil {
		log.Error("Failed to fetch event rotation", "error", err)
		return "Sorry, I couldn't reach Brawl Stars right now. Try again later."
	}
	return FormatEvents(slots)
}

func (r *Responder) emoji(ctx context.Context, req Request) string {
	fields := args(req.Text)
	if len(fields) != 2 || !IsProfileAttribute(fields[0]) {
		attrs := make([]string, 0, len(profileAttributes))
		for _, a := range profileAttributes {
			attrs = append(attrs, "`"+a+"`")
		}
		return "Usage: `/emoji <attribute> <emoji>` where attribute is one of " + strings.Join(attrs, ", ")
	}
	if _, err := r.store.UpsertEmoji(ctx, store.Emoji{Attribute: fields[0], Emoji: fields[1]}); err != nil {
		log.Error("Failed to store emoji", "error", err, "attribute", fields[0])
		return "Sorry, I couldn't save that emoji."
	}
	return fmt.Sprintf("Profiles now show %s for `%s`", fields[1], fields[0])
}
