package commands

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/stats"
)

// Profile attributes that can carry an emoji override.
const (
	AttrTrophies       = "trophies"
	AttrExp            = "exp"
	AttrClub           = "club"
	AttrSoloVictories  = "solo_victories"
	AttrDuoVictories   = "duo_victories"
	AttrTrioVictories  = "three_vs_three_victories"
	AttrWinRate        = "win_rate"
	AttrStarPlayerRate = "star_player_rate"
)

var profileAttributes = []string{
	AttrTrophies, AttrExp, AttrClub, AttrSoloVictories,
	AttrDuoVictories, AttrTrioVictories, AttrWinRate, AttrStarPlayerRate,
}

var defaultEmojis = map[string]string{
	AttrTrophies:       "🏆",
	AttrExp:            "⬆️",
	AttrClub:           "⚔️",
	AttrSoloVictories:  "🤺",
	AttrDuoVictories:   "👯",
	AttrTrioVictories:  "👪",
	AttrWinRate:        "🏁",
	AttrStarPlayerRate: "⭐",
}

// IsProfileAttribute reports whether an emoji can be set for attr.
func IsProfileAttribute(attr string) bool {
	_, ok := defaultEmojis[attr]
	return ok
}

func emojiFor(overrides map[string]string, attr string) string {
	if e, ok := overrides[attr]; ok && e != "" {
		return e
	}
	return defaultEmojis[attr]
}

func percent(rate float64) int {
	return int(math.Round(rate * 100))
}

// FormatProfile renders a player profile as Slack mrkdwn.
func FormatProfile(player brawlstars.Player, profile stats.Profile, emojis map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", player.Name, player.Tag)

	if player.Trophies == player.HighestTrophies {
		fmt.Fprintf(&b, "%s *Trophies:* %d\n", emojiFor(emojis, AttrTrophies), player.Trophies)
	} else {
		fmt.Fprintf(&b, "%s *Trophies:* %d (%d)\n", emojiFor(emojis, AttrTrophies), player.Trophies, player.HighestTrophies)
	}
	fmt.Fprintf(&b, "%s *Exp Level:* %d (%d points)\n", emojiFor(emojis, AttrExp), player.ExpLevel, player.ExpPoints)
	if player.Club != nil {
		fmt.Fprintf(&b, "%s *Club:* %s (%s)\n", emojiFor(emojis, AttrClub), player.Club.Name, player.Club.Tag)
	}

	b.WriteString("\n*Stats*\n_All time_\n")
	fmt.Fprintf(&b, "%s *Solo Victories:* %d\n", emojiFor(emojis, AttrSoloVictories), player.SoloVictories)
	fmt.Fprintf(&b, "%s *Duo Victories:* %d\n", emojiFor(emojis, AttrDuoVictories), player.DuoVictories)
	fmt.Fprintf(&b, "%s *3vs3 Victories:* %d\n", emojiFor(emojis, AttrTrioVictories), player.ThreeVsThreeVictories)

	if profile.Counts.Total > 0 {
		fmt.Fprintf(&b, "%s *Win rate:* %d%%\n", emojiFor(emojis, AttrWinRate), percent(profile.WinRate))
		if profile.StarPlayerCount > 0 {
			fmt.Fprintf(&b, "%s *Star player rate:* %d%%\n", emojiFor(emojis, AttrStarPlayerRate), percent(profile.StarPlayerRate))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRankings renders club rankings with medals for the top three and a
// blank line before the rest.
func FormatRankings(rankings []stats.Ranking) string {
	var b strings.Builder
	b.WriteString("Club rankings for the past seven days:")
	for i, r := range rankings {
		var position string
		switch i + 1 {
		case 1:
			position = "🥇"
		case 2:
			position = "🥈"
		case 3:
			position = "🥉"
		case 4:
			position = "\n4."
		default:
			position = fmt.Sprintf("%d.", i+1)
		}
		fmt.Fprintf(&b, "\n%s *%s* `%s` | Score: *%.2f*", position, r.Name, r.Tag, r.Score)
	}
	return b.String()
}

// FormatEvents renders the event rotation, one event per line.
func FormatEvents(slots []brawlstars.EventSlot) string {
	if len(slots) == 0 {
		return "No events are running right now."
	}
	lines := []string{"Current events:"}
	for _, s := range slots {
		lines = append(lines, fmt.Sprintf("• *%s*: %s", titleCase(s.Event.Mode), s.Event.Map))
	}
	return strings.Join(lines, "\n")
}

// titleCase turns a camelCase game mode such as "gemGrab" into "Gem Grab".
func titleCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
