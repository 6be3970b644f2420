// Package stats derives win rates, star-player counts and club rankings from
// stored battles.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/store"
)

// ScoreWindow is the trailing window used for club scores.
const ScoreWindow = 7 * 24 * time.Hour

// ErrClubNotFound is returned when rankings are requested for a club that has
// not been ingested yet.
var ErrClubNotFound = errors.New("club not found")

// Ranking is a scored club member.
type Ranking struct {
	Tag   string  `json:"tag"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Service computes statistics on top of a store.
type Service struct {
	store         store.Store
	rankThreshold int
	now           func() time.Time
}

// New creates a stats Service using the default rank threshold.
func New(s store.Store) *Service {
	return &Service{
		store:         s,
		rankThreshold: store.DefaultRankThreshold,
		now:           time.Now,
	}
}

// WinRate is victories over total, and 0 when there were no battles.
func WinRate(c store.BattleCounts) float64 {
	if c.Total <= 0 {
		return 0
	}
	return float64(c.Victories) / float64(c.Total)
}

// Score multiplies a win rate by the star-player count, floored at one so a
// player without star awards keeps their plain win rate.
func Score(winRate float64, starPlayerCount int) float64 {
	return winRate * float64(max(starPlayerCount, 1))
}

func (s *Service) BattleCount(ctx context.Context, tag string, since time.Time) (store.BattleCounts, error) {
	return s.store.BattleCount(ctx, tag, since, s.rankThreshold)
}

func (s *Service) StarPlayerCount(ctx context.Context, tag string) (int, error) {
	return s.store.StarPlayerCount(ctx, tag)
}

// ClubScore scores a player over the last seven days.
func (s *Service) ClubScore(ctx context.Context, tag string) (float64, error) {
	counts, err := s.BattleCount(ctx, tag, s.now().Add(-ScoreWindow))
	if err != nil {
		return 0, err
	}
	stars, err := s.StarPlayerCount(ctx, tag)
	if err != nil {
		return 0, err
	}
	return Score(WinRate(counts), stars), nil
}

// ClubRankings scores every stored member of the club, best first. Members
// with equal scores keep their club order.
func (s *Service) ClubRankings(ctx context.Context, clubTag string) ([]Ranking, error) {
	club, err := s.store.GetClub(ctx, clubTag)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrClubNotFound, clubTag)
	}
	if err != nil {
		return nil, err
	}

	rankings := make([]Ranking, 0, len(club.Members))
	for _, m := range club.Members {
		score, err := s.ClubScore(ctx, m.Tag)
		if err != nil {
			return nil, fmt.Errorf("score member %s: %w", m.Tag, err)
		}
		rankings = append(rankings, Ranking{Tag: m.Tag, Name: m.Name, Score: score})
	}
	SortRankings(rankings)
	log.Debug("Computed club rankings", "club", clubTag, "members", len(rankings))
	return rankings, nil
}

// SortRankings orders rankings by descending score, keeping the input order
// for ties.
func SortRankings(rankings []Ranking) {
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
}

// Profile is the battle summary shown next to a player's profile.
type Profile struct {
	Counts          store.BattleCounts `json:"counts"`
	WinRate         float64            `json:"win_rate"`
	StarPlayerCount int                `json:"star_player_count"`
	StarPlayerRate  float64            `json:"star_player_rate"`
}

// PlayerProfile summarises all stored battles of a player.
func (s *Service) PlayerProfile(ctx context.Context, tag string) (Profile, error) {
	counts, err := s.BattleCount(ctx, tag, time.Time{})
	if err != nil {
		return Profile{}, err
	}
	stars, err := s.StarPlayerCount(ctx, tag)
	if err != nil {
		return Profile{}, err
	}
	p := Profile{
		Counts:          counts,
		WinRate:         WinRate(counts),
		StarPlayerCount: stars,
	}
	if counts.Total > 0 {
		p.StarPlayerRate = min(float64(stars)/float64(counts.Total), 1)
	}
	return p, nil
}
