package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func participant(tag string) brawlstars.Participant {
	return brawlstars.Participant{Tag: tag, Name: "name " + tag, Brawler: brawlstars.BattleBrawler{ID: 1, Name: "SHELLY"}}
}

func teamBattle(at time.Time, result string, tags ...string) brawlstars.Battle {
	return brawlstars.Battle{
		BattleTime: at,
		Event:      brawlstars.Event{ID: 1, Mode: "gemGrab", Map: "Hard Rock Mine"},
		Battle: brawlstars.BattleDetail{
			Mode:   "gemGrab",
			Type:   "ranked",
			Result: result,
			Teams: [][]brawlstars.Participant{
				{participant(tags[0])},
				{participant("#ENEMY")},
			},
		},
	}
}

func soloBattle(at time.Time, rank int, tag string) brawlstars.Battle {
	return brawlstars.Battle{
		BattleTime: at,
		Event:      brawlstars.Event{ID: 2, Mode: "soloShowdown", Map: "Skull Creek"},
		Battle: brawlstars.BattleDetail{
			Mode:    "soloShowdown",
			Type:    "ranked",
			Rank:    intPtr(rank),
			Players: []brawlstars.Participant{participant(tag), participant("#OTHER")},
		},
	}
}

// runStoreContract exercises behaviour every Store backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("upsert reports isNew from the write", func(t *testing.T) {
		s := newStore(t)

		isNew, err := s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#ABC123", Name: "First"})
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#ABC123", Name: "Second", Trophies: 10})
		require.NoError(t, err)
		assert.False(t, isNew)

		player, err := s.GetPlayer(ctx, "#ABC123")
		require.NoError(t, err)
		assert.Equal(t, "Second", player.Name)
		assert.Equal(t, 10, player.Trophies)
	})

	t.Run("upsert replaces the whole document", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#P", Name: "P", Club: &brawlstars.PlayerClub{Tag: "#C", Name: "C"}})
		require.NoError(t, err)
		_, err = s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#P", Name: "P"})
		require.NoError(t, err)

		player, err := s.GetPlayer(ctx, "#P")
		require.NoError(t, err)
		assert.Nil(t, player.Club)
	})

	t.Run("upsert returns the stored document", func(t *testing.T) {
		s := newStore(t)

		var stored brawlstars.Club
		isNew, err := s.Upsert(ctx, CollectionClub, "#CLUB", brawlstars.Club{
			Tag:     "#CLUB",
			Name:    "Boss Club",
			Members: []brawlstars.Member{{Tag: "#A", Name: "A"}, {Tag: "#B", Name: "B"}},
		}, &stored)
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.Equal(t, "Boss Club", stored.Name)
		require.Len(t, stored.Members, 2)
		assert.Equal(t, "#B", stored.Members[1].Tag)
	})

	t.Run("duel brawlers are kept", func(t *testing.T) {
		s := newStore(t)

		duel := brawlstars.Battle{
			BattleTime: now,
			Event:      brawlstars.Event{ID: 3, Mode: "duels", Map: "Rockwall Brawl"},
			Battle: brawlstars.BattleDetail{
				Mode:   "duels",
				Result: "victory",
				Players: []brawlstars.Participant{{
					Tag:  "#DUEL",
					Name: "Duelist",
					Brawlers: []brawlstars.BattleBrawler{
						{ID: 1, Name: "SHELLY", Power: 11},
						{ID: 2, Name: "COLT", Power: 9},
					},
				}},
			},
		}
		var stored brawlstars.Battle
		_, err := s.Upsert(ctx, CollectionBattle, duel.ID(), duel, &stored)
		require.NoError(t, err)
		require.Len(t, stored.Battle.Players, 1)
		require.Len(t, stored.Battle.Players[0].Brawlers, 2)
		assert.Equal(t, "COLT", stored.Battle.Players[0].Brawlers[1].Name)
	})

	t.Run("get missing document", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetClub(ctx, "#NOPE")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("battle involves tag in both shapes", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertBattle(ctx, teamBattle(now.Add(-time.Hour), "victory", "#ABC123"))
		require.NoError(t, err)
		_, err = s.UpsertBattle(ctx, soloBattle(now.Add(-2*time.Hour), 5, "#ABC123"))
		require.NoError(t, err)
		_, err = s.UpsertBattle(ctx, teamBattle(now.Add(-3*time.Hour), "victory", "#SOMEONE"))
		require.NoError(t, err)

		counts, err := s.BattleCount(ctx, "#ABC123", time.Time{}, DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, BattleCounts{Victories: 1, Defeats: 1, Total: 2}, counts)

		counts, err = s.BattleCount(ctx, "#ENEMY", time.Time{}, DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, 2, counts.Total)
	})

	t.Run("victory by result or rank", func(t *testing.T) {
		s := newStore(t)

		battles := []brawlstars.Battle{
			teamBattle(now.Add(-1*time.Minute), "victory", "#ME"),
			teamBattle(now.Add(-2*time.Minute), "defeat", "#ME"),
			teamBattle(now.Add(-3*time.Minute), "draw", "#ME"),
			soloBattle(now.Add(-4*time.Minute), 1, "#ME"),
			soloBattle(now.Add(-5*time.Minute), 2, "#ME"),
			soloBattle(now.Add(-6*time.Minute), 3, "#ME"),
		}
		for _, b := range battles {
			_, err := s.UpsertBattle(ctx, b)
			require.NoError(t, err)
		}

		counts, err := s.BattleCount(ctx, "#ME", time.Time{}, DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, BattleCounts{Victories: 3, Defeats: 3, Total: 6}, counts)

		counts, err = s.BattleCount(ctx, "#ME", time.Time{}, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, counts.Victories)
	})

	t.Run("battle count window", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertBattle(ctx, teamBattle(now.Add(-24*time.Hour), "victory", "#ME"))
		require.NoError(t, err)
		_, err = s.UpsertBattle(ctx, teamBattle(now.Add(-10*24*time.Hour), "victory", "#ME"))
		require.NoError(t, err)

		counts, err := s.BattleCount(ctx, "#ME", now.AddDate(0, 0, -7), DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Total)

		counts, err = s.BattleCount(ctx, "#ME", time.Time{}, DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, 2, counts.Total)
	})

	t.Run("battle id is the timestamp", func(t *testing.T) {
		s := newStore(t)

		at := now.Add(-time.Hour)
		isNew, err := s.UpsertBattle(ctx, teamBattle(at, "victory", "#ME"))
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = s.UpsertBattle(ctx, teamBattle(at, "defeat", "#ME"))
		require.NoError(t, err)
		assert.False(t, isNew)

		counts, err := s.BattleCount(ctx, "#ME", time.Time{}, DefaultRankThreshold)
		require.NoError(t, err)
		assert.Equal(t, BattleCounts{Victories: 0, Defeats: 1, Total: 1}, counts)
	})

	t.Run("star player count", func(t *testing.T) {
		s := newStore(t)

		starred := teamBattle(now.Add(-time.Hour), "victory", "#ME")
		sp := participant("#ME")
		starred.Battle.StarPlayer = &sp
		_, err := s.UpsertBattle(ctx, starred)
		require.NoError(t, err)
		_, err = s.UpsertBattle(ctx, teamBattle(now.Add(-2*time.Hour), "victory", "#ME"))
		require.NoError(t, err)

		n, err := s.StarPlayerCount(ctx, "#ME")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = s.StarPlayerCount(ctx, "#ENEMY")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("links", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#ME", Name: "Me"})
		require.NoError(t, err)
		isNew, err := s.UpsertLink(ctx, Link{UserID: "U123", Tag: "#ME"})
		require.NoError(t, err)
		assert.True(t, isNew)

		player, err := s.PlayerFromUserID(ctx, "U123")
		require.NoError(t, err)
		assert.Equal(t, "Me", player.Name)

		deleted, err := s.DeleteLink(ctx, "U123")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeleteLink(ctx, "U123")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.PlayerFromUserID(ctx, "U123")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("emojis", func(t *testing.T) {
		s := newStore(t)

		_, err := s.UpsertEmoji(ctx, Emoji{Attribute: "trophies", Emoji: ":trophy:"})
		require.NoError(t, err)
		_, err = s.UpsertEmoji(ctx, Emoji{Attribute: "club", Emoji: ":crossed_swords:"})
		require.NoError(t, err)
		_, err = s.UpsertEmoji(ctx, Emoji{Attribute: "trophies", Emoji: ":medal:"})
		require.NoError(t, err)

		emojis, err := s.Emojis(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"trophies": ":medal:", "club": ":crossed_swords:"}, emojis)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.True(t, s.Ping(ctx))
	})
}
