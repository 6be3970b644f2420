package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client   *brawlstars.MockClient
	store    *store.Mock
	notifier *notifier.Mock
	metrics  *metrics.Mock
	pipeline *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		client:   brawlstars.NewMockClient(),
		store:    store.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
	}
	f.pipeline = New(f.client, f.store, f.notifier, f.metrics, "club1")
	return f
}

func battleAt(ts time.Time, tag string) brawlstars.Battle {
	return brawlstars.Battle{
		BattleTime: ts,
		Battle: brawlstars.BattleDetail{
			Result: "victory",
			Teams:  [][]brawlstars.Participant{{{Tag: tag}}},
		},
	}
}

func clubWith(tags ...string) brawlstars.Club {
	c := brawlstars.Club{Tag: "#CLUB1", Name: "Boss Club"}
	for _, tag := range tags {
		c.Members = append(c.Members, brawlstars.Member{Tag: tag, Name: "name " + tag})
	}
	return c
}

// captureLogs sends the default logger to a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestPipeline_Run(t *testing.T) {
	t.Run("club absent ends the run without upserts", func(t *testing.T) {
		logs := captureLogs(t)
		f := newFixture()
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return brawlstars.Club{}, brawlstars.ErrNoData
		}

		res, err := f.pipeline.Run(context.Background(), Options{})

		require.NoError(t, err)
		assert.False(t, res.ClubUpserted)
		assert.Empty(t, f.store.UpsertCalls, "Nothing should be written")
		assert.Empty(t, f.client.GetPlayerCalls)
		assert.Equal(t, 1, f.metrics.APINoData("club"))
		assert.Equal(t, 1, f.metrics.IngestRuns())
		assert.Equal(t, 0, f.metrics.IngestFailures())
		assert.Contains(t, logs.String(), "WARN")
		assert.Contains(t, logs.String(), "No club data returned, ending run")
	})

	t.Run("club tag is normalised", func(t *testing.T) {
		f := newFixture()
		_, _ = f.pipeline.Run(context.Background(), Options{})

		require.Len(t, f.client.GetClubCalls, 1)
		assert.Equal(t, "#CLUB1", f.client.GetClubCalls[0])
	})

	t.Run("stores club, players and battles in member order", func(t *testing.T) {
		f := newFixture()
		now := time.Now().UTC().Truncate(time.Second)
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{Tag: tag, Name: "name " + tag}, nil
		}
		f.client.GetBattleLogFunc = func(tag string) ([]brawlstars.Battle, error) {
			if tag == "#A" {
				return []brawlstars.Battle{battleAt(now.Add(-time.Minute), tag), battleAt(now.Add(-2*time.Minute), tag)}, nil
			}
			return []brawlstars.Battle{battleAt(now.Add(-3*time.Minute), tag)}, nil
		}

		res, err := f.pipeline.Run(context.Background(), Options{})

		require.NoError(t, err)
		assert.True(t, res.ClubUpserted)
		assert.Equal(t, 2, res.Players)
		assert.Equal(t, 3, res.Battles)
		assert.Equal(t, []string{"#A", "#B"}, f.client.GetPlayerCalls)
		assert.Equal(t, []string{"#A", "#B"}, f.client.GetBattleLogCalls)

		var order []string
		for _, c := range f.store.UpsertCalls {
			order = append(order, c.Collection+":"+c.ID)
		}
		assert.Equal(t, []string{
			"club:#CLUB1",
			"player:#A",
			"battle:" + battleAt(now.Add(-time.Minute), "#A").ID(),
			"battle:" + battleAt(now.Add(-2*time.Minute), "#A").ID(),
			"player:#B",
			"battle:" + battleAt(now.Add(-3*time.Minute), "#B").ID(),
		}, order)
		assert.Equal(t, 3, f.metrics.Upserts(store.CollectionBattle))
		assert.NotEmpty(t, res.RunID)
		assert.Len(t, f.metrics.IngestDurations(), 1)
	})

	t.Run("absent player skips to the next member", func(t *testing.T) {
		f := newFixture()
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#GONE", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			if tag == "#GONE" {
				return brawlstars.Player{}, brawlstars.ErrNoData
			}
			return brawlstars.Player{Tag: tag}, nil
		}

		res, err := f.pipeline.Run(context.Background(), Options{})

		require.NoError(t, err)
		assert.Equal(t, 1, res.SkippedMembers)
		assert.Equal(t, 1, res.Players)
		assert.Equal(t, []string{"#B"}, f.client.GetBattleLogCalls, "No battle log fetch for a skipped member")
		assert.Equal(t, 1, f.metrics.APINoData("player"))
		assert.Equal(t, 1, f.metrics.APINoData("battlelog"), "The mock returns no battle log by default")
	})

	t.Run("first run records the roster without welcomes", func(t *testing.T) {
		f := newFixture()
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{Tag: tag}, nil
		}

		res, err := f.pipeline.Run(context.Background(), Options{})

		require.NoError(t, err)
		assert.Equal(t, 2, res.NewPlayers)
		assert.Equal(t, 0, res.NewMembers)
		assert.Equal(t, 0, f.notifier.NewMemberCount())
	})

	t.Run("members who join are welcomed once", func(t *testing.T) {
		f := newFixture()
		_, err := f.store.UpsertClub(context.Background(), clubWith("#A"))
		require.NoError(t, err)
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{Tag: tag, Name: "name " + tag}, nil
		}

		res, err := f.pipeline.Run(context.Background(), Options{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 1, res.NewMembers)

		res, err = f.pipeline.Run(context.Background(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, res.NewMembers)
		assert.Equal(t, 0, res.NewPlayers)

		require.Equal(t, 1, f.notifier.NewMemberCount())
		assert.Equal(t, "#B", f.notifier.SendNewMemberCalls[0].Tag)
		assert.Equal(t, 2, f.metrics.NewUpserts(store.CollectionPlayer))
		assert.Equal(t, 4, f.metrics.Upserts(store.CollectionPlayer))
	})

	t.Run("linked player who joins later is welcomed", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		_, err := f.store.UpsertClub(ctx, clubWith("#A"))
		require.NoError(t, err)
		_, err = f.store.UpsertPlayer(ctx, brawlstars.Player{Tag: "#L", Name: "Linked"})
		require.NoError(t, err)
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#L"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{Tag: tag}, nil
		}

		res, err := f.pipeline.Run(ctx, Options{})

		require.NoError(t, err)
		assert.Equal(t, 0, res.NewPlayers)
		assert.Equal(t, 1, res.NewMembers)
		require.Equal(t, 1, f.notifier.NewMemberCount())
		assert.Equal(t, "#L", f.notifier.SendNewMemberCalls[0].Tag)
	})

	t.Run("notification failure does not end the run", func(t *testing.T) {
		f := newFixture()
		_, err := f.store.UpsertClub(context.Background(), clubWith())
		require.NoError(t, err)
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{Tag: tag}, nil
		}
		f.notifier.SendNewMemberFunc = func(brawlstars.Player) error {
			return errors.New("slack down")
		}

		res, err := f.pipeline.Run(context.Background(), Options{})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Players)
		assert.Equal(t, 2, f.notifier.NewMemberCount())
	})

	t.Run("transport error ends the run", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("connection reset")
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A", "#B"), nil
		}
		f.client.GetPlayerFunc = func(tag string) (brawlstars.Player, error) {
			return brawlstars.Player{}, boom
		}

		_, err := f.pipeline.Run(context.Background(), Options{})

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"#A"}, f.client.GetPlayerCalls, "The run should stop at the first failure")
		assert.Equal(t, 1, f.metrics.IngestFailures())
	})

	t.Run("store error ends the run", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("disk full")
		f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
			return clubWith("#A"), nil
		}
		f.store.UpsertFunc = func(collection, id string, record any) (bool, error) {
			return false, boom
		}

		_, err := f.pipeline.Run(context.Background(), Options{})

		assert.ErrorIs(t, err, boom)
		assert.Empty(t, f.client.GetPlayerCalls)
	})
}

func TestPipeline_SkipsOverlappingRuns(t *testing.T) {
	f := newFixture()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.client.GetClubFunc = func(tag string) (brawlstars.Club, error) {
		close(entered)
		<-release
		return brawlstars.Club{}, brawlstars.ErrNoData
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.pipeline.Run(context.Background(), Options{})
		assert.NoError(t, err)
	}()

	<-entered
	_, err := f.pipeline.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	wg.Wait()
	assert.Equal(t, 1, f.metrics.IngestRuns())
	assert.Equal(t, 1, f.metrics.IngestSkipped())
}
