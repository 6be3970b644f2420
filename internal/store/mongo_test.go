package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

// startMongo runs a throwaway MongoDB container for the duration of the test.
func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate mongodb container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	return uri
}

func TestMongoStore(t *testing.T) {
	uri := startMongo(t)
	var n atomic.Int32

	runStoreContract(t, func(t *testing.T) Store {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// A fresh database per subtest keeps them independent.
		_, db, err := database.ConnectMongo(ctx, uri, fmt.Sprintf("brawlboss_test_%d", n.Add(1)))
		require.NoError(t, err)

		s := NewMongo(ctx, db)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = s.Close(context.Background())
		})
		return s
	})
}

func TestMongoStore_DocumentShape(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	client, db, err := database.ConnectMongo(ctx, uri, "brawlboss_shape")
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	s := NewMongo(ctx, db)

	_, err = s.UpsertPlayer(ctx, brawlstars.Player{Tag: "#ABC123", ThreeVsThreeVictories: 42})
	require.NoError(t, err)

	var raw bson.M
	err = db.Collection(CollectionPlayer).FindOne(ctx, bson.M{"_id": "#ABC123"}).Decode(&raw)
	require.NoError(t, err)
	assert.Equal(t, "#ABC123", raw["tag"])
	assert.EqualValues(t, 42, raw["three_vs_three_victories"])

	count, err := db.Collection(CollectionPlayer).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNewMongo_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, db, err := database.ConnectMongo(ctx, "mongodb://127.0.0.1:1/", "brawlboss_down")
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Second)
	defer cancelIndex()
	s := NewMongo(indexCtx, db)
	require.NotNil(t, s)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), time.Second)
	defer cancelPing()
	assert.False(t, s.Ping(pingCtx))

	writeCtx, cancelWrite := context.WithTimeout(context.Background(), time.Second)
	defer cancelWrite()
	_, err = s.UpsertBattle(writeCtx, brawlstars.Battle{BattleTime: time.Unix(1700000000, 0).UTC()})
	assert.Error(t, err)
}

func TestMongoStore_RetriesIndexesOnBattleWrite(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	client, db, err := database.ConnectMongo(ctx, uri, "brawlboss_indexes")
	require.NoError(t, err)
	defer client.Disconnect(ctx)
	defer db.Drop(ctx)

	// An expired context makes the first attempt fail.
	expired, cancel := context.WithCancel(ctx)
	cancel()
	s := NewMongo(expired, db)

	_, err = s.UpsertBattle(ctx, brawlstars.Battle{BattleTime: time.Unix(1700000000, 0).UTC()})
	require.NoError(t, err)

	cursor, err := db.Collection(CollectionBattle).Indexes().List(ctx)
	require.NoError(t, err)
	var indexes []bson.M
	require.NoError(t, cursor.All(ctx, &indexes))
	assert.Len(t, indexes, 4, "_id plus the three battle indexes")
}
