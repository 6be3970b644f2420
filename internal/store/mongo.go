package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoBackend struct {
	db *mongo.Database

	indexMu sync.Mutex
	indexed atomic.Bool
}

// NewMongo creates a Store backed by a MongoDB database. The battle indexes
// are created now if the server answers, otherwise on a later battle write.
func NewMongo(ctx context.Context, db *mongo.Database) Store {
	b := &mongoBackend{db: db}
	b.ensureIndexesOnce(ctx)
	return &store{b: b}
}

// ensureIndexesOnce creates the battle indexes until one attempt succeeds.
// Failures are logged and never returned.
func (m *mongoBackend) ensureIndexesOnce(ctx context.Context) {
	if m.indexed.Load() {
		return
	}
	m.indexMu.Lock()
	defer m.indexMu.Unlock()
	if m.indexed.Load() {
		return
	}
	if err := m.ensureIndexes(ctx); err != nil {
		log.Warn("MongoDB indexes not created, will retry", "error", err)
		return
	}
	m.indexed.Store(true)
}

func (m *mongoBackend) ensureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(CollectionBattle).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "battle_time", Value: -1}}},
		{Keys: bson.D{{Key: "battle.star_player.tag", Value: 1}}},
		{Keys: bson.D{{Key: "battle.players.tag", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create battle indexes: %w", err)
	}
	log.Debug("MongoDB indexes ensured", "collection", CollectionBattle)
	return nil
}

// toDocument renders record through its bson tags and puts id in front as _id.
func toDocument(id string, record any) (bson.D, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	doc := bson.D{{Key: "_id", Value: id}}
	for _, f := range fields {
		if f.Key != "_id" {
			doc = append(doc, f)
		}
	}
	return doc, nil
}

func (m *mongoBackend) upsert(ctx context.Context, collection, id string, record, out any) (bool, error) {
	doc, err := toDocument(id, record)
	if err != nil {
		return false, err
	}
	if collection == CollectionBattle {
		m.ensureIndexesOnce(ctx)
	}
	coll := m.db.Collection(collection)
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return false, err
	}
	isNew := res.UpsertedCount > 0
	if out != nil {
		if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
			return isNew, fmt.Errorf("failed to read back document: %w", err)
		}
	}
	return isNew, nil
}

func (m *mongoBackend) get(ctx context.Context, collection, id string, out any) error {
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *mongoBackend) list(ctx context.Context, collection string, each func(decode func(any) error) error) error {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		if err := each(cursor.Decode); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *mongoBackend) delete(ctx context.Context, collection, id string) (bool, error) {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *mongoBackend) battleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error) {
	coll := m.db.Collection(CollectionBattle)

	total, err := coll.CountDocuments(ctx, battlesFilter(tag, since))
	if err != nil {
		return BattleCounts{}, err
	}
	victories, err := coll.CountDocuments(ctx, victoriesFilter(tag, since, rankThreshold))
	if err != nil {
		return BattleCounts{}, err
	}
	return BattleCounts{
		Victories: int(victories),
		Defeats:   int(total - victories),
		Total:     int(total),
	}, nil
}

func (m *mongoBackend) starPlayerCount(ctx context.Context, tag string) (int, error) {
	n, err := m.db.Collection(CollectionBattle).CountDocuments(ctx, starPlayerFilter(tag))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (m *mongoBackend) ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

func (m *mongoBackend) close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}
