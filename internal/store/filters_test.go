package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestInvolvesTagFilter_ORsBothShapes(t *testing.T) {
	f := involvesTagFilter("#ABC123")

	clauses, ok := f["$or"].(bson.A)
	if assert.True(t, ok) {
		assert.Len(t, clauses, 2)
		assert.Equal(t, bson.M{"battle.teams": bson.M{"$elemMatch": bson.M{"$elemMatch": bson.M{"tag": "#ABC123"}}}}, clauses[0])
		assert.Equal(t, bson.M{"battle.players": bson.M{"$elemMatch": bson.M{"tag": "#ABC123"}}}, clauses[1])
	}
}

func TestBattlesFilter_Since(t *testing.T) {
	all := battlesFilter("#A", time.Time{})
	assert.Len(t, all["$and"], 1)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowed := battlesFilter("#A", since)
	clauses := windowed["$and"].(bson.A)
	assert.Len(t, clauses, 2)
	assert.Equal(t, bson.M{"battle_time": bson.M{"$gte": since}}, clauses[1])
}

func TestVictoriesFilter(t *testing.T) {
	f := victoriesFilter("#A", time.Time{}, 2)
	clauses := f["$and"].(bson.A)
	assert.Len(t, clauses, 2)
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"battle.result": "victory"},
		bson.M{"battle.rank": bson.M{"$lte": 2}},
	}}, clauses[1])
}
