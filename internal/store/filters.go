package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// involvesTagFilter matches battles where tag appears in either the nested
// teams shape or the flat players shape.
func involvesTagFilter(tag string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"battle.teams": bson.M{"$elemMatch": bson.M{"$elemMatch": bson.M{"tag": tag}}}},
		bson.M{"battle.players": bson.M{"$elemMatch": bson.M{"tag": tag}}},
	}}
}

// victoryFilter matches a win or a placement at or above rankThreshold.
// Battles without a rank never match the rank clause.
func victoryFilter(rankThreshold int) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"battle.result": "victory"},
		bson.M{"battle.rank": bson.M{"$lte": rankThreshold}},
	}}
}

func battlesFilter(tag string, since time.Time) bson.M {
	clauses := bson.A{involvesTagFilter(tag)}
	if !since.IsZero() {
		clauses = append(clauses, bson.M{"battle_time": bson.M{"$gte": since.UTC()}})
	}
	return bson.M{"$and": clauses}
}

func victoriesFilter(tag string, since time.Time, rankThreshold int) bson.M {
	clauses := battlesFilter(tag, since)["$and"].(bson.A)
	return bson.M{"$and": append(clauses, victoryFilter(rankThreshold))}
}

func starPlayerFilter(tag string) bson.M {
	return bson.M{"battle.star_player.tag": tag}
}
