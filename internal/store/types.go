package store

import "errors"

// Collection names. "discord" holds chat-user links for historical reasons.
const (
	CollectionPlayer = "player"
	CollectionClub   = "club"
	CollectionBattle = "battle"
	CollectionLink   = "discord"
	CollectionEmoji  = "emoji"
)

// DefaultRankThreshold counts a showdown placement of 2nd or better as a victory.
const DefaultRankThreshold = 2

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// BattleCounts is the win/loss tally of a player over a set of battles.
type BattleCounts struct {
	Victories int `json:"victories"`
	Defeats   int `json:"defeats"`
	Total     int `json:"total"`
}

// Link ties a chat user to a player tag. One link per user.
type Link struct {
	UserID string `bson:"user_id" json:"user_id"`
	Tag    string `bson:"tag" json:"tag"`
}

// Emoji overrides the decoration used for a profile attribute.
type Emoji struct {
	Attribute string `bson:"attribute" json:"attribute"`
	Emoji     string `bson:"emoji" json:"emoji"`
}
