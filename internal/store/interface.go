package store

import (
	"context"
	"time"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
)

// Store defines the interface for the document store holding players, clubs,
// battles, chat links and emoji overrides.
type Store interface {
	// Upsert replaces the whole document stored under id, creating it when
	// absent. When out is non-nil the stored document is decoded into it.
	Upsert(ctx context.Context, collection, id string, record, out any) (isNew bool, err error)
	UpsertPlayer(ctx context.Context, player brawlstars.Player) (bool, error)
	UpsertClub(ctx context.Context, club brawlstars.Club) (bool, error)
	UpsertBattle(ctx context.Context, battle brawlstars.Battle) (bool, error)
	UpsertLink(ctx context.Context, link Link) (bool, error)
	UpsertEmoji(ctx context.Context, emoji Emoji) (bool, error)

	GetPlayer(ctx context.Context, tag string) (brawlstars.Player, error)
	GetClub(ctx context.Context, tag string) (brawlstars.Club, error)
	GetLink(ctx context.Context, userID string) (Link, error)
	PlayerFromUserID(ctx context.Context, userID string) (brawlstars.Player, error)
	Emojis(ctx context.Context) (map[string]string, error)

	Delete(ctx context.Context, collection, id string) (bool, error)
	DeleteLink(ctx context.Context, userID string) (bool, error)

	// BattleCount tallies battles involving tag since the given time. A zero
	// since counts all stored battles.
	BattleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error)
	StarPlayerCount(ctx context.Context, tag string) (int, error)

	Ping(ctx context.Context) bool
	Close(ctx context.Context) error
}

// backend is the storage-engine specific half of a Store.
type backend interface {
	upsert(ctx context.Context, collection, id string, record, out any) (bool, error)
	get(ctx context.Context, collection, id string, out any) error
	list(ctx context.Context, collection string, each func(decode func(out any) error) error) error
	delete(ctx context.Context, collection, id string) (bool, error)
	battleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error)
	starPlayerCount(ctx context.Context, tag string) (int, error)
	ping(ctx context.Context) error
	close(ctx context.Context) error
}
