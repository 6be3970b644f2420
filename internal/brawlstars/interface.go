package brawlstars

import "context"

// Client defines the interface for interacting with the Brawl Stars API.
// This allows for mock implementations to be used in tests.
type Client interface {
	GetClub(ctx context.Context, tag string) (Club, error)
	GetPlayer(ctx context.Context, tag string) (Player, error)
	GetBattleLog(ctx context.Context, tag string) ([]Battle, error)
	GetEventRotation(ctx context.Context) ([]EventSlot, error)
}
