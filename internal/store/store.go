package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
)

type store struct {
	b backend
}

var _ Store = (*store)(nil)

func (s *store) Upsert(ctx context.Context, collection, id string, record, out any) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("upsert into %s: empty id", collection)
	}
	isNew, err := s.b.upsert(ctx, collection, id, record, out)
	if err != nil {
		return false, fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	log.Debug("Upserted document", "collection", collection, "id", id, "new", isNew)
	return isNew, nil
}

func (s *store) UpsertPlayer(ctx context.Context, player brawlstars.Player) (bool, error) {
	return s.Upsert(ctx, CollectionPlayer, player.Tag, player, nil)
}

func (s *store) UpsertClub(ctx context.Context, club brawlstars.Club) (bool, error) {
	return s.Upsert(ctx, CollectionClub, club.Tag, club, nil)
}

func (s *store) UpsertBattle(ctx context.Context, battle brawlstars.Battle) (bool, error) {
	return s.Upsert(ctx, CollectionBattle, battle.ID(), battle, nil)
}

func (s *store) UpsertLink(ctx context.Context, link Link) (bool, error) {
	return s.Upsert(ctx, CollectionLink, link.UserID, link, nil)
}

func (s *store) UpsertEmoji(ctx context.Context, emoji Emoji) (bool, error) {
	return s.Upsert(ctx, CollectionEmoji, emoji.Attribute, emoji, nil)
}

func (s *store) GetPlayer(ctx context.Context, tag string) (brawlstars.Player, error) {
	var player brawlstars.Player
	if err := s.b.get(ctx, CollectionPlayer, tag, &player); err != nil {
		return brawlstars.Player{}, fmt.Errorf("get player %s: %w", tag, err)
	}
	return player, nil
}

func (s *store) GetClub(ctx context.Context, tag string) (brawlstars.Club, error) {
	var club brawlstars.Club
	if err := s.b.get(ctx, CollectionClub, tag, &club); err != nil {
		return brawlstars.Club{}, fmt.Errorf("get club %s: %w", tag, err)
	}
	return club, nil
}

func (s *store) GetLink(ctx context.Context, userID string) (Link, error) {
	var link Link
	if err := s.b.get(ctx, CollectionLink, userID, &link); err != nil {
		return Link{}, fmt.Errorf("get link %s: %w", userID, err)
	}
	return link, nil
}

// PlayerFromUserID resolves a chat user to the player they linked.
func (s *store) PlayerFromUserID(ctx context.Context, userID string) (brawlstars.Player, error) {
	link, err := s.GetLink(ctx, userID)
	if err != nil {
		return brawlstars.Player{}, err
	}
	return s.GetPlayer(ctx, link.Tag)
}

func (s *store) Emojis(ctx context.Context) (map[string]string, error) {
	emojis := make(map[string]string)
	err := s.b.list(ctx, CollectionEmoji, func(decode func(any) error) error {
		var e Emoji
		if err := decode(&e); err != nil {
			return err
		}
		emojis[e.Attribute] = e.Emoji
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list emojis: %w", err)
	}
	return emojis, nil
}

func (s *store) Delete(ctx context.Context, collection, id string) (bool, error) {
	deleted, err := s.b.delete(ctx, collection, id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return deleted, nil
}

func (s *store) DeleteLink(ctx context.Context, userID string) (bool, error) {
	return s.Delete(ctx, CollectionLink, userID)
}

func (s *store) BattleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error) {
	counts, err := s.b.battleCount(ctx, tag, since, rankThreshold)
	if err != nil {
		return BattleCounts{}, fmt.Errorf("battle count %s: %w", tag, err)
	}
	return counts, nil
}

func (s *store) StarPlayerCount(ctx context.Context, tag string) (int, error) {
	n, err := s.b.starPlayerCount(ctx, tag)
	if err != nil {
		return 0, fmt.Errorf("star player count %s: %w", tag, err)
	}
	return n, nil
}

// Ping reports whether the database is reachable.
func (s *store) Ping(ctx context.Context) bool {
	if err := s.b.ping(ctx); err != nil {
		log.Warn("Store ping failed", "error", err)
		return false
	}
	return true
}

func (s *store) Close(ctx context.Context) error {
	return s.b.close(ctx)
}
