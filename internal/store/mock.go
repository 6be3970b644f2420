package store

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
)

// Mock is a mock implementation of the Store interface for testing.
// Unless a hook is set, upserts are kept in memory so isNew behaves like a
// real store. It is safe for concurrent use.
type Mock struct {
	mu   sync.Mutex
	docs map[string]map[string]any

	// Spies for method calls
	UpsertFunc          func(collection, id string, record any) (bool, error)
	GetPlayerFunc       func(tag string) (brawlstars.Player, error)
	GetClubFunc         func(tag string) (brawlstars.Club, error)
	GetLinkFunc         func(userID string) (Link, error)
	EmojisFunc          func() (map[string]string, error)
	DeleteFunc          func(collection, id string) (bool, error)
	BattleCountFunc     func(tag string, since time.Time, rankThreshold int) (BattleCounts, error)
	StarPlayerCountFunc func(tag string) (int, error)
	PingFunc            func() bool

	// Call records
	UpsertCalls      []UpsertCall
	DeleteCalls      []string
	BattleCountCalls []BattleCountCall
}

type UpsertCall struct {
	Collection string
	ID         string
	Record     any
	IsNew      bool
}

type BattleCountCall struct {
	Tag           string
	Since         time.Time
	RankThreshold int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{docs: make(map[string]map[string]any)}
}

// UpsertsFor returns the recorded upserts into one collection.
func (m *Mock) UpsertsFor(collection string) []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []UpsertCall
	for _, c := range m.UpsertCalls {
		if c.Collection == collection {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *Mock) Upsert(ctx context.Context, collection, id string, record, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		isNew bool
		err   error
	)
	if m.UpsertFunc != nil {
		isNew, err = m.UpsertFunc(collection, id, record)
	} else {
		if m.docs[collection] == nil {
			m.docs[collection] = make(map[string]any)
		}
		_, exists := m.docs[collection][id]
		m.docs[collection][id] = record
		isNew = !exists
	}
	if err != nil {
		return false, err
	}
	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{Collection: collection, ID: id, Record: record, IsNew: isNew})
	return isNew, nil
}

func (m *Mock) UpsertPlayer(ctx context.Context, player brawlstars.Player) (bool, error) {
	return m.Upsert(ctx, CollectionPlayer, player.Tag, player, nil)
}

func (m *Mock) UpsertClub(ctx context.Context, club brawlstars.Club) (bool, error) {
	return m.Upsert(ctx, CollectionClub, club.Tag, club, nil)
}

func (m *Mock) UpsertBattle(ctx context.Context, battle brawlstars.Battle) (bool, error) {
	return m.Upsert(ctx, CollectionBattle, battle.ID(), battle, nil)
}

func (m *Mock) UpsertLink(ctx context.Context, link Link) (bool, error) {
	return m.Upsert(ctx, CollectionLink, link.UserID, link, nil)
}

func (m *Mock) UpsertEmoji(ctx context.Context, emoji Emoji) (bool, error) {
	return m.Upsert(ctx, CollectionEmoji, emoji.Attribute, emoji, nil)
}

func (m *Mock) GetPlayer(ctx context.Context, tag string) (brawlstars.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(tag)
	}
	if p, ok := m.docs[CollectionPlayer][tag].(brawlstars.Player); ok {
		return p, nil
	}
	return brawlstars.Player{}, ErrNotFound
}

func (m *Mock) GetClub(ctx context.Context, tag string) (brawlstars.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetClubFunc != nil {
		return m.GetClubFunc(tag)
	}
	if c, ok := m.docs[CollectionClub][tag].(brawlstars.Club); ok {
		return c, nil
	}
	return brawlstars.Club{}, ErrNotFound
}

func (m *Mock) GetLink(ctx context.Context, userID string) (Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLinkFunc != nil {
		return m.GetLinkFunc(userID)
	}
	if l, ok := m.docs[CollectionLink][userID].(Link); ok {
		return l, nil
	}
	return Link{}, ErrNotFound
}

func (m *Mock) PlayerFromUserID(ctx context.Context, userID string) (brawlstars.Player, error) {
	link, err := m.GetLink(ctx, userID)
	if err != nil {
		return brawlstars.Player{}, err
	}
	return m.GetPlayer(ctx, link.Tag)
}

func (m *Mock) Emojis(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EmojisFunc != nil {
		return m.EmojisFunc()
	}
	emojis := make(map[string]string)
	for _, doc := range m.docs[CollectionEmoji] {
		if e, ok := doc.(Emoji); ok {
			emojis[e.Attribute] = e.Emoji
		}
	}
	return emojis, nil
}

func (m *Mock) Delete(ctx context.Context, collection, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, collection+"/"+id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(collection, id)
	}
	_, exists := m.docs[collection][id]
	delete(m.docs[collection], id)
	return exists, nil
}

func (m *Mock) DeleteLink(ctx context.Context, userID string) (bool, error) {
	return m.Delete(ctx, CollectionLink, userID)
}

func (m *Mock) BattleCount(ctx context.Context, tag string, since time.Time, rankThreshold int) (BattleCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BattleCountCalls = append(m.BattleCountCalls, BattleCountCall{Tag: tag, Since: since, RankThreshold: rankThreshold})
	if m.BattleCountFunc != nil {
		return m.BattleCountFunc(tag, since, rankThreshold)
	}
	return BattleCounts{}, nil
}

func (m *Mock) StarPlayerCount(ctx context.Context, tag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StarPlayerCountFunc != nil {
		return m.StarPlayerCountFunc(tag)
	}
	return 0, nil
}

func (m *Mock) Ping(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PingFunc != nil {
		return m.PingFunc()
	}
	return true
}

func (m *Mock) Close(ctx context.Context) error {
	return nil
}
