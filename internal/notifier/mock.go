package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendNewMemberFunc func(player brawlstars.Player) error
	SendRankingsFunc  func(clubName string, rankings []stats.Ranking) error

	// Call records
	SendNewMemberCalls []brawlstars.Player
	SendRankingsCalls  []struct {
		ClubName string
		Rankings []stats.Ranking
		DryRun   bool
	}
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendNewMember(ctx context.Context, player brawlstars.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNewMemberCalls = append(m.SendNewMemberCalls, player)
	if m.SendNewMemberFunc != nil {
		return m.SendNewMemberFunc(player)
	}
	return nil
}

func (m *Mock) SendRankings(ctx context.Context, clubName string, rankings []stats.Ranking, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRankingsCalls = append(m.SendRankingsCalls, struct {
		ClubName string
		Rankings []stats.Ranking
		DryRun   bool
	}{clubName, rankings, dryRun})
	if m.SendRankingsFunc != nil {
		return m.SendRankingsFunc(clubName, rankings)
	}
	return nil
}

// NewMemberCount returns the number of new member notifications sent.
func (m *Mock) NewMemberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendNewMemberCalls)
}
