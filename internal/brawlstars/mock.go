package brawlstars

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetClubFunc          func(tag string) (Club, error)
	GetPlayerFunc        func(tag string) (Player, error)
	GetBattleLogFunc     func(tag string) ([]Battle, error)
	GetEventRotationFunc func() ([]EventSlot, error)

	// Call records
	GetClubCalls          []string
	GetPlayerCalls        []string
	GetBattleLogCalls     []string
	GetEventRotationCalls int
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetClubCalls = nil
	m.GetPlayerCalls = nil
	m.GetBattleLogCalls = nil
	m.GetEventRotationCalls = 0
}

func (m *MockClient) GetClub(ctx context.Context, tag string) (Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetClubCalls = append(m.GetClubCalls, tag)
	if m.GetClubFunc != nil {
		return m.GetClubFunc(tag)
	}
	return Club{}, ErrNoData
}

func (m *MockClient) GetPlayer(ctx context.Context, tag string) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, tag)
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(tag)
	}
	return Player{}, ErrNoData
}

func (m *MockClient) GetBattleLog(ctx context.Context, tag string) ([]Battle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetBattleLogCalls = append(m.GetBattleLogCalls, tag)
	if m.GetBattleLogFunc != nil {
		return m.GetBattleLogFunc(tag)
	}
	return nil, ErrNoData
}

func (m *MockClient) GetEventRotation(ctx context.Context) ([]EventSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEventRotationCalls++
	if m.GetEventRotationFunc != nil {
		return m.GetEventRotationFunc()
	}
	return nil, ErrNoData
}
