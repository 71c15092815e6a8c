package ladder

import (
	"sync"
	"time"

	"github.com/pongclub/ladderbot/internal/elo"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	RecordMatchFunc  func(winner, loser string) (*MatchResult, error)
	ListMatchesFunc  func(player, versus string, windowStart time.Time, limit int) ([]Match, error)
	DeleteMatchFunc  func(id int64) (bool, error)
	GetPlayerFunc    func(name string) (elo.PlayerState, error)
	GetPlayerRowFunc func(name string) (Player, bool, error)
	SetHiddenFunc    func(name string, hidden bool) (bool, error)
	RebuildAllFunc   func() error

	// Call records
	RecordMatchCalls []struct{ Winner, Loser string }
	DeleteMatchCalls []int64
	SetHiddenCalls   []struct {
		Name   string
		Hidden bool
	}
	RebuildAllCalls int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) RecordMatch(winner, loser string) (*MatchResult, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, struct{ Winner, Loser string }{winner, loser})
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(winner, loser)
	}
	return &MatchResult{MatchID: 1, Winner: winner, Loser: loser}, nil
}

func (m *MockStore) ListMatches(player, versus string, windowStart time.Time, limit int) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(player, versus, windowStart, limit)
	}
	return nil, nil
}

func (m *MockStore) DeleteMatch(id int64) (bool, error) {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(id)
	}
	return true, nil
}

func (m *MockStore) GetPlayer(name string) (elo.PlayerState, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(name)
	}
	return elo.PlayerState{Rating: 1000}, nil
}

func (m *MockStore) GetPlayerRow(name string) (Player, bool, error) {
	if m.GetPlayerRowFunc != nil {
		return m.GetPlayerRowFunc(name)
	}
	return Player{}, false, nil
}

func (m *MockStore) SetHidden(name string, hidden bool) (bool, error) {
	m.mu.Lock()
	m.SetHiddenCalls = append(m.SetHiddenCalls, struct {
		Name   string
		Hidden bool
	}{name, hidden})
	m.mu.Unlock()
	if m.SetHiddenFunc != nil {
		return m.SetHiddenFunc(name, hidden)
	}
	return true, nil
}

func (m *MockStore) RebuildAll() error {
	m.mu.Lock()
	m.RebuildAllCalls++
	m.mu.Unlock()
	if m.RebuildAllFunc != nil {
		return m.RebuildAllFunc()
	}
	return nil
}
