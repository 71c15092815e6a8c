package notifier

import (
	"sync"

	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchRecordedCalls []*ladder.MatchResult
	SendLeaderboardCalls   [][]stats.Standing

	// Spies for format functions
	FormatMatchRecordedResponseFunc func(result *ladder.MatchResult, board []stats.Standing) (any, error)
	FormatLeaderboardResponseFunc   func(board []stats.Standing, window stats.Window) (any, error)
	FormatMatchesResponseFunc       func(matches []ladder.Match) (any, error)
	FormatProfileResponseFunc       func(profile stats.Profile) (any, error)
	FormatVersusResponseFunc        func(comparison stats.Comparison) (any, error)
	FormatTextResponseFunc          func(text string) (any, error)

	// Last formatted values, for assertions
	LastText string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchRecorded(result *ladder.MatchResult, board []stats.Standing, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRecordedCalls = append(m.SendMatchRecordedCalls, result)
	return nil
}

func (m *Mock) SendLeaderboard(board []stats.Standing, window stats.Window, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, board)
	return nil
}

func (m *Mock) FormatMatchRecordedResponse(result *ladder.MatchResult, board []stats.Standing) (any, error) {
	if m.FormatMatchRecordedResponseFunc != nil {
		return m.FormatMatchRecordedResponseFunc(result, board)
	}
	return result, nil
}

func (m *Mock) FormatLeaderboardResponse(board []stats.Standing, window stats.Window) (any, error) {
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(board, window)
	}
	return board, nil
}

func (m *Mock) FormatMatchesResponse(matches []ladder.Match) (any, error) {
	if m.FormatMatchesResponseFunc != nil {
		return m.FormatMatchesResponseFunc(matches)
	}
	return matches, nil
}

func (m *Mock) FormatProfileResponse(profile stats.Profile) (any, error) {
	if m.FormatProfileResponseFunc != nil {
		return m.FormatProfileResponseFunc(profile)
	}
	return profile, nil
}

func (m *Mock) FormatVersusResponse(comparison stats.Comparison) (any, error) {
	if m.FormatVersusResponseFunc != nil {
		return m.FormatVersusResponseFunc(comparison)
	}
	return comparison, nil
}

func (m *Mock) FormatTextResponse(text string) (any, error) {
	m.mu.Lock()
	m.LastText = text
	m.mu.Unlock()
	if m.FormatTextResponseFunc != nil {
		return m.FormatTextResponseFunc(text)
	}
	return text, nil
}
