package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	MatchesRecordedCount  int
	MatchesDeletedCount   int
	RebuildRunsCount      int
	RebuildDurations      []float64
	SlackNotifSentCount   int
	SlackNotifFailedCount int
	StartupTimes          []float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesRecordedCount++
}

func (m *Mock) IncMatchesDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesDeletedCount++
}

func (m *Mock) IncRebuildRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RebuildRunsCount++
}

func (m *Mock) ObserveRebuildDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RebuildDurations = append(m.RebuildDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCount++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCount++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
