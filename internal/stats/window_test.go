package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	loc := time.FixedZone("local", -8*3600)
	// Wednesday noon, local time.
	now := time.Date(2024, 5, 15, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		window Window
		want   time.Time
	}{
		{WindowToday, time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)},
		{WindowWeek, time.Date(2024, 5, 13, 8, 0, 0, 0, time.UTC)},
		{WindowMonth, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{Window7Day, time.Date(2024, 5, 8, 8, 0, 0, 0, time.UTC)},
		{Window30Day, time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)},
		{WindowAll, time.Date(2015, 1, 1, 8, 0, 0, 0, time.UTC)},
		{Window(""), time.Date(2015, 1, 1, 8, 0, 0, 0, time.UTC)},
		{Window("fortnight"), time.Date(2015, 1, 1, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			got := ResolveWindow(tt.window, now, loc)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolveWindow_LocalDateBehindUTC(t *testing.T) {
	loc := time.FixedZone("local", -8*3600)
	// Early UTC morning is still the previous local day.
	now := time.Date(2024, 5, 15, 5, 0, 0, 0, time.UTC)

	got := ResolveWindow(WindowToday, now, loc)
	assert.True(t, time.Date(2024, 5, 14, 8, 0, 0, 0, time.UTC).Equal(got), "got %s", got)
}

func TestResolveWindow_WeekOnMonday(t *testing.T) {
	loc := time.UTC
	// Monday itself resolves to its own midnight.
	now := time.Date(2024, 5, 13, 15, 0, 0, 0, time.UTC)

	got := ResolveWindow(WindowWeek, now, loc)
	assert.True(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC).Equal(got), "got %s", got)
}

func TestResolveWindow_WeekOnSunday(t *testing.T) {
	loc := time.UTC
	// Sunday belongs to the week that started the previous Monday.
	now := time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC)

	got := ResolveWindow(WindowWeek, now, loc)
	assert.True(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC).Equal(got), "got %s", got)
}
