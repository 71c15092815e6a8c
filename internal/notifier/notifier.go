package notifier

import (
	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/stats"
)

// Notifier defines a high-level interface for announcing ladder events and
// formatting slash-command replies. This decouples the rest of the
// application from the specific chat provider (e.g., Slack).
type Notifier interface {
	// Channel announcements
	SendMatchRecorded(result *ladder.MatchResult, board []stats.Standing, dryRun bool) error
	SendLeaderboard(board []stats.Standing, window stats.Window, dryRun bool) error

	// Formatting responses for slash commands
	FormatMatchRecordedResponse(result *ladder.MatchResult, board []stats.Standing) (any, error)
	FormatLeaderboardResponse(board []stats.Standing, window stats.Window) (any, error)
	FormatMatchesResponse(matches []ladder.Match) (any, error)
	FormatProfileResponse(profile stats.Profile) (any, error)
	FormatVersusResponse(comparison stats.Comparison) (any, error)
	FormatTextResponse(text string) (any, error)
}
