package ladder

import (
	"time"

	"github.com/pongclub/ladderbot/internal/elo"
)

// Store defines the interface for the match ledger and the derived player
// state. The ledger is the single source of truth; everything else is
// reproducible through RebuildAll.
type Store interface {
	// RecordMatch applies one decided game: ratings update, the match is
	// appended to the ledger, and one history row is written per player.
	RecordMatch(winner, loser string) (*MatchResult, error)
	// ListMatches returns matches newest first. An empty player matches
	// everyone; with both player and versus set, only games between the two
	// (either direction) are returned. A zero windowStart means all-time,
	// a limit <= 0 means no limit.
	ListMatches(player, versus string, windowStart time.Time, limit int) ([]Match, error)
	// DeleteMatch removes one ledger record. The caller is expected to run
	// RebuildAll afterwards to bring derived state back in line.
	DeleteMatch(id int64) (bool, error)
	// GetPlayer returns the persisted state, or the default state for a name
	// that has never played. Unknown names are not an error.
	GetPlayer(name string) (elo.PlayerState, error)
	// GetPlayerRow returns the full row including the hidden flag, and
	// whether the player exists at all.
	GetPlayerRow(name string) (Player, bool, error)
	// SetHidden flags a player in or out of all aggregate views. Returns
	// false when the player has no record yet.
	SetHidden(name string, hidden bool) (bool, error)
	// RebuildAll truncates players and histories and replays the full ledger
	// in chronological order. Idempotent for a fixed ledger.
	RebuildAll() error
}
