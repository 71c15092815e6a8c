package ladder

import (
	"database/sql"
	"sync"
	"time"

	"github.com/pongclub/ladderbot/internal/elo"
)

// timeFormat is how timestamps are stored. RFC3339 in UTC sorts and compares
// lexicographically, which the window filters rely on.
const timeFormat = time.RFC3339

// store handles all database operations for the ladder.
type store struct {
	db     *sql.DB
	engine *elo.Engine
	mu     sync.RWMutex
	now    func() time.Time
}

// Match is one immutable ledger record.
type Match struct {
	ID        int64     `json:"id"`
	Winner    string    `json:"winner"`
	Loser     string    `json:"loser"`
	CreatedAt time.Time `json:"created_at"`
}

// Player is the persisted derived state for one name.
type Player struct {
	Name        string    `json:"name"`
	Rating      int       `json:"rating"`
	GamesPlayed int       `json:"games_played"`
	Pro         bool      `json:"is_pro"`
	Hidden      bool      `json:"is_hidden"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchResult is what RecordMatch reports back for display.
type MatchResult struct {
	MatchID      int64  `json:"match_id"`
	Winner       string `json:"winner"`
	Loser        string `json:"loser"`
	WinnerRating int    `json:"winner_rating"`
	LoserRating  int    `json:"loser_rating"`
	WinnerDelta  int    `json:"winner_delta"`
	LoserDelta   int    `json:"loser_delta"`
}

// State converts a player row to its rating-engine view.
func (p Player) State() elo.PlayerState {
	return elo.PlayerState{Rating: p.Rating, GamesPlayed: p.GamesPlayed, Pro: p.Pro}
}
