package stats

import (
	"database/sql"
	"time"

	"github.com/pongclub/ladderbot/internal/elo"
	"github.com/pongclub/ladderbot/internal/ladder"
)

// Engine answers aggregate queries by joining the match ledger with the
// player store. It never mutates anything.
type Engine struct {
	db      *sql.DB
	players ladder.Store
	elo     *elo.Engine
	loc     *time.Location
	now     func() time.Time
}

// Standing is one leaderboard row.
type Standing struct {
	Player      string `json:"player"`
	Rating      int    `json:"rating"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	GamesPlayed int    `json:"games_played"`
	IsStarter   bool   `json:"is_starter"`
}

// OpponentRecord is one per-opponent head-to-head row.
type OpponentRecord struct {
	Opponent string  `json:"opponent"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Ratio    float64 `json:"ratio"`
}

// Totals is the aggregate row trailing a head-to-head breakdown. Rating and
// GamesPlayed are the player's lifetime values; Wins and Losses cover the
// queried window only.
type Totals struct {
	Rating      int     `json:"rating"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ratio       float64 `json:"ratio"`
}

// Breakdown is the full head-to-head answer for one player.
type Breakdown struct {
	Player    string           `json:"player"`
	Opponents []OpponentRecord `json:"opponents"`
	Total     Totals           `json:"total"`
}

// Profile is the full profile view for one player.
type Profile struct {
	Player         string             `json:"player"`
	Rank           int                `json:"rank"`
	Rating         int                `json:"rating"`
	Classification elo.Classification `json:"classification"`
	Total          Totals             `json:"total"`
	Opponents      []OpponentRecord   `json:"opponents"`
}

// Comparison is the versus view between two players. The deltas are computed
// from both players' current ratings as a "what would happen now" indicator;
// they are approximate, display-only, and never persisted.
type Comparison struct {
	One      string         `json:"one"`
	Two      string         `json:"two"`
	AllTime  OpponentRecord `json:"all_time"`
	Week     OpponentRecord `json:"week"`
	Month    OpponentRecord `json:"month"`
	OneDelta int            `json:"one_delta"`
	TwoDelta int            `json:"two_delta"`
}
