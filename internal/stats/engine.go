package stats

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/pongclub/ladderbot/internal/elo"
	"github.com/pongclub/ladderbot/internal/ladder"
)

const timeFormat = time.RFC3339

// New creates a stats engine. utcOffsetHours is the fixed local offset used
// to anchor calendar windows (the club plays in one timezone).
func New(db *sql.DB, players ladder.Store, eloEngine *elo.Engine, utcOffsetHours int) *Engine {
	return NewWithNow(db, players, eloEngine, utcOffsetHours, time.Now)
}

// NewWithNow creates a stats engine with an injectable clock. Used for testing.
func NewWithNow(db *sql.DB, players ladder.Store, eloEngine *elo.Engine, utcOffsetHours int, now func() time.Time) *Engine {
	return &Engine{
		db:      db,
		players: players,
		elo:     eloEngine,
		loc:     time.FixedZone("local", utcOffsetHours*3600),
		now:     now,
	}
}

// Leaderboard ranks all non-hidden players by their win/loss record over the
// window. Matches against hidden opponents are not counted. Non-starters rank
// above starters regardless of rating; within each group, rating descends.
// An empty window defaults to the rolling 30 days.
func (e *Engine) Leaderboard(window Window) ([]Standing, error) {
	if window == "" {
		window = Window30Day
	}
	start := e.WindowStart(window)

	rows, err := e.db.Query(`
		SELECT p.name, p.rating, p.games_played,
			SUM(CASE WHEN m.winner = p.name THEN 1 ELSE 0 END) AS wins,
			SUM(CASE WHEN m.loser = p.name THEN 1 ELSE 0 END) AS losses
		FROM players p
		JOIN matches m ON p.name IN (m.winner, m.loser)
		JOIN players o ON o.name = CASE WHEN m.winner = p.name THEN m.loser ELSE m.winner END
		WHERE p.is_hidden = 0 AND o.is_hidden = 0 AND m.created_at > ?
		GROUP BY p.name
	`, start.Format(timeFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []Standing
	for rows.Next() {
		var s Standing
		if err := rows.Scan(&s.Player, &s.Rating, &s.GamesPlayed, &s.Wins, &s.Losses); err != nil {
			return nil, err
		}
		s.IsStarter = e.elo.Starter(elo.PlayerState{Rating: s.Rating, GamesPlayed: s.GamesPlayed})
		board = append(board, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(board, func(i, j int) bool {
		if board[i].IsStarter != board[j].IsStarter {
			return !board[i].IsStarter
		}
		if board[i].Rating != board[j].Rating {
			return board[i].Rating > board[j].Rating
		}
		return board[i].Player < board[j].Player
	})
	return board, nil
}

// HeadToHead returns the per-opponent record for one player over the window,
// optionally restricted to a single opponent, plus an aggregate total row.
// A hidden player (or opponent) contributes nothing to the breakdown.
func (e *Engine) HeadToHead(player, versus string, window Window) (Breakdown, error) {
	player = strings.ToLower(player)
	versus = strings.ToLower(versus)
	start := e.WindowStart(window)

	b := Breakdown{Player: player}

	row, found, err := e.players.GetPlayerRow(player)
	if err != nil {
		return Breakdown{}, err
	}
	if found {
		b.Total.Rating = row.Rating
		b.Total.GamesPlayed = row.GamesPlayed
	} else {
		def := e.elo.DefaultState()
		b.Total.Rating = def.Rating
	}

	hidden := found && row.Hidden
	if !hidden {
		records, err := e.opponentRecords(player, versus, start)
		if err != nil {
			return Breakdown{}, err
		}
		b.Opponents = records
		for _, r := range records {
			b.Total.Wins += r.Wins
			b.Total.Losses += r.Losses
		}
	}
	b.Total.Ratio = ratio(b.Total.Wins, b.Total.Losses)
	return b, nil
}

// opponentRecords runs the two aggregation passes (wins grouped by opponent,
// losses grouped by opponent) and merges them.
func (e *Engine) opponentRecords(player, versus string, start time.Time) ([]OpponentRecord, error) {
	startStr := start.Format(timeFormat)
	records := make(map[string]*OpponentRecord)

	wins, err := e.db.Query(`
		SELECT m.loser, COUNT(*) FROM matches m
		JOIN players o ON o.name = m.loser AND o.is_hidden = 0
		WHERE m.winner = ?1 AND m.loser = IFNULL(?2, m.loser) AND m.created_at > ?3
		GROUP BY m.loser
	`, player, nullName(versus), startStr)
	if err != nil {
		return nil, err
	}
	defer wins.Close()
	for wins.Next() {
		var opponent string
		var n int
		if err := wins.Scan(&opponent, &n); err != nil {
			return nil, err
		}
		records[opponent] = &OpponentRecord{Opponent: opponent, Wins: n}
	}
	if err := wins.Err(); err != nil {
		return nil, err
	}

	losses, err := e.db.Query(`
		SELECT m.winner, COUNT(*) FROM matches m
		JOIN players o ON o.name = m.winner AND o.is_hidden = 0
		WHERE m.loser = ?1 AND m.winner = IFNULL(?2, m.winner) AND m.created_at > ?3
		GROUP BY m.winner
	`, player, nullName(versus), startStr)
	if err != nil {
		return nil, err
	}
	defer losses.Close()
	for losses.Next() {
		var opponent string
		var n int
		if err := losses.Scan(&opponent, &n); err != nil {
			return nil, err
		}
		if r, ok := records[opponent]; ok {
			r.Losses = n
		} else {
			records[opponent] = &OpponentRecord{Opponent: opponent, Losses: n}
		}
	}
	if err := losses.Err(); err != nil {
		return nil, err
	}

	out := make([]OpponentRecord, 0, len(records))
	for _, r := range records {
		r.Ratio = ratio(r.Wins, r.Losses)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Opponent < out[j].Opponent })
	return out, nil
}

// Profile assembles the full profile view. Rank is the 1-based leaderboard
// position; a player absent from the board (no games, or hidden) ranks one
// past its end. An empty window defaults to the rolling 30 days.
func (e *Engine) Profile(player string, window Window) (Profile, error) {
	if window == "" {
		window = Window30Day
	}
	player = strings.ToLower(player)

	board, err := e.Leaderboard(window)
	if err != nil {
		return Profile{}, err
	}
	rank := len(board) + 1
	for i, s := range board {
		if s.Player == player {
			rank = i + 1
			break
		}
	}

	state, err := e.players.GetPlayer(player)
	if err != nil {
		return Profile{}, err
	}

	breakdown, err := e.HeadToHead(player, "", window)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Player:         player,
		Rank:           rank,
		Rating:         state.Rating,
		Classification: e.elo.Classify(state),
		Total:          breakdown.Total,
		Opponents:      breakdown.Opponents,
	}, nil
}

// Versus compares two players: all-time, this-week and this-month records,
// plus what each would gain by beating the other right now. The deltas use
// current ratings, not the ratings at match time, and are never persisted.
func (e *Engine) Versus(one, two string) (Comparison, error) {
	one = strings.ToLower(one)
	two = strings.ToLower(two)

	c := Comparison{
		One:     one,
		Two:     two,
		AllTime: OpponentRecord{Opponent: two},
		Week:    OpponentRecord{Opponent: two},
		Month:   OpponentRecord{Opponent: two},
	}

	for _, part := range []struct {
		window Window
		dst    *OpponentRecord
	}{{WindowAll, &c.AllTime}, {WindowWeek, &c.Week}, {WindowMonth, &c.Month}} {
		b, err := e.HeadToHead(one, two, part.window)
		if err != nil {
			return Comparison{}, err
		}
		if len(b.Opponents) > 0 {
			*part.dst = b.Opponents[0]
		}
	}

	oneState, err := e.players.GetPlayer(one)
	if err != nil {
		return Comparison{}, err
	}
	twoState, err := e.players.GetPlayer(two)
	if err != nil {
		return Comparison{}, err
	}

	oneWins, _ := e.elo.ApplyOutcome(oneState, twoState)
	twoWins, _ := e.elo.ApplyOutcome(twoState, oneState)
	c.OneDelta = oneWins.Delta
	c.TwoDelta = twoWins.Delta
	return c, nil
}

// ratio is wins/(wins+losses), defined as 0 when no games were played.
func ratio(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses)
}

func nullName(name string) any {
	if name == "" {
		return nil
	}
	return name
}
