package ladder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/ladderbot/internal/elo"
)

// New creates a new ladder Store on top of the given database.
func New(db *sql.DB, engine *elo.Engine) Store {
	return &store{
		db:     db,
		engine: engine,
		now:    time.Now,
	}
}

// NewWithNow creates a Store with an injectable clock. Used for testing.
func NewWithNow(db *sql.DB, engine *elo.Engine, now func() time.Time) Store {
	return &store{
		db:     db,
		engine: engine,
		now:    now,
	}
}

// RecordMatch runs the whole read-modify-write sequence as one transaction
// under the write lock, so concurrent reports cannot lose updates.
func (s *store) RecordMatch(winner, loser string) (*MatchResult, error) {
	winner = strings.ToLower(winner)
	loser = strings.ToLower(loser)
	if winner == loser {
		return nil, fmt.Errorf("player %q cannot play themselves", winner)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC().Format(timeFormat)
	res, err := tx.Exec("INSERT INTO matches (winner, loser, created_at) VALUES (?, ?, ?)", winner, loser, createdAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to append match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	wRes, lRes, err := s.applyMatchTx(tx, winner, loser, createdAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("Recorded match", "matchID", matchID, "winner", winner, "loser", loser,
		"winnerDelta", wRes.Delta, "loserDelta", lRes.Delta)

	return &MatchResult{
		MatchID:      matchID,
		Winner:       winner,
		Loser:        loser,
		WinnerRating: wRes.Rating,
		LoserRating:  lRes.Rating,
		WinnerDelta:  wRes.Delta,
		LoserDelta:   lRes.Delta,
	}, nil
}

// applyMatchTx is the single shared update path: the live RecordMatch and the
// replay in RebuildAll both go through it, so the incremental games_played
// and the replay count cannot diverge.
func (s *store) applyMatchTx(tx *sql.Tx, winner, loser, createdAt string) (elo.Result, elo.Result, error) {
	wState, err := s.playerStateTx(tx, winner)
	if err != nil {
		return elo.Result{}, elo.Result{}, err
	}
	lState, err := s.playerStateTx(tx, loser)
	if err != nil {
		return elo.Result{}, elo.Result{}, err
	}

	wRes, lRes := s.engine.ApplyOutcome(wState, lState)

	for _, p := range []struct {
		name string
		res  elo.Result
	}{{winner, wRes}, {loser, lRes}} {
		if _, err := tx.Exec("INSERT INTO player_histories (name, rating, created_at) VALUES (?, ?, ?)",
			p.name, p.res.Rating, createdAt); err != nil {
			return elo.Result{}, elo.Result{}, fmt.Errorf("failed to append history for %s: %w", p.name, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO players (name, rating, games_played, is_pro, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				rating = excluded.rating,
				games_played = excluded.games_played,
				is_pro = excluded.is_pro,
				updated_at = excluded.updated_at
		`, p.name, p.res.Rating, p.res.GamesPlayed, boolToInt(p.res.Pro), createdAt); err != nil {
			return elo.Result{}, elo.Result{}, fmt.Errorf("failed to upsert player %s: %w", p.name, err)
		}
	}

	return wRes, lRes, nil
}

// playerStateTx reads a player's rating state inside the transaction,
// falling back to the default state for unknown names.
func (s *store) playerStateTx(tx *sql.Tx, name string) (elo.PlayerState, error) {
	var rating, games, pro int
	err := tx.QueryRow("SELECT rating, games_played, is_pro FROM players WHERE name = ?", name).
		Scan(&rating, &games, &pro)
	if err == sql.ErrNoRows {
		return s.engine.DefaultState(), nil
	}
	if err != nil {
		return elo.PlayerState{}, err
	}
	return elo.PlayerState{Rating: rating, GamesPlayed: games, Pro: pro != 0}, nil
}

// ListMatches returns ledger records newest first, optionally filtered to one
// player, one pairing, and a time window.
func (s *store) ListMatches(player, versus string, windowStart time.Time, limit int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, winner, loser, created_at FROM matches
		WHERE (
			(winner = IFNULL(?1, winner) AND loser = IFNULL(?2, loser)) OR
			(winner = IFNULL(?2, winner) AND loser = IFNULL(?1, loser))
		) AND created_at > ?3
		ORDER BY created_at DESC, id DESC
	`
	args := []any{nullName(player), nullName(versus), windowStart.UTC().Format(timeFormat)}
	if limit > 0 {
		query += " LIMIT ?4"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Winner, &m.Loser, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, err = time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at on match %d: %w", m.ID, err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// DeleteMatch removes one ledger record. Identifiers are never reused.
func (s *store) DeleteMatch(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		log.Info("Deleted match from ledger", "matchID", id)
	}
	return n > 0, nil
}

// GetPlayer returns the persisted rating state, or the silent default for a
// name that has never played. A typo is a brand-new player, never an error.
func (s *store) GetPlayer(name string) (elo.PlayerState, error) {
	row, found, err := s.GetPlayerRow(name)
	if err != nil {
		return elo.PlayerState{}, err
	}
	if !found {
		return s.engine.DefaultState(), nil
	}
	return row.State(), nil
}

func (s *store) GetPlayerRow(name string) (Player, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.ToLower(name)
	var p Player
	var pro, hidden int
	var updatedAt string
	err := s.db.QueryRow(
		"SELECT name, rating, games_played, is_pro, is_hidden, updated_at FROM players WHERE name = ?", name).
		Scan(&p.Name, &p.Rating, &p.GamesPlayed, &pro, &hidden, &updatedAt)
	if err == sql.ErrNoRows {
		return Player{}, false, nil
	}
	if err != nil {
		return Player{}, false, err
	}
	p.Pro = pro != 0
	p.Hidden = hidden != 0
	p.UpdatedAt, err = time.Parse(timeFormat, updatedAt)
	if err != nil {
		return Player{}, false, fmt.Errorf("bad updated_at for player %s: %w", name, err)
	}
	return p, true, nil
}

// SetHidden excludes or re-admits a player in aggregate views. The ledger and
// history are untouched either way.
func (s *store) SetHidden(name string, hidden bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.ToLower(name)
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE name = ?)", name).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if _, err := s.db.Exec("UPDATE players SET is_hidden = ? WHERE name = ?", boolToInt(hidden), name); err != nil {
		return false, err
	}
	log.Info("Updated player visibility", "player", name, "hidden", hidden)
	return true, nil
}

// RebuildAll regenerates all derived state from the ledger. It holds the
// write lock for its full duration; no match recording can interleave.
func (s *store) RebuildAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to truncate players: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM player_histories"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to truncate player histories: %w", err)
	}

	// Load the full ledger up front: replaying issues writes on the same
	// transaction, which cannot interleave with an open cursor.
	rows, err := tx.Query("SELECT winner, loser, created_at FROM matches ORDER BY created_at ASC, id ASC")
	if err != nil {
		tx.Rollback()
		return err
	}
	type replayMatch struct {
		winner, loser, createdAt string
	}
	var ledger []replayMatch
	for rows.Next() {
		var m replayMatch
		if err := rows.Scan(&m.winner, &m.loser, &m.createdAt); err != nil {
			rows.Close()
			tx.Rollback()
			return err
		}
		ledger = append(ledger, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return err
	}
	rows.Close()

	for _, m := range ledger {
		if _, _, err := s.applyMatchTx(tx, m.winner, m.loser, m.createdAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to replay match %s > %s: %w", m.winner, m.loser, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Rebuilt all derived state from ledger", "matches", len(ledger))
	return nil
}

func nullName(name string) any {
	if name == "" {
		return nil
	}
	return strings.ToLower(name)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
