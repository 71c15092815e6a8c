package ladder_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/pongclub/ladderbot/internal/database"
	"github.com/pongclub/ladderbot/internal/elo"
	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
// The injected clock steps one minute per recorded match so ledger order is
// deterministic.
func setupTestDB(t *testing.T) (ladder.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	now := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	store := ladder.NewWithNow(db, elo.NewEngine(elo.DefaultConfig()), now)
	return store, db, dbTeardown
}

func TestRecordMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	res, err := store.RecordMatch("Ann", "Bob")
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.MatchID)
	assert.Equal(t, "ann", res.Winner)
	assert.Equal(t, "bob", res.Loser)
	assert.Positive(t, res.WinnerDelta)
	assert.Negative(t, res.LoserDelta)
	assert.Equal(t, res.WinnerDelta, -res.LoserDelta)

	ann, err := store.GetPlayer("ann")
	require.NoError(t, err)
	assert.Equal(t, res.WinnerRating, ann.Rating)
	assert.Equal(t, 1, ann.GamesPlayed)

	bob, err := store.GetPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, res.LoserRating, bob.Rating)
	assert.Equal(t, 1, bob.GamesPlayed)
}

func TestRecordMatch_RejectsSelfPlay(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.RecordMatch("ann", "Ann")
	assert.Error(t, err)
}

func TestRecordMatch_WritesHistoryRows(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.RecordMatch("ann", "bob")
	require.NoError(t, err)
	_, err = store.RecordMatch("ann", "bob")
	require.NoError(t, err)

	// One row per match per participant.
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM player_histories").Scan(&count))
	assert.Equal(t, 4, count)

	var annRows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM player_histories WHERE name = 'ann'").Scan(&annRows))
	assert.Equal(t, 2, annRows)
}

func TestGetPlayer_UnknownNameIsDefaultState(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	state, err := store.GetPlayer("nobody")
	require.NoError(t, err)
	assert.Equal(t, elo.PlayerState{Rating: 1000, GamesPlayed: 0, Pro: false}, state)
}

func TestListMatches(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	mustRecord(t, store, "ann", "bob")
	mustRecord(t, store, "bob", "ann")
	mustRecord(t, store, "ann", "cleo")
	mustRecord(t, store, "cleo", "dave")

	t.Run("all matches, newest first", func(t *testing.T) {
		matches, err := store.ListMatches("", "", time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, matches, 4)
		assert.Equal(t, "cleo", matches[0].Winner)
		assert.Equal(t, "ann", matches[3].Winner)
	})

	t.Run("single player matches either side", func(t *testing.T) {
		matches, err := store.ListMatches("ann", "", time.Time{}, 0)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("pairing matches both directions", func(t *testing.T) {
		matches, err := store.ListMatches("ann", "bob", time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "bob", matches[0].Winner)
		assert.Equal(t, "ann", matches[1].Winner)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		matches, err := store.ListMatches("", "", time.Time{}, 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("window start is exclusive", func(t *testing.T) {
		all, err := store.ListMatches("", "", time.Time{}, 0)
		require.NoError(t, err)
		oldest := all[len(all)-1].CreatedAt

		// A boundary exactly at the oldest match excludes it.
		matches, err := store.ListMatches("", "", oldest, 0)
		require.NoError(t, err)
		assert.Len(t, matches, 3)

		matches, err = store.ListMatches("", "", oldest.Add(-time.Second), 0)
		require.NoError(t, err)
		assert.Len(t, matches, 4)
	})
}

func TestDeleteMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	res := mustRecord(t, store, "ann", "bob")

	found, err := store.DeleteMatch(res.MatchID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.DeleteMatch(res.MatchID)
	require.NoError(t, err)
	assert.False(t, found, "deleting twice reports not found")

	found, err = store.DeleteMatch(9999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetHidden(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	found, err := store.SetHidden("ghost", true)
	require.NoError(t, err)
	assert.False(t, found, "hiding an unknown player is a no-op")

	mustRecord(t, store, "ann", "bob")

	found, err = store.SetHidden("Ann", true)
	require.NoError(t, err)
	assert.True(t, found)

	row, ok, err := store.GetPlayerRow("ann")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, row.Hidden)

	found, err = store.SetHidden("ann", false)
	require.NoError(t, err)
	assert.True(t, found)

	row, _, err = store.GetPlayerRow("ann")
	require.NoError(t, err)
	assert.False(t, row.Hidden)
}

func TestRebuildAll_MatchesIncrementalState(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	mustRecord(t, store, "ann", "bob")
	mustRecord(t, store, "bob", "cleo")
	mustRecord(t, store, "ann", "cleo")
	mustRecord(t, store, "cleo", "ann")
	mustRecord(t, store, "ann", "bob")

	before := snapshotPlayers(t, store, "ann", "bob", "cleo")

	require.NoError(t, store.RebuildAll())
	after := snapshotPlayers(t, store, "ann", "bob", "cleo")
	assert.Equal(t, before, after, "replaying the ledger must reproduce incremental state")

	// Rebuild is idempotent.
	require.NoError(t, store.RebuildAll())
	again := snapshotPlayers(t, store, "ann", "bob", "cleo")
	assert.Equal(t, before, again)
}

func TestRebuildAll_EmptyLedger(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.RebuildAll())

	var players int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM players").Scan(&players))
	assert.Zero(t, players)
}

func TestRebuildAll_AfterDelete(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	first := mustRecord(t, store, "ann", "bob")
	mustRecord(t, store, "bob", "ann")

	found, err := store.DeleteMatch(first.MatchID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, store.RebuildAll())

	// Only the second match remains: bob beat ann once, both at 1 game.
	ann, err := store.GetPlayer("ann")
	require.NoError(t, err)
	bob, err := store.GetPlayer("bob")
	require.NoError(t, err)

	assert.Equal(t, 1, ann.GamesPlayed)
	assert.Equal(t, 1, bob.GamesPlayed)
	assert.Greater(t, bob.Rating, 1000)
	assert.Less(t, ann.Rating, 1000)

	// History was regenerated from the surviving ledger alone.
	var histRows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM player_histories").Scan(&histRows))
	assert.Equal(t, 2, histRows)
}

func TestRebuildAll_GamesPlayedEqualsLedgerCount(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	mustRecord(t, store, "ann", "bob")
	mustRecord(t, store, "ann", "cleo")
	mustRecord(t, store, "dave", "ann")

	require.NoError(t, store.RebuildAll())

	var ledgerCount int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM matches WHERE winner = 'ann' OR loser = 'ann'").Scan(&ledgerCount))

	ann, err := store.GetPlayer("ann")
	require.NoError(t, err)
	assert.Equal(t, ledgerCount, ann.GamesPlayed)
}

func TestRebuildAll_PreservesProFlag(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	// Grind ann up past the pro boundary on a stream of fresh opponents,
	// then drop her back below it with a couple of losses.
	for i := 0; i < 30; i++ {
		mustRecord(t, store, "ann", fmt.Sprintf("player%02d", i))
	}
	mustRecord(t, store, "bob", "ann")
	mustRecord(t, store, "bob", "ann")

	ann, err := store.GetPlayer("ann")
	require.NoError(t, err)
	require.True(t, ann.Pro, "ann should have crossed the pro boundary")
	require.Less(t, ann.Rating, 1200)

	require.NoError(t, store.RebuildAll())

	rebuilt, err := store.GetPlayer("ann")
	require.NoError(t, err)
	assert.True(t, rebuilt.Pro, "replay must reproduce the sticky pro flag")
	assert.Equal(t, ann, rebuilt)
}

func mustRecord(t *testing.T, store ladder.Store, winner, loser string) *ladder.MatchResult {
	t.Helper()
	res, err := store.RecordMatch(winner, loser)
	require.NoError(t, err)
	return res
}

func snapshotPlayers(t *testing.T, store ladder.Store, names ...string) map[string]elo.PlayerState {
	t.Helper()
	out := make(map[string]elo.PlayerState, len(names))
	for _, name := range names {
		state, err := store.GetPlayer(name)
		require.NoError(t, err)
		out[name] = state
	}
	return out
}
