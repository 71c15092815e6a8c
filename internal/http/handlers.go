package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/ladderbot/internal/stats"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// RecordMatchHandler appends one decided game to the ledger and announces the
// result. Expects 'winner' and 'loser' query parameters.
func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		winner := r.URL.Query().Get("winner")
		loser := r.URL.Query().Get("loser")
		if winner == "" || loser == "" {
			http.Error(w, "Both 'winner' and 'loser' are required", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have recorded match", "winner", winner, "loser", loser)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, match not recorded.")
			return
		}

		result, err := s.Store.RecordMatch(winner, loser)
		if err != nil {
			log.Error("Failed to record match", "winner", winner, "loser", loser, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.Metrics.IncMatchesRecorded()
		log.Info("Recorded match", "id", result.MatchID, "winner", result.Winner, "loser", result.Loser)

		board, err := s.Stats.Leaderboard(stats.Window30Day)
		if err != nil {
			log.Error("Failed to load leaderboard for announcement", "error", err)
			board = nil
		}
		// The announcement is best effort. The match is already committed.
		if err := s.Notifier.SendMatchRecorded(result, board, false); err != nil {
			log.Error("Failed to announce match", "id", result.MatchID, "error", err)
		}

		respondJSON(w, result)
	}
}

// LeaderboardHandler serves the ranked standings for a window. With
// announce=true the board is also posted to the configured Slack channel.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window := stats.Window(r.URL.Query().Get("window"))
		board, err := s.Stats.Leaderboard(window)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard", "window", window, "error", err)
			return
		}

		if r.URL.Query().Get("announce") == "true" {
			if err := s.Notifier.SendLeaderboard(board, window, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to announce leaderboard", "window", window, "error", err)
			}
		}

		respondJSON(w, board)
	}
}

// MatchesHandler lists ledger records, optionally filtered by player, pairing
// and window. 'limit' caps the result, 0 or absent means everything.
func (s *Server) MatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.URL.Query().Get("player")
		versus := r.URL.Query().Get("versus")
		window := stats.Window(r.URL.Query().Get("window"))
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		matches, err := s.Store.ListMatches(player, versus, s.Stats.WindowStart(window), limit)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches", "error", err)
			return
		}
		respondJSON(w, matches)
	}
}

// PlayerHandler serves the full profile for one player.
func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Player 'name' is required", http.StatusBadRequest)
			return
		}
		window := stats.Window(r.URL.Query().Get("window"))

		profile, err := s.Stats.Profile(name, window)
		if err != nil {
			http.Error(w, "Failed to get player profile", http.StatusInternalServerError)
			log.Error("Failed to get player profile", "player", name, "error", err)
			return
		}
		respondJSON(w, profile)
	}
}

// VersusHandler serves the head-to-head comparison between two players.
func (s *Server) VersusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		one := r.URL.Query().Get("one")
		two := r.URL.Query().Get("two")
		if one == "" || two == "" {
			http.Error(w, "Both 'one' and 'two' are required", http.StatusBadRequest)
			return
		}

		comparison, err := s.Stats.Versus(one, two)
		if err != nil {
			http.Error(w, "Failed to compare players", http.StatusInternalServerError)
			log.Error("Failed to compare players", "one", one, "two", two, "error", err)
			return
		}
		respondJSON(w, comparison)
	}
}

// HidePlayerHandler flags a player in or out of all aggregate views.
// Pass hidden=false to unhide. The ledger is untouched either way.
func (s *Server) HidePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Player 'name' is required", http.StatusBadRequest)
			return
		}
		hidden := r.URL.Query().Get("hidden") != "false"

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have set hidden flag", "player", name, "hidden", hidden)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, player not updated.")
			return
		}

		found, err := s.Store.SetHidden(name, hidden)
		if err != nil {
			http.Error(w, "Failed to update player", http.StatusInternalServerError)
			log.Error("Failed to set hidden flag", "player", name, "error", err)
			return
		}
		if !found {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		log.Info("Updated hidden flag", "player", name, "hidden", hidden)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Player %s hidden=%t", name, hidden)
	}
}

// DeleteMatchHandler removes one ledger record and replays the remaining
// ledger so derived state stays consistent.
func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := r.URL.Query().Get("id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'id' parameter", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have deleted match", "id", id)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, match not deleted.")
			return
		}

		found, err := s.Store.DeleteMatch(id)
		if err != nil {
			http.Error(w, "Failed to delete match", http.StatusInternalServerError)
			log.Error("Failed to delete match", "id", id, "error", err)
			return
		}
		if !found {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		s.Metrics.IncMatchesDeleted()
		log.Info("Deleted match", "id", id)

		if err := s.rebuild(); err != nil {
			http.Error(w, "Match deleted but rebuild failed", http.StatusInternalServerError)
			log.Error("Failed to rebuild after delete", "id", id, "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Deleted match %d and rebuilt player state.", id)
	}
}

// RebuildHandler replays the full ledger from scratch.
func (s *Server) RebuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have rebuilt player state")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run, nothing rebuilt.")
			return
		}

		if err := s.rebuild(); err != nil {
			http.Error(w, "Rebuild failed", http.StatusInternalServerError)
			log.Error("Failed to rebuild player state", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Rebuild completed.")
	}
}

// rebuild runs a full ledger replay with timing metrics.
func (s *Server) rebuild() error {
	start := time.Now()
	s.Metrics.IncRebuildRuns()
	if err := s.Store.RebuildAll(); err != nil {
		return err
	}
	duration := time.Since(start).Seconds()
	s.Metrics.ObserveRebuildDuration(duration)
	log.Info("Rebuilt player state from ledger", "duration_s", duration)
	return nil
}
