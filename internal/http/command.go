package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pongclub/ladderbot/internal/stats"
	"github.com/slack-go/slack"
)

// The /pong command grammar. One compiled pattern per sub-command; dispatch
// tries them in order, with the generic "X vs Y" form last so it cannot
// shadow the others.
var (
	recordRe      = regexp.MustCompile(`^(?i)(\w+) (?:>|beat|won|destroyed|dominated) (\w+)$`)
	leaderboardRe = regexp.MustCompile(`^(?i)(?:leaderboard|rank|ranking|score|scores)(?: from (\w+))?$`)
	matchesRe     = regexp.MustCompile(`^(?i)(all )?matches(?: (\w+))?(?: vs?\.? (\w+))?$`)
	profileRe     = regexp.MustCompile(`^(?i)player (\w+)(?: from (\w+))?$`)
	adminRe       = regexp.MustCompile(`^(?i)admin (\S+)(?: (\S+))?$`)
	versusRe      = regexp.MustCompile(`^(?i)(\w+) vs?\.? (\w+)(?: from (\w+))?$`)
)

const commandHelp = "Usage: `/pong <winner> beat <loser>` | `/pong leaderboard [from <window>]` | " +
	"`/pong [all] matches [<player>] [vs <player>]` | `/pong player <name> [from <window>]` | " +
	"`/pong <one> vs <two>` | `/pong admin <update-all|hide-player|unhide-player|delete-match> [<arg>]`"

// defaultMatchesLimit caps the matches listing in chat unless "all" is asked for.
const defaultMatchesLimit = 10

// verifySlackSignature authenticates incoming Slack requests using the app's
// signing secret. Verification is skipped when no secret is configured.
func (s *Server) verifySlackSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.Slack.SigningSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		verifier, err := slack.NewSecretsVerifier(r.Header, s.Cfg.Slack.SigningSecret)
		if err != nil {
			log.Warn("Rejected slack request", "error", err)
			http.Error(w, "Invalid request signature", http.StatusUnauthorized)
			return
		}
		if _, err := verifier.Write(bodyBytes); err != nil {
			log.Error("Failed to hash request body", "error", err)
			http.Error(w, "Failed to verify request", http.StatusInternalServerError)
			return
		}
		if err := verifier.Ensure(); err != nil {
			log.Warn("Rejected slack request", "error", err)
			http.Error(w, "Invalid request signature", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PongCommandHandler serves the /pong slash command. The command text decides
// which operation runs; unknown text gets the usage line back.
func (s *Server) PongCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received pong command", "text", text, "user", r.FormValue("user_name"))

		msg, err := s.dispatchCommand(text)
		if err != nil {
			http.Error(w, "Failed to handle command", http.StatusInternalServerError)
			log.Error("Failed to handle pong command", "text", text, "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// dispatchCommand parses the command text and runs the matching operation.
// Input errors (self-play, unknown match id) come back as chat text, not as
// an error; only infrastructure failures propagate.
func (s *Server) dispatchCommand(text string) (any, error) {
	switch {
	case recordRe.MatchString(text):
		m := recordRe.FindStringSubmatch(text)
		return s.commandRecord(m[1], m[2])

	case leaderboardRe.MatchString(text):
		m := leaderboardRe.FindStringSubmatch(text)
		window := stats.Window(strings.ToLower(m[1]))
		board, err := s.Stats.Leaderboard(window)
		if err != nil {
			return nil, err
		}
		return s.Notifier.FormatLeaderboardResponse(board, window)

	case matchesRe.MatchString(text):
		m := matchesRe.FindStringSubmatch(text)
		limit := defaultMatchesLimit
		if m[1] != "" {
			limit = 0
		}
		matches, err := s.Store.ListMatches(m[2], m[3], s.Stats.WindowStart(stats.WindowAll), limit)
		if err != nil {
			return nil, err
		}
		return s.Notifier.FormatMatchesResponse(matches)

	case profileRe.MatchString(text):
		m := profileRe.FindStringSubmatch(text)
		profile, err := s.Stats.Profile(m[1], stats.Window(strings.ToLower(m[2])))
		if err != nil {
			return nil, err
		}
		return s.Notifier.FormatProfileResponse(profile)

	case adminRe.MatchString(text):
		m := adminRe.FindStringSubmatch(text)
		return s.commandAdmin(m[1], m[2])

	case versusRe.MatchString(text):
		m := versusRe.FindStringSubmatch(text)
		comparison, err := s.Stats.Versus(m[1], m[2])
		if err != nil {
			return nil, err
		}
		return s.Notifier.FormatVersusResponse(comparison)

	default:
		return s.Notifier.FormatTextResponse(commandHelp)
	}
}

func (s *Server) commandRecord(winner, loser string) (any, error) {
	result, err := s.Store.RecordMatch(winner, loser)
	if err != nil {
		return s.Notifier.FormatTextResponse(fmt.Sprintf("Could not record that: %v", err))
	}
	s.Metrics.IncMatchesRecorded()
	log.Info("Recorded match", "id", result.MatchID, "winner", result.Winner, "loser", result.Loser)

	board, err := s.Stats.Leaderboard(stats.Window30Day)
	if err != nil {
		return nil, err
	}
	return s.Notifier.FormatMatchRecordedResponse(result, board)
}

func (s *Server) commandAdmin(cmd, arg string) (any, error) {
	switch strings.ToLower(cmd) {
	case "update-all":
		if err := s.rebuild(); err != nil {
			return nil, err
		}
		return s.Notifier.FormatTextResponse("Rebuilt player state from the full match ledger.")

	case "hide-player", "unhide-player":
		if arg == "" {
			return s.Notifier.FormatTextResponse("A player name is required.")
		}
		hidden := strings.EqualFold(cmd, "hide-player")
		found, err := s.Store.SetHidden(arg, hidden)
		if err != nil {
			return nil, err
		}
		if !found {
			return s.Notifier.FormatTextResponse(fmt.Sprintf("No player named %s.", arg))
		}
		verb := "hidden"
		if !hidden {
			verb = "unhidden"
		}
		return s.Notifier.FormatTextResponse(fmt.Sprintf("Player %s is now %s.", arg, verb))

	case "delete-match":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return s.Notifier.FormatTextResponse("A numeric match id is required.")
		}
		found, err := s.Store.DeleteMatch(id)
		if err != nil {
			return nil, err
		}
		if !found {
			return s.Notifier.FormatTextResponse(fmt.Sprintf("No match with id %d.", id))
		}
		s.Metrics.IncMatchesDeleted()
		if err := s.rebuild(); err != nil {
			return nil, err
		}
		return s.Notifier.FormatTextResponse(fmt.Sprintf("Deleted match %d and rebuilt player state.", id))

	default:
		return s.Notifier.FormatTextResponse(commandHelp)
	}
}
