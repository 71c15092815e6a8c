package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/metrics"
	"github.com/pongclub/ladderbot/internal/notifier"
	"github.com/pongclub/ladderbot/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

func (s *Notifier) SendMatchRecorded(result *ladder.MatchResult, board []stats.Standing, dryRun bool) error {
	return s.sendMessage(s.formatMatchRecorded(result, board), dryRun)
}

func (s *Notifier) SendLeaderboard(board []stats.Standing, window stats.Window, dryRun bool) error {
	return s.sendMessage(s.formatLeaderboard(board, window), dryRun)
}

func (s *Notifier) FormatMatchRecordedResponse(result *ladder.MatchResult, board []stats.Standing) (any, error) {
	return s.formatMatchRecorded(result, board), nil
}

func (s *Notifier) FormatLeaderboardResponse(board []stats.Standing, window stats.Window) (any, error) {
	return s.formatLeaderboard(board, window), nil
}

func (s *Notifier) FormatMatchesResponse(matches []ladder.Match) (any, error) {
	return s.formatMatches(matches), nil
}

func (s *Notifier) FormatProfileResponse(profile stats.Profile) (any, error) {
	return s.formatProfile(profile), nil
}

func (s *Notifier) FormatVersusResponse(comparison stats.Comparison) (any, error) {
	return s.formatVersus(comparison), nil
}

func (s *Notifier) FormatTextResponse(text string) (any, error) {
	return textMessage(text), nil
}
