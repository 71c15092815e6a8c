package slack

import (
	"fmt"
	"strings"

	"github.com/pongclub/ladderbot/internal/ladder"
	"github.com/pongclub/ladderbot/internal/stats"
	"github.com/slack-go/slack"
)

// obfuscate inserts a zero-width space after the first rune so the name does
// not resolve to an @-mention and ping the player.
func obfuscate(name string) string {
	if name == "" {
		return name
	}
	return name[:1] + "​" + name[1:]
}

func textMessage(text string) slack.Message {
	block := slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, false, false), nil, nil)
	return slack.NewBlockMessage(block)
}

func leaderboardLines(board []stats.Standing) string {
	lines := make([]string, 0, len(board))
	for i, s := range board {
		name := obfuscate(s.Player)
		if s.IsStarter {
			name += "*"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%d) %d-%d", i+1, name, s.Rating, s.Wins, s.Losses))
	}
	return strings.Join(lines, "\n")
}

func (s *Notifier) formatLeaderboard(board []stats.Standing, window stats.Window) slack.Message {
	if len(board) == 0 {
		return textMessage(fmt.Sprintf("no data from %s", window))
	}

	blocks := make([]slack.Block, 0, 2)
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏓 Leaderboard (%s)", window), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", leaderboardLines(board), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatMatchRecorded(result *ladder.MatchResult, board []stats.Standing) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headline := fmt.Sprintf("match %d recorded: (%+d) %s > %s (%+d)",
		result.MatchID, result.WinnerDelta, obfuscate(result.Winner), obfuscate(result.Loser), result.LoserDelta)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", headline, false, false), nil, nil))

	if len(board) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", leaderboardLines(board), false, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatMatches(matches []ladder.Match) slack.Message {
	if len(matches) == 0 {
		return textMessage("no matches found")
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("%d: %s - %s > %s",
			m.ID, m.CreatedAt.Format("Mon, Jan 02"), obfuscate(m.Winner), obfuscate(m.Loser)))
	}
	return textMessage(strings.Join(lines, "\n"))
}

func (s *Notifier) formatProfile(p stats.Profile) slack.Message {
	var desc string
	switch p.Classification {
	case "starter":
		desc = " (starter)"
	case "pro":
		desc = " (pro)"
	}

	head := fmt.Sprintf("%d. %s (%d)%s %d-%d",
		p.Rank, obfuscate(p.Player), p.Rating, desc, p.Total.Wins, p.Total.Losses)

	if len(p.Opponents) > 0 {
		records := make([]string, 0, len(p.Opponents))
		for _, o := range p.Opponents {
			records = append(records, fmt.Sprintf("%s %d-%d", obfuscate(o.Opponent), o.Wins, o.Losses))
		}
		head += " vs: " + strings.Join(records, "; ")
	}
	return textMessage(head)
}

func (s *Notifier) formatVersus(c stats.Comparison) slack.Message {
	text := fmt.Sprintf("(%+d) %s vs %s (%+d): %.3f, week: %d-%d, month: %d-%d",
		c.OneDelta, obfuscate(c.One), obfuscate(c.Two), c.TwoDelta,
		c.AllTime.Ratio, c.Week.Wins, c.Week.Losses, c.Month.Wins, c.Month.Losses)
	return textMessage(text)
}
