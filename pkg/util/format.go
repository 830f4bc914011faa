package util

import (
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"dota-bot/pkg/db"
	"dota-bot/pkg/tournament"
)

const ContentLimit = 2000

func Mention(id snowflake.ID) string {
	return "<@" + id.String() + ">"
}

func Mentions(ids []snowflake.ID) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = Mention(id)
	}
	return strings.Join(mentions, " ")
}

// PlayerName prefers the stored profile name and falls back to a mention.
func PlayerName(id snowflake.ID, players map[snowflake.ID]db.Player) string {
	if p, ok := players[id]; ok && p.Name != "" && p.Name != id.String() {
		return p.Name
	}
	return Mention(id)
}

func TeamDisplay(team tournament.Team, players map[snowflake.ID]db.Player) string {
	if len(team.Players) == 0 {
		return "No players"
	}
	names := make([]string, len(team.Players))
	for i, id := range team.Players {
		names[i] = PlayerName(id, players)
	}
	return strings.Join(names, ", ")
}

func FormatProfile(p db.Player) string {
	return fmt.Sprintf("**%s** — ELO: %d | Wins: %d | Losses: %d", p.Name, p.Rating, p.Wins, p.Losses)
}

func FormatLeaderboard(players []db.Player) string {
	if len(players) == 0 {
		return "No players yet."
	}
	var sb strings.Builder
	sb.WriteString("**Leaderboard**")
	for i, p := range players {
		fmt.Fprintf(&sb, "\n%d. %s — ELO %d | W %d / L %d", i+1, p.Name, p.Rating, p.Wins, p.Losses)
	}
	return sb.String()
}

func FormatMatch(m tournament.Match) string {
	if m.Bye {
		return fmt.Sprintf("[%d] Bye → **%s** (auto)", m.ID, m.TeamA)
	}
	winner := m.Winner
	if winner == "" {
		winner = "TBD"
	}
	return fmt.Sprintf("[%d] %s vs %s — Winner: %s", m.ID, m.TeamA, m.TeamB, winner)
}

func FormatScheduled(matches []tournament.Match) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		switch {
		case m.Bye:
			lines = append(lines, fmt.Sprintf("Bye: **%s** (auto-advance)", m.TeamA))
		case m.Bracket == tournament.BracketFinal:
			lines = append(lines, fmt.Sprintf("Grand final %d: **%s** vs **%s**", m.ID, m.TeamA, m.TeamB))
		default:
			lines = append(lines, fmt.Sprintf("Match %d (%s round %d): **%s** vs **%s**", m.ID, m.Bracket, m.Round, m.TeamA, m.TeamB))
		}
	}
	return strings.Join(lines, "\n")
}

func FormatBracket(t *tournament.Tournament) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Tournament: %s** — Status: %s", t.Name, t.Status)
	sections := []struct {
		title   string
		bracket tournament.Bracket
		empty   string
	}{
		{"Upper bracket", tournament.BracketUpper, "No upper matches yet."},
		{"Lower bracket", tournament.BracketLower, "No lower matches yet."},
		{"Grand final", tournament.BracketFinal, "Not scheduled yet."},
	}
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n\n__%s__", s.title)
		matches := t.MatchesIn(s.bracket)
		if len(matches) == 0 {
			sb.WriteString("\n" + s.empty)
			continue
		}
		for _, m := range matches {
			sb.WriteString("\n" + FormatMatch(m))
		}
	}
	if t.Champion != "" {
		fmt.Fprintf(&sb, "\n\n🏆 **Champion: %s**", t.Champion)
	}
	return Truncate(sb.String(), ContentLimit)
}

func FormatTeams(t *tournament.Tournament, players map[snowflake.ID]db.Player) string {
	if len(t.Teams) == 0 {
		return "No teams yet."
	}
	var sb strings.Builder
	sb.WriteString("**Teams:**")
	for _, team := range t.Teams {
		fmt.Fprintf(&sb, "\n**%s** — %s", team.Name, TeamDisplay(team, players))
	}
	return Truncate(sb.String(), ContentLimit)
}

// Truncate cuts s to at most limit bytes on a line boundary when possible.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	const suffix = "\n…"
	cut := s[:limit-len(suffix)]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return strings.ToValidUTF8(cut, "") + suffix
}
