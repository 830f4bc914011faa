package tournament

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

var (
	ErrNotInSetup      = errors.New("tournament has already started")
	ErrNotRunning      = errors.New("tournament is not running")
	ErrNotEnoughTeams  = errors.New("at least 2 teams are required")
	ErrInvalidTeamName = errors.New("team name must not be empty")
	ErrEmptyTeam       = errors.New("team needs at least one player")
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchDecided    = errors.New("match already has a reported winner")
	ErrInvalidWinner   = errors.New("winner is not playing in this match")
)

type Status string

const (
	StatusSetup    Status = "setup"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

type Bracket string

const (
	BracketUpper Bracket = "upper"
	BracketLower Bracket = "lower"
	BracketFinal Bracket = "final"
)

type Team struct {
	Name    string         `json:"name"`
	Players []snowflake.ID `json:"players"`
}

type Match struct {
	ID      int     `json:"id"`
	Bracket Bracket `json:"bracket"`
	Round   int     `json:"round"`
	TeamA   string  `json:"team_a"`
	TeamB   string  `json:"team_b,omitempty"`
	Winner  string  `json:"winner,omitempty"`
	Bye     bool    `json:"bye,omitempty"`
}

func (m Match) Open() bool {
	return m.Winner == ""
}

// Loser returns the side that did not win, empty for open matches and byes.
func (m Match) Loser() string {
	switch m.Winner {
	case "":
		return ""
	case m.TeamA:
		return m.TeamB
	default:
		return m.TeamA
	}
}

// Tournament is a double elimination bracket. Upper bracket losers drop to the lower
// bracket, lower bracket losers are eliminated and the last team of each bracket meet in
// a single grand final.
type Tournament struct {
	ID        uuid.UUID    `json:"-"`
	GuildID   snowflake.ID `json:"-"`
	CreatedAt time.Time    `json:"-"`

	Name         string   `json:"name"`
	Status       Status   `json:"status"`
	Teams        []Team   `json:"teams"`
	Matches      []Match  `json:"matches"`
	PendingUpper []string `json:"pending_upper"`
	PendingLower []string `json:"pending_lower"`
	Eliminated   []string `json:"eliminated"`
	UpperRounds  int      `json:"upper_rounds"`
	LowerRounds  int      `json:"lower_rounds"`
	Champion     string   `json:"champion,omitempty"`
}

// Result describes everything a reported match changed.
type Result struct {
	Match    Match
	Winner   Team
	Loser    Team
	Created  []Match
	Champion string
}

func New(guildID snowflake.ID, name string) *Tournament {
	return &Tournament{
		ID:      uuid.New(),
		GuildID: guildID,
		Name:    name,
		Status:  StatusSetup,
	}
}

func (t *Tournament) Team(name string) (Team, bool) {
	i := slices.IndexFunc(t.Teams, func(team Team) bool {
		return team.Name == name
	})
	if i == -1 {
		return Team{}, false
	}
	return t.Teams[i], true
}

// AddTeam registers a team, replacing the players of an existing team with the same name.
func (t *Tournament) AddTeam(name string, players []snowflake.ID) error {
	if t.Status != StatusSetup {
		return ErrNotInSetup
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidTeamName
	}
	if len(players) == 0 {
		return ErrEmptyTeam
	}
	team := Team{Name: name, Players: uniquePlayers(players)}
	i := slices.IndexFunc(t.Teams, func(team Team) bool {
		return team.Name == name
	})
	if i == -1 {
		t.Teams = append(t.Teams, team)
	} else {
		t.Teams[i] = team
	}
	return nil
}

// Start shuffles the teams into the first upper bracket round.
func (t *Tournament) Start(rng *rand.Rand) ([]Match, error) {
	if t.Status != StatusSetup {
		return nil, ErrNotInSetup
	}
	if len(t.Teams) < 2 {
		return nil, ErrNotEnoughTeams
	}
	names := make([]string, len(t.Teams))
	for i, team := range t.Teams {
		names[i] = team.Name
	}
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	t.Status = StatusRunning
	t.PendingUpper = nil
	t.PendingLower = nil
	return t.pair(BracketUpper, names), nil
}

func (t *Tournament) Match(id int) (Match, bool) {
	i := t.matchIndex(id)
	if i == -1 {
		return Match{}, false
	}
	return t.Matches[i], true
}

func (t *Tournament) OpenMatches() []Match {
	var open []Match
	for _, m := range t.Matches {
		if m.Open() {
			open = append(open, m)
		}
	}
	return open
}

func (t *Tournament) MatchesIn(bracket Bracket) []Match {
	var matches []Match
	for _, m := range t.Matches {
		if m.Bracket == bracket {
			matches = append(matches, m)
		}
	}
	return matches
}

func (t *Tournament) ReportResult(matchID int, winner string) (Result, error) {
	if t.Status != StatusRunning {
		return Result{}, ErrNotRunning
	}
	i := t.matchIndex(matchID)
	if i == -1 {
		return Result{}, ErrMatchNotFound
	}
	m := &t.Matches[i]
	if !m.Open() {
		return Result{}, ErrMatchDecided
	}
	if winner == "" || (winner != m.TeamA && winner != m.TeamB) {
		return Result{}, ErrInvalidWinner
	}
	m.Winner = winner
	loser := m.Loser()

	switch m.Bracket {
	case BracketUpper:
		t.PendingUpper = append(t.PendingUpper, winner)
		t.PendingLower = append(t.PendingLower, loser)
	case BracketLower:
		t.PendingLower = append(t.PendingLower, winner)
		t.Eliminated = append(t.Eliminated, loser)
	case BracketFinal:
		t.Eliminated = append(t.Eliminated, loser)
		t.finish(winner)
	}

	winnerTeam, _ := t.Team(winner)
	loserTeam, _ := t.Team(loser)
	res := Result{
		Match:  *m,
		Winner: winnerTeam,
		Loser:  loserTeam,
	}
	if t.Status == StatusRunning {
		res.Created = t.advance()
	}
	res.Champion = t.Champion
	return res, nil
}

// advance schedules the next matches once every open match has been decided.
func (t *Tournament) advance() []Match {
	if len(t.OpenMatches()) != 0 {
		return nil
	}
	upper, lower := len(t.PendingUpper), len(t.PendingLower)
	switch {
	case upper+lower == 1:
		t.finish(slices.Concat(t.PendingUpper, t.PendingLower)[0])
		return nil
	case upper == 1 && lower == 1:
		final := t.newMatch(BracketFinal, 1, t.PendingUpper[0], t.PendingLower[0])
		t.PendingUpper = nil
		t.PendingLower = nil
		return []Match{final}
	}
	var created []Match
	if upper >= 2 {
		created = append(created, t.pair(BracketUpper, t.PendingUpper)...)
	}
	if lower >= 2 {
		created = append(created, t.pair(BracketLower, t.PendingLower)...)
	}
	return created
}

// pair turns teams into the next round of bracket. With an odd count the last team gets
// a bye and waits in the pending list for the following round.
func (t *Tournament) pair(bracket Bracket, teams []string) []Match {
	teams = slices.Clone(teams)
	var round int
	switch bracket {
	case BracketUpper:
		t.UpperRounds++
		round = t.UpperRounds
	case BracketLower:
		t.LowerRounds++
		round = t.LowerRounds
	}
	var (
		created []Match
		pending []string
	)
	for i := 0; i+1 < len(teams); i += 2 {
		created = append(created, t.newMatch(bracket, round, teams[i], teams[i+1]))
	}
	if len(teams)%2 == 1 {
		bye := teams[len(teams)-1]
		m := t.newMatch(bracket, round, bye, "")
		m.Winner = bye
		m.Bye = true
		t.Matches[len(t.Matches)-1] = m
		created = append(created, m)
		pending = append(pending, bye)
	}
	switch bracket {
	case BracketUpper:
		t.PendingUpper = pending
	case BracketLower:
		t.PendingLower = pending
	}
	return created
}

func (t *Tournament) newMatch(bracket Bracket, round int, teamA string, teamB string) Match {
	m := Match{
		ID:      len(t.Matches) + 1,
		Bracket: bracket,
		Round:   round,
		TeamA:   teamA,
		TeamB:   teamB,
	}
	t.Matches = append(t.Matches, m)
	return m
}

func (t *Tournament) finish(champion string) {
	t.Champion = champion
	t.Status = StatusFinished
	t.PendingUpper = nil
	t.PendingLower = nil
}

func (t *Tournament) matchIndex(id int) int {
	return slices.IndexFunc(t.Matches, func(m Match) bool {
		return m.ID == id
	})
}

func uniquePlayers(players []snowflake.ID) []snowflake.ID {
	unique := make([]snowflake.ID, 0, len(players))
	for _, id := range players {
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}
	return unique
}
