package stats

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// OperatorStats holds the raw counters for one operator.
type OperatorStats struct {
	Name       string `json:"name"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Headshots  int    `json:"headshots"`
	TimePlayed int    `json:"time_played"` // seconds
}

// Player holds everything collected for one account during a run.
type Player struct {
	Username  string `json:"username"`
	ProfileID string `json:"profile_id"`

	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Kills      int `json:"kills"`
	Deaths     int `json:"deaths"`
	Headshots  int `json:"headshots"`
	TimePlayed int `json:"time_played"` // seconds

	// RatingHistory is ordered oldest season first.
	RatingHistory []int  `json:"rating_history"`
	RankName      string `json:"rank_name"`

	Operators map[string]*OperatorStats `json:"operators"`
}

// NewPlayer builds a player from its operator counters and sums the totals.
func NewPlayer(username, profileID string, operators []OperatorStats) *Player {
	p := &Player{
		Username:  username,
		ProfileID: profileID,
		Operators: make(map[string]*OperatorStats, len(operators)),
	}
	for i := range operators {
		op := operators[i]
		p.Operators[op.Name] = &op
	}
	p.Totalize()
	return p
}

// Totalize recomputes the player counters as the sum of its operators.
func (p *Player) Totalize() {
	ops := lo.Values(p.Operators)
	p.Wins = lo.SumBy(ops, func(o *OperatorStats) int { return o.Wins })
	p.Losses = lo.SumBy(ops, func(o *OperatorStats) int { return o.Losses })
	p.Kills = lo.SumBy(ops, func(o *OperatorStats) int { return o.Kills })
	p.Deaths = lo.SumBy(ops, func(o *OperatorStats) int { return o.Deaths })
	p.Headshots = lo.SumBy(ops, func(o *OperatorStats) int { return o.Headshots })
	p.TimePlayed = lo.SumBy(ops, func(o *OperatorStats) int { return o.TimePlayed })
}

// SortedOperatorNames returns the player's operator names in lexicographic order.
func (p *Player) SortedOperatorNames() []string {
	names := lo.Keys(p.Operators)
	sort.Strings(names)
	return names
}

// String returns "username (rank)".
func (p *Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Username, p.RankName)
}
