package display

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ramonehamilton/siege-stats/internal/stats"
)

// WriteTeamSummary prints one line per player with the headline ratios,
// followed by the player's three most played operators.
func WriteTeamSummary(w io.Writer, team string, players []*stats.Player) error {
	if len(players) == 0 {
		_, err := fmt.Fprintln(w, "No players found for this team.")
		return err
	}

	title := fmt.Sprintf("%s Summary", team)
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Players: %d\n\n", len(players))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Player\tRank\tK/D\tHS%\tWin%\tHours\tTop Operators")
	for _, p := range players {
		s := stats.Derive(p)
		rank := p.RankName
		if rank == "" {
			rank = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
			p.Username, rank, s.KD, percent(s.HeadshotRatio), percent(s.WinPercentage),
			s.TimePlayedHours, strings.Join(TopOperators(p, 3), ", "))
	}
	return tw.Flush()
}

// TopOperators returns up to n operator names ordered by time played,
// ties broken by name.
func TopOperators(p *stats.Player, n int) []string {
	names := p.SortedOperatorNames()
	ops := make([]*stats.OperatorStats, 0, len(names))
	for _, name := range names {
		ops = append(ops, p.Operators[name])
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].TimePlayed > ops[j].TimePlayed
	})
	if len(ops) > n {
		ops = ops[:n]
	}
	top := make([]string, len(ops))
	for i, op := range ops {
		top[i] = op.Name
	}
	return top
}

func percent(r stats.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return stats.UndefinedText
	}
	return fmt.Sprintf("%.1f%%", v*100)
}
