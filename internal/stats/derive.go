package stats

// Summary holds the statistics derived from a player's totals.
type Summary struct {
	KD              Ratio
	HeadshotRatio   Ratio
	WinLoss         Ratio
	WinPercentage   Ratio
	KillsPerGame    Ratio
	TimePlayedHours float64

	// HeadshotsExceedKills flags a headshot count above the kill count.
	// The ratio is still reported as-is.
	HeadshotsExceedKills bool
}

// OperatorSummary is the Summary of a single operator.
type OperatorSummary struct {
	Name string
	Summary
}

// Derive computes the summary statistics for a player's totals.
func Derive(p *Player) Summary {
	return summarize(p.Kills, p.Deaths, p.Wins, p.Losses, p.Headshots, p.TimePlayed)
}

// DeriveOperator computes the summary statistics for one operator.
func DeriveOperator(op *OperatorStats) OperatorSummary {
	return OperatorSummary{
		Name:    op.Name,
		Summary: summarize(op.Kills, op.Deaths, op.Wins, op.Losses, op.Headshots, op.TimePlayed),
	}
}

// DeriveOperators returns one summary per operator, ordered by operator name.
func DeriveOperators(p *Player) []OperatorSummary {
	names := p.SortedOperatorNames()
	out := make([]OperatorSummary, 0, len(names))
	for _, name := range names {
		out = append(out, DeriveOperator(p.Operators[name]))
	}
	return out
}

func summarize(kills, deaths, wins, losses, headshots, seconds int) Summary {
	games := wins + losses
	return Summary{
		KD:                   NewRatio(kills, deaths),
		HeadshotRatio:        NewRatio(headshots, kills),
		WinLoss:              NewRatio(wins, losses),
		WinPercentage:        NewRatio(wins, games),
		KillsPerGame:         NewRatio(kills, games),
		TimePlayedHours:      float64(seconds) / 3600,
		HeadshotsExceedKills: headshots > kills,
	}
}
