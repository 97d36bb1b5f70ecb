package stats

import "fmt"

// DefaultBaseSeason is the overall season number of the oldest entry
// in a rating history.
const DefaultBaseSeason = 21

// SeasonsPerYear is the number of ranked seasons in a game year.
const SeasonsPerYear = 4

// SeasonLabel formats an overall season number as "Y<year>S<season>".
// Season 21 is Y5S2.
func SeasonLabel(number int) string {
	year := number / SeasonsPerYear
	season := number%SeasonsPerYear + 1
	return fmt.Sprintf("Y%dS%d", year, season)
}

// SeasonLabels returns count consecutive labels starting at base.
func SeasonLabels(base, count int) []string {
	labels := make([]string, count)
	for i := range labels {
		labels[i] = SeasonLabel(base + i)
	}
	return labels
}

// LongestHistory returns the length of the longest rating history.
func LongestHistory(players []*Player) int {
	longest := 0
	for _, p := range players {
		if len(p.RatingHistory) > longest {
			longest = len(p.RatingHistory)
		}
	}
	return longest
}
