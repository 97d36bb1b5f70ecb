package export

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ramonehamilton/siege-stats/internal/stats"
)

// GeneralRow is one player in the general stats report.
type GeneralRow struct {
	Player          string      `csv:"Player" json:"player"`
	Kills           int         `csv:"Kills" json:"kills"`
	Deaths          int         `csv:"Deaths" json:"deaths"`
	KD              stats.Ratio `csv:"K/D" json:"kd"`
	KillsPerGame    stats.Ratio `csv:"Kills/Game" json:"kills_per_game"`
	Headshots       int         `csv:"Headshots" json:"headshots"`
	HeadshotRatio   stats.Ratio `csv:"Headshot Ratio" json:"headshot_ratio"`
	Wins            int         `csv:"Wins" json:"wins"`
	Losses          int         `csv:"Losses" json:"losses"`
	WinLoss         stats.Ratio `csv:"Win/Loss" json:"win_loss"`
	WinPercentage   stats.Ratio `csv:"Win Percentage" json:"win_percentage"`
	Rank            string      `csv:"Rank" json:"rank"`
	TimePlayedHours float64     `csv:"Time Played (Hrs)" json:"time_played_hours"`
}

// OperatorRow is one (player, operator) pair in the operator report.
type OperatorRow struct {
	Player          string      `csv:"Player" json:"player"`
	Operator        string      `csv:"Operator" json:"operator"`
	Kills           int         `csv:"Kills" json:"kills"`
	Deaths          int         `csv:"Deaths" json:"deaths"`
	KD              stats.Ratio `csv:"K/D" json:"kd"`
	Headshots       int         `csv:"Headshots" json:"headshots"`
	HeadshotRatio   stats.Ratio `csv:"Headshot Ratio" json:"headshot_ratio"`
	Wins            int         `csv:"Wins" json:"wins"`
	Losses          int         `csv:"Losses" json:"losses"`
	WinLoss         stats.Ratio `csv:"Win/Loss" json:"win_loss"`
	WinPercentage   stats.Ratio `csv:"Win Percentage" json:"win_percentage"`
	TimePlayedHours float64     `csv:"Time Played (Hrs)" json:"time_played_hours"`
}

// GeneralRows builds one row per player, in the given order.
func GeneralRows(players []*stats.Player) []GeneralRow {
	rows := make([]GeneralRow, 0, len(players))
	for _, p := range players {
		s := stats.Derive(p)
		rows = append(rows, GeneralRow{
			Player:          p.Username,
			Kills:           p.Kills,
			Deaths:          p.Deaths,
			KD:              s.KD,
			KillsPerGame:    s.KillsPerGame,
			Headshots:       p.Headshots,
			HeadshotRatio:   s.HeadshotRatio,
			Wins:            p.Wins,
			Losses:          p.Losses,
			WinLoss:         s.WinLoss,
			WinPercentage:   s.WinPercentage,
			Rank:            p.RankName,
			TimePlayedHours: s.TimePlayedHours,
		})
	}
	return rows
}

// OperatorRows builds one row per player and operator. Players keep the
// given order; operators are sorted by name.
func OperatorRows(players []*stats.Player) []OperatorRow {
	var rows []OperatorRow
	for _, p := range players {
		for _, s := range stats.DeriveOperators(p) {
			op := p.Operators[s.Name]
			rows = append(rows, OperatorRow{
				Player:          p.Username,
				Operator:        s.Name,
				Kills:           op.Kills,
				Deaths:          op.Deaths,
				KD:              s.KD,
				Headshots:       op.Headshots,
				HeadshotRatio:   s.HeadshotRatio,
				Wins:            op.Wins,
				Losses:          op.Losses,
				WinLoss:         s.WinLoss,
				WinPercentage:   s.WinPercentage,
				TimePlayedHours: s.TimePlayedHours,
			})
		}
	}
	return rows
}

// ReportOptions configures WriteTeamReport.
type ReportOptions struct {
	Dir       string
	Format    Format
	Overwrite bool
	Logger    *slog.Logger
}

// ReportFiles lists the files written by WriteTeamReport. Operators is
// empty when no player had operator stats.
type ReportFiles struct {
	General   string
	Operators string
}

// GeneralReportPath returns the path of the general stats report for a team.
func GeneralReportPath(dir, team string, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s-player_general_data.%s", team, format))
}

// OperatorReportPath returns the path of the operator report for a team.
func OperatorReportPath(dir, team string, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s-operator_data.%s", team, format))
}

// WriteTeamReport writes the general and operator reports for a team.
func WriteTeamReport(team string, players []*stats.Player, opts ReportOptions) (ReportFiles, error) {
	var files ReportFiles

	if team == "" {
		return files, fmt.Errorf("team name is required")
	}
	if len(players) == 0 {
		return files, fmt.Errorf("no players to report")
	}
	if opts.Format == "" {
		opts.Format = FormatCSV
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	warnDataQuality(opts.Logger, players)

	general := GeneralReportPath(opts.Dir, team, opts.Format)
	err := NewExporter(Options{
		Format:     opts.Format,
		FilePath:   general,
		PrettyJSON: true,
		Overwrite:  opts.Overwrite,
	}).Export(GeneralRows(players))
	if err != nil {
		return files, fmt.Errorf("write general report: %w", err)
	}
	files.General = general

	opRows := OperatorRows(players)
	if len(opRows) == 0 {
		opts.Logger.Warn("No operator stats collected, skipping operator report", "team", team)
		return files, nil
	}

	operators := OperatorReportPath(opts.Dir, team, opts.Format)
	err = NewExporter(Options{
		Format:     opts.Format,
		FilePath:   operators,
		PrettyJSON: true,
		Overwrite:  opts.Overwrite,
	}).Export(opRows)
	if err != nil {
		return files, fmt.Errorf("write operator report: %w", err)
	}
	files.Operators = operators

	return files, nil
}

// warnDataQuality logs headshot counts above kill counts. The rows keep the
// reported values.
func warnDataQuality(logger *slog.Logger, players []*stats.Player) {
	for _, p := range players {
		if stats.Derive(p).HeadshotsExceedKills {
			logger.Warn("Headshot ratio above 100%",
				"player", p.Username,
				"kills", p.Kills,
				"headshots", p.Headshots)
		}
		for _, name := range p.SortedOperatorNames() {
			op := p.Operators[name]
			if op.Headshots > op.Kills {
				logger.Warn("Operator headshot ratio above 100%",
					"player", p.Username,
					"operator", name,
					"kills", op.Kills,
					"headshots", op.Headshots)
			}
		}
	}
}
