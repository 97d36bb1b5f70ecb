// Package charts renders report charts as interactive HTML.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/siege-stats/internal/stats"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	YAxisLabel string   // Y-axis label
	XAxisLabel string   // X-axis label
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line
	Colors     []string // Series colors, cycled
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "MMR by Season",
		XAxisLabel: "Season",
		YAxisLabel: "MMR",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     false,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// SeriesData is one named line.
type SeriesData struct {
	Name   string
	Values []float64
}

// RatingHistorySeries converts player rating histories into one series per
// player and the season labels for the x axis. Index i of every history maps
// to overall season baseSeason+i.
func RatingHistorySeries(players []*stats.Player, baseSeason int) ([]string, []SeriesData) {
	labels := stats.SeasonLabels(baseSeason, stats.LongestHistory(players))

	series := make([]SeriesData, 0, len(players))
	for _, p := range players {
		values := make([]float64, len(p.RatingHistory))
		for i, mmr := range p.RatingHistory {
			values[i] = float64(mmr)
		}
		series = append(series, SeriesData{Name: p.Username, Values: values})
	}

	return labels, series
}

// NewMultiLineChart builds a line chart with one line per series.
func NewMultiLineChart(xLabels []string, series []SeriesData, config ChartConfig) (*charts.Line, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no data series provided")
	}
	if len(xLabels) == 0 {
		return nil, fmt.Errorf("no x-axis labels provided")
	}
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(config.ShowLegend),
			Right:  "10",
			Bottom: "10",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: config.XAxisLabel,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: config.YAxisLabel,
			Min:  "dataMin",
		}),
	)

	line.SetXAxis(xLabels)

	for i, s := range series {
		yData := make([]opts.LineData, len(s.Values))
		for j, v := range s.Values {
			yData[j] = opts.LineData{Value: v}
		}

		line.AddSeries(s.Name, yData,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: config.Colors[i%len(config.Colors)],
			}),
		)
	}

	return line, nil
}

// WriteRatingHistory renders the rating history chart to w.
func WriteRatingHistory(w io.Writer, players []*stats.Player, baseSeason int, config ChartConfig) error {
	labels, series := RatingHistorySeries(players, baseSeason)

	line, err := NewMultiLineChart(labels, series, config)
	if err != nil {
		return err
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderRatingHistory writes the rating history chart to an HTML file.
// Nothing is written when the chart cannot be built.
func RenderRatingHistory(players []*stats.Player, baseSeason int, config ChartConfig, outputPath string) error {
	var buf bytes.Buffer
	if err := WriteRatingHistory(&buf, players, baseSeason, config); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
