package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/siege-stats/internal/charts"
	"github.com/ramonehamilton/siege-stats/internal/collector"
	"github.com/ramonehamilton/siege-stats/internal/config"
	"github.com/ramonehamilton/siege-stats/internal/credentials"
	"github.com/ramonehamilton/siege-stats/internal/export"
	"github.com/ramonehamilton/siege-stats/internal/provider"
	"github.com/ramonehamilton/siege-stats/internal/stats"
)

var openInBrowser = charts.OpenInBrowser

type runResult struct {
	Players int
	Roster  []*stats.Player
	Reports export.ReportFiles
	Chart   string
}

// run authenticates, collects every configured player and writes the reports.
func run(ctx context.Context, cfg *config.Config, creds *credentials.Credentials, logger *slog.Logger) (runResult, error) {
	var result runResult

	client, err := newProviderClient(cfg)
	if err != nil {
		return result, err
	}

	if err := client.Authenticate(ctx, creds.Email, creds.Password); err != nil {
		return result, err
	}

	col, err := collector.New(collector.Config{
		Provider:   client,
		Region:     cfg.Provider.Region,
		MaxSeasons: cfg.Provider.MaxSeasons,
		Logger:     logger,
	})
	if err != nil {
		return result, err
	}

	start := time.Now()
	players, err := col.Collect(ctx, cfg.Run.Usernames)
	if err != nil {
		return result, fmt.Errorf("collect: %w", err)
	}
	result.Players = len(players)
	result.Roster = players

	snap := client.Requests().Snapshot()
	logger.Info("Collection finished",
		"players", len(players),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"requests", snap.Total,
		"failed_requests", snap.Failed,
		"p95_ms", snap.P95Ms)
	for _, e := range snap.Endpoints {
		logger.Debug("Provider endpoint", "endpoint", e.Endpoint, "calls", e.Calls, "failures", e.Failures)
	}

	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return result, err
	}

	result.Reports, err = export.WriteTeamReport(cfg.Run.Team, players, export.ReportOptions{
		Dir:       cfg.Output.Dir,
		Format:    format,
		Overwrite: cfg.Output.Overwrite,
		Logger:    logger,
	})
	if err != nil {
		return result, err
	}
	logger.Info("Reports written", "general", result.Reports.General, "operators", result.Reports.Operators)

	if cfg.Chart.Enabled {
		chartCfg := charts.DefaultChartConfig()
		chartCfg.Title = cfg.Chart.Title
		path := filepath.Join(cfg.Output.Dir, cfg.Chart.File)

		if err := charts.RenderRatingHistory(players, cfg.Chart.BaseSeason, chartCfg, path); err != nil {
			// A team without ranked history has nothing to plot.
			logger.Warn("Chart not rendered", "error", err)
		} else {
			result.Chart = path
			logger.Info("Chart written", "path", path)
		}
	}

	return result, nil
}

func newProviderClient(cfg *config.Config) (*provider.Client, error) {
	gap, err := cfg.GetRateLimit()
	if err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}

	limit := rate.Inf
	if gap > 0 {
		limit = rate.Every(gap)
	}

	return provider.NewClient(provider.ClientOptions{
		BaseURL:   cfg.Provider.BaseURL,
		AppID:     cfg.Provider.AppID,
		Platform:  provider.Platform(cfg.Provider.Platform),
		RateLimit: limit,
		Timeout:   timeout,
	}), nil
}
