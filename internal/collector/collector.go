// Package collector gathers raw player counters and rating histories from
// the stats provider.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ramonehamilton/siege-stats/internal/provider"
	"github.com/ramonehamilton/siege-stats/internal/stats"
)

// DefaultMaxSeasons bounds the rating-history walk.
const DefaultMaxSeasons = 64

// Provider is the subset of the provider client the collector needs.
type Provider interface {
	PlayerBatch(ctx context.Context, usernames []string) ([]provider.Profile, error)
	Operators(ctx context.Context, profileID string) ([]provider.Operator, error)
	SeasonRank(ctx context.Context, profileID, region string, season int) (*provider.SeasonRank, error)
}

// Config configures a Collector.
type Config struct {
	Provider   Provider
	Region     string
	MaxSeasons int
	Logger     *slog.Logger
}

// Collector fetches players from the provider.
type Collector struct {
	provider   Provider
	region     string
	maxSeasons int
	logger     *slog.Logger
}

// New creates a Collector.
func New(config Config) (*Collector, error) {
	if config.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if config.Region == "" {
		config.Region = provider.DefaultRegion
	}
	if config.MaxSeasons <= 0 {
		config.MaxSeasons = DefaultMaxSeasons
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Collector{
		provider:   config.Provider,
		region:     config.Region,
		maxSeasons: config.MaxSeasons,
		logger:     config.Logger,
	}, nil
}

// Collect looks up all usernames in one batch and returns one player per
// profile the provider knows, in provider order.
func (c *Collector) Collect(ctx context.Context, usernames []string) ([]*stats.Player, error) {
	profiles, err := c.provider.PlayerBatch(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("batch lookup: %w", err)
	}

	if len(profiles) < len(usernames) {
		c.logger.Warn("Provider returned fewer profiles than requested",
			"requested", len(usernames),
			"returned", len(profiles))
	}

	players := make([]*stats.Player, 0, len(profiles))
	for _, profile := range profiles {
		player, err := c.collectPlayer(ctx, profile)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	return players, nil
}

func (c *Collector) collectPlayer(ctx context.Context, profile provider.Profile) (*stats.Player, error) {
	apiOps, err := c.provider.Operators(ctx, profile.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("operators for %s: %w", profile.NameOnPlatform, err)
	}

	ops := make([]stats.OperatorStats, len(apiOps))
	for i, op := range apiOps {
		ops[i] = stats.OperatorStats{
			Name:       op.Name,
			Kills:      op.Kills,
			Deaths:     op.Deaths,
			Wins:       op.Wins,
			Losses:     op.Losses,
			Headshots:  op.Headshots,
			TimePlayed: op.TimePlayed,
		}
	}

	player := stats.NewPlayer(profile.NameOnPlatform, profile.ProfileID, ops)

	history, rankName, err := c.RatingHistory(ctx, profile.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("rating history for %s: %w", profile.NameOnPlatform, err)
	}
	player.RatingHistory = history
	player.RankName = rankName

	c.logger.Info("Collected player",
		"player", player.Username,
		"rank", player.RankName,
		"operators", len(player.Operators),
		"seasons", len(player.RatingHistory))

	return player, nil
}

// RankLookup is the outcome of one season lookup during the history walk.
type RankLookup struct {
	Season int
	Rank   *provider.SeasonRank

	// Found is false when the provider has no record for the season,
	// which ends the walk.
	Found bool
}

// lookupRank wraps a provider call so that a provider failure becomes an
// end-of-history result. Only context errors are returned.
func (c *Collector) lookupRank(ctx context.Context, profileID string, season int) (RankLookup, error) {
	rank, err := c.provider.SeasonRank(ctx, profileID, c.region, season)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RankLookup{}, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return RankLookup{}, err
		}
		c.logger.Debug("Rank history ended",
			"profile", profileID,
			"season", season,
			"reason", err)
		return RankLookup{Season: season}, nil
	}
	if rank.Empty() {
		return RankLookup{Season: season}, nil
	}

	return RankLookup{Season: season, Rank: rank, Found: true}, nil
}

// RatingHistory walks past seasons from the most recent (-1) backwards until
// the provider has no record, and returns the max rating per season oldest
// first along with the most recent rank name.
func (c *Collector) RatingHistory(ctx context.Context, profileID string) ([]int, string, error) {
	var (
		newestFirst []int
		rankName    string
	)

	for season := -1; season >= -c.maxSeasons; season-- {
		lookup, err := c.lookupRank(ctx, profileID, season)
		if err != nil {
			return nil, "", err
		}
		if !lookup.Found {
			break
		}

		if season == -1 {
			rankName = lookup.Rank.RankName
		}
		newestFirst = append(newestFirst, int(math.Trunc(lookup.Rank.MaxMMR)))

		c.logger.Debug("Season rank",
			"profile", profileID,
			"season", season,
			"max_mmr", lookup.Rank.MaxMMR)
	}

	history := make([]int, len(newestFirst))
	for i, mmr := range newestFirst {
		history[len(newestFirst)-1-i] = mmr
	}

	return history, rankName, nil
}
