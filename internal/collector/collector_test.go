package collector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/siege-stats/internal/provider"
)

type fakeProvider struct {
	profiles  []provider.Profile
	operators map[string][]provider.Operator
	// ratings holds max MMR per profile, index 0 is season -1.
	ratings   map[string][]float64
	rankNames map[string]string

	// emptyRecords answers seasons past the history with an empty record
	// instead of an error.
	emptyRecords bool

	batchErr    error
	operatorErr error
	cancelAt    int

	seasonCalls []int
	cancel      context.CancelFunc
}

func (f *fakeProvider) PlayerBatch(ctx context.Context, usernames []string) ([]provider.Profile, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.profiles, nil
}

func (f *fakeProvider) Operators(ctx context.Context, profileID string) ([]provider.Operator, error) {
	if f.operatorErr != nil {
		return nil, f.operatorErr
	}
	return f.operators[profileID], nil
}

func (f *fakeProvider) SeasonRank(ctx context.Context, profileID, region string, season int) (*provider.SeasonRank, error) {
	f.seasonCalls = append(f.seasonCalls, season)
	if f.cancel != nil && season == f.cancelAt {
		f.cancel()
		return nil, ctx.Err()
	}
	idx := -season - 1
	history := f.ratings[profileID]
	if idx >= len(history) && f.emptyRecords {
		return &provider.SeasonRank{}, nil
	}
	if idx >= len(history) {
		return nil, &provider.APIError{Type: provider.ErrNotFound, StatusCode: 404, Message: "not found"}
	}
	return &provider.SeasonRank{
		Season:   season,
		Region:   region,
		MaxMMR:   history[idx],
		RankName: f.rankNames[profileID],
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCollector(t *testing.T, p Provider, maxSeasons int) *Collector {
	t.Helper()
	c, err := New(Config{Provider: p, MaxSeasons: maxSeasons, Logger: discardLogger()})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{Provider: &fakeProvider{}})
	require.NoError(t, err)

	assert.Equal(t, provider.DefaultRegion, c.region)
	assert.Equal(t, DefaultMaxSeasons, c.maxSeasons)
	assert.NotNil(t, c.logger)
}

func TestRatingHistory_OldestFirst(t *testing.T) {
	fake := &fakeProvider{
		ratings:   map[string][]float64{"p-1": {3100.9, 2900, 2500}},
		rankNames: map[string]string{"p-1": "Platinum III"},
	}
	c := newTestCollector(t, fake, 0)

	history, rankName, err := c.RatingHistory(context.Background(), "p-1")
	require.NoError(t, err)

	// Walked -1, -2, -3 and stopped at -4.
	assert.Equal(t, []int{-1, -2, -3, -4}, fake.seasonCalls)
	assert.Equal(t, []int{2500, 2900, 3100}, history)
	assert.Equal(t, "Platinum III", rankName)
}

func TestRatingHistory_NoSeasons(t *testing.T) {
	fake := &fakeProvider{}
	c := newTestCollector(t, fake, 0)

	history, rankName, err := c.RatingHistory(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, rankName)
	assert.Equal(t, []int{-1}, fake.seasonCalls)
}

func TestRatingHistory_Bounded(t *testing.T) {
	fake := &fakeProvider{ratings: map[string][]float64{"p-1": {1, 2, 3, 4, 5, 6}}}
	c := newTestCollector(t, fake, 3)

	history, _, err := c.RatingHistory(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, history)
	assert.Len(t, fake.seasonCalls, 3)
}

func TestRatingHistory_CancelledContextIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &fakeProvider{
		ratings:  map[string][]float64{"p-1": {1, 2, 3, 4}},
		cancel:   cancel,
		cancelAt: -2,
	}
	c := newTestCollector(t, fake, 0)

	_, _, err := c.RatingHistory(ctx, "p-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect(t *testing.T) {
	fake := &fakeProvider{
		profiles: []provider.Profile{
			{ProfileID: "p-1", NameOnPlatform: "Danio.FPU"},
			{ProfileID: "p-2", NameOnPlatform: "Royguin.FPU"},
		},
		operators: map[string][]provider.Operator{
			"p-1": {
				{Name: "Ash", Kills: 10, Deaths: 5, Wins: 2, Losses: 1, Headshots: 4, TimePlayed: 600},
				{Name: "Thermite", Kills: 20, Deaths: 5, Wins: 3, Losses: 3, Headshots: 9, TimePlayed: 1200},
			},
			"p-2": {
				{Name: "Mute", Kills: 0, Deaths: 2, Wins: 1, Losses: 0},
			},
		},
		ratings: map[string][]float64{
			"p-1": {3000, 2800},
		},
		rankNames: map[string]string{"p-1": "Gold I"},
	}
	c := newTestCollector(t, fake, 0)

	players, err := c.Collect(context.Background(), []string{"Danio.FPU", "Royguin.FPU"})
	require.NoError(t, err)
	require.Len(t, players, 2)

	danio := players[0]
	assert.Equal(t, "Danio.FPU", danio.Username)
	assert.Equal(t, "p-1", danio.ProfileID)
	assert.Equal(t, 30, danio.Kills)
	assert.Equal(t, 10, danio.Deaths)
	assert.Equal(t, 5, danio.Wins)
	assert.Equal(t, 4, danio.Losses)
	assert.Equal(t, 13, danio.Headshots)
	assert.Equal(t, 1800, danio.TimePlayed)
	assert.Equal(t, []int{2800, 3000}, danio.RatingHistory)
	assert.Equal(t, "Gold I", danio.RankName)

	royguin := players[1]
	assert.Equal(t, "Royguin.FPU", royguin.Username)
	assert.Empty(t, royguin.RatingHistory)
	assert.Contains(t, royguin.Operators, "Mute")
}

func TestCollect_ReturnsFreshSlicePerCall(t *testing.T) {
	fake := &fakeProvider{
		profiles: []provider.Profile{{ProfileID: "p-1", NameOnPlatform: "Danio.FPU"}},
	}
	c := newTestCollector(t, fake, 0)

	first, err := c.Collect(context.Background(), []string{"Danio.FPU"})
	require.NoError(t, err)
	second, err := c.Collect(context.Background(), []string{"Danio.FPU"})
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestCollect_BatchErrorIsFatal(t *testing.T) {
	fake := &fakeProvider{batchErr: errors.New("boom")}
	c := newTestCollector(t, fake, 0)

	_, err := c.Collect(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "boom")
}

func TestCollect_OperatorErrorIsFatal(t *testing.T) {
	fake := &fakeProvider{
		profiles:    []provider.Profile{{ProfileID: "p-1", NameOnPlatform: "Danio.FPU"}},
		operatorErr: errors.New("unavailable"),
	}
	c := newTestCollector(t, fake, 0)

	_, err := c.Collect(context.Background(), []string{"Danio.FPU"})
	assert.ErrorContains(t, err, "Danio.FPU")
}

func TestRatingHistory_EmptyRecordEndsWalk(t *testing.T) {
	fake := &fakeProvider{
		ratings:      map[string][]float64{"p-1": {3000, 2800}},
		rankNames:    map[string]string{"p-1": "GOLD I"},
		emptyRecords: true,
	}
	c := newTestCollector(t, fake, 10)

	history, rankName, err := c.RatingHistory(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []int{2800, 3000}, history)
	assert.Equal(t, "GOLD I", rankName)
	assert.Equal(t, []int{-1, -2, -3}, fake.seasonCalls)
}

func TestRatingHistory_ProviderClientEmptyRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/profiles/sessions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(provider.Session{Ticket: "t"})
	})
	mux.HandleFunc("/v1/profiles/p-1/seasons/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/-1") {
			_ = json.NewEncoder(w).Encode(provider.SeasonRank{Season: -1, MaxMMR: 3000, RankName: "GOLD I"})
			return
		}
		_, _ = w.Write([]byte("{}"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := provider.NewClient(provider.ClientOptions{BaseURL: server.URL, RateLimit: rate.Inf})
	require.NoError(t, client.Authenticate(context.Background(), "coach@example.com", "hunter2"))

	c := newTestCollector(t, client, 64)
	history, rankName, err := c.RatingHistory(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []int{3000}, history)
	assert.Equal(t, "GOLD I", rankName)
}
