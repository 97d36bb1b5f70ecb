package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/siege-stats/internal/metrics"
	"github.com/ramonehamilton/siege-stats/internal/version"
)

const (
	// DefaultBaseURL is the public services endpoint.
	DefaultBaseURL = "https://public-ubiservices.ubi.com"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRegion is the ranked region queried for season records.
	DefaultRegion = "ncsa"
)

// DefaultRateLimit keeps the sequential season walk well under the provider budget.
var DefaultRateLimit = rate.Every(250 * time.Millisecond)

// ClientOptions configures the provider client.
type ClientOptions struct {
	// BaseURL of the provider (default: DefaultBaseURL)
	BaseURL string

	// AppID is sent with every request as Ubi-AppId
	AppID string

	// Platform for profile and stats lookups (default: uplay)
	Platform Platform

	// RateLimit controls request frequency (default: 4 req/second)
	RateLimit rate.Limit

	// Timeout for HTTP requests (default: 30 seconds)
	Timeout time.Duration

	// HTTPClient allows custom HTTP client
	HTTPClient *http.Client
}

// DefaultClientOptions returns the default options.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:   DefaultBaseURL,
		Platform:  PlatformUplay,
		RateLimit: DefaultRateLimit,
		Timeout:   DefaultTimeout,
	}
}

// Client talks to the stats provider. Authenticate must be called before
// any lookup.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	appID      string
	platform   Platform
	requests   *metrics.Requests

	sessionMu sync.RWMutex
	session   *Session
}

// NewClient creates a new provider client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.Platform == "" {
		options.Platform = PlatformUplay
	}
	if options.RateLimit == 0 {
		options.RateLimit = DefaultRateLimit
	}
	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: options.Timeout,
		}
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(options.RateLimit, 1),
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
		appID:      options.AppID,
		platform:   options.Platform,
		requests:   metrics.NewRequests(),
	}
}

// Requests returns the request counters and latencies of this client.
func (c *Client) Requests() *metrics.Requests {
	return c.requests
}

// Authenticate opens a session with the given account credentials.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return &APIError{Type: ErrInvalidParams, Message: "email and password are required"}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/v3/profiles/sessions", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.SetBasicAuth(email, password)
	req.Header.Set("Content-Type", "application/json")

	var session Session
	if err := c.do(req, "sessions", &session); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if session.Ticket == "" {
		return &APIError{Type: ErrUnauthorized, Message: "provider returned an empty session ticket"}
	}

	c.sessionMu.Lock()
	c.session = &session
	c.sessionMu.Unlock()

	return nil
}

// Session returns the current session, or nil before Authenticate.
func (c *Client) Session() *Session {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	return c.session
}

// PlayerBatch looks up all usernames in a single request.
func (c *Client) PlayerBatch(ctx context.Context, usernames []string) ([]Profile, error) {
	if len(usernames) == 0 {
		return nil, &APIError{Type: ErrInvalidParams, Message: "at least one username is required"}
	}

	query := url.Values{}
	query.Set("namesOnPlatform", strings.Join(usernames, ","))
	query.Set("platformType", string(c.platform))

	var resp profilesResponse
	if err := c.get(ctx, "profiles", "/v3/profiles?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to look up players: %w", err)
	}

	return resp.Profiles, nil
}

// Operators fetches the per-operator counters of a profile.
func (c *Client) Operators(ctx context.Context, profileID string) ([]Operator, error) {
	if profileID == "" {
		return nil, &APIError{Type: ErrInvalidParams, Message: "profile id is required"}
	}

	query := url.Values{}
	query.Set("platform", string(c.platform))
	path := fmt.Sprintf("/v1/profiles/%s/operators?%s", url.PathEscape(profileID), query.Encode())

	var resp operatorsResponse
	if err := c.get(ctx, "operators", path, &resp); err != nil {
		return nil, fmt.Errorf("failed to get operators for %s: %w", profileID, err)
	}

	return resp.Operators, nil
}

// SeasonRank fetches the ranked record of a profile for a season index.
// season is negative and relative to the current season (-1 is the most recent).
func (c *Client) SeasonRank(ctx context.Context, profileID, region string, season int) (*SeasonRank, error) {
	if profileID == "" {
		return nil, &APIError{Type: ErrInvalidParams, Message: "profile id is required"}
	}
	if region == "" {
		region = DefaultRegion
	}

	query := url.Values{}
	query.Set("region", region)
	query.Set("platform", string(c.platform))
	path := fmt.Sprintf("/v1/profiles/%s/seasons/%d?%s", url.PathEscape(profileID), season, query.Encode())

	var rank SeasonRank
	if err := c.get(ctx, "season_rank", path, &rank); err != nil {
		return nil, fmt.Errorf("failed to get season %d rank for %s: %w", season, profileID, err)
	}
	if rank.Empty() {
		return nil, &APIError{
			Type:    ErrNotFound,
			Message: fmt.Sprintf("no season %d record for %s", season, profileID),
		}
	}

	return &rank, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, result interface{}) error {
	session := c.Session()
	if session == nil {
		return &APIError{Type: ErrUnauthorized, Message: "not authenticated"}
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Ubi_v1 t="+session.Ticket)
	if session.SessionID != "" {
		req.Header.Set("Ubi-SessionId", session.SessionID)
	}

	return c.do(req, endpoint, result)
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &APIError{
			Type:    ErrInvalidParams,
			Message: "failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	if c.appID != "" {
		req.Header.Set("Ubi-AppId", c.appID)
	}

	return req, nil
}

// do performs a single rate-limited request and decodes a JSON body.
func (c *Client) do(req *http.Request, endpoint string, result interface{}) (err error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return &APIError{
			Type:    ErrRateLimited,
			Message: "rate limiter error",
			Err:     err,
		}
	}

	start := time.Now()
	defer func() { c.requests.Observe(endpoint, time.Since(start), err) }()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{
			Type:    ErrUnavailable,
			Message: "failed to execute request",
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			Type:    ErrUnavailable,
			Message: "failed to read response body",
			Err:     err,
		}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{
			Type:       ErrUnauthorized,
			StatusCode: resp.StatusCode,
			Message:    "provider rejected credentials",
		}
	case http.StatusNotFound:
		return &APIError{
			Type:       ErrNotFound,
			StatusCode: resp.StatusCode,
			Message:    "not found",
			Err:        &NotFoundError{URL: req.URL.String()},
		}
	case http.StatusTooManyRequests:
		return &APIError{
			Type:       ErrRateLimited,
			StatusCode: resp.StatusCode,
			Message:    "rate limited (HTTP 429)",
		}
	default:
		return &APIError{
			Type:       ErrUnavailable,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d, body: %s", resp.StatusCode, truncate(body, maxErrorBody)),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &APIError{
			Type:    ErrParseError,
			Message: "failed to parse JSON response",
			Err:     err,
		}
	}

	return nil
}

// maxErrorBody bounds how much of an error response ends up in APIError.Message.
const maxErrorBody = 256

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
