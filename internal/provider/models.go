package provider

import (
	"fmt"
	"time"
)

// Platform identifies the account platform used for lookups.
type Platform string

// Supported platforms.
const (
	PlatformUplay Platform = "uplay"
	PlatformPSN   Platform = "psn"
	PlatformXBL   Platform = "xbl"
)

// Session is the result of a successful authentication.
type Session struct {
	Ticket     string    `json:"ticket"`
	SessionID  string    `json:"sessionId"`
	Expiration time.Time `json:"expiration"`
}

// Profile is one account returned by a batch lookup.
type Profile struct {
	ProfileID      string   `json:"profileId"`
	UserID         string   `json:"userId"`
	NameOnPlatform string   `json:"nameOnPlatform"`
	PlatformType   Platform `json:"platformType"`
}

type profilesResponse struct {
	Profiles []Profile `json:"profiles"`
}

// Operator holds the lifetime counters of one operator for a profile.
type Operator struct {
	Name       string `json:"name"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Headshots  int    `json:"headshots"`
	TimePlayed int    `json:"timePlayed"` // seconds
}

type operatorsResponse struct {
	Operators []Operator `json:"operators"`
}

// SeasonRank is a profile's ranked record for one season.
type SeasonRank struct {
	Season   int     `json:"season"`
	Region   string  `json:"region"`
	MMR      float64 `json:"mmr"`
	MaxMMR   float64 `json:"maxMmr"`
	Rank     int     `json:"rank"`
	RankName string  `json:"rankName"`
}

// Empty reports whether the record carries no season data.
func (r *SeasonRank) Empty() bool {
	return r == nil || (r.Season == 0 && r.RankName == "" && r.MaxMMR == 0 && r.MMR == 0)
}

// Error types returned by the provider client.
const (
	ErrUnauthorized  = "unauthorized"
	ErrNotFound      = "not_found"
	ErrUnavailable   = "unavailable"
	ErrParseError    = "parse_error"
	ErrInvalidParams = "invalid_params"
	ErrRateLimited   = "rate_limited"
)

// APIError represents an error from the stats provider.
type APIError struct {
	Type       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when the provider answers 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}
