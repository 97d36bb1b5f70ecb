package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the run configuration.
type Config struct {
	// Team and players to collect
	Run RunConfig `toml:"run"`

	// Report output configuration
	Output OutputConfig `toml:"output"`

	// Stats provider configuration
	Provider ProviderConfig `toml:"provider"`

	// Rating history chart configuration
	Chart ChartConfig `toml:"chart"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// RunConfig names the team and its players.
type RunConfig struct {
	Team            string   `toml:"team"`             // Prefix for report files
	Usernames       []string `toml:"usernames"`        // Player names on the platform
	CredentialsFile string   `toml:"credentials_file"` // Path to auth JSON
}

// OutputConfig contains report settings.
type OutputConfig struct {
	Dir       string `toml:"dir"`       // Output directory
	Format    string `toml:"format"`    // "csv" or "json"
	Overwrite bool   `toml:"overwrite"` // Replace existing reports
}

// ProviderConfig contains stats provider settings.
type ProviderConfig struct {
	BaseURL    string `toml:"base_url"`
	AppID      string `toml:"app_id"`
	Platform   string `toml:"platform"`    // uplay, psn, xbl
	Region     string `toml:"region"`      // Ranked region (e.g., "ncsa")
	RateLimit  string `toml:"rate_limit"`  // Minimum gap between requests (e.g., "250ms")
	Timeout    string `toml:"timeout"`     // Per-request timeout (e.g., "30s")
	MaxSeasons int    `toml:"max_seasons"` // Upper bound for the rating history walk
}

// ChartConfig contains chart settings.
type ChartConfig struct {
	Enabled    bool   `toml:"enabled"`
	File       string `toml:"file"`        // Written inside Output.Dir
	BaseSeason int    `toml:"base_season"` // Overall season number of the oldest entry
	Title      string `toml:"title"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Team:            "team",
			Usernames:       nil,
			CredentialsFile: "auth.json",
		},
		Output: OutputConfig{
			Dir:       "data",
			Format:    "csv",
			Overwrite: true,
		},
		Provider: ProviderConfig{
			BaseURL:    "https://public-ubiservices.ubi.com",
			AppID:      "",
			Platform:   "uplay",
			Region:     "ncsa",
			RateLimit:  "250ms",
			Timeout:    "30s",
			MaxSeasons: 64,
		},
		Chart: ChartConfig{
			Enabled:    false,
			File:       "mmr_by_season.html",
			BaseSeason: 21,
			Title:      "MMR by Season",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// DefaultPath returns the path to the configuration file in the user's home.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".siege-stats", "config.toml"), nil
}

// Load loads the configuration from the default path. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Returns default config if file doesn't exist.
// Keys missing from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Run.Team == "" {
		return fmt.Errorf("team name is required")
	}

	if len(c.Run.Usernames) == 0 {
		return fmt.Errorf("at least one username is required")
	}

	switch c.Output.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be csv or json", c.Output.Format)
	}

	switch c.Provider.Platform {
	case "uplay", "psn", "xbl":
	default:
		return fmt.Errorf("invalid platform %q", c.Provider.Platform)
	}

	if _, err := time.ParseDuration(c.Provider.RateLimit); err != nil {
		return fmt.Errorf("invalid rate limit %q: %w", c.Provider.RateLimit, err)
	}

	if _, err := time.ParseDuration(c.Provider.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Provider.Timeout, err)
	}

	if c.Provider.MaxSeasons < 0 {
		return fmt.Errorf("max seasons cannot be negative: %d", c.Provider.MaxSeasons)
	}

	if c.Chart.BaseSeason < 0 {
		return fmt.Errorf("base season cannot be negative: %d", c.Chart.BaseSeason)
	}

	return nil
}

// GetRateLimit returns the minimum gap between provider requests.
func (c *Config) GetRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Provider.RateLimit)
}

// GetTimeout returns the provider request timeout.
func (c *Config) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Provider.Timeout)
}
