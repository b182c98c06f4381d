package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/EDH-Companion/internal/edh/commanders"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/completion"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/decklist"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/remote"
	"github.com/ramonehamilton/EDH-Companion/internal/edh/scoring"
)

// Config represents the application configuration.
type Config struct {
	// Input and output locations
	Files FilesConfig `toml:"files"`

	// EDHREC and Scryfall access
	Remote RemoteConfig `toml:"remote"`

	// Suggestion thresholds
	Scoring ScoringConfig `toml:"scoring"`

	// Run settings
	Run RunConfig `toml:"run"`
}

// FilesConfig contains input and output paths.
type FilesConfig struct {
	Inventory string `toml:"inventory"`  // Inventory CSV (name, quantity, source)
	Decklist  string `toml:"decklist"`   // Partial decklists to complete
	Cardlist  string `toml:"cardlist"`   // Card list to tag
	OutputDir string `toml:"output_dir"` // Directory for reports
	TagMode   string `toml:"tag_mode"`   // "first" or "all"
}

// RemoteConfig contains fetcher settings.
type RemoteConfig struct {
	EDHRECBaseURL   string `toml:"edhrec_base_url"`
	ScryfallBaseURL string `toml:"scryfall_base_url"`
	RequestDelay    string `toml:"request_delay"`    // Spacing between requests (e.g., "100ms")
	Timeout         string `toml:"timeout"`          // EDHREC attempt timeout
	ScryfallTimeout string `toml:"scryfall_timeout"` // Scryfall attempt timeout
	MaxRetries      int    `toml:"max_retries"`
	InitialBackoff  string `toml:"initial_backoff"`
	MaxBackoff      string `toml:"max_backoff"`
	UserAgent       string `toml:"user_agent"`
}

// ScoringConfig contains suggestion thresholds.
type ScoringConfig struct {
	MinScore         float64 `toml:"min_score"`
	MaxSuggestions   int     `toml:"max_suggestions"`
	KeyCardInclusion float64 `toml:"key_card_inclusion"`
	KeyCardMaxPrice  float64 `toml:"key_card_max_price"`
	KeyCardLimit     int     `toml:"key_card_limit"`
	SeedLimit        int     `toml:"seed_limit"`   // Deck cards asked for synergies
	CheckColors      bool    `toml:"check_colors"` // Filter by commander color identity
}

// RunConfig contains general run settings.
type RunConfig struct {
	Workers    int  `toml:"workers"`     // Concurrent card fetches (1 = sequential)
	MinMatches int  `toml:"min_matches"` // Owned cards a commander needs to rank
	ChartTop   int  `toml:"chart_top"`   // Commanders shown in the chart
	DebugMode  bool `toml:"debug_mode"`  // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	ro := remote.DefaultOptions()
	so := scoring.DefaultOptions()
	co := completion.DefaultOptions()
	ao := commanders.DefaultOptions()
	return &Config{
		Files: FilesConfig{
			Inventory: "inventory.csv",
			Decklist:  "decklist.txt",
			Cardlist:  "cardlist.txt",
			OutputDir: "output",
			TagMode:   decklist.ModeFirst.String(),
		},
		Remote: RemoteConfig{
			EDHRECBaseURL:   ro.EDHRECBaseURL,
			ScryfallBaseURL: ro.ScryfallBaseURL,
			RequestDelay:    ro.RequestDelay.String(),
			Timeout:         ro.Timeout.String(),
			ScryfallTimeout: ro.ScryfallTimeout.String(),
			MaxRetries:      ro.MaxRetries,
			InitialBackoff:  ro.InitialBackoff.String(),
			MaxBackoff:      ro.MaxBackoff.String(),
			UserAgent:       ro.UserAgent,
		},
		Scoring: ScoringConfig{
			MinScore:         so.MinScore,
			MaxSuggestions:   so.MaxSuggestions,
			KeyCardInclusion: so.KeyCardInclusion,
			KeyCardMaxPrice:  so.KeyCardMaxPrice,
			KeyCardLimit:     so.KeyCardLimit,
			SeedLimit:        co.SeedLimit,
			CheckColors:      co.CheckColors,
		},
		Run: RunConfig{
			Workers:    ao.Workers,
			MinMatches: ao.MinMatches,
			ChartTop:   15,
			DebugMode:  false,
		},
	}
}

// DefaultPath returns the path to the configuration file.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".edh-companion", "config.toml"), nil
}

// Load loads the configuration from the default path. Returns default config
// if the file doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Keys missing from the file keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return config, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo saves the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
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

// Environment variables read by ApplyEnv.
const (
	EnvInventory   = "EDH_INVENTORY"
	EnvDecklist    = "EDH_DECKLIST"
	EnvCardlist    = "EDH_CARDLIST"
	EnvOutputDir   = "EDH_OUTPUT_DIR"
	EnvUserAgent   = "EDH_USER_AGENT"
	EnvEDHRECURL   = "EDH_EDHREC_URL"
	EnvScryfallURL = "EDH_SCRYFALL_URL"
	EnvWorkers     = "EDH_WORKERS"
	EnvMinMatches  = "EDH_MIN_MATCHES"
	EnvDebug       = "EDH_DEBUG"
)

// ApplyEnv loads envFile when it exists and then overrides the configuration
// with any EDH_* variables set in the environment. Variables already set win
// over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	setString(&c.Files.Inventory, EnvInventory)
	setString(&c.Files.Decklist, EnvDecklist)
	setString(&c.Files.Cardlist, EnvCardlist)
	setString(&c.Files.OutputDir, EnvOutputDir)
	setString(&c.Remote.UserAgent, EnvUserAgent)
	setString(&c.Remote.EDHRECBaseURL, EnvEDHRECURL)
	setString(&c.Remote.ScryfallBaseURL, EnvScryfallURL)

	if err := setInt(&c.Run.Workers, EnvWorkers); err != nil {
		return err
	}
	if err := setInt(&c.Run.MinMatches, EnvMinMatches); err != nil {
		return err
	}
	if raw := strings.TrimSpace(os.Getenv(EnvDebug)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, raw, err)
		}
		c.Run.DebugMode = v
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := decklist.ParseMode(c.Files.TagMode); err != nil {
		return fmt.Errorf("invalid tag mode: %w", err)
	}

	durations := []struct {
		name  string
		value string
	}{
		{"request delay", c.Remote.RequestDelay},
		{"timeout", c.Remote.Timeout},
		{"scryfall timeout", c.Remote.ScryfallTimeout},
		{"initial backoff", c.Remote.InitialBackoff},
		{"max backoff", c.Remote.MaxBackoff},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative: %s", d.name, d.value)
		}
	}

	if c.Remote.EDHRECBaseURL == "" || c.Remote.ScryfallBaseURL == "" {
		return errors.New("remote base URLs cannot be empty")
	}
	if c.Remote.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative: %d", c.Remote.MaxRetries)
	}

	if c.Scoring.MaxSuggestions < 1 {
		return fmt.Errorf("max suggestions must be positive: %d", c.Scoring.MaxSuggestions)
	}
	if c.Scoring.KeyCardInclusion < 0 || c.Scoring.KeyCardInclusion > 1 {
		return fmt.Errorf("key card inclusion must be between 0 and 1: %g", c.Scoring.KeyCardInclusion)
	}
	if c.Scoring.KeyCardLimit < 0 {
		return fmt.Errorf("key card limit cannot be negative: %d", c.Scoring.KeyCardLimit)
	}
	if c.Scoring.SeedLimit < 0 {
		return fmt.Errorf("seed limit cannot be negative: %d", c.Scoring.SeedLimit)
	}

	if c.Run.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %d", c.Run.Workers)
	}
	if c.Run.MinMatches < 1 {
		return fmt.Errorf("min matches must be at least 1: %d", c.Run.MinMatches)
	}
	if c.Run.ChartTop < 0 {
		return fmt.Errorf("chart top cannot be negative: %d", c.Run.ChartTop)
	}
	return nil
}

// GetRequestDelay returns the request spacing as a duration.
func (c *Config) GetRequestDelay() (time.Duration, error) {
	return time.ParseDuration(c.Remote.RequestDelay)
}

// GetTimeout returns the EDHREC timeout as a duration.
func (c *Config) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Remote.Timeout)
}

// GetScryfallTimeout returns the Scryfall timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Remote.ScryfallTimeout)
}

// RemoteOptions converts the [remote] section into fetcher options.
func (c *Config) RemoteOptions() (remote.Options, error) {
	opts := remote.Options{
		EDHRECBaseURL:   c.Remote.EDHRECBaseURL,
		ScryfallBaseURL: c.Remote.ScryfallBaseURL,
		MaxRetries:      c.Remote.MaxRetries,
		UserAgent:       c.Remote.UserAgent,
	}

	var err error
	if opts.RequestDelay, err = c.GetRequestDelay(); err != nil {
		return remote.Options{}, fmt.Errorf("invalid request delay: %w", err)
	}
	if opts.Timeout, err = c.GetTimeout(); err != nil {
		return remote.Options{}, fmt.Errorf("invalid timeout: %w", err)
	}
	if opts.ScryfallTimeout, err = c.GetScryfallTimeout(); err != nil {
		return remote.Options{}, fmt.Errorf("invalid scryfall timeout: %w", err)
	}
	if opts.InitialBackoff, err = time.ParseDuration(c.Remote.InitialBackoff); err != nil {
		return remote.Options{}, fmt.Errorf("invalid initial backoff: %w", err)
	}
	if opts.MaxBackoff, err = time.ParseDuration(c.Remote.MaxBackoff); err != nil {
		return remote.Options{}, fmt.Errorf("invalid max backoff: %w", err)
	}
	return opts, nil
}

// ScoringOptions converts the [scoring] thresholds.
func (c *Config) ScoringOptions() scoring.Options {
	return scoring.Options{
		MinScore:         c.Scoring.MinScore,
		MaxSuggestions:   c.Scoring.MaxSuggestions,
		KeyCardInclusion: c.Scoring.KeyCardInclusion,
		KeyCardMaxPrice:  c.Scoring.KeyCardMaxPrice,
		KeyCardLimit:     c.Scoring.KeyCardLimit,
	}
}

// CompletionOptions returns the deck completion settings.
func (c *Config) CompletionOptions() completion.Options {
	return completion.Options{
		SeedLimit:   c.Scoring.SeedLimit,
		CheckColors: c.Scoring.CheckColors,
		Scoring:     c.ScoringOptions(),
	}
}

// CommanderOptions returns the commander finder settings.
func (c *Config) CommanderOptions() commanders.Options {
	return commanders.Options{
		Workers:    c.Run.Workers,
		MinMatches: c.Run.MinMatches,
	}
}

// TagMode returns the parsed tagging mode.
func (c *Config) TagMode() (decklist.Mode, error) {
	return decklist.ParseMode(c.Files.TagMode)
}
