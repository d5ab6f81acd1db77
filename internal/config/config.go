// Package config handles loading and validation of the notiqd
// configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/notiq/internal/model"
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings. Supports formats like "5s", "1m", "1h30m", or integer
// milliseconds. A value of "0" or 0 means never expire; negative values
// disable the setting they configure.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer milliseconds, matching the wire encoding of ExpireTimeout
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the configuration for notiqd.
// Loaded from ~/.config/notiq/notiqd.toml
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Timeouts TimeoutConfig  `toml:"timeouts"`
	Behavior BehaviorConfig `toml:"behavior"`
	History  HistoryConfig  `toml:"history"`
}

// DisplayConfig contains settings for the displayed queue.
type DisplayConfig struct {
	// MaxVisible limits the number of simultaneously displayed
	// notifications. 0 means unlimited.
	MaxVisible int `toml:"max_visible"`
	// AgeThreshold is the displayed age past which the rendered age label
	// ("30s ago") starts updating every second. Negative disables age
	// labels entirely.
	AgeThreshold Duration `toml:"age_threshold"`
}

// TimeoutConfig contains default timeouts per urgency level.
// A value of "0" or 0 means never expire.
type TimeoutConfig struct {
	Low      Duration `toml:"low"`
	Normal   Duration `toml:"normal"`
	Critical Duration `toml:"critical"`
}

// BehaviorConfig contains queue behavior settings.
type BehaviorConfig struct {
	// StackDuplicates merges semantically identical notifications into
	// one entry with a repeat counter.
	StackDuplicates bool `toml:"stack_duplicates"`
	// FullscreenDelay holds back non-critical notifications while a
	// fullscreen application has focus.
	FullscreenDelay bool `toml:"fullscreen_delay"`
	// IdleThreshold is how long without input the user counts as idle.
	// 0 disables idle detection.
	IdleThreshold Duration `toml:"idle_threshold"`
}

// HistoryConfig contains settings for the history queue.
type HistoryConfig struct {
	// Length caps the history queue, dropping the oldest entries.
	// 0 means unlimited.
	Length int `toml:"length"`
	// SkipReasons lists close reasons whose notifications are discarded
	// instead of archived to history.
	SkipReasons []string `toml:"skip_reasons"`
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			MaxVisible:   5,
			AgeThreshold: Duration(time.Minute),
		},
		Timeouts: TimeoutConfig{
			Low:      Duration(5 * time.Second),
			Normal:   Duration(10 * time.Second),
			Critical: Duration(0), // Never expires
		},
		Behavior: BehaviorConfig{
			StackDuplicates: true,
			FullscreenDelay: true,
			IdleThreshold:   Duration(30 * time.Second),
		},
		History: HistoryConfig{
			Length:      100,
			SkipReasons: []string{"replaced"},
		},
	}
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "notiq", "notiqd.toml")
}

// Load loads the configuration from the given path, or from the default
// location when path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to its default location.
func Save(cfg *Config) error {
	path, err := xdg.ConfigFile(filepath.Join("notiq", "notiqd.toml"))
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Display.MaxVisible < 0 || c.Display.MaxVisible > 100 {
		return fmt.Errorf("max_visible must be between 0 and 100, got %d", c.Display.MaxVisible)
	}
	if c.History.Length < 0 {
		return fmt.Errorf("history length must not be negative, got %d", c.History.Length)
	}
	for _, t := range []Duration{c.Timeouts.Low, c.Timeouts.Normal, c.Timeouts.Critical} {
		if t.Duration() < 0 {
			return fmt.Errorf("timeouts must not be negative, got %s", t.Duration())
		}
	}
	return nil
}

// TimeoutForUrgency returns the default timeout for the given urgency
// level. Zero means the notification never expires.
func (c *Config) TimeoutForUrgency(urgency int) time.Duration {
	switch urgency {
	case model.UrgencyLow:
		return c.Timeouts.Low.Duration()
	case model.UrgencyCritical:
		return c.Timeouts.Critical.Duration()
	default:
		return c.Timeouts.Normal.Duration()
	}
}

// SkipsHistory reports whether notifications closed with the given reason
// are discarded instead of archived.
func (c *Config) SkipsHistory(reason string) bool {
	for _, r := range c.History.SkipReasons {
		if r == reason {
			return true
		}
	}
	return false
}
