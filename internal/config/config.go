package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rjboer/GoTVChannels/internal/logging"
)

// Config is the chlist configuration file.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Channel ChannelConfig `yaml:"channel"`
	Store   StoreConfig   `yaml:"store"`
	Watch   WatchConfig   `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ChannelConfig holds the SetMainTVChannel arguments that do not come from
// the channel itself.
type ChannelConfig struct {
	ListType    string `yaml:"list_type"`
	SatelliteID string `yaml:"satellite_id"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Channel: ChannelConfig{ListType: "0x01", SatelliteID: "0"},
		Store:   StoreConfig{Path: "channels.db"},
		Watch:   WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// CHLIST_* overrides from lookup. A missing file is not an error.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	c.Logging.Level = envString(lookup, "CHLIST_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envString(lookup, "CHLIST_LOG_FORMAT", c.Logging.Format)
	c.Channel.ListType = envString(lookup, "CHLIST_LIST_TYPE", c.Channel.ListType)
	c.Channel.SatelliteID = envString(lookup, "CHLIST_SATELLITE_ID", c.Channel.SatelliteID)
	c.Store.Path = envString(lookup, "CHLIST_DB", c.Store.Path)

	if val, ok := lookup("CHLIST_WATCH_DEBOUNCE"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("CHLIST_WATCH_DEBOUNCE: %w", err)
		}
		c.Watch.Debounce = d
	}
	return nil
}

func envString(lookup func(string) (string, bool), key, def string) string {
	if val, ok := lookup(key); ok {
		return val
	}
	return def
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if strings.TrimSpace(c.Channel.ListType) == "" {
		return fmt.Errorf("channel config: list_type cannot be empty")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger(out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, out), nil
}
