// Package config provides configuration management for hdkit.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/fileutil"
	"github.com/mrz1836/hdkit/internal/hdpath"
	"github.com/mrz1836/hdkit/internal/network"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// Config represents the hdkit configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Derivation DerivationConfig `yaml:"derivation"`
	Mnemonic   MnemonicConfig   `yaml:"mnemonic"`
	Watch      WatchConfig      `yaml:"watch"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DerivationConfig holds the default derivation inputs.
type DerivationConfig struct {
	Network      string      `yaml:"network"`
	Mode         engine.Mode `yaml:"mode"`
	Purpose      uint32      `yaml:"purpose"`
	Coin         *uint32     `yaml:"coin"` // nil follows the network's coin type
	Account      uint32      `yaml:"account"`
	Change       uint32      `yaml:"change"`
	CustomPath   string      `yaml:"custom_path"`
	Count        uint32      `yaml:"count"`
	HardenedLeaf bool        `yaml:"hardened_leaf"`
}

// MnemonicConfig holds mnemonic generation and validation settings.
type MnemonicConfig struct {
	WordCount     int  `yaml:"word_count"`
	StrictLengths bool `yaml:"strict_lengths"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// OutputConfig holds output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	ShowPrivate   bool   `yaml:"show_private"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from a YAML file. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config path is derived from the hdkit home directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, kiterr.Wrap(kiterr.ErrConfigInvalid, "parsing %s: %v", path, err)
	}

	return cfg, nil
}

// Save writes configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the config file path within home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the values that would otherwise fail at derive time.
func (c *Config) Validate() error {
	if c.Derivation.Network != "" {
		if _, err := network.Lookup(c.Derivation.Network); err != nil {
			return kiterr.Wrap(err, "derivation.network")
		}
	}

	switch c.Derivation.Mode {
	case "", engine.ModeBIP44, engine.ModeBIP32:
	default:
		return kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{
			"field": "derivation.mode",
			"value": string(c.Derivation.Mode),
		})
	}

	if c.Derivation.Count == 0 {
		return kiterr.WithDetails(kiterr.ErrInvalidAddressCount, map[string]string{
			"field": "derivation.count",
		})
	}

	if c.Derivation.CustomPath != "" {
		if _, err := hdpath.Parse(c.Derivation.CustomPath); err != nil {
			return kiterr.Wrap(err, "derivation.custom_path")
		}
	}

	if c.Watch.DebounceMS < 0 {
		return kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{
			"field": "watch.debounce_ms",
		})
	}

	return nil
}

// Snapshot builds the default engine inputs from the derivation section.
func (c *Config) Snapshot() engine.Snapshot {
	d := c.Derivation
	snap := engine.Snapshot{
		Network:      d.Network,
		Mode:         d.Mode,
		BIP44:        hdpath.BIP44Fields{Purpose: d.Purpose, Account: d.Account, Change: d.Change},
		CustomPath:   d.CustomPath,
		HardenedLeaf: d.HardenedLeaf,
		Count:        d.Count,
	}
	if d.Coin != nil {
		snap.SetCoin(*d.Coin)
	}
	return snap
}

// Debounce returns the watch settle interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// GetHome returns the hdkit home directory.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default hdkit home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hdkit"
	}
	return filepath.Join(home, ".hdkit")
}
