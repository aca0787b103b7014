package config

import (
	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/network"
)

// DefaultDebounceMS is the default watch settle interval in milliseconds.
const DefaultDebounceMS = 250

// Defaults returns the default configuration.
func Defaults() *Config {
	bip44 := engine.DefaultSnapshot().BIP44
	return &Config{
		Version: 1,
		Home:    "~/.hdkit",
		Derivation: DerivationConfig{
			Network:    network.Bitcoin,
			Mode:       engine.ModeBIP44,
			Purpose:    bip44.Purpose,
			Account:    bip44.Account,
			Change:     bip44.Change,
			CustomPath: engine.DefaultCustomPath,
			Count:      engine.DefaultCount,
		},
		Mnemonic: MnemonicConfig{
			WordCount: mnemonic.DefaultWordCount,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultDebounceMS,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			ShowPrivate:   true,
			Color:         "auto",
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.hdkit/hdkit.log",
		},
	}
}
