package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/hdkit/internal/config"
	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/hdpath"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "bitcoin", cfg.Derivation.Network)
	assert.Equal(t, engine.ModeBIP44, cfg.Derivation.Mode)
	assert.Equal(t, uint32(44), cfg.Derivation.Purpose)
	assert.Nil(t, cfg.Derivation.Coin)
	assert.Equal(t, "m/0", cfg.Derivation.CustomPath)
	assert.Equal(t, uint32(20), cfg.Derivation.Count)
	assert.Equal(t, 15, cfg.Mnemonic.WordCount)
	assert.False(t, cfg.Mnemonic.StrictLengths)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.Equal(t, "auto", cfg.GetOutputFormat())
	assert.Equal(t, "error", cfg.GetLoggingLevel())
	assert.Equal(t, "~/.hdkit/hdkit.log", cfg.GetLoggingFile())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Snapshot(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Derivation.Network = "dogecoin"
	cfg.Derivation.Account = 2
	cfg.Derivation.HardenedLeaf = true

	snap := cfg.Snapshot()
	assert.Equal(t, "dogecoin", snap.Network)
	assert.Equal(t, hdpath.BIP44Fields{Purpose: 44, Coin: 0, Account: 2, Change: 0}, snap.BIP44)
	assert.False(t, snap.CoinSet, "an unset coin follows the network")
	assert.True(t, snap.HardenedLeaf)
	assert.Equal(t, uint32(20), snap.Count)
	assert.Empty(t, snap.Phrase)
}

func TestConfig_SnapshotPinnedCoin(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	coin := uint32(5)
	cfg.Derivation.Coin = &coin

	snap := cfg.Snapshot()
	assert.True(t, snap.CoinSet)
	assert.Equal(t, uint32(5), snap.BIP44.Coin)
}

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	path := config.Path(t.TempDir())

	cfg := config.Defaults()
	cfg.Derivation.Network = "litecoin"
	cfg.Derivation.Mode = engine.ModeBIP32
	cfg.Derivation.CustomPath = "m/1'/2"
	cfg.Watch.DebounceMS = 50
	cfg.Output.ShowPrivate = false
	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("derivation:\n  network: dash\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dash", cfg.Derivation.Network)
	assert.Equal(t, uint32(20), cfg.Derivation.Count)
	assert.Equal(t, config.DefaultDebounceMS, cfg.Watch.DebounceMS)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("derivation: [unclosed"), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, kiterr.ErrConfigInvalid)
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()
	path := config.Path(filepath.Join(t.TempDir(), "nested", "home"))

	require.NoError(t, config.Save(config.Defaults(), path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		target error
	}{
		{"unknown network", func(c *config.Config) { c.Derivation.Network = "bitconnect" }, kiterr.ErrUnknownNetwork},
		{"zero count", func(c *config.Config) { c.Derivation.Count = 0 }, kiterr.ErrInvalidAddressCount},
		{"unknown mode", func(c *config.Config) { c.Derivation.Mode = "bip49" }, kiterr.ErrConfigInvalid},
		{"bad custom path", func(c *config.Config) { c.Derivation.CustomPath = "m/x" }, kiterr.ErrInvalidPathCharacter},
		{"negative debounce", func(c *config.Config) { c.Watch.DebounceMS = -1 }, kiterr.ErrConfigInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tc.target)
		})
	}
}

func TestApplyEnvironment(t *testing.T) {
	cfg := config.Defaults()

	t.Setenv("HDKIT_HOME", "/custom/home")
	t.Setenv("HDKIT_NETWORK", " Litecoin ")
	t.Setenv("HDKIT_COUNT", "5")
	t.Setenv("HDKIT_OUTPUT_FORMAT", "JSON")
	t.Setenv("HDKIT_VERBOSE", "true")
	t.Setenv("HDKIT_LOG_LEVEL", "DEBUG")

	config.ApplyEnvironment(cfg)

	assert.Equal(t, "/custom/home", cfg.GetHome())
	assert.Equal(t, "litecoin", cfg.Derivation.Network)
	assert.Equal(t, uint32(5), cfg.Derivation.Count)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.True(t, cfg.IsVerbose())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvironment_InvalidCountIgnored(t *testing.T) {
	for _, v := range []string{"0", "-3", "many"} {
		t.Run(v, func(t *testing.T) {
			cfg := config.Defaults()
			t.Setenv("HDKIT_COUNT", v)
			config.ApplyEnvironment(cfg)
			assert.Equal(t, uint32(20), cfg.Derivation.Count)
		})
	}
}

func TestApplyEnvironment_NoColor(t *testing.T) {
	cfg := config.Defaults()
	t.Setenv("NO_COLOR", "")
	config.ApplyEnvironment(cfg)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestApplyEnvironment_VerboseValues(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"random", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.Defaults()
			t.Setenv("HDKIT_VERBOSE", tt.value)
			config.ApplyEnvironment(cfg)
			assert.Equal(t, tt.expected, cfg.Output.Verbose)
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("/home/user/.hdkit", "config.yaml"), config.Path("/home/user/.hdkit"))
}

func TestDefaultHome(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".hdkit", filepath.Base(config.DefaultHome()))
}
