// Package cli implements the hdkit command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/config"
	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/metrics"
	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/output"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// BuildInfo carries values stamped in at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	buildInfo BuildInfo
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hdkit",
	Short: "Derive HD wallet keys and addresses offline",
	Long: `hdkit turns a BIP39 mnemonic (or an extended root key) into BIP32
extended keys and per-index addresses for Bitcoin, its forks, Liquid and
Ethereum. Nothing is sent over the network.

Example:
  hdkit mnemonic generate --words 12
  echo "abandon abandon ability" | hdkit derive --network litecoin
  hdkit derive --root-key xprv... --path "m/0'/1" --count 5
  hdkit watch --input snapshot.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	buildInfo = info
	rootCmd.Version = formatVersion(info)
	decorateHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		formatErr(err)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return kiterr.ExitCode(err)
}

func formatVersion(info BuildInfo) string {
	v, commit, date := info.Version, info.Commit, info.Date
	if v == "" {
		v = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

func formatErr(err error) {
	var w io.Writer = os.Stderr
	if formatter != nil {
		_ = output.FormatError(w, err, formatter.Format())
		return
	}
	_ = output.FormatError(w, err, output.FormatText)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		if !os.IsNotExist(err) && !isConfigCommand(cmd) {
			return err
		}
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	format, formatErr := output.ParseFormat(cfg.Output.DefaultFormat)
	formatter = output.NewFormatter(format, cmd.OutOrStdout())

	// A broken config can still be repaired through the config commands
	if isConfigCommand(cmd) {
		formatErr = nil
	}
	if formatErr != nil {
		return kiterr.WithSuggestion(formatErr, "use --output text, json or auto")
	}
	if err := cfg.Validate(); err != nil && !isConfigCommand(cmd) {
		return kiterr.WithSuggestion(err, "fix "+config.Path(cfg.Home)+" or run 'hdkit config init --force'")
	}

	logger.Debug("hdkit %s home=%s format=%s", formatVersion(buildInfo), cfg.Home, formatter.Format())
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// newEngine builds a derivation engine from the loaded configuration.
func newEngine() *engine.Engine {
	var opts []mnemonic.Option
	if cfg.Mnemonic.StrictLengths {
		opts = append(opts, mnemonic.WithStrictLengths())
	}
	return engine.New(
		engine.WithCodec(mnemonic.NewCodec(opts...)),
		engine.WithMetrics(metrics.Global),
		engine.WithLogger(logger),
	)
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

// out is a helper for CLI output.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "hdkit data directory (default: ~/.hdkit)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
