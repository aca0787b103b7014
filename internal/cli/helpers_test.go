package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	testPhrase       = "abandon abandon ability"
	testFirstAddress = "1Di3Vp7tBWtyQaDABLAjfWtF6V7hYKJtug"
)

// cliResult captures one command invocation.
type cliResult struct {
	Stdout string
	Stderr string
}

// runCLI executes the command tree with args against a scratch home
// directory. It mutates package globals, so callers must not run in parallel.
func runCLI(t *testing.T, stdin string, args ...string) (cliResult, error) {
	t.Helper()
	t.Setenv("HDKIT_LOG_LEVEL", "off")
	t.Setenv("HDKIT_HOME", "")
	t.Setenv("HDKIT_NETWORK", "")
	t.Setenv("HDKIT_COUNT", "")
	t.Setenv("HDKIT_OUTPUT_FORMAT", "")

	restore := saveGlobals(t)
	t.Cleanup(restore)
	resetFlags(rootCmd)

	if !hasFlag(args, "--home") {
		args = append([]string{"--home", t.TempDir()}, args...)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

// resetFlags returns every flag in the tree to its default so that values
// from one invocation do not leak into the next.
func resetFlags(root *cobra.Command) {
	walkCommands(root, func(cmd *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	})
}

// saveGlobals saves all package-level globals and returns a restore function.
func saveGlobals(t *testing.T) func() {
	t.Helper()
	origCfg := cfg
	origLogger := logger
	origFormatter := formatter
	origHomeDir := homeDir
	origOutputFormat := outputFormat
	origVerbose := verbose
	return func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
		homeDir = origHomeDir
		outputFormat = origOutputFormat
		verbose = origVerbose
	}
}

// withMockPrompts replaces prompt functions for testing and restores on cleanup.
func withMockPrompts(t *testing.T, password []byte, passphrase string) {
	t.Helper()
	origPW := promptPasswordFn
	origNewPW := promptNewPasswordFn
	origPassphrase := promptPassphraseFn
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptNewPasswordFn = origNewPW
		promptPassphraseFn = origPassphrase
	})
	promptPasswordFn = func(_ string) ([]byte, error) {
		cp := make([]byte, len(password))
		copy(cp, password)
		return cp, nil
	}
	promptNewPasswordFn = promptNewPassword
	promptPassphraseFn = func() (string, error) {
		return passphrase, nil
	}
}
