package cli

import (
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/network"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// completionWriters maps a shell name to its script generator.
//
//nolint:gochecknoglobals // fixed lookup table
var completionWriters = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionWriters))
	for name := range completionWriters {
		shells = append(shells, name)
	}
	sort.Strings(shells)
	return shells
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Completions cover subcommands, flags and the network ids accepted by
--network. Load them for the current session with, for example:

  source <(hdkit completion bash)
  hdkit completion fish | source

or write the script to your shell's completion directory.`,
	DisableFlagsInUseLine: true,
	Args:                  cobra.ExactArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completionShells(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runCompletion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	write, ok := completionWriters[strings.ToLower(args[0])]
	if !ok {
		return kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"shell":     args[0],
			"supported": strings.Join(completionShells(), ", "),
		})
	}
	return write(cmd.Root(), cmd.OutOrStdout())
}

// completeNetworkIDs offers registered network ids, described by name.
func completeNetworkIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.ToLower(toComplete)
	var ids []string
	for _, p := range network.Default.All() {
		if strings.HasPrefix(p.ID, prefix) {
			ids = append(ids, p.ID+"\t"+p.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
