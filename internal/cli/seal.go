package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/secure"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var unsealCmd = &cobra.Command{
	Use:   "unseal <file>",
	Short: "Decrypt a batch written by derive --seal",
	Long: `Decrypt a sealed batch and print its JSON to standard output.

Password-sealed files prompt for the password. Files sealed to an age
recipient need the matching identity file.

Example:
  hdkit unseal batch.age
  hdkit unseal batch.age --identity key.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runUnseal,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var unsealIdentity string

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(unsealCmd)
	unsealCmd.Flags().StringVar(&unsealIdentity, "identity", "", "age identity file (AGE-SECRET-KEY-...)")
}

func runUnseal(cmd *cobra.Command, args []string) error {
	// #nosec G304 -- path is supplied by the user on the command line
	sealed, err := os.ReadFile(args[0])
	if err != nil {
		return kiterr.WithDetails(kiterr.ErrNotFound, map[string]string{"file": args[0]})
	}

	var plaintext []byte
	if unsealIdentity != "" {
		identity, ierr := readIdentity(unsealIdentity)
		if ierr != nil {
			return ierr
		}
		plaintext, err = secure.OpenWith(sealed, identity)
	} else {
		password, perr := promptPasswordFn("Enter sealing password: ")
		if perr != nil {
			return perr
		}
		plaintext, err = secure.Open(sealed, string(password))
		secure.Zero(password)
	}
	if err != nil {
		return err
	}
	defer secure.Zero(plaintext)

	_, err = cmd.OutOrStdout().Write(append(plaintext, '\n'))
	return err
}

// readIdentity returns the first AGE-SECRET-KEY line of an identity file.
func readIdentity(path string) (string, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", kiterr.WithDetails(kiterr.ErrNotFound, map[string]string{"file": path})
	}
	defer secure.Zero(data)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "AGE-SECRET-KEY-") {
			return line, nil
		}
	}
	return "", kiterr.Wrap(kiterr.ErrInvalidInput, "%s has no age identity", path)
}

