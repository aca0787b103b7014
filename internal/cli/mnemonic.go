package cli

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/output"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// mnemonicCmd is the parent command for phrase operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate and check BIP39 phrases",
	Long:  `Generate new BIP39 phrases or check existing ones for typos, length and checksum.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new phrase",
	Long: `Generate a new phrase from fresh entropy.

Lengths from 3 to 24 words in steps of 3 are accepted. Lengths below 12 are
for experimentation only; enable mnemonic.strict_lengths in the config to
restrict generation and validation to BIP39 lengths.

Example:
  hdkit mnemonic generate
  hdkit mnemonic generate --words 24 -o json`,
	Args: cobra.NoArgs,
	RunE: runMnemonicGenerate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicValidateCmd = &cobra.Command{
	Use:   "validate [word...]",
	Short: "Check a phrase",
	Long: `Check a phrase against the English wordlist, the allowed lengths and the
checksum. Unknown words are reported with the closest wordlist entry.

The phrase is read from standard input when no words are given.

Example:
  hdkit mnemonic validate abandon abandon ability
  echo "abandon abandon ability" | hdkit mnemonic validate`,
	RunE: runMnemonicValidate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var mnemonicWords int

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(mnemonicCmd)
	mnemonicCmd.AddCommand(mnemonicGenerateCmd)
	mnemonicCmd.AddCommand(mnemonicValidateCmd)

	mnemonicGenerateCmd.Flags().IntVar(&mnemonicWords, "words", 0, "number of words (default from config, 15)")
}

// mnemonicResult is the JSON shape for both subcommands.
type mnemonicResult struct {
	Mnemonic string `json:"mnemonic"`
	Words    int    `json:"words"`
	Entropy  string `json:"entropy"`
	Valid    bool   `json:"valid"`
}

func newCodec() *mnemonic.Codec {
	if cfg.Mnemonic.StrictLengths {
		return mnemonic.NewCodec(mnemonic.WithStrictLengths())
	}
	return mnemonic.NewCodec()
}

func runMnemonicGenerate(cmd *cobra.Command, _ []string) error {
	words := mnemonicWords
	if !cmd.Flags().Changed("words") {
		words = cfg.Mnemonic.WordCount
	}

	m, err := newCodec().Generate(words)
	if err != nil {
		return err
	}
	logger.Debug("generated %d-word mnemonic", len(m.Words))

	if formatter.IsJSON() {
		return formatter.Print(mnemonicResult{
			Mnemonic: m.String(),
			Words:    len(m.Words),
			Entropy:  hex.EncodeToString(m.Entropy),
			Valid:    true,
		})
	}

	outln(cmd.OutOrStdout(), m.String())
	if len(m.Words) < 12 {
		output.Warnf(cmd.ErrOrStderr(), "%d words is below the BIP39 minimum of 12; do not store funds with it", len(m.Words))
	}
	return nil
}

func runMnemonicValidate(cmd *cobra.Command, args []string) error {
	phrase := strings.Join(args, " ")
	if len(args) == 0 {
		var err error
		if phrase, err = readPhrase(cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if strings.TrimSpace(phrase) == "" {
		return kiterr.WithSuggestion(kiterr.ErrNoInput, "pass the phrase as arguments or on stdin")
	}

	m, err := newCodec().Validate(phrase)
	if err != nil {
		var uw *mnemonic.UnknownWordError
		if kiterr.As(err, &uw) {
			return kiterr.WithSuggestion(
				kiterr.WithDetails(kiterr.ErrUnknownWord, map[string]string{
					"word":     uw.Word,
					"position": strconv.Itoa(uw.Position),
				}),
				"did you mean \""+uw.Suggestion+"\"?",
			)
		}
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(mnemonicResult{
			Mnemonic: m.String(),
			Words:    len(m.Words),
			Entropy:  hex.EncodeToString(m.Entropy),
			Valid:    true,
		})
	}
	output.Successf(cmd.OutOrStdout(), "valid %d-word mnemonic", len(m.Words))
	return nil
}
