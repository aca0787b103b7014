package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/fileutil"
	"github.com/mrz1836/hdkit/internal/metrics"
	"github.com/mrz1836/hdkit/internal/output"
	"github.com/mrz1836/hdkit/internal/secure"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// deriveCmd derives keys and addresses from a phrase or root key.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive extended keys and addresses",
	Long: `Derive a root key, the extended keys at the base path, and a run of
addresses below it.

The phrase comes from --phrase, --root-key, or standard input. An invalid
phrase is reported as a warning but is still derived, so any word sequence
can be inspected.

By default the base path is BIP44 m/purpose'/coin'/account'/change, where
coin is the selected network's registered coin type unless --coin (or
derivation.coin in the config) pins it. Passing --path switches to a
free-form BIP32 base path.

Example:
  hdkit derive --phrase "abandon abandon ability"
  hdkit derive --network dogecoin --account 1 --count 5
  hdkit derive --root-key xpub... --path m/0 --start 20 --count 20
  hdkit derive --phrase "..." --seal batch.age --hide-private`,
	Args: cobra.NoArgs,
	RunE: runDerive,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	derivePhrase        string
	derivePassphrase    string
	deriveAskPassphrase bool
	deriveRootKey       string
	deriveNetwork       string
	derivePurpose       uint32
	deriveCoin          uint32
	deriveAccount       uint32
	deriveChange        uint32
	derivePath          string
	deriveHardened      bool
	deriveCount         uint32
	deriveStart         uint32
	deriveHidePrivate   bool
	deriveQR            bool
	deriveSeal          string
	deriveRecipient     string
	deriveMetricsFile   string
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(deriveCmd)

	f := deriveCmd.Flags()
	f.StringVar(&derivePhrase, "phrase", "", "BIP39 mnemonic phrase (read from stdin when omitted)")
	f.StringVar(&derivePassphrase, "passphrase", "", "BIP39 passphrase")
	f.BoolVar(&deriveAskPassphrase, "ask-passphrase", false, "prompt for the BIP39 passphrase")
	f.StringVar(&deriveRootKey, "root-key", "", "extended root key (xprv/xpub) to derive from instead of a phrase")
	f.StringVar(&deriveNetwork, "network", "", "network id (see 'hdkit networks')")
	f.Uint32Var(&derivePurpose, "purpose", 0, "BIP44 purpose field")
	f.Uint32Var(&deriveCoin, "coin", 0, "BIP44 coin field (default: the network's coin type)")
	f.Uint32Var(&deriveAccount, "account", 0, "BIP44 account field")
	f.Uint32Var(&deriveChange, "change", 0, "BIP44 change field")
	f.StringVar(&derivePath, "path", "", "BIP32 base path, e.g. m/0'/1 (switches off BIP44)")
	f.BoolVar(&deriveHardened, "hardened", false, "derive hardened leaf indices")
	f.Uint32Var(&deriveCount, "count", 0, "number of addresses")
	f.Uint32Var(&deriveStart, "start", 0, "first leaf index")
	f.BoolVar(&deriveHidePrivate, "hide-private", false, "omit all private key material from the output")
	f.BoolVar(&deriveQR, "qr", false, "show the first address as a QR code on a terminal")
	f.StringVar(&deriveSeal, "seal", "", "also write the full batch to this file, encrypted with age")
	f.StringVar(&deriveRecipient, "recipient", "", "age X25519 recipient for --seal instead of a password")
	f.StringVar(&deriveMetricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	deriveCmd.MarkFlagsMutuallyExclusive("phrase", "root-key")
	_ = deriveCmd.RegisterFlagCompletionFunc("network", completeNetworkIDs)
}

func runDerive(cmd *cobra.Command, _ []string) error {
	snap, err := buildDeriveSnapshot(cmd)
	if err != nil {
		return err
	}

	batch, err := newEngine().Compute(snap)
	if deriveMetricsFile != "" {
		if werr := metrics.Global.WriteTextfile(deriveMetricsFile); werr != nil {
			logger.Error("writing metrics to %s: %v", deriveMetricsFile, werr)
		}
	}
	if err != nil {
		return err
	}

	if deriveSeal != "" {
		if err := sealBatch(batch, deriveSeal, deriveRecipient); err != nil {
			return err
		}
		output.Successf(cmd.ErrOrStderr(), "sealed batch written to %s", deriveSeal)
	}

	hide := deriveHidePrivate || !cfg.Output.ShowPrivate
	if err := formatter.HidingPrivate(hide).Batch(batch); err != nil {
		return err
	}

	if deriveQR && len(batch.Records) > 0 && !formatter.IsJSON() {
		return output.RenderQR(cmd.OutOrStdout(), batch.Records[0].Address, output.DefaultQRConfig())
	}
	return nil
}

// buildDeriveSnapshot layers explicitly set flags over the configured defaults.
func buildDeriveSnapshot(cmd *cobra.Command) (engine.Snapshot, error) {
	snap := cfg.Snapshot()
	flags := cmd.Flags()

	if flags.Changed("network") {
		snap.Network = strings.ToLower(strings.TrimSpace(deriveNetwork))
	}
	if flags.Changed("purpose") {
		snap.BIP44.Purpose = derivePurpose
	}
	if flags.Changed("coin") {
		snap.SetCoin(deriveCoin)
	}
	if flags.Changed("account") {
		snap.BIP44.Account = deriveAccount
	}
	if flags.Changed("change") {
		snap.BIP44.Change = deriveChange
	}
	if flags.Changed("path") {
		snap.Mode = engine.ModeBIP32
		snap.CustomPath = derivePath
	}
	if flags.Changed("hardened") {
		snap.HardenedLeaf = deriveHardened
	}
	if flags.Changed("count") {
		snap.Count = deriveCount
	}
	snap.Start = deriveStart

	switch {
	case deriveRootKey != "":
		snap.RootKey = deriveRootKey
		return snap, nil
	case derivePhrase != "":
		snap.Phrase = derivePhrase
	default:
		phrase, err := readPhrase(cmd.InOrStdin())
		if err != nil {
			return snap, err
		}
		if phrase == "" {
			return snap, kiterr.WithSuggestion(kiterr.ErrNoInput, "pass --phrase, --root-key, or pipe a phrase on stdin")
		}
		snap.Phrase = phrase
	}

	snap.Passphrase = derivePassphrase
	if deriveAskPassphrase {
		pass, err := promptPassphraseFn()
		if err != nil {
			return snap, err
		}
		snap.Passphrase = pass
	}
	return snap, nil
}

// sealBatch encrypts the complete batch, private keys included, to path.
func sealBatch(batch *engine.Batch, path, recipient string) error {
	plaintext, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}
	defer secure.Zero(plaintext)

	var sealed []byte
	if recipient != "" {
		sealed, err = secure.SealTo(plaintext, recipient)
	} else {
		password, perr := promptNewPasswordFn()
		if perr != nil {
			return perr
		}
		sealed, err = secure.Seal(plaintext, string(password))
		secure.Zero(password)
	}
	if err != nil {
		return err
	}

	if err := fileutil.WriteAtomic(path, sealed, 0o600); err != nil {
		return fmt.Errorf("writing sealed batch: %w", err)
	}
	return nil
}
