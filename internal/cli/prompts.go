package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mrz1836/hdkit/internal/secure"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// minSealPasswordLen is the shortest password accepted for --seal.
const minSealPasswordLen = 8

// Prompt hooks, replaced in tests.
//
//nolint:gochecknoglobals // test seams for interactive input
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptPassphraseFn  = promptPassphrase
)

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // G115: Fd() fits in int
	outln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// promptNewPassword prompts for a sealing password with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Enter sealing password: ")
	if err != nil {
		return nil, err
	}

	if len(password) < minSealPasswordLen {
		secure.Zero(password)
		return nil, kiterr.WithSuggestion(
			kiterr.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minSealPasswordLen),
		)
	}

	confirm, err := promptPasswordFn("Confirm password: ")
	if err != nil {
		secure.Zero(password)
		return nil, err
	}
	defer secure.Zero(confirm)

	if string(password) != string(confirm) {
		secure.Zero(password)
		return nil, kiterr.WithSuggestion(kiterr.ErrInvalidInput, "passwords do not match")
	}
	return password, nil
}

// promptPassphrase prompts for an optional BIP39 passphrase.
func promptPassphrase() (string, error) {
	outln(os.Stderr, "BIP39 passphrase (press Enter for none).")
	outln(os.Stderr, "A different passphrase derives a completely different wallet.")

	passphrase, err := promptPasswordFn("Enter passphrase: ")
	if err != nil {
		return "", err
	}
	defer secure.Zero(passphrase)
	return string(passphrase), nil
}

// readPhrase reads a mnemonic from r. A terminal gets a one-line prompt;
// piped input is read to EOF so phrases may span lines.
func readPhrase(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: Fd() fits in int
		out(os.Stderr, "Enter mnemonic phrase: ")
		line, err := bufio.NewReader(f).ReadString('\n')
		if err != nil && err != io.EOF { //nolint:errorlint // io.EOF is returned unwrapped
			return "", fmt.Errorf("reading phrase: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading phrase: %w", err)
	}
	return strings.Join(strings.Fields(string(data)), " "), nil
}
