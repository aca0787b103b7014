// Package errors provides structured error handling for hdkit.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitAuth     = 3 // Authentication failed
	ExitNotFound = 4 // Resource not found
)

// KitError is the structured error type for hdkit.
type KitError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI

	folded bool // Message already contains the Cause's text
}

func (e *KitError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil && !e.folded {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *KitError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for KitError.
func (e *KitError) Is(target error) bool {
	var t *KitError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &KitError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &KitError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrAuthentication = &KitError{
		Code:     "AUTHENTICATION_FAILED",
		Message:  "authentication failed",
		ExitCode: ExitAuth,
	}

	ErrNotFound = &KitError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrNoInput = &KitError{
		Code:     "NO_INPUT",
		Message:  "no mnemonic phrase or root key supplied",
		ExitCode: ExitInput,
	}

	// Mnemonic errors.
	ErrInvalidMnemonic = &KitError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrUnknownWord = &KitError{
		Code:     "UNKNOWN_WORD",
		Message:  "word is not in the wordlist",
		ExitCode: ExitInput,
	}

	ErrInvalidWordCount = &KitError{
		Code:     "INVALID_WORD_COUNT",
		Message:  "unsupported mnemonic length",
		ExitCode: ExitInput,
	}

	ErrInvalidChecksum = &KitError{
		Code:     "INVALID_CHECKSUM",
		Message:  "mnemonic checksum does not match",
		ExitCode: ExitInput,
	}

	// Key derivation errors.
	ErrInvalidMasterKey = &KitError{
		Code:     "INVALID_MASTER_KEY",
		Message:  "seed produced an invalid master key",
		ExitCode: ExitGeneral,
	}

	ErrInvalidChildKey = &KitError{
		Code:     "INVALID_CHILD_KEY",
		Message:  "index produced an invalid child key",
		ExitCode: ExitGeneral,
	}

	ErrHardenedFromPublic = &KitError{
		Code:     "HARDENED_FROM_PUBLIC",
		Message:  "hardened derivation requires a private key",
		ExitCode: ExitInput,
	}

	ErrDerivationDepth = &KitError{
		Code:     "DERIVATION_DEPTH",
		Message:  "maximum derivation depth exceeded",
		ExitCode: ExitInput,
	}

	// Derivation path errors.
	ErrMustStartWithM = &KitError{
		Code:     "PATH_MUST_START_WITH_M",
		Message:  "derivation path must start with m",
		ExitCode: ExitInput,
	}

	ErrInvalidPathCharacter = &KitError{
		Code:     "PATH_INVALID_CHARACTER",
		Message:  "derivation path contains an invalid character",
		ExitCode: ExitInput,
	}

	ErrIndexOutOfRange = &KitError{
		Code:     "INDEX_OUT_OF_RANGE",
		Message:  "derivation index out of range",
		ExitCode: ExitInput,
	}

	// Encoding errors.
	ErrChecksumMismatch = &KitError{
		Code:     "CHECKSUM_MISMATCH",
		Message:  "base58check checksum mismatch",
		ExitCode: ExitInput,
	}

	ErrUnknownVersion = &KitError{
		Code:     "UNKNOWN_VERSION",
		Message:  "unknown version bytes",
		ExitCode: ExitInput,
	}

	ErrInvalidKeyData = &KitError{
		Code:     "INVALID_KEY_DATA",
		Message:  "invalid extended key data",
		ExitCode: ExitInput,
	}

	ErrInvalidFormat = &KitError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid format",
		ExitCode: ExitInput,
	}

	ErrUnknownNetwork = &KitError{
		Code:     "UNKNOWN_NETWORK",
		Message:  "unknown network",
		ExitCode: ExitNotFound,
	}

	ErrNotSupported = &KitError{
		Code:     "NOT_SUPPORTED",
		Message:  "operation not supported for this network",
		ExitCode: ExitInput,
	}

	ErrInvalidAddressCount = &KitError{
		Code:     "INVALID_ADDRESS_COUNT",
		Message:  "invalid address count",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &KitError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &KitError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &KitError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong password or corrupted file",
		ExitCode: ExitAuth,
	}
)

// New creates a new KitError with the given code and message.
func New(code, message string) *KitError {
	return &KitError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ke *KitError
	if errors.As(err, &ke) {
		return &KitError{
			Code:       ke.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ke.Message),
			Details:    ke.Details,
			Suggestion: ke.Suggestion,
			Cause:      err,
			ExitCode:   ke.ExitCode,
			folded:     true,
		}
	}

	return &KitError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ke *KitError
	if errors.As(err, &ke) {
		return &KitError{
			Code:       ke.Code,
			Message:    ke.Message,
			Details:    details,
			Suggestion: ke.Suggestion,
			Cause:      ke.Cause,
			ExitCode:   ke.ExitCode,
			folded:     ke.folded,
		}
	}

	return &KitError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ke *KitError
	if errors.As(err, &ke) {
		return &KitError{
			Code:       ke.Code,
			Message:    ke.Message,
			Details:    ke.Details,
			Suggestion: suggestion,
			Cause:      ke.Cause,
			ExitCode:   ke.ExitCode,
			folded:     ke.folded,
		}
	}

	return &KitError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ke *KitError
	if errors.As(err, &ke) {
		return ke.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Code
	}
	return "GENERAL_ERROR"
}

// SuggestionOf returns the first suggestion found in the error chain.
func SuggestionOf(err error) string {
	var ke *KitError
	if errors.As(err, &ke) {
		return ke.Suggestion
	}
	return ""
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
