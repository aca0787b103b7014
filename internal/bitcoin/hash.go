// Package bitcoin provides the hashing and Base58Check primitives shared by
// every Bitcoin-derived network: Hash160 for address payloads, double SHA-256
// for checksums, and checksummed Base58 for keys and addresses.
package bitcoin

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/base58"
	// RIPEMD160 is deprecated but REQUIRED by Bitcoin protocol (BIP-13, BIP-16).
	// Bitcoin P2PKH addresses use Hash160 = RIPEMD160(SHA256(pubkey)).
	//nolint:gosec,staticcheck // G507,SA1019: RIPEMD160 required by Bitcoin protocol
	"golang.org/x/crypto/ripemd160"

	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// ChecksumLen is the number of double-SHA256 bytes appended by Base58Check.
const ChecksumLen = 4

// Hash160 computes RIPEMD160(SHA256(data)) as required by Bitcoin protocol.
//
//nolint:gosec // G406: RIPEMD160 is part of Bitcoin address hashing
func Hash160(data []byte) []byte {
	sha256Hash := sha256.Sum256(data)
	ripemd := ripemd160.New()
	ripemd.Write(sha256Hash[:])
	return ripemd.Sum(nil)
}

// DoubleSHA256 computes SHA256(SHA256(data)) as used by Bitcoin protocol.
func DoubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Checksum returns the leading ChecksumLen bytes of DoubleSHA256(data).
func Checksum(data []byte) []byte {
	return DoubleSHA256(data)[:ChecksumLen]
}

// CheckEncode appends a checksum to data and Base58-encodes the result.
// Any version prefix must already be part of data.
func CheckEncode(data []byte) string {
	buf := make([]byte, 0, len(data)+ChecksumLen)
	buf = append(buf, data...)
	buf = append(buf, Checksum(data)...)
	return base58.Encode(buf)
}

// CheckDecode reverses CheckEncode, returning data without its checksum.
// It fails with ErrInvalidFormat for non-Base58 text and ErrChecksumMismatch
// when the trailing checksum does not match.
func CheckDecode(s string) ([]byte, error) {
	if s == "" {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidFormat, map[string]string{"reason": "empty string"})
	}

	raw := base58.Decode(s)
	if len(raw) == 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidFormat, map[string]string{"reason": "invalid base58"})
	}
	if len(raw) < ChecksumLen+1 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidFormat, map[string]string{"reason": "too short"})
	}

	data, sum := raw[:len(raw)-ChecksumLen], raw[len(raw)-ChecksumLen:]
	if !bytes.Equal(Checksum(data), sum) {
		return nil, kiterr.ErrChecksumMismatch
	}
	return data, nil
}

// Base58CheckEncode encodes payload with a single version byte prefix.
func Base58CheckEncode(version byte, payload []byte) string {
	data := make([]byte, 0, 1+len(payload))
	data = append(data, version)
	data = append(data, payload...)
	return CheckEncode(data)
}

// Base58CheckDecode decodes a single-version-byte Base58Check string.
func Base58CheckDecode(s string) (version byte, payload []byte, err error) {
	data, err := CheckDecode(s)
	if err != nil {
		return 0, nil, err
	}
	return data[0], data[1:], nil
}
