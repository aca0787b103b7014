package mnemonic

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// SeedLen is the size of a BIP39 seed in bytes.
	SeedLen = 64

	seedIterations = 2048
	saltPrefix     = "mnemonic"
)

// Seed stretches a phrase and passphrase into a 64-byte seed with
// PBKDF2-HMAC-SHA512. The phrase is normalized but never validated, so any
// text yields a seed.
func Seed(phrase, passphrase string) []byte {
	salt := saltPrefix + norm.NFKD.String(passphrase)
	return pbkdf2.Key([]byte(Normalize(phrase)), []byte(salt), seedIterations, SeedLen, sha512.New)
}
