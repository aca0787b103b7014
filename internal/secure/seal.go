package secure

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// Seal encrypts plaintext to a password using an age scrypt recipient.
func Seal(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	return encrypt(plaintext, recipient)
}

// SealTo encrypts plaintext to one or more age X25519 public keys.
func SealTo(plaintext []byte, recipients ...string) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"reason": "no recipients"})
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, r := range recipients {
		rcpt, err := age.ParseX25519Recipient(r)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient %q: %w", r, err)
		}
		parsed = append(parsed, rcpt)
	}
	return encrypt(plaintext, parsed...)
}

// Open decrypts a payload produced by Seal.
func Open(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	return decrypt(ciphertext, identity)
}

// OpenWith decrypts a payload produced by SealTo using an age identity string.
func OpenWith(ciphertext []byte, identity string) ([]byte, error) {
	id, err := age.ParseX25519Identity(identity)
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	return decrypt(ciphertext, id)
}

func encrypt(plaintext []byte, recipients ...age.Recipient) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

func decrypt(ciphertext []byte, identity age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrDecryptionFailed, "%v", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}
	return plaintext, nil
}
