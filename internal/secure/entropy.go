package secure

import (
	"crypto/rand"
	"io"
)

// Reader is the entropy source for mnemonic generation.
// Tests may replace it with a deterministic reader.
//
//nolint:gochecknoglobals // Package-level RNG is required for testability
var Reader io.Reader = rand.Reader

// RandomBytes reads n bytes from Reader.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomBuffer reads n bytes from Reader into a locked Buffer.
func RandomBuffer(n int) (*Buffer, error) {
	b := NewBuffer(n)
	if _, err := io.ReadFull(Reader, b.Bytes()); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}
