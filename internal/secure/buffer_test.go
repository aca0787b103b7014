package secure

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_FromSliceCopies(t *testing.T) {
	t.Parallel()

	src := []byte{1, 2, 3, 4}
	b := FromSlice(src)
	defer b.Destroy()

	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Bytes())
	assert.Equal(t, 4, b.Len())
}

func TestBuffer_Destroy(t *testing.T) {
	t.Parallel()

	b := FromSlice([]byte{1, 2, 3})
	data := b.Bytes()

	b.Destroy()
	assert.Equal(t, []byte{0, 0, 0}, data)
	assert.Nil(t, b.Bytes())
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.IsLocked())

	// second call is a no-op
	b.Destroy()
}

func TestZero(t *testing.T) {
	t.Parallel()

	data := []byte{0xde, 0xad}
	Zero(data)
	assert.Equal(t, []byte{0, 0}, data)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

//nolint:paralleltest // mutates package-level Reader
func TestRandomBytes(t *testing.T) {
	orig := Reader
	t.Cleanup(func() { Reader = orig })

	Reader = bytes.NewReader(bytes.Repeat([]byte{0xab}, 64))
	got, err := RandomBytes(16)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 16), got)

	buf, err := RandomBuffer(8)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 8), buf.Bytes())
	buf.Destroy()

	Reader = failingReader{}
	_, err = RandomBytes(4)
	require.Error(t, err)
	_, err = RandomBuffer(4)
	require.Error(t, err)
}
