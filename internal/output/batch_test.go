package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/hdkit/internal/engine"
	"github.com/mrz1836/hdkit/internal/generator"
	"github.com/mrz1836/hdkit/internal/output"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

func sampleBatch() *engine.Batch {
	return &engine.Batch{
		Network:            "bitcoin",
		Seed:               "deadbeef",
		RootKey:            "xprv-root",
		RootIsPrivate:      true,
		Path:               "m/44'/0'/0'/0",
		ExtendedPrivateKey: "xprv-account",
		ExtendedPublicKey:  "xpub-account",
		PhraseWarning:      "mnemonic checksum does not match",
		Records: []generator.AddressRecord{
			{IndexLabel: "m/44'/0'/0'/0/0", Index: 0, Address: "1Ay9", PublicKeyHex: "03aa", PrivateKey: "Kx01"},
			{IndexLabel: "m/44'/0'/0'/0/1", Index: 1, Address: "1Bz8", PublicKeyHex: "02bb", PrivateKey: "Kx02"},
		},
	}
}

func TestFormatter_BatchText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, output.NewFormatter(output.FormatText, &buf).Batch(sampleBatch()))

	out := buf.String()
	assert.Contains(t, out, "Derivation path:")
	assert.Contains(t, out, "m/44'/0'/0'/0")
	assert.Contains(t, out, "Extended public key:")
	assert.Contains(t, out, "mnemonic checksum does not match")
	assert.Contains(t, out, "Private Key")
	assert.Contains(t, out, "Kx02")
}

func TestFormatter_BatchHidingPrivate(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	b := sampleBatch()

	require.NoError(t, output.NewFormatter(output.FormatText, &buf).HidingPrivate(true).Batch(b))

	out := buf.String()
	assert.NotContains(t, out, "Private Key")
	assert.NotContains(t, out, "Kx01")
	assert.NotContains(t, out, "xprv-")
	assert.NotContains(t, out, "deadbeef")
	assert.Contains(t, out, "xpub-account")

	// The caller's batch is untouched
	assert.Equal(t, "Kx01", b.Records[0].PrivateKey)
}

func TestFormatter_BatchJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, output.NewFormatter(output.FormatJSON, &buf).Batch(sampleBatch()))

	var decoded struct {
		Network   string `json:"network"`
		Path      string `json:"path"`
		Addresses []struct {
			Path       string `json:"path"`
			Index      uint32 `json:"index"`
			Address    string `json:"address"`
			PrivateKey string `json:"private_key"`
		} `json:"addresses"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "bitcoin", decoded.Network)
	require.Len(t, decoded.Addresses, 2)
	assert.Equal(t, "m/44'/0'/0'/0/1", decoded.Addresses[1].Path)
	assert.Equal(t, uint32(1), decoded.Addresses[1].Index)
	assert.Equal(t, "Kx02", decoded.Addresses[1].PrivateKey)
}

func TestFormatter_Result(t *testing.T) {
	t.Parallel()

	res := &engine.Result{Generation: 7, Batch: sampleBatch()}

	t.Run("text has generation header", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.NewFormatter(output.FormatText, &buf).HidingPrivate(true).Result(res, &buf))
		assert.True(t, strings.HasPrefix(buf.String(), "# generation 7\n"))
		assert.Contains(t, buf.String(), "xpub-account")
		assert.NotContains(t, buf.String(), "Kx01")
	})

	t.Run("json nests the batch", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, output.NewFormatter(output.FormatJSON, &buf).Result(res, &buf))

		var decoded struct {
			Generation uint64 `json:"generation"`
			Batch      struct {
				Path string `json:"path"`
			} `json:"batch"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, uint64(7), decoded.Generation)
		assert.Equal(t, "m/44'/0'/0'/0", decoded.Batch.Path)
	})

	t.Run("failure goes to the error stream", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		failed := &engine.Result{Generation: 8, Err: kiterr.ErrNoInput}
		require.NoError(t, output.NewFormatter(output.FormatText, &stdout).Result(failed, &stderr))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error:")
	})
}
