package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/output"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// failingWriter implements io.Writer but always returns an error.
type failingWriter struct{}

func (failingWriter) Write(_ []byte) (n int, err error) {
	//nolint:err113 // Test error, not wrapped
	return 0, errors.New("write failed")
}

func TestFormatError_NilError(t *testing.T) {
	t.Parallel()
	for _, f := range []output.Format{output.FormatJSON, output.FormatText} {
		var buf bytes.Buffer
		require.NoError(t, output.FormatError(&buf, nil, f))
		assert.Empty(t, buf.String())
	}
}

func TestFormatError_GenericError(t *testing.T) {
	t.Parallel()

	var js bytes.Buffer
	//nolint:err113 // Test error, intentionally not wrapped
	require.NoError(t, output.FormatError(&js, errors.New("something went wrong"), output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &result))
	assert.Equal(t, "GENERAL_ERROR", result.Error.Code)
	assert.Equal(t, "something went wrong", result.Error.Message)
	assert.Equal(t, kiterr.ExitGeneral, result.Error.ExitCode)

	var text bytes.Buffer
	//nolint:err113 // Test error, intentionally not wrapped
	require.NoError(t, output.FormatError(&text, errors.New("something went wrong"), output.FormatText))
	assert.Equal(t, "Error: something went wrong\n", text.String())
}

func TestFormatError_KitError_JSON(t *testing.T) {
	t.Parallel()

	err := kiterr.WithDetails(kiterr.ErrUnknownNetwork, map[string]string{"network": "bitconnect"})
	err = kiterr.WithSuggestion(err, "run 'hdkit networks' to list supported networks")

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, kiterr.Code(kiterr.ErrUnknownNetwork), result.Error.Code)
	assert.Equal(t, kiterr.ExitNotFound, result.Error.ExitCode)
	assert.Equal(t, "bitconnect", result.Error.Details["network"])
	assert.Equal(t, "run 'hdkit networks' to list supported networks", result.Error.Suggestion)
}

func TestFormatError_KitError_Text(t *testing.T) {
	t.Parallel()

	err := kiterr.WithDetails(kiterr.ErrIndexOutOfRange, map[string]string{
		"start": "2147483647",
		"count": "2",
	})
	err = kiterr.WithSuggestion(err, "lower --start")

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))

	result := buf.String()
	assert.Contains(t, result, "Details:\n  count: 2\n  start: 2147483647\n")
	assert.Contains(t, result, "Suggestion: lower --start")
}

func TestFormatError_EmptyDetailsOmitted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, kiterr.ErrNoInput, output.FormatJSON))
	assert.NotContains(t, buf.String(), `"details"`)

	buf.Reset()
	require.NoError(t, output.FormatError(&buf, kiterr.ErrNoInput, output.FormatText))
	assert.NotContains(t, buf.String(), "Details:")
}

func TestFormatError_WrappedKeepsOuterMessage(t *testing.T) {
	t.Parallel()

	_, err := mnemonic.NewCodec().Validate("abandon abandn ability")
	require.Error(t, err)

	d := output.NewErrorDetail(err)
	assert.Equal(t, kiterr.Code(kiterr.ErrUnknownWord), d.Code)
	assert.Contains(t, d.Message, `"abandn"`)
	assert.Contains(t, d.Message, `"abandon"`)
	assert.Equal(t, kiterr.ExitInput, d.ExitCode)

	wrapped := fmt.Errorf("reading input: %w", kiterr.ErrNoInput)
	assert.Equal(t, "reading input: "+kiterr.ErrNoInput.Error(), output.NewErrorDetail(wrapped).Message)
}

func TestFormatError_WriteFailure(t *testing.T) {
	t.Parallel()
	assert.Error(t, output.FormatError(failingWriter{}, kiterr.ErrGeneral, output.FormatText))
	assert.Error(t, output.FormatError(failingWriter{}, kiterr.ErrGeneral, output.FormatJSON))
}
