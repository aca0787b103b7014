package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDerivation(t *testing.T) {
	t.Parallel()
	m := New()

	m.RecordDerivation("bitcoin", 20, 5*time.Millisecond, "", nil)
	m.RecordDerivation("bitcoin", 5, time.Millisecond, "", nil)
	m.RecordDerivation("dogecoin", 0, time.Millisecond, "INVALID_CHECKSUM", errors.New("bad"))

	assert.InDelta(t, 3, testutil.ToFloat64(m.Derivations()), 0)
	assert.InDelta(t, 25, testutil.ToFloat64(m.Addresses("bitcoin")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.Addresses("dogecoin")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Failures("INVALID_CHECKSUM")), 0)
}

func TestRecordRecomputes(t *testing.T) {
	t.Parallel()
	m := New()

	m.RecordPublished()
	m.RecordSuperseded()
	m.RecordSuperseded()

	assert.InDelta(t, 1, testutil.ToFloat64(m.Published()), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Superseded()), 0)
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()
	m := New()
	m.RecordDerivation("bitcoin", 1, time.Millisecond, "", nil)

	path := filepath.Join(t.TempDir(), "hdkit.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path) //nolint:gosec // test temp file
	require.NoError(t, err)
	assert.Contains(t, string(data), "hdkit_derivations_total 1")
	assert.Contains(t, string(data), `hdkit_addresses_derived_total{network="bitcoin"} 1`)
}

func TestGlobalIsRegistered(t *testing.T) {
	t.Parallel()

	families, err := Global.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
