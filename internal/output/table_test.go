package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/hdkit/internal/output"
)

func tableLines(t *testing.T, tbl *output.Table) []string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestTable_Basic(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("PATH", "ADDRESS")
	tbl.AddRow("m/44'/0'/0'/0/0", "1Ay9jsPgGLMpW6sGJd8SjoWDMXRaM6bj4h")
	tbl.AddRow("m/44'/0'/0'/0/10", "1x")

	lines := tableLines(t, tbl)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "PATH"))
	assert.Equal(t, strings.Repeat("-", len(lines[1])), lines[1])

	// Second column starts at the same offset on every line
	col := strings.Index(lines[0], "ADDRESS")
	assert.Equal(t, col, strings.Index(lines[2], "1Ay9"))
	assert.Equal(t, col, strings.Index(lines[3], "1x"))
}

func TestTable_NoHeader(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("A", "B")
	tbl.SetNoHeader(true)
	tbl.AddRow("one", "two")

	lines := tableLines(t, tbl)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "A")
	assert.Contains(t, lines[0], "one")
}

func TestTable_SetSeparator(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("A", "B")
	tbl.SetNoHeader(true)
	tbl.SetSeparator(" | ")
	tbl.AddRow("x", "y")

	assert.Equal(t, "x | y\n", tbl.String())
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, output.NewTable().String())
}

func TestTable_RaggedRows(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("A", "B", "C")
	tbl.AddRow("1")
	tbl.AddRow("1", "2", "3")

	lines := tableLines(t, tbl)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "3")
}

func TestTable_NoTrailingWhitespace(t *testing.T) {
	t.Parallel()
	tbl := output.NewTable("LONG HEADER", "X")
	tbl.AddRow("a", "")

	for _, line := range tableLines(t, tbl) {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}
