// Package output renders derivation batches and command results as text
// or JSON.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mrz1836/hdkit/internal/engine"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// Format is an output encoding.
type Format string

// Output format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// ParseFormat reads a format name. The empty string means auto. An unknown
// name returns FormatAuto together with ErrInvalidFormat.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatAuto:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return FormatAuto, kiterr.WithDetails(kiterr.ErrInvalidFormat, map[string]string{
			"format":  s,
			"allowed": "text, json, auto",
		})
	}
}

// Resolve turns FormatAuto into text for a terminal and JSON for anything
// else, such as a pipe or a file.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) { //nolint:gosec // G115: Fd fits in int on supported platforms
		return FormatText
	}
	return FormatJSON
}

// Formatter writes results to one stream in one resolved format.
type Formatter struct {
	format      Format
	w           io.Writer
	hidePrivate bool
}

// NewFormatter resolves format against w and returns a Formatter for it.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format.Resolve(w), w: w}
}

// HidingPrivate returns a copy of f that strips private key material from
// every batch it writes.
func (f *Formatter) HidingPrivate(hide bool) *Formatter {
	c := *f
	c.hidePrivate = hide
	return &c
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the destination stream.
func (f *Formatter) Writer() io.Writer { return f.w }

// IsJSON reports whether output is JSON.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print writes v as indented JSON, or as a single text line.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		return writeJSON(f.w, v)
	}
	if s, ok := v.(fmt.Stringer); ok {
		v = s.String()
	}
	_, err := fmt.Fprintln(f.w, v)
	return err
}

// Batch writes one derivation batch.
func (f *Formatter) Batch(b *engine.Batch) error {
	if f.hidePrivate {
		b = b.HidePrivate()
	}
	if f.IsJSON() {
		return writeJSON(f.w, b)
	}
	return renderBatchText(f.w, b)
}

// resultOutput is the JSON shape of a published scheduler result.
type resultOutput struct {
	Generation uint64        `json:"generation"`
	Batch      *engine.Batch `json:"batch"`
}

// Result writes a published scheduler result. Text output puts a
// generation header above the batch. A failed result is written to errw
// as a structured error.
func (f *Formatter) Result(res *engine.Result, errw io.Writer) error {
	if res.Err != nil {
		return FormatError(errw, res.Err, f.format)
	}

	b := res.Batch
	if f.hidePrivate {
		b = b.HidePrivate()
	}
	if f.IsJSON() {
		return writeJSON(f.w, resultOutput{Generation: res.Generation, Batch: b})
	}
	if _, err := fmt.Fprintf(f.w, "# generation %d\n", res.Generation); err != nil {
		return err
	}
	return renderBatchText(f.w, b)
}
