// Package mnemonic converts between BIP39 phrases and entropy, validates
// phrase checksums, and stretches phrases into 64-byte seeds.
package mnemonic

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mrz1836/hdkit/internal/secure"
	"github.com/mrz1836/hdkit/internal/wordlist"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

const bitsPerWord = 11

// DefaultWordCount is the length produced when no length is requested.
const DefaultWordCount = 15

// Supported phrase lengths.
//
//nolint:gochecknoglobals // immutable length tables
var (
	// DefaultLengths includes the short test lengths the tool accepts.
	DefaultLengths = []int{3, 6, 9, 12, 15, 18, 21, 24}

	// StrictLengths are the lengths defined by BIP39.
	StrictLengths = []int{12, 15, 18, 21, 24}
)

// Mnemonic is a validated phrase together with the entropy it encodes.
type Mnemonic struct {
	Words   []string
	Entropy []byte
}

// String returns the phrase with single spaces between words.
func (m *Mnemonic) String() string {
	return strings.Join(m.Words, " ")
}

// UnknownWordError reports a phrase word missing from the wordlist.
type UnknownWordError struct {
	Word       string
	Position   int // 1-based
	Suggestion string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("word %d %q is not in the wordlist, did you mean %q?", e.Position, e.Word, e.Suggestion)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *UnknownWordError) Unwrap() error {
	return kiterr.ErrUnknownWord
}

// Codec encodes and validates phrases against one wordlist.
type Codec struct {
	table   *wordlist.Table
	lengths []int
	entropy io.Reader
}

// Option configures a Codec.
type Option func(*Codec)

// WithStrictLengths limits accepted phrases to BIP39 lengths.
func WithStrictLengths() Option {
	return func(c *Codec) { c.lengths = StrictLengths }
}

// WithLengths sets the accepted phrase lengths. Each must be a multiple of 3.
func WithLengths(lengths ...int) Option {
	return func(c *Codec) { c.lengths = append([]int(nil), lengths...) }
}

// WithWordlist replaces the English wordlist.
func WithWordlist(t *wordlist.Table) Option {
	return func(c *Codec) { c.table = t }
}

// WithEntropySource replaces secure.Reader for Generate.
func WithEntropySource(r io.Reader) Option {
	return func(c *Codec) { c.entropy = r }
}

// NewCodec returns a Codec over the English wordlist accepting DefaultLengths.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		table:   wordlist.English,
		lengths: DefaultLengths,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lengths returns the accepted phrase lengths.
func (c *Codec) Lengths() []int {
	return append([]int(nil), c.lengths...)
}

// Normalize applies NFKD, lowercases, and collapses whitespace runs.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKD.String(text))), " ")
}

// Validate checks every word, the length, and the checksum in that order.
func (c *Codec) Validate(phrase string) (*Mnemonic, error) {
	words := strings.Fields(Normalize(phrase))
	if len(words) == 0 {
		return nil, kiterr.WithSuggestion(kiterr.ErrInvalidMnemonic, "enter a mnemonic phrase")
	}

	indices := make([]int, len(words))
	for i, w := range words {
		idx, ok := c.table.Index(w)
		if !ok {
			suggestion, _ := c.table.Nearest(w)
			return nil, &UnknownWordError{Word: w, Position: i + 1, Suggestion: suggestion}
		}
		indices[i] = idx
	}

	if !c.allowed(len(words)) {
		return nil, c.lengthError(len(words))
	}

	entropy, err := unpack(indices)
	if err != nil {
		return nil, err
	}
	return &Mnemonic{Words: words, Entropy: entropy}, nil
}

// IsValid reports whether phrase passes Validate.
func (c *Codec) IsValid(phrase string) bool {
	_, err := c.Validate(phrase)
	return err == nil
}

// FromEntropy encodes entropy as a phrase. The entropy length in bits must
// be a multiple of 32 and produce an accepted word count.
func (c *Codec) FromEntropy(entropy []byte) (*Mnemonic, error) {
	if len(entropy) == 0 || len(entropy)%4 != 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"entropy_bits": strconv.Itoa(len(entropy) * 8),
		})
	}

	wordCount := len(entropy) * 8 * 33 / 32 / bitsPerWord
	if !c.allowed(wordCount) {
		return nil, c.lengthError(wordCount)
	}

	indices := pack(entropy)
	words := make([]string, len(indices))
	for i, idx := range indices {
		words[i] = c.table.Word(idx)
	}
	return &Mnemonic{Words: words, Entropy: append([]byte(nil), entropy...)}, nil
}

// Generate draws fresh entropy and returns a phrase of wordCount words.
func (c *Codec) Generate(wordCount int) (*Mnemonic, error) {
	if !c.allowed(wordCount) {
		return nil, c.lengthError(wordCount)
	}

	ent := wordCount * bitsPerWord * 32 / 33 / 8
	src := c.entropy
	if src == nil {
		src = secure.Reader
	}

	buf := secure.NewBuffer(ent)
	defer buf.Destroy()
	if _, err := io.ReadFull(src, buf.Bytes()); err != nil {
		return nil, kiterr.Wrap(err, "reading entropy")
	}
	return c.FromEntropy(buf.Bytes())
}

func (c *Codec) allowed(n int) bool {
	for _, l := range c.lengths {
		if l == n {
			return true
		}
	}
	return false
}

func (c *Codec) lengthError(n int) error {
	allowed := make([]string, len(c.lengths))
	for i, l := range c.lengths {
		allowed[i] = strconv.Itoa(l)
	}
	return kiterr.WithDetails(kiterr.ErrInvalidWordCount, map[string]string{
		"words":   strconv.Itoa(n),
		"allowed": strings.Join(allowed, ","),
	})
}

// pack appends the SHA-256 checksum bits to entropy and splits the result
// into 11-bit word indices.
func pack(entropy []byte) []int {
	entBits := len(entropy) * 8
	csBits := entBits / 32
	sum := sha256.Sum256(entropy)

	bits := make([]byte, 0, len(entropy)+1)
	bits = append(bits, entropy...)
	bits = append(bits, sum[0])

	total := entBits + csBits
	indices := make([]int, total/bitsPerWord)
	for i := range indices {
		idx := 0
		for j := 0; j < bitsPerWord; j++ {
			idx = idx<<1 | bitAt(bits, i*bitsPerWord+j)
		}
		indices[i] = idx
	}
	return indices
}

// unpack reverses pack and verifies the checksum bits.
func unpack(indices []int) ([]byte, error) {
	total := len(indices) * bitsPerWord
	csBits := total / 33
	entBits := total - csBits

	bits := make([]byte, (total+7)/8)
	for i, idx := range indices {
		for j := 0; j < bitsPerWord; j++ {
			if idx&(1<<(bitsPerWord-1-j)) != 0 {
				pos := i*bitsPerWord + j
				bits[pos/8] |= 0x80 >> (pos % 8)
			}
		}
	}

	entropy := append([]byte(nil), bits[:entBits/8]...)
	sum := sha256.Sum256(entropy)
	for k := 0; k < csBits; k++ {
		if bitAt(bits, entBits+k) != bitAt(sum[:], k) {
			return nil, kiterr.ErrInvalidChecksum
		}
	}
	return entropy, nil
}

func bitAt(b []byte, pos int) int {
	return int(b[pos/8]>>(7-pos%8)) & 1
}
