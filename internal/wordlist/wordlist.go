// Package wordlist exposes the fixed BIP39 English vocabulary as an
// immutable, indexed table.
package wordlist

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39/wordlists"
)

// Size is the number of words in a BIP39 wordlist.
const Size = 2048

// Table is an ordered vocabulary with constant-time word lookup.
// A Table is never modified after construction.
type Table struct {
	words []string
	index map[string]int
}

// English is the shared BIP39 English table.
//
//nolint:gochecknoglobals // read-only lookup table
var English = New(wordlists.English)

// New builds a Table from an ordered word slice. The slice is copied.
func New(words []string) *Table {
	t := &Table{
		words: append([]string(nil), words...),
		index: make(map[string]int, len(words)),
	}
	for i, w := range t.words {
		t.index[w] = i
	}
	return t
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.words)
}

// Word returns the word at position i.
func (t *Table) Word(i int) string {
	return t.words[i]
}

// Index returns the position of word, or false if it is not in the table.
// Lookup is case-insensitive.
func (t *Table) Index(word string) (int, bool) {
	i, ok := t.index[strings.ToLower(word)]
	return i, ok
}

// Contains reports whether word is in the table.
func (t *Table) Contains(word string) bool {
	_, ok := t.Index(word)
	return ok
}

// Words returns a copy of the ordered vocabulary.
func (t *Table) Words() []string {
	return append([]string(nil), t.words...)
}

// Nearest returns the table word with the smallest Levenshtein distance to
// input, together with that distance. Ties resolve to the earliest word in
// table order.
func (t *Table) Nearest(input string) (string, int) {
	input = strings.ToLower(input)
	if i, ok := t.index[input]; ok {
		return t.words[i], 0
	}

	best, bestDist := "", math.MaxInt
	for _, w := range t.words {
		if d := levenshtein.ComputeDistance(input, w); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best, bestDist
}
