// Package generator fans a derivation path out over a run of trailing
// indices and formats each leaf key for its network.
package generator

import (
	"encoding/hex"
	"strconv"

	"github.com/mrz1836/hdkit/internal/hdkey"
	"github.com/mrz1836/hdkit/internal/hdpath"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// AddressRecord is one derived leaf.
type AddressRecord struct {
	Path         hdpath.Path `json:"-"          yaml:"-"`
	IndexLabel   string      `json:"path"       yaml:"path"`
	Index        uint32      `json:"index"      yaml:"index"`
	Address      string      `json:"address"    yaml:"address"`
	PublicKeyHex string      `json:"public_key" yaml:"public_key"`
	PrivateKey   string      `json:"private_key,omitempty" yaml:"private_key,omitempty"`
}

// Generator derives leaves below a fixed base path.
type Generator struct {
	base     hdpath.Path
	baseKey  *hdkey.ExtendedKey
	hardened bool
}

// New derives the base key once so that ranges only pay for the leaf step.
func New(root *hdkey.ExtendedKey, base hdpath.Path, hardened bool) (*Generator, error) {
	baseKey, err := root.Derive(base)
	if err != nil {
		return nil, err
	}
	return &Generator{base: base, baseKey: baseKey, hardened: hardened}, nil
}

// BaseKey returns the extended key at the base path.
func (g *Generator) BaseKey() *hdkey.ExtendedKey {
	return g.baseKey
}

// BasePath returns the base path.
func (g *Generator) BasePath() hdpath.Path {
	return g.base
}

// Range derives count leaves starting at start, ordered by ascending index.
func (g *Generator) Range(start, count uint32) ([]AddressRecord, error) {
	if count == 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidAddressCount, map[string]string{"count": "0"})
	}
	if uint64(start)+uint64(count) > uint64(hdpath.HardenedOffset) {
		return nil, kiterr.WithDetails(kiterr.ErrIndexOutOfRange, map[string]string{
			"start": strconv.FormatUint(uint64(start), 10),
			"count": strconv.FormatUint(uint64(count), 10),
		})
	}

	records := make([]AddressRecord, 0, count)
	for i := start; i < start+count; i++ {
		rec, err := g.record(i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (g *Generator) record(index uint32) (AddressRecord, error) {
	seg := hdpath.Segment{Index: index, Hardened: g.hardened}
	leaf, err := g.baseKey.Child(seg.Index, seg.Hardened)
	if err != nil {
		return AddressRecord{}, kiterr.Wrap(err, "derive index %d", index)
	}

	addr, err := leaf.Address()
	if err != nil {
		return AddressRecord{}, err
	}

	path := g.base.Append(seg)
	return AddressRecord{
		Path:         path,
		IndexLabel:   path.String(),
		Index:        index,
		Address:      addr,
		PublicKeyHex: hex.EncodeToString(leaf.PublicKey()),
		PrivateKey:   leaf.PrivateKeyString(),
	}, nil
}

// Generate derives indices 0..count-1 under base.
func Generate(root *hdkey.ExtendedKey, base hdpath.Path, count uint32, hardened bool) ([]AddressRecord, error) {
	g, err := New(root, base, hardened)
	if err != nil {
		return nil, err
	}
	return g.Range(0, count)
}
