// Package network holds the per-coin version bytes that control how key
// material is rendered as addresses, WIF strings, and extended keys.
package network

import (
	"sort"

	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// AddressFormat selects the address encoding for a network.
type AddressFormat int

const (
	// FormatP2PKH is Base58Check(version || Hash160(pubkey)).
	FormatP2PKH AddressFormat = iota
	// FormatEthereum is the EIP-55 checksummed Keccak-256 address.
	FormatEthereum
)

func (f AddressFormat) String() string {
	if f == FormatEthereum {
		return "eip55"
	}
	return "p2pkh"
}

// Params is the immutable parameter record for one network.
type Params struct {
	ID               string
	Name             string
	CoinType         uint32 // SLIP-44 coin type, the default BIP44 coin field
	PubKeyHashAddrID byte
	PrivateKeyID     byte
	HDPublicKeyID    [4]byte
	HDPrivateKeyID   [4]byte
	Testnet          bool
	Format           AddressFormat
}

// Registry is a read-only table of networks keyed by ID.
// Registration order is preserved and decides version-word collisions.
type Registry struct {
	order []*Params
	byID  map[string]*Params
}

// NewRegistry builds a registry. Duplicate IDs keep the first entry.
func NewRegistry(params ...Params) *Registry {
	r := &Registry{byID: make(map[string]*Params, len(params))}
	for i := range params {
		p := params[i]
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.order = append(r.order, &p)
		r.byID[p.ID] = &p
	}
	return r
}

// Lookup returns the network with the given ID.
func (r *Registry) Lookup(id string) (*Params, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, kiterr.WithSuggestion(
		kiterr.WithDetails(kiterr.ErrUnknownNetwork, map[string]string{"network": id}),
		"run 'hdkit networks' to list supported networks",
	)
}

// MustLookup is Lookup for IDs known at compile time. It panics on a miss.
func (r *Registry) MustLookup(id string) *Params {
	p, err := r.Lookup(id)
	if err != nil {
		panic(err)
	}
	return p
}

// All returns every network in registration order.
func (r *Registry) All() []*Params {
	return append([]*Params(nil), r.order...)
}

// IDs returns the sorted network IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.order))
	for _, p := range r.order {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// ByHDVersion finds the first registered network using version for either
// its public or private extended keys. private reports which one matched.
func (r *Registry) ByHDVersion(version [4]byte) (params *Params, private bool, err error) {
	for _, p := range r.order {
		switch version {
		case p.HDPrivateKeyID:
			return p, true, nil
		case p.HDPublicKeyID:
			return p, false, nil
		}
	}
	return nil, false, kiterr.ErrUnknownVersion
}
