package engine

import (
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/hdkit/internal/generator"
	"github.com/mrz1836/hdkit/internal/hdpath"
	"github.com/mrz1836/hdkit/internal/network"
)

// Mode selects how the base path is built.
type Mode string

// Derivation modes.
const (
	ModeBIP44 Mode = "bip44"
	ModeBIP32 Mode = "bip32"
)

// DefaultCustomPath is the BIP32 base path used when none is given.
const DefaultCustomPath = "m/0"

// DefaultCount is the number of addresses derived per batch.
const DefaultCount = 20

// Snapshot is one complete set of inputs. A new Snapshot replaces the
// previous one as a whole.
//
// The BIP44 coin field follows the selected network's registered coin type
// unless CoinSet pins it to BIP44.Coin.
type Snapshot struct {
	Phrase       string             `json:"phrase,omitempty"      yaml:"phrase,omitempty"`
	Passphrase   string             `json:"passphrase,omitempty"  yaml:"passphrase,omitempty"`
	RootKey      string             `json:"root_key,omitempty"    yaml:"root_key,omitempty"`
	Network      string             `json:"network"               yaml:"network"`
	Mode         Mode               `json:"mode"                  yaml:"mode"`
	BIP44        hdpath.BIP44Fields `json:"bip44"                 yaml:"bip44"`
	CoinSet      bool               `json:"coin_set,omitempty"    yaml:"coin_set,omitempty"`
	CustomPath   string             `json:"custom_path,omitempty" yaml:"custom_path,omitempty"`
	HardenedLeaf bool               `json:"hardened_leaf"         yaml:"hardened_leaf"`
	Count        uint32             `json:"count"                 yaml:"count"`
	Start        uint32             `json:"start"                 yaml:"start"`
}

// DefaultSnapshot returns bitcoin, BIP44 m/44'/0'/0'/0, 20 addresses.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Network:    network.Bitcoin,
		Mode:       ModeBIP44,
		BIP44:      hdpath.DefaultBIP44(),
		CustomPath: DefaultCustomPath,
		Count:      DefaultCount,
	}
}

// SetCoin pins the BIP44 coin field so that network changes leave it alone.
func (s *Snapshot) SetCoin(coin uint32) {
	s.BIP44.Coin = coin
	s.CoinSet = true
}

// UnmarshalYAML overlays the document onto s. A bip44.coin key pins the coin.
func (s *Snapshot) UnmarshalYAML(node *yaml.Node) error {
	type plain Snapshot
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}

	var keys struct {
		BIP44 struct {
			Coin *uint32 `yaml:"coin"`
		} `yaml:"bip44"`
	}
	if err := node.Decode(&keys); err != nil {
		return err
	}
	if keys.BIP44.Coin != nil {
		s.CoinSet = true
	}
	return nil
}

// Batch is the complete output for one Snapshot.
type Batch struct {
	Network            string                    `json:"network"`
	Seed               string                    `json:"seed,omitempty"`
	RootKey            string                    `json:"root_key"`
	RootIsPrivate      bool                      `json:"-"`
	Path               string                    `json:"path"`
	ExtendedPrivateKey string                    `json:"extended_private_key,omitempty"`
	ExtendedPublicKey  string                    `json:"extended_public_key"`
	PhraseWarning      string                    `json:"phrase_warning,omitempty"`
	PhraseError        error                     `json:"-"`
	Records            []generator.AddressRecord `json:"addresses"`
}

// HidePrivate returns a copy of b without any private key material.
func (b *Batch) HidePrivate() *Batch {
	out := *b
	out.Seed = ""
	out.ExtendedPrivateKey = ""
	if out.RootIsPrivate {
		out.RootKey = ""
	}
	out.Records = make([]generator.AddressRecord, len(b.Records))
	for i, rec := range b.Records {
		rec.PrivateKey = ""
		out.Records[i] = rec
	}
	return &out
}
