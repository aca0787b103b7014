// Package hdkey implements BIP32 hierarchical deterministic keys: master key
// generation from a seed, private and public child derivation, and the
// Base58Check extended key format.
package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/mrz1836/hdkit/internal/bitcoin"
	"github.com/mrz1836/hdkit/internal/hdpath"
	"github.com/mrz1836/hdkit/internal/network"
	"github.com/mrz1836/hdkit/internal/secure"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

const (
	// MaxDepth is the deepest key the one-byte depth field can describe.
	MaxDepth = 255

	chainCodeLen  = 32
	privKeyLen    = 32
	pubKeyLen     = 33
	fingerprintSz = 4
)

//nolint:gochecknoglobals // BIP32 domain separation key
var masterKeySalt = []byte("Bitcoin seed")

// ExtendedKey is an immutable BIP32 node. It always carries the compressed
// public key and, for private nodes, the 32-byte scalar.
type ExtendedKey struct {
	net       *network.Params
	depth     uint8
	parentFP  [fingerprintSz]byte
	childNum  uint32
	chainCode [chainCodeLen]byte
	priv      []byte
	pub       []byte
}

// NewMaster derives the root key of the tree for seed.
func NewMaster(seed []byte, net *network.Params) (*ExtendedKey, error) {
	if len(seed) == 0 {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{"reason": "empty seed"})
	}

	mac := hmac.New(sha512.New, masterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer secure.Zero(sum)

	il, ir := sum[:32], sum[32:]

	var k btcec.ModNScalar
	if overflow := k.SetByteSlice(il); overflow || k.IsZero() {
		return nil, kiterr.ErrInvalidMasterKey
	}

	key := &ExtendedKey{net: net}
	copy(key.chainCode[:], ir)
	key.setPrivate(&k)
	return key, nil
}

func (k *ExtendedKey) setPrivate(scalar *btcec.ModNScalar) {
	b := scalar.Bytes()
	k.priv = b[:]
	priv := &btcec.PrivateKey{Key: *scalar}
	k.pub = priv.PubKey().SerializeCompressed()
}

// Child derives the child at index. Hardened children require a private
// parent. The same parent and index always produce the same child or the
// same error.
func (k *ExtendedKey) Child(index uint32, hardened bool) (*ExtendedKey, error) {
	if index >= hdpath.HardenedOffset {
		return nil, kiterr.ErrIndexOutOfRange
	}
	if hardened && k.priv == nil {
		return nil, kiterr.ErrHardenedFromPublic
	}
	if k.depth == MaxDepth {
		return nil, kiterr.ErrDerivationDepth
	}

	childNum := index
	if hardened {
		childNum += hdpath.HardenedOffset
	}

	data := make([]byte, 0, pubKeyLen+4)
	if hardened {
		data = append(data, 0x00)
		data = append(data, k.priv...)
	} else {
		data = append(data, k.pub...)
	}
	data = binary.BigEndian.AppendUint32(data, childNum)
	defer secure.Zero(data)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	defer secure.Zero(sum)

	il, ir := sum[:32], sum[32:]

	var tweak btcec.ModNScalar
	if overflow := tweak.SetByteSlice(il); overflow {
		return nil, kiterr.ErrInvalidChildKey
	}

	child := &ExtendedKey{
		net:      k.net,
		depth:    k.depth + 1,
		parentFP: k.Fingerprint(),
		childNum: childNum,
	}
	copy(child.chainCode[:], ir)

	if k.priv != nil {
		var parent btcec.ModNScalar
		parent.SetByteSlice(k.priv)
		tweak.Add(&parent)
		if tweak.IsZero() {
			return nil, kiterr.ErrInvalidChildKey
		}
		child.setPrivate(&tweak)
		return child, nil
	}

	pub, err := addTweak(k.pub, &tweak)
	if err != nil {
		return nil, err
	}
	child.pub = pub
	return child, nil
}

// addTweak returns tweak*G + point as a compressed key.
func addTweak(point []byte, tweak *btcec.ModNScalar) ([]byte, error) {
	parent, err := btcec.ParsePubKey(point)
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrInvalidKeyData, "parse parent public key: %v", err)
	}

	var tweakJ, parentJ, resultJ btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(tweak, &tweakJ)
	parent.AsJacobian(&parentJ)
	btcec.AddNonConst(&tweakJ, &parentJ, &resultJ)

	if (resultJ.X.IsZero() && resultJ.Y.IsZero()) || resultJ.Z.IsZero() {
		return nil, kiterr.ErrInvalidChildKey
	}

	resultJ.ToAffine()
	return btcec.NewPublicKey(&resultJ.X, &resultJ.Y).SerializeCompressed(), nil
}

// Derive walks path from k, one child per segment.
func (k *ExtendedKey) Derive(path hdpath.Path) (*ExtendedKey, error) {
	key := k
	for i, seg := range path {
		next, err := key.Child(seg.Index, seg.Hardened)
		if err != nil {
			return nil, kiterr.Wrap(err, "derive segment %d (%s)", i+1, seg)
		}
		key = next
	}
	return key, nil
}

// Neuter returns the public-only counterpart of k.
func (k *ExtendedKey) Neuter() *ExtendedKey {
	if k.priv == nil {
		return k
	}
	n := *k
	n.priv = nil
	return &n
}

// ForNetwork returns a copy of k rendered with net's version bytes.
func (k *ExtendedKey) ForNetwork(net *network.Params) *ExtendedKey {
	n := *k
	n.net = net
	return &n
}

// Fingerprint is the first four bytes of Hash160 of the public key.
func (k *ExtendedKey) Fingerprint() [fingerprintSz]byte {
	var fp [fingerprintSz]byte
	copy(fp[:], bitcoin.Hash160(k.pub))
	return fp
}

// Network returns the parameters used for encoding.
func (k *ExtendedKey) Network() *network.Params { return k.net }

// Depth returns the number of derivations from the root.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ParentFingerprint returns the parent's fingerprint, zero for the root.
func (k *ExtendedKey) ParentFingerprint() [fingerprintSz]byte { return k.parentFP }

// ChildNumber returns the serialized child number including the hardened bit.
func (k *ExtendedKey) ChildNumber() uint32 { return k.childNum }

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte { return append([]byte(nil), k.chainCode[:]...) }

// IsPrivate reports whether k holds a private key.
func (k *ExtendedKey) IsPrivate() bool { return k.priv != nil }

// PrivateKey returns a copy of the private scalar, or nil for public keys.
func (k *ExtendedKey) PrivateKey() []byte {
	if k.priv == nil {
		return nil
	}
	return append([]byte(nil), k.priv...)
}

// PublicKey returns a copy of the compressed public key.
func (k *ExtendedKey) PublicKey() []byte { return append([]byte(nil), k.pub...) }

// Address encodes the public key as an address for k's network.
func (k *ExtendedKey) Address() (string, error) {
	return k.net.EncodeAddress(k.pub)
}

// PrivateKeyString encodes the private key for k's network, or returns ""
// for public keys.
func (k *ExtendedKey) PrivateKeyString() string {
	if k.priv == nil {
		return ""
	}
	return k.net.EncodePrivateKey(k.priv)
}
