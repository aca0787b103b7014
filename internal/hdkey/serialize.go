package hdkey

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/mrz1836/hdkit/internal/bitcoin"
	"github.com/mrz1836/hdkit/internal/network"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// SerializedLen is the payload size of an extended key before the checksum.
const SerializedLen = 78

// Serialize encodes k as an extended key string. When private is true the
// private version word and scalar are used, which requires a private key.
func (k *ExtendedKey) Serialize(private bool) (string, error) {
	if private && k.priv == nil {
		return "", kiterr.WithDetails(kiterr.ErrNotSupported, map[string]string{
			"reason": "public key cannot be serialized as private",
		})
	}

	version := k.net.HDPublicKeyID
	if private {
		version = k.net.HDPrivateKeyID
	}

	buf := make([]byte, 0, SerializedLen)
	buf = append(buf, version[:]...)
	buf = append(buf, k.depth)
	buf = append(buf, k.parentFP[:]...)
	buf = binary.BigEndian.AppendUint32(buf, k.childNum)
	buf = append(buf, k.chainCode[:]...)
	if private {
		buf = append(buf, 0x00)
		buf = append(buf, k.priv...)
	} else {
		buf = append(buf, k.pub...)
	}
	return bitcoin.CheckEncode(buf), nil
}

// String returns the private serialization for private keys and the public
// one otherwise.
func (k *ExtendedKey) String() string {
	s, _ := k.Serialize(k.priv != nil)
	return s
}

// PublicString returns the public serialization.
func (k *ExtendedKey) PublicString() string {
	s, _ := k.Serialize(false)
	return s
}

// Parse decodes an extended key using the Default network registry.
func Parse(s string) (*ExtendedKey, error) {
	return ParseWith(s, network.Default)
}

// ParseWith decodes an extended key, resolving its version word in reg.
func ParseWith(s string, reg *network.Registry) (*ExtendedKey, error) {
	data, err := bitcoin.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	if len(data) != SerializedLen {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
			"length": strconv.Itoa(len(data)),
		})
	}

	var version [4]byte
	copy(version[:], data[:4])
	net, private, err := reg.ByHDVersion(version)
	if err != nil {
		return nil, kiterr.WithDetails(err, map[string]string{"version": hex.EncodeToString(version[:])})
	}

	k := &ExtendedKey{
		net:      net,
		depth:    data[4],
		childNum: binary.BigEndian.Uint32(data[9:13]),
	}
	copy(k.parentFP[:], data[5:9])
	copy(k.chainCode[:], data[13:45])
	keyData := data[45:78]

	if k.depth == 0 && (k.parentFP != [fingerprintSz]byte{} || k.childNum != 0) {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
			"reason": "root key with parent fingerprint or child number",
		})
	}

	if private {
		if keyData[0] != 0x00 {
			return nil, kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
				"reason": "private key prefix",
			})
		}
		var scalar btcec.ModNScalar
		if overflow := scalar.SetByteSlice(keyData[1:]); overflow || scalar.IsZero() {
			return nil, kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
				"reason": "private key out of range",
			})
		}
		k.setPrivate(&scalar)
		return k, nil
	}

	pub, err := btcec.ParsePubKey(keyData)
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrInvalidKeyData, "public key: %v", err)
	}
	k.pub = pub.SerializeCompressed()
	return k, nil
}
