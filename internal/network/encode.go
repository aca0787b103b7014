package network

import (
	"encoding/hex"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mrz1836/hdkit/internal/bitcoin"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

const (
	compressedPubKeyLen = 33
	privateKeyLen       = 32
	compressedFlag      = 0x01
)

// EncodeAddress renders a 33-byte compressed public key as an address.
func (p *Params) EncodeAddress(pubKey []byte) (string, error) {
	if len(pubKey) != compressedPubKeyLen {
		return "", kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
			"pubkey_len": strconv.Itoa(len(pubKey)),
		})
	}

	if p.Format == FormatEthereum {
		pub, err := crypto.DecompressPubkey(pubKey)
		if err != nil {
			return "", kiterr.Wrap(kiterr.ErrInvalidKeyData, "decompress public key: %v", err)
		}
		return crypto.PubkeyToAddress(*pub).Hex(), nil
	}

	return bitcoin.Base58CheckEncode(p.PubKeyHashAddrID, bitcoin.Hash160(pubKey)), nil
}

// ValidateAddress reports whether addr is a well-formed address for p.
func (p *Params) ValidateAddress(addr string) bool {
	if p.Format == FormatEthereum {
		return common.IsHexAddress(addr)
	}
	version, payload, err := bitcoin.Base58CheckDecode(addr)
	return err == nil && version == p.PubKeyHashAddrID && len(payload) == 20
}

// EncodeWIF renders a 32-byte private key in wallet import format.
func (p *Params) EncodeWIF(privKey []byte, compressed bool) string {
	payload := make([]byte, 0, privateKeyLen+1)
	payload = append(payload, privKey...)
	if compressed {
		payload = append(payload, compressedFlag)
	}
	return bitcoin.Base58CheckEncode(p.PrivateKeyID, payload)
}

// DecodeWIF parses a WIF string produced for p.
func (p *Params) DecodeWIF(wif string) (privKey []byte, compressed bool, err error) {
	version, payload, err := bitcoin.Base58CheckDecode(wif)
	if err != nil {
		return nil, false, err
	}
	if version != p.PrivateKeyID {
		return nil, false, kiterr.WithDetails(kiterr.ErrUnknownVersion, map[string]string{
			"version": hex.EncodeToString([]byte{version}),
			"network": p.ID,
		})
	}

	switch {
	case len(payload) == privateKeyLen+1 && payload[privateKeyLen] == compressedFlag:
		return payload[:privateKeyLen], true, nil
	case len(payload) == privateKeyLen:
		return payload, false, nil
	default:
		return nil, false, kiterr.WithDetails(kiterr.ErrInvalidKeyData, map[string]string{
			"payload_len": strconv.Itoa(len(payload)),
		})
	}
}

// EncodePrivateKey renders a private key the way wallets for p import it:
// compressed WIF for Base58 networks, 0x-prefixed hex for Ethereum.
func (p *Params) EncodePrivateKey(privKey []byte) string {
	if p.Format == FormatEthereum {
		return "0x" + hex.EncodeToString(privKey)
	}
	return p.EncodeWIF(privKey, true)
}
