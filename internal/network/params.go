package network

import (
	"github.com/btcsuite/btcd/chaincfg"
	ltcchaincfg "github.com/ltcsuite/ltcd/chaincfg"
	"github.com/vulpemventures/go-elements/network"
)

// Network IDs.
const (
	Bitcoin           = "bitcoin"
	BitcoinTestnet    = "bitcoin-testnet"
	BitcoinRegtest    = "bitcoin-regtest"
	BitcoinSimnet     = "bitcoin-simnet"
	Litecoin          = "litecoin"
	Dogecoin          = "dogecoin"
	ShadowCash        = "shadowcash"
	ShadowCashTestnet = "shadowcash-testnet"
	Viacoin           = "viacoin"
	ViacoinTestnet    = "viacoin-testnet"
	Jumbucks          = "jumbucks"
	Clam              = "clam"
	Dash              = "dash"
	Namecoin          = "namecoin"
	Peercoin          = "peercoin"
	Liquid            = "liquid"
	LiquidTestnet     = "liquid-testnet"
	Ethereum          = "ethereum"
)

//nolint:gochecknoglobals // shared extended-key version words
var (
	xpub = [4]byte{0x04, 0x88, 0xb2, 0x1e}
	xprv = [4]byte{0x04, 0x88, 0xad, 0xe4}
	tpub = [4]byte{0x04, 0x35, 0x87, 0xcf}
	tprv = [4]byte{0x04, 0x35, 0x83, 0x94}
)

func fromChaincfg(id, name string, p *chaincfg.Params, testnet bool) Params {
	return Params{
		ID:               id,
		Name:             name,
		CoinType:         p.HDCoinType,
		PubKeyHashAddrID: p.PubKeyHashAddrID,
		PrivateKeyID:     p.PrivateKeyID,
		HDPublicKeyID:    p.HDPublicKeyID,
		HDPrivateKeyID:   p.HDPrivateKeyID,
		Testnet:          testnet,
	}
}

func fromElements(id, name string, n *network.Network, coinType uint32, testnet bool) Params {
	return Params{
		ID:               id,
		Name:             name,
		CoinType:         coinType,
		PubKeyHashAddrID: n.PubKeyHash,
		PrivateKeyID:     n.Wif,
		HDPublicKeyID:    n.HDPublicKey,
		HDPrivateKeyID:   n.HDPrivateKey,
		Testnet:          testnet,
	}
}

func builtin() []Params {
	ltc := ltcchaincfg.MainNetParams

	return []Params{
		fromChaincfg(Bitcoin, "Bitcoin", &chaincfg.MainNetParams, false),
		fromChaincfg(BitcoinTestnet, "Bitcoin Testnet", &chaincfg.TestNet3Params, true),
		fromChaincfg(BitcoinRegtest, "Bitcoin Regtest", &chaincfg.RegressionNetParams, true),
		fromChaincfg(BitcoinSimnet, "Bitcoin Simnet", &chaincfg.SimNetParams, true),
		{
			ID:               Litecoin,
			Name:             "Litecoin",
			CoinType:         ltc.HDCoinType,
			PubKeyHashAddrID: ltc.PubKeyHashAddrID,
			PrivateKeyID:     ltc.PrivateKeyID,
			HDPublicKeyID:    ltc.HDPublicKeyID,
			HDPrivateKeyID:   ltc.HDPrivateKeyID,
		},
		{
			ID:               Dogecoin,
			Name:             "Dogecoin",
			CoinType:         3,
			PubKeyHashAddrID: 0x1e,
			PrivateKeyID:     0x9e,
			HDPublicKeyID:    [4]byte{0x02, 0xfa, 0xca, 0xfd},
			HDPrivateKeyID:   [4]byte{0x02, 0xfa, 0xc3, 0x98},
		},
		{
			ID:               ShadowCash,
			Name:             "ShadowCash",
			CoinType:         35,
			PubKeyHashAddrID: 0x3f,
			PrivateKeyID:     0xbf,
			HDPublicKeyID:    [4]byte{0xee, 0x80, 0x28, 0x6a},
			HDPrivateKeyID:   [4]byte{0xee, 0x80, 0x31, 0xe8},
		},
		{
			ID:               ShadowCashTestnet,
			Name:             "ShadowCash Testnet",
			CoinType:         1,
			PubKeyHashAddrID: 0x7f,
			PrivateKeyID:     0xff,
			HDPublicKeyID:    [4]byte{0x76, 0xc0, 0xfd, 0xfb},
			HDPrivateKeyID:   [4]byte{0x76, 0xc1, 0x07, 0x7a},
			Testnet:          true,
		},
		{
			ID:               Viacoin,
			Name:             "Viacoin",
			CoinType:         14,
			PubKeyHashAddrID: 0x47,
			PrivateKeyID:     0xc7,
			HDPublicKeyID:    xpub,
			HDPrivateKeyID:   xprv,
		},
		{
			ID:               ViacoinTestnet,
			Name:             "Viacoin Testnet",
			CoinType:         1,
			PubKeyHashAddrID: 0x7f,
			PrivateKeyID:     0xff,
			HDPublicKeyID:    tpub,
			HDPrivateKeyID:   tprv,
			Testnet:          true,
		},
		{
			ID:               Jumbucks,
			Name:             "Jumbucks",
			CoinType:         26,
			PubKeyHashAddrID: 0x2b,
			PrivateKeyID:     0xab,
			HDPublicKeyID:    [4]byte{0x03, 0x7a, 0x68, 0x9a},
			HDPrivateKeyID:   [4]byte{0x03, 0x7a, 0x64, 0x60},
		},
		{
			ID:               Clam,
			Name:             "CLAM",
			CoinType:         23,
			PubKeyHashAddrID: 0x89,
			PrivateKeyID:     0x85,
			HDPublicKeyID:    [4]byte{0xa8, 0xc2, 0x6d, 0x64},
			HDPrivateKeyID:   [4]byte{0xa8, 0xc1, 0x78, 0x26},
		},
		{
			ID:               Dash,
			Name:             "Dash",
			CoinType:         5,
			PubKeyHashAddrID: 0x4c,
			PrivateKeyID:     0xcc,
			HDPublicKeyID:    xpub,
			HDPrivateKeyID:   xprv,
		},
		{
			ID:               Namecoin,
			Name:             "Namecoin",
			CoinType:         7,
			PubKeyHashAddrID: 0x34,
			PrivateKeyID:     0xb4,
			HDPublicKeyID:    xpub,
			HDPrivateKeyID:   xprv,
		},
		{
			ID:               Peercoin,
			Name:             "Peercoin",
			CoinType:         6,
			PubKeyHashAddrID: 0x37,
			PrivateKeyID:     0xb7,
			HDPublicKeyID:    xpub,
			HDPrivateKeyID:   xprv,
		},
		fromElements(Liquid, "Liquid", &network.Liquid, 1776, false),
		fromElements(LiquidTestnet, "Liquid Testnet", &network.Testnet, 1, true),
		{
			ID:             Ethereum,
			Name:           "Ethereum",
			CoinType:       60,
			HDPublicKeyID:  xpub,
			HDPrivateKeyID: xprv,
			Format:         FormatEthereum,
		},
	}
}

// Default is the built-in registry.
//
//nolint:gochecknoglobals // read-only lookup table
var Default = NewRegistry(builtin()...)

// Lookup finds a network in the Default registry.
func Lookup(id string) (*Params, error) {
	return Default.Lookup(id)
}

// MustLookup finds a network in the Default registry or panics.
func MustLookup(id string) *Params {
	return Default.MustLookup(id)
}
