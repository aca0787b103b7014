package hdkey

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip32"

	"github.com/mrz1836/hdkit/internal/hdpath"
	"github.com/mrz1836/hdkit/internal/mnemonic"
	"github.com/mrz1836/hdkit/internal/network"
	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

const (
	vectorPhrase = "abandon abandon ability"
	vectorRoot   = "xprv9s21ZrQH143K2jkGDCeTLgRewT9F2pH5JZs2zDmmjXes34geVnFiuNa8KTvY5WoYvdn4Ag6oYRoB6cXtc43NgJAEqDXf51xPm6fhiMCKwpi"
	bip32Seed1   = "000102030405060708090a0b0c0d0e0f"
)

func btc() *network.Params { return network.MustLookup(network.Bitcoin) }

func vectorMaster(t *testing.T) *ExtendedKey {
	t.Helper()
	master, err := NewMaster(mnemonic.Seed(vectorPhrase, ""), btc())
	require.NoError(t, err)
	return master
}

func bip32Master(t *testing.T) *ExtendedKey {
	t.Helper()
	seed, err := hex.DecodeString(bip32Seed1)
	require.NoError(t, err)
	master, err := NewMaster(seed, btc())
	require.NoError(t, err)
	return master
}

func TestNewMaster(t *testing.T) {
	t.Parallel()

	master := vectorMaster(t)
	assert.Equal(t, vectorRoot, master.String())
	assert.Equal(t, uint8(0), master.Depth())
	assert.Equal(t, [4]byte{}, master.ParentFingerprint())
	assert.Equal(t, uint32(0), master.ChildNumber())
	assert.True(t, master.IsPrivate())

	_, err := NewMaster(nil, btc())
	require.ErrorIs(t, err, kiterr.ErrInvalidInput)
}

func TestDerive_BIP32Vector1(t *testing.T) {
	t.Parallel()
	master := bip32Master(t)

	tests := []struct {
		path string
		xprv string
		xpub string
	}{
		{
			"m",
			"xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
			"xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
		},
		{
			"m/0'",
			"xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7",
			"xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw",
		},
		{
			"m/0'/1",
			"xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSxqu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs",
			"xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
		},
		{
			"m/0'/1/2'",
			"xprv9z4pot5VBttmtdRTWfWQmoH1taj2axGVzFqSb8C9xaxKymcFzXBDptWmT7FwuEzG3ryjH4ktypQSAewRiNMjANTtpgP4mLTj34bhnZX7UiM",
			"xpub6D4BDPcP2GT577Vvch3R8wDkScZWzQzMMUm3PWbmWvVJrZwQY4VUNgqFJPMM3No2dFDFGTsxxpG5uJh7n7epu4trkrX7x7DogT5Uv6fcLW5",
		},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			key, err := master.Derive(hdpath.MustParse(tc.path))
			require.NoError(t, err)
			assert.Equal(t, tc.xprv, key.String())
			assert.Equal(t, tc.xpub, key.PublicString())
			assert.Equal(t, tc.xpub, key.Neuter().String())
		})
	}
}

func TestDerive_BIP44AccountKeys(t *testing.T) {
	t.Parallel()

	key, err := vectorMaster(t).Derive(hdpath.MustParse("m/44'/0'/0'/0"))
	require.NoError(t, err)
	assert.Equal(t,
		"xprvA2DxxvPZcyRvYgZMGS53nadR32mVDeCyqQYyFhrCVbJNjPoxMeVf7QT5g7mQASbTf9Kp4cryvcXnu2qurjWKcrdsr91jXymdCDNxKgLFKJG",
		key.String())
	assert.Equal(t,
		"xpub6FDKNRvTTLzDmAdpNTc49ia9b4byd6vqCdUa46Fp3vqMcC96uBoufCmZXQLiN5AK3iSCJMhf9gT2sxkpyaPepRuA7W3MujV5tGmF5VfbueM",
		key.PublicString())

	leaf, err := key.Child(0, false)
	require.NoError(t, err)
	addr, err := leaf.Address()
	require.NoError(t, err)
	assert.Equal(t, "1Di3Vp7tBWtyQaDABLAjfWtF6V7hYKJtug", addr)
	assert.Equal(t, "L26cVSpWFkJ6aQkPkKmTzLqTdLJ923e6CzrVh9cmx21QHsoUmrEE", leaf.PrivateKeyString())
}

func TestDerive_MatchesHDKeychain(t *testing.T) {
	t.Parallel()

	for _, seed := range [][]byte{mnemonic.Seed(vectorPhrase, ""), mnemonic.Seed(vectorPhrase, "secure_passphrase")} {
		ours, err := NewMaster(seed, btc())
		require.NoError(t, err)
		ref, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
		require.NoError(t, err)
		require.Equal(t, ref.String(), ours.String())

		for _, idx := range []uint32{hdkeychain.HardenedKeyStart + 44, hdkeychain.HardenedKeyStart, 7, 1} {
			ref, err = ref.Derive(idx)
			require.NoError(t, err)
			ours, err = ours.Child(idx&^hdpath.HardenedOffset, idx >= hdpath.HardenedOffset)
			require.NoError(t, err)
			assert.Equal(t, ref.String(), ours.String())

			refPub, err := ref.Neuter()
			require.NoError(t, err)
			assert.Equal(t, refPub.String(), ours.PublicString())
		}
	}
}

func TestDerive_MatchesBIP32Library(t *testing.T) {
	t.Parallel()

	seed, err := hex.DecodeString(bip32Seed1)
	require.NoError(t, err)

	ref, err := bip32.NewMasterKey(seed)
	require.NoError(t, err)
	ours := bip32Master(t)

	for _, idx := range []uint32{bip32.FirstHardenedChild, 1, bip32.FirstHardenedChild + 2, 2, 1000000000} {
		ref, err = ref.NewChildKey(idx)
		require.NoError(t, err)
		ours, err = ours.Child(idx&^hdpath.HardenedOffset, idx >= hdpath.HardenedOffset)
		require.NoError(t, err)
		assert.Equal(t, ref.String(), ours.String())
		assert.Equal(t, ref.PublicKey().String(), ours.PublicString())
	}
}

func TestChild_PublicDerivationMatchesPrivate(t *testing.T) {
	t.Parallel()

	parent, err := bip32Master(t).Child(0, true)
	require.NoError(t, err)

	fromPrivate, err := parent.Child(1, false)
	require.NoError(t, err)
	fromPublic, err := parent.Neuter().Child(1, false)
	require.NoError(t, err)

	assert.False(t, fromPublic.IsPrivate())
	assert.Nil(t, fromPublic.PrivateKey())
	assert.Empty(t, fromPublic.PrivateKeyString())
	assert.Equal(t, fromPrivate.PublicKey(), fromPublic.PublicKey())
	assert.Equal(t, fromPrivate.PublicString(), fromPublic.String())
	assert.Equal(t, parent.Fingerprint(), fromPublic.ParentFingerprint())
}

func TestChild_Errors(t *testing.T) {
	t.Parallel()
	master := vectorMaster(t)

	_, err := master.Neuter().Child(0, true)
	require.ErrorIs(t, err, kiterr.ErrHardenedFromPublic)

	_, err = master.Child(hdpath.HardenedOffset, false)
	require.ErrorIs(t, err, kiterr.ErrIndexOutOfRange)

	deep := &ExtendedKey{net: master.net, depth: MaxDepth, priv: master.priv, pub: master.pub}
	_, err = deep.Child(0, false)
	require.ErrorIs(t, err, kiterr.ErrDerivationDepth)

	_, err = master.Neuter().Derive(hdpath.MustParse("m/0/1'"))
	require.ErrorIs(t, err, kiterr.ErrHardenedFromPublic)
}

func TestDerive_PathSensitivity(t *testing.T) {
	t.Parallel()

	for _, master := range []*ExtendedKey{vectorMaster(t), bip32Master(t)} {
		normal, err := master.Derive(hdpath.MustParse("m/0"))
		require.NoError(t, err)
		hardened, err := master.Derive(hdpath.MustParse("m/0'"))
		require.NoError(t, err)
		assert.NotEqual(t, normal.String(), hardened.String())
		assert.NotEqual(t, normal.PublicKey(), hardened.PublicKey())

		ab, err := master.Derive(hdpath.MustParse("m/1/2"))
		require.NoError(t, err)
		ba, err := master.Derive(hdpath.MustParse("m/2/1"))
		require.NoError(t, err)
		assert.NotEqual(t, ab.String(), ba.String())

		again, err := master.Derive(hdpath.MustParse("m/1/2"))
		require.NoError(t, err)
		assert.Equal(t, ab.String(), again.String())
	}
}

func TestDerive_EmptyPathIsRoot(t *testing.T) {
	t.Parallel()

	master := vectorMaster(t)
	same, err := master.Derive(hdpath.Path{})
	require.NoError(t, err)
	assert.Equal(t, master.String(), same.String())
}

func TestForNetwork(t *testing.T) {
	t.Parallel()

	master := vectorMaster(t)
	doge := master.ForNetwork(network.MustLookup(network.Dogecoin))
	assert.Equal(t, network.Dogecoin, doge.Network().ID)
	assert.Equal(t, network.Bitcoin, master.Network().ID)
	assert.Equal(t, master.PublicKey(), doge.PublicKey())
	assert.Equal(t, master.ChainCode(), doge.ChainCode())
	assert.NotEqual(t, master.String(), doge.String())
}
