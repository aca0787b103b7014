package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/hdkit/internal/network"
)

func TestListNetworks(t *testing.T) {
	infos := listNetworks(network.Default)
	require.NotEmpty(t, infos)

	byID := make(map[string]networkInfo, len(infos))
	for _, n := range infos {
		byID[n.ID] = n
	}

	btc, ok := byID[network.Bitcoin]
	require.True(t, ok)
	assert.Equal(t, "0488b21e", btc.HDPublic)
	assert.Equal(t, "0488ade4", btc.HDPrivate)
	assert.Equal(t, 0, btc.AddressID)
	assert.Equal(t, 128, btc.PrivateKey)
	assert.Equal(t, "p2pkh", btc.Format)
	assert.False(t, btc.Testnet)

	eth, ok := byID[network.Ethereum]
	require.True(t, ok)
	assert.Equal(t, "eip55", eth.Format)
}

func TestNetworksCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		res, err := runCLI(t, "", "networks", "-o", "json")
		require.NoError(t, err)

		var infos []networkInfo
		require.NoError(t, json.Unmarshal([]byte(res.Stdout), &infos))
		assert.Len(t, infos, len(network.Default.All()))
	})

	t.Run("text", func(t *testing.T) {
		res, err := runCLI(t, "", "networks", "-o", "text")
		require.NoError(t, err)
		assert.Contains(t, res.Stdout, "XPUB VERSION")
		assert.Contains(t, res.Stdout, "dogecoin")
		assert.Contains(t, res.Stdout, "0488b21e")
	})
}
