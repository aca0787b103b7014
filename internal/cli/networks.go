package cli

import (
	"encoding/hex"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/hdkit/internal/network"
	"github.com/mrz1836/hdkit/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List supported networks",
	Long: `List every network id accepted by --network together with its address
format and extended key version bytes.

Example:
  hdkit networks
  hdkit networks -o json`,
	Args: cobra.NoArgs,
	RunE: runNetworks,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(networksCmd)
}

type networkInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CoinType   uint32 `json:"coin_type"`
	Format     string `json:"format"`
	Testnet    bool   `json:"testnet"`
	HDPublic   string `json:"hd_public_version"`
	HDPrivate  string `json:"hd_private_version"`
	AddressID  int    `json:"address_version"`
	PrivateKey int    `json:"wif_version"`
}

func listNetworks(reg *network.Registry) []networkInfo {
	all := reg.All()
	infos := make([]networkInfo, 0, len(all))
	for _, p := range all {
		infos = append(infos, networkInfo{
			ID:         p.ID,
			Name:       p.Name,
			CoinType:   p.CoinType,
			Format:     p.Format.String(),
			Testnet:    p.Testnet,
			HDPublic:   hex.EncodeToString(p.HDPublicKeyID[:]),
			HDPrivate:  hex.EncodeToString(p.HDPrivateKeyID[:]),
			AddressID:  int(p.PubKeyHashAddrID),
			PrivateKey: int(p.PrivateKeyID),
		})
	}
	return infos
}

func runNetworks(cmd *cobra.Command, _ []string) error {
	infos := listNetworks(network.Default)
	if formatter.IsJSON() {
		return formatter.Print(infos)
	}

	t := output.NewTable("ID", "NAME", "COIN", "FORMAT", "XPUB VERSION", "TESTNET")
	for _, n := range infos {
		testnet := ""
		if n.Testnet {
			testnet = "yes"
		}
		t.AddRow(n.ID, n.Name, strconv.FormatUint(uint64(n.CoinType), 10), n.Format, n.HDPublic, testnet)
	}
	return t.Render(cmd.OutOrStdout())
}
