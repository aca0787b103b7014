package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrz1836/hdkit/internal/engine"
)

func renderBatchText(w io.Writer, b *engine.Batch) error {
	var sb strings.Builder

	field := func(label, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("%-22s %s\n", label+":", value))
		}
	}
	field("Network", b.Network)
	field("Seed", b.Seed)
	field("Root key", b.RootKey)
	field("Derivation path", b.Path)
	field("Extended private key", b.ExtendedPrivateKey)
	field("Extended public key", b.ExtendedPublicKey)
	if b.PhraseWarning != "" {
		sb.WriteString("\n⚠️  " + b.PhraseWarning + "\n")
	}
	sb.WriteString("\n")

	withPrivate := false
	for _, rec := range b.Records {
		if rec.PrivateKey != "" {
			withPrivate = true
			break
		}
	}

	headers := []string{"Path", "Address", "Public Key"}
	if withPrivate {
		headers = append(headers, "Private Key")
	}
	t := NewTable(headers...)
	for _, rec := range b.Records {
		row := []string{rec.IndexLabel, rec.Address, rec.PublicKeyHex}
		if withPrivate {
			row = append(row, rec.PrivateKey)
		}
		t.AddRow(row...)
	}
	sb.WriteString(t.String())

	_, err := io.WriteString(w, sb.String())
	return err
}
