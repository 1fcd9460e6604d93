package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// AddressesRenderer renders address book contents
type AddressesRenderer struct {
	out   io.Writer
	color bool
}

// NewAddressesRenderer creates a new addresses renderer
func NewAddressesRenderer(out io.Writer, color bool) *AddressesRenderer {
	return &AddressesRenderer{out: out, color: color}
}

// Render renders the merged address book of an env and network
func (r *AddressesRenderer) Render(result *usecase.ShowAddressesResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No addresses recorded for env %s on %s\n", result.Env, result.Network)
		return nil
	}

	fmt.Fprintf(r.out, "%s env %s on %s\n\n", paint(r.color, headerStyle, "Addresses:"), result.Env, result.Network)
	t := newTable(3)
	for _, e := range result.Entries {
		scope := ""
		if e.Global {
			scope = paint(r.color, color.New(color.Faint), "(global)")
		}
		t.AppendRow([]any{"  " + paint(r.color, keyStyle, e.Key), paint(r.color, addressStyle, e.Address), scope})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderEntry prints a single address, nothing else, so it can be piped
func (r *AddressesRenderer) RenderEntry(entry *usecase.AddressEntry) error {
	fmt.Fprintln(r.out, entry.Address)
	return nil
}

// RenderSet renders a recorded address
func (r *AddressesRenderer) RenderSet(result *usecase.SetAddressResult) error {
	if result.Previous != "" {
		fmt.Fprintf(r.out, "Replaced %s\n", result.Previous)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s = %s in %s", result.Key, result.Address.Hex(), result.File)))
	return nil
}

var _ Renderer[*usecase.ShowAddressesResult] = (*AddressesRenderer)(nil)
