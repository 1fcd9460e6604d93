package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// RouterRenderer renders router tables and updates
type RouterRenderer struct {
	out   io.Writer
	color bool
}

// NewRouterRenderer creates a new router renderer
func NewRouterRenderer(out io.Writer, color bool) *RouterRenderer {
	return &RouterRenderer{out: out, color: color}
}

// Render renders the on-chain router table grouped by implementation
func (r *RouterRenderer) Render(result *usecase.ShowRouterResult) error {
	fmt.Fprintf(r.out, "%s %s (%d entries)\n\n", paint(r.color, headerStyle, "Router"), result.Router.Hex(), result.Total)

	for _, module := range result.Modules {
		name := module.Module
		if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(r.out, "%s %s\n", paint(r.color, keyStyle, name), formatAddress(r.color, module.Address))

		t := newTable(2)
		for _, e := range module.Entries {
			t.AppendRow([]any{"  " + e.Selector.String(), e.Signature})
		}
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}
	return nil
}

// RenderUpdate renders a router update with its per module diffs
func (r *RouterRenderer) RenderUpdate(result *usecase.UpdateRouterResult) error {
	for _, d := range result.Deployed {
		fmt.Fprintf(r.out, "Deployed %s at %s %s\n", paint(r.color, keyStyle, d.Name), d.Address.Hex(), formatTx(r.color, d.Tx))
	}
	if len(result.Deployed) > 0 {
		fmt.Fprintln(r.out)
	}

	for _, diff := range result.Diffs {
		r.renderDiff(diff)
	}

	switch {
	case result.Calldata != nil:
		renderCalldata(r.out, r.color, result.Calldata)
	case result.Tx != nil:
		fmt.Fprintf(r.out, "Router update: %s\n", formatTx(r.color, result.Tx))
	default:
		fmt.Fprintln(r.out, FormatWarning("Router already up to date"))
	}

	if result.Recorded {
		fmt.Fprintln(r.out, FormatSuccess("Address book updated"))
	}
	return nil
}

func (r *RouterRenderer) renderDiff(diff *domain.RouterDiff) {
	fmt.Fprintf(r.out, "%s %s\n", paint(r.color, headerStyle, diff.Summary()), diff.Impl.Hex())
	r.renderEntries("-", removeStyle, diff.Remove)
	r.renderEntries("~", updateStyle, diff.Update)
	r.renderEntries("+", addStyle, diff.Add)
	fmt.Fprintln(r.out)
}

func (r *RouterRenderer) renderEntries(mark string, style *color.Color, entries []domain.RouterEntry) {
	for _, e := range entries {
		fmt.Fprintf(r.out, "  %s %s %s\n", paint(r.color, style, mark), e.Selector.String(), e.Signature)
	}
}

var _ Renderer[*usecase.ShowRouterResult] = (*RouterRenderer)(nil)
