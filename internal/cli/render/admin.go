package render

import (
	"fmt"
	"io"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// AdminRenderer renders administration results
type AdminRenderer struct {
	out   io.Writer
	color bool
}

// NewAdminRenderer creates a new admin renderer
func NewAdminRenderer(out io.Writer, color bool) *AdminRenderer {
	return &AdminRenderer{out: out, color: color}
}

// Render renders a sent or prepared admin call
func (r *AdminRenderer) Render(result *usecase.AdminResult) error {
	if result.SubmitResult != nil && result.Calldata != nil {
		renderCalldata(r.out, r.color, result.Calldata)
		return nil
	}
	if result.SubmitResult != nil && result.Tx != nil {
		fmt.Fprintf(r.out, "Transaction: %s\n", formatTx(r.color, result.Tx))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s on %s", result.Action, result.Target.Hex())))
	return nil
}

// RenderCommunityAccounts renders a community account sync
func (r *AdminRenderer) RenderCommunityAccounts(result *usecase.SyncCommunityAccountsResult) error {
	if len(result.Accounts) == 0 {
		fmt.Fprintln(r.out, FormatWarning("No communities minted"))
		return nil
	}

	t := newTable(2)
	for _, a := range result.Accounts {
		t.AppendRow([]any{"  " + a.ID.String(), formatAddress(r.color, a.Account)})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	if result.SubmitResult != nil && result.Calldata != nil {
		renderCalldata(r.out, r.color, result.Calldata)
		return nil
	}
	if result.SubmitResult != nil && result.Tx != nil {
		fmt.Fprintf(r.out, "Transaction: %s\n", formatTx(r.color, result.Tx))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Synced %d community accounts", len(result.Accounts))))
	return nil
}

// renderCalldata prints a call prepared for submission through a multisig
func renderCalldata(out io.Writer, enabled bool, c *domain.Calldata) {
	fmt.Fprintln(out, paint(enabled, headerStyle, "Dry run, nothing was sent."))
	if c.Label != "" {
		fmt.Fprintf(out, "Call: %s\n", c.Label)
	}
	fmt.Fprintf(out, "To:   %s\n", c.To.Hex())
	fmt.Fprintf(out, "Data: %s\n", c.Data.String())
}

var _ Renderer[*usecase.AdminResult] = (*AdminRenderer)(nil)
