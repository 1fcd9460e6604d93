package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// Create2Renderer renders cached CREATE2 records
type Create2Renderer struct {
	out   io.Writer
	color bool
}

// NewCreate2Renderer creates a new create2 renderer
func NewCreate2Renderer(out io.Writer, color bool) *Create2Renderer {
	return &Create2Renderer{out: out, color: color}
}

func (r *Create2Renderer) Render(result *usecase.ShowCreate2Result) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No CREATE2 records in %s\n", result.File)
		return nil
	}

	fmt.Fprintf(r.out, "%s %s (factory %s)\n\n", paint(r.color, headerStyle, "CREATE2 records:"), result.File, result.Factory.Hex())
	t := newTable(5)
	t.AppendHeader([]any{"  NAME", "ADDRESS", "SALT", "INIT CODE", ""})
	for _, e := range result.Entries {
		valid := paint(r.color, color.New(color.FgGreen), "ok")
		if !e.Valid {
			valid = paint(r.color, removeStyle, "mismatch")
		}
		t.AppendRow([]any{
			"  " + paint(r.color, keyStyle, e.Name),
			formatAddress(r.color, e.Address),
			paint(r.color, hashStyle, e.Salt.Hex()),
			fmt.Sprintf("%d bytes", e.InitCodeSize),
			valid,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ShowCreate2Result] = (*Create2Renderer)(nil)
