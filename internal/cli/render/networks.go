package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// Render renders the list of networks with their chain ids
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		name := network.Name
		if name == result.Current {
			name = paint(r.color, color.New(color.Bold), name+" (current)")
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", name, network.Error)
			continue
		}
		line := fmt.Sprintf("  ✅ %s - Chain ID: %d", name, network.ChainID)
		if network.Local {
			line += " (local)"
		}
		fmt.Fprintln(r.out, line)
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
