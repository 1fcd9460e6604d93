package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// BuildRenderer renders compile, selector and ABI export results
type BuildRenderer struct {
	out   io.Writer
	color bool
}

// NewBuildRenderer creates a new build renderer
func NewBuildRenderer(out io.Writer, color bool) *BuildRenderer {
	return &BuildRenderer{out: out, color: color}
}

// Render renders a full compile run
func (r *BuildRenderer) Render(result *usecase.CompileContractsResult) error {
	if result.Selectors != nil {
		if err := r.RenderSelectors(result.Selectors); err != nil {
			return err
		}
	}
	if result.ABIs != nil {
		if err := r.RenderABIs(result.ABIs); err != nil {
			return err
		}
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Compiled in %s", result.Duration.Round(time.Millisecond))))
	return nil
}

// RenderSelectors renders the generated selector files
func (r *BuildRenderer) RenderSelectors(result *usecase.GenerateSelectorsResult) error {
	if len(result.Files) == 0 {
		fmt.Fprintln(r.out, FormatWarning("No contracts matched the selector patterns"))
		return nil
	}

	fmt.Fprintln(r.out, paint(r.color, headerStyle, "Function selectors:"))
	t := newTable(3)
	for _, f := range result.Files {
		t.AppendRow([]any{"  " + f.Dir, paint(r.color, keyStyle, f.Contract), fmt.Sprintf("%d functions", f.Functions)})
	}
	fmt.Fprintln(r.out, t.Render())

	if result.RouterSetupFile != "" {
		fmt.Fprintf(r.out, "Router setup: %d entries written to %s\n", result.RouterEntries, result.RouterSetupFile)
	}
	fmt.Fprintln(r.out)
	return nil
}

// RenderABIs renders the ABI export summary
func (r *BuildRenderer) RenderABIs(result *usecase.ExportABIsResult) error {
	fmt.Fprintf(r.out, "%s %d exported\n", paint(r.color, headerStyle, "ABIs:"), len(result.Exported))

	if len(result.Failed) > 0 {
		names := make([]string, 0, len(result.Failed))
		for name := range result.Failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(r.out, "  %s %s: %v\n", paint(r.color, color.New(color.FgYellow), "skipped"), name, result.Failed[name])
		}
	}
	if result.ClientMerged {
		fmt.Fprintln(r.out, "  client ABI merged with events")
	}
	fmt.Fprintln(r.out)
	return nil
}

var _ Renderer[*usecase.CompileContractsResult] = (*BuildRenderer)(nil)
