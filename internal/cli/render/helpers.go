package render

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
)

var (
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	addressStyle = color.New(color.FgWhite)
	hashStyle    = color.New(color.Faint)
	keyStyle     = color.New(color.FgCyan)
	addStyle     = color.New(color.FgGreen)
	updateStyle  = color.New(color.FgYellow)
	removeStyle  = color.New(color.FgRed)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Only the innermost cause of an error chain is shown
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// paint applies a style when color output is enabled
func paint(enabled bool, c *color.Color, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// formatTx renders a mined transaction on one line
func formatTx(enabled bool, tx *domain.TxResult) string {
	if tx == nil {
		return "-"
	}
	return fmt.Sprintf("%s (block %d, gas %d)", paint(enabled, hashStyle, tx.Hash.Hex()), tx.BlockNumber, tx.GasUsed)
}

func formatAddress(enabled bool, addr common.Address) string {
	if addr == (common.Address{}) {
		return "-"
	}
	return paint(enabled, addressStyle, addr.Hex())
}

// newTable returns a borderless left aligned table writer
func newTable(columns int) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, columns)
	for i := range colConfigs {
		colConfigs[i] = table.ColumnConfig{
			Number: i + 1,
			Align:  text.AlignLeft,
		}
	}
	t.SetColumnConfigs(colConfigs)
	return t
}
