package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// DeployRenderer renders deployment results
type DeployRenderer struct {
	out   io.Writer
	color bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, color bool) *DeployRenderer {
	return &DeployRenderer{out: out, color: color}
}

// RenderFactory renders the deterministic deployment factory result
func (r *DeployRenderer) RenderFactory(result *usecase.DeployFactoryResult) error {
	if result.AlreadyDeployed {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Factory already deployed at %s", result.Factory.Hex())))
		return nil
	}
	if result.Funded != nil {
		fmt.Fprintf(r.out, "Funded factory deployer: %s\n", formatTx(r.color, result.Funded))
	}
	fmt.Fprintf(r.out, "Deployment tx: %s\n", formatTx(r.color, result.Tx))
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Factory deployed at %s", result.Factory.Hex())))
	return nil
}

// Render renders a full protocol deployment
func (r *DeployRenderer) Render(result *usecase.DeployProtocolResult) error {
	fmt.Fprintf(r.out, "%s env %s on %s, deployer %s\n\n",
		paint(r.color, headerStyle, "Protocol deployment:"), result.Env, result.Network, result.Deployer.Hex())

	if len(result.Create2) > 0 {
		fmt.Fprintln(r.out, paint(r.color, headerStyle, "Deterministic contracts:"))
		r.renderContracts(result.Create2)
	}
	if len(result.Logic) > 0 {
		fmt.Fprintln(r.out, paint(r.color, headerStyle, "Logic contracts:"))
		r.renderContracts(result.Logic)
	}
	if result.InitTx != nil {
		fmt.Fprintf(r.out, "Initialization: %s\n", formatTx(r.color, result.InitTx))
	}
	if result.Book != nil {
		fmt.Fprintf(r.out, "Address book: %s\n", result.Book.FileName())
	}

	if result.LogicErr != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Logic phase failed: %v", result.LogicErr)))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess("Protocol deployed"))
	return nil
}

// RenderCondition renders a condition deployment
func (r *DeployRenderer) RenderCondition(result *usecase.DeployConditionResult) error {
	if result.Previous != (common.Address{}) {
		fmt.Fprintf(r.out, "Replaced %s\n", formatAddress(r.color, result.Previous))
	}
	if result.Tx != nil {
		fmt.Fprintf(r.out, "Deployment tx: %s\n", formatTx(r.color, result.Tx))
	}
	if result.Whitelisted != nil {
		fmt.Fprintf(r.out, "Whitelist tx:  %s\n", formatTx(r.color, result.Whitelisted))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s at %s", result.Name, result.Address.Hex())))
	return nil
}

// RenderImplementations renders redeployed implementations
func (r *DeployRenderer) RenderImplementations(result *usecase.DeployImplementationsResult) error {
	if len(result.Deployed) == 0 {
		fmt.Fprintln(r.out, FormatWarning("Nothing deployed"))
		return nil
	}
	r.renderContracts(result.Deployed)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %d implementations", len(result.Deployed))))
	return nil
}

// RenderReactions renders deployed reactions
func (r *DeployRenderer) RenderReactions(result *usecase.DeployReactionsResult) error {
	r.renderContracts(result.Deployed)
	if result.Whitelisted != nil {
		fmt.Fprintf(r.out, "Whitelist tx: %s\n", formatTx(r.color, result.Whitelisted))
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %d reactions", len(result.Deployed))))
	return nil
}

func (r *DeployRenderer) renderContracts(contracts []usecase.DeployedContract) {
	t := newTable(3)
	for _, c := range contracts {
		status := "existing"
		if c.Tx != nil {
			status = formatTx(r.color, c.Tx)
		}
		t.AppendRow([]any{"  " + paint(r.color, keyStyle, c.Name), formatAddress(r.color, c.Address), status})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
}

var _ Renderer[*usecase.DeployProtocolResult] = (*DeployRenderer)(nil)
