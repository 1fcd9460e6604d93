package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

const allModules = "all"

// parseAddress validates a hex address given on the command line
func parseAddress(name, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, fmt.Errorf("--%s is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("--%s %q: %w", name, value, domain.ErrInvalidAddress)
	}
	return common.HexToAddress(value), nil
}

// parseImpls parses module=address pairs
func parseImpls(pairs map[string]string) (map[domain.LogicModule]common.Address, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	impls := make(map[domain.LogicModule]common.Address, len(pairs))
	for name, value := range pairs {
		modules, err := domain.ParseLogicModules(name)
		if err != nil {
			return nil, err
		}
		if len(modules) != 1 {
			return nil, fmt.Errorf("--impl expects one module per entry, got %q", name)
		}
		addr, err := parseAddress("impl", value)
		if err != nil {
			return nil, err
		}
		impls[modules[0]] = addr
	}
	return impls, nil
}

// parseAmount parses a base 10 integer
func parseAmount(name, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("--%s %q is not a non-negative integer", name, value)
	}
	return amount, nil
}

// selectModules returns the modules named by csv. Without any, the operator
// picks one module or all of them.
func selectModules(cmd *cobra.Command, csv string, selector usecase.Selector) ([]domain.LogicModule, error) {
	if strings.TrimSpace(csv) != "" {
		return domain.ParseLogicModules(csv)
	}

	options := []string{allModules}
	for _, m := range domain.LogicModules {
		options = append(options, string(m))
	}
	choice, err := selector.Select(cmd.Context(), options, "Logic module")
	if err != nil {
		return nil, fmt.Errorf("no --logic given: %w", err)
	}
	if choice == allModules {
		return append([]domain.LogicModule(nil), domain.LogicModules...), nil
	}
	return []domain.LogicModule{domain.LogicModule(choice)}, nil
}
