package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// ShowRouterParams contains parameters for showing the router table
type ShowRouterParams struct {
	// Modules limits the output to these logic modules
	Modules []domain.LogicModule
}

// RouterModuleEntries are the router entries pointing at one implementation
type RouterModuleEntries struct {
	// Module is empty for implementations not recorded in the address book
	Module  string
	Address common.Address
	Entries []domain.RouterEntry
}

// ShowRouterResult contains the on-chain router table grouped by implementation
type ShowRouterResult struct {
	Router  common.Address
	Modules []RouterModuleEntries
	Total   int
}

// ShowRouter reads the router's dispatch table
type ShowRouter struct {
	config *config.RuntimeConfig
	books  AddressBookRepository
	reader ContractReader
}

// NewShowRouter creates a new ShowRouter use case
func NewShowRouter(cfg *config.RuntimeConfig, books AddressBookRepository, reader ContractReader) *ShowRouter {
	return &ShowRouter{config: cfg, books: books, reader: reader}
}

// Run executes the use case
func (uc *ShowRouter) Run(ctx context.Context, params ShowRouterParams) (*ShowRouterResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name, domain.KeyRouterProxy)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]

	entries, err := uc.reader.RouterEntries(ctx, router)
	if err != nil {
		return nil, fmt.Errorf("failed to read router entries: %w", err)
	}

	modules := make(map[common.Address]string)
	for _, module := range domain.LogicModules {
		if addr, ok := book.Get(module.AddressKey()); ok {
			modules[addr] = string(module)
		}
	}

	grouped := make(map[common.Address]*RouterModuleEntries)
	for _, e := range entries {
		group, ok := grouped[e.Address]
		if !ok {
			group = &RouterModuleEntries{Module: modules[e.Address], Address: e.Address}
			grouped[e.Address] = group
		}
		group.Entries = append(group.Entries, e)
	}

	result := &ShowRouterResult{Router: router}
	for _, group := range grouped {
		if len(params.Modules) > 0 && !containsModule(params.Modules, group.Module) {
			continue
		}
		sort.Slice(group.Entries, func(i, j int) bool {
			return group.Entries[i].Signature < group.Entries[j].Signature
		})
		result.Modules = append(result.Modules, *group)
		result.Total += len(group.Entries)
	}
	sort.Slice(result.Modules, func(i, j int) bool {
		a, b := result.Modules[i], result.Modules[j]
		if a.Module != b.Module {
			// unknown implementations last
			if a.Module == "" || b.Module == "" {
				return b.Module == ""
			}
			return a.Module < b.Module
		}
		return a.Address.Hex() < b.Address.Hex()
	})

	return result, nil
}

func containsModule(modules []domain.LogicModule, name string) bool {
	for _, m := range modules {
		if string(m) == name {
			return true
		}
	}
	return false
}
