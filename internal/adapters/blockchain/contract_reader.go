package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// ContractReader performs read-only protocol calls with w3
type ContractReader struct {
	network *config.Network

	mu     sync.Mutex
	client *w3.Client
}

// NewContractReader creates a new contract reader for the configured network
func NewContractReader(cfg *config.RuntimeConfig) *ContractReader {
	return &ContractReader{network: cfg.Network}
}

func (r *ContractReader) conn() (*w3.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}
	if r.network == nil {
		return nil, domain.ErrNoNetwork
	}
	client, err := w3.Dial(r.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	r.client = client
	return client, nil
}

// Close releases the RPC connection
func (r *ContractReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// RouterEntries returns the full dispatch table of the router
func (r *ContractReader) RouterEntries(ctx context.Context, router common.Address) ([]domain.RouterEntry, error) {
	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	var routers []bindings.Router
	if err := client.CallCtx(ctx, eth.CallFunc(router, bindings.FuncGetAllRouters).Returns(&routers)); err != nil {
		return nil, fmt.Errorf("getAllRouters: %w", err)
	}

	entries := make([]domain.RouterEntry, 0, len(routers))
	for _, rt := range routers {
		entries = append(entries, rt.ToEntry())
	}
	return entries, nil
}

// RouterSelectors returns the selectors the router dispatches to logic
func (r *ContractReader) RouterSelectors(ctx context.Context, router, logic common.Address) ([]domain.Selector, error) {
	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	var raw [][4]byte
	if err := client.CallCtx(ctx, eth.CallFunc(router, bindings.FuncGetAllFunctionsOfRouter, logic).Returns(&raw)); err != nil {
		return nil, fmt.Errorf("getAllFunctionsOfRouter: %w", err)
	}

	selectors := make([]domain.Selector, len(raw))
	for i, s := range raw {
		selectors[i] = domain.Selector(s)
	}
	return selectors, nil
}

// TotalSupply returns the token supply
func (r *ContractReader) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	supply := new(big.Int)
	if err := client.CallCtx(ctx, eth.CallFunc(token, bindings.FuncTotalSupply).Returns(supply)); err != nil {
		return nil, fmt.Errorf("totalSupply: %w", err)
	}
	return supply, nil
}

// CommunityAccounts resolves the account of every community id through a
// single Multicall3 aggregate call
func (r *ContractReader) CommunityAccounts(ctx context.Context, router common.Address, ids []*big.Int) ([]common.Address, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	client, err := r.conn()
	if err != nil {
		return nil, err
	}

	calls := make([]bindings.Call, len(ids))
	for i, id := range ids {
		data, err := bindings.EncodeGetCommunityAccount(id)
		if err != nil {
			return nil, err
		}
		calls[i] = bindings.Call{Target: router, CallData: data}
	}

	var (
		blockNumber big.Int
		returnData  [][]byte
	)
	if err := client.CallCtx(ctx, eth.CallFunc(domain.Multicall3Address, bindings.FuncAggregate, calls).Returns(&blockNumber, &returnData)); err != nil {
		return nil, fmt.Errorf("aggregate getCommunityAccount: %w", err)
	}
	if len(returnData) != len(ids) {
		return nil, fmt.Errorf("aggregate returned %d results for %d calls", len(returnData), len(ids))
	}

	accounts := make([]common.Address, len(ids))
	for i, data := range returnData {
		if err := bindings.FuncGetCommunityAccount.DecodeReturns(data, &accounts[i]); err != nil {
			return nil, fmt.Errorf("decode account of community %s: %w", ids[i], err)
		}
	}
	return accounts, nil
}

var _ usecase.ContractReader = (*ContractReader)(nil)
