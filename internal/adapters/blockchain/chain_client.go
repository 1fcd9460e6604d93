package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

const (
	// gas estimates are padded by a fifth
	gasEstimateNum   = 12
	gasEstimateDenom = 10

	defaultPollInterval = 2 * time.Second
)

// ethBackend is the subset of ethclient.Client the chain client uses
type ethBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ChainClient signs and broadcasts transactions over JSON-RPC.
// The connection is opened on first use so commands that never touch
// the chain work without a reachable node.
type ChainClient struct {
	network      *config.Network
	signer       usecase.Signer
	log          *slog.Logger
	pollInterval time.Duration

	mu      sync.Mutex
	backend ethBackend
	chainID *big.Int
}

// NewChainClient creates a new chain client for the configured network
func NewChainClient(cfg *config.RuntimeConfig, signer usecase.Signer, log *slog.Logger) *ChainClient {
	return &ChainClient{
		network:      cfg.Network,
		signer:       signer,
		log:          log.With("component", "ChainClient"),
		pollInterval: defaultPollInterval,
	}
}

func (c *ChainClient) conn(ctx context.Context) (ethBackend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil {
		return nil, domain.ErrNoNetwork
	}

	client, err := ethclient.DialContext(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.backend = client
	return client, nil
}

// ChainID returns the chain id reported by the node. A mismatch with the
// configured network is an error.
func (c *ChainClient) ChainID(ctx context.Context) (uint64, error) {
	id, err := c.chainIDBig(ctx)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

func (c *ChainClient) chainIDBig(ctx context.Context) (*big.Int, error) {
	backend, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	cached := c.chainID
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.network.ChainID != 0 && id.Uint64() != c.network.ChainID {
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", c.network.ChainID, id.Uint64())
	}

	c.mu.Lock()
	c.chainID = id
	c.mu.Unlock()
	return id, nil
}

// From returns the signer address
func (c *ChainClient) From(ctx context.Context) (common.Address, error) {
	return c.signer.Address(ctx)
}

// CodeAt returns the code at addr in the latest block
func (c *ChainClient) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	backend, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, addr, nil)
}

// BalanceAt returns the balance of addr in the latest block
func (c *ChainClient) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	backend, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	return backend.BalanceAt(ctx, addr, nil)
}

// Send builds, signs and broadcasts req, then waits for its receipt
func (c *ChainClient) Send(ctx context.Context, req domain.TxRequest) (*domain.TxResult, error) {
	backend, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}
	chainID, err := c.chainIDBig(ctx)
	if err != nil {
		return nil, err
	}

	from, err := c.signer.Address(ctx)
	if err != nil {
		return nil, err
	}
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gas := req.GasLimit
	if gas == 0 {
		estimate, err := backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: req.To, Value: value, Data: req.Data})
		if err != nil {
			return nil, fmt.Errorf("%s: failed to estimate gas: %w", req.Label, err)
		}
		gas = estimate * gasEstimateNum / gasEstimateDenom
	}

	tx, err := c.buildTx(ctx, backend, nonce, gas, value, req)
	if err != nil {
		return nil, err
	}

	signed, err := c.signer.SignTx(ctx, tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sign transaction: %w", req.Label, err)
	}

	c.log.Debug("sending transaction", "label", req.Label, "nonce", nonce, "gas", gas, "hash", signed.Hash())
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("%s: failed to send transaction: %w", req.Label, err)
	}
	return c.wait(ctx, backend, req.Label, signed.Hash())
}

// buildTx prices the transaction with EIP-1559 fees when the chain has a
// base fee and a legacy gas price otherwise
func (c *ChainClient) buildTx(ctx context.Context, backend ethBackend, nonce, gas uint64, value *big.Int, req domain.TxRequest) (*types.Transaction, error) {
	header, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	if header.BaseFee == nil {
		gasPrice, err := backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       req.To,
			Value:    value,
			Gas:      gas,
			GasPrice: gasPrice,
			Data:     req.Data,
		}), nil
	}

	tip, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(header.BaseFee, big.NewInt(2)))

	return types.NewTx(&types.DynamicFeeTx{
		Nonce:     nonce,
		To:        req.To,
		Value:     value,
		Gas:       gas,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      req.Data,
	}), nil
}

// SendRaw broadcasts a presigned transaction
func (c *ChainClient) SendRaw(ctx context.Context, label string, raw []byte) (*domain.TxResult, error) {
	backend, err := c.conn(ctx)
	if err != nil {
		return nil, err
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("%s: failed to decode raw transaction: %w", label, err)
	}
	if err := backend.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%s: failed to send transaction: %w", label, err)
	}
	return c.wait(ctx, backend, label, tx.Hash())
}

// wait polls for the receipt of hash
func (c *ChainClient) wait(ctx context.Context, backend ethBackend, label string, hash common.Hash) (*domain.TxResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("%s (%s): %w", label, hash.Hex(), domain.ErrTransactionReverted)
			}
			c.log.Debug("transaction confirmed", "label", label, "hash", hash, "block", receipt.BlockNumber)
			return &domain.TxResult{
				Label:           label,
				Hash:            hash,
				BlockNumber:     receipt.BlockNumber.Uint64(),
				GasUsed:         receipt.GasUsed,
				ContractAddress: receipt.ContractAddress,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%s: failed to get receipt: %w", label, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: waiting for %s: %w", label, hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

var _ usecase.ChainClient = (*ChainClient)(nil)
