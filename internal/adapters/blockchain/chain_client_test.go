package blockchain

import (
	"context"
	"crypto/ecdsa"
	"io"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keySigner struct {
	key *ecdsa.PrivateKey
}

func (s *keySigner) Address(context.Context) (common.Address, error) {
	return crypto.PubkeyToAddress(s.key.PublicKey), nil
}

func (s *keySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

type fakeBackend struct {
	chainID     int64
	baseFee     *big.Int
	estimate    uint64
	pendingPoll int
	status      uint64
	sent        []*types.Transaction
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(b.chainID), nil }
func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}
func (b *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(1), nil
}
func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) { return 7, nil }
func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: b.baseFee}, nil
}
func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error)  { return big.NewInt(3), nil }
func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) { return big.NewInt(1), nil }
func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return b.estimate, nil
}
func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.sent = append(b.sent, tx)
	return nil
}
func (b *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	if b.pendingPoll > 0 {
		b.pendingPoll--
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: b.status, BlockNumber: big.NewInt(42), GasUsed: 21000}, nil
}

func newTestChainClient(t *testing.T, backend *fakeBackend) *ChainClient {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	cfg := &config.RuntimeConfig{Network: &config.Network{Name: "baseSepolia", ChainID: 84532}}
	client := NewChainClient(cfg, &keySigner{key: key}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.backend = backend
	client.pollInterval = time.Millisecond
	return client
}

func TestChainClient_Send(t *testing.T) {
	ctx := context.Background()
	to := common.HexToAddress("0x1000000000000000000000000000000000000001")

	t.Run("dynamic fee transaction with padded estimate", func(t *testing.T) {
		backend := &fakeBackend{chainID: 84532, baseFee: big.NewInt(10), estimate: 100_000, pendingPoll: 2, status: types.ReceiptStatusSuccessful}
		client := newTestChainClient(t, backend)

		result, err := client.Send(ctx, domain.TxRequest{Label: "multicall", To: &to, Data: []byte{0x01}})
		require.NoError(t, err)
		assert.Equal(t, uint64(42), result.BlockNumber)
		assert.Equal(t, "multicall", result.Label)

		require.Len(t, backend.sent, 1)
		tx := backend.sent[0]
		assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
		assert.Equal(t, uint64(120_000), tx.Gas())
		assert.Equal(t, uint64(7), tx.Nonce())
		assert.Equal(t, big.NewInt(21), tx.GasFeeCap())
		assert.Equal(t, result.Hash, tx.Hash())

		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(84532)), tx)
		require.NoError(t, err)
		from, err := client.From(ctx)
		require.NoError(t, err)
		assert.Equal(t, from, sender)
	})

	t.Run("legacy pricing without base fee", func(t *testing.T) {
		backend := &fakeBackend{chainID: 84532, status: types.ReceiptStatusSuccessful}
		client := newTestChainClient(t, backend)

		_, err := client.Send(ctx, domain.TxRequest{Label: "deploy", Data: []byte{0x60}, GasLimit: 9_000_000})
		require.NoError(t, err)
		tx := backend.sent[0]
		assert.Equal(t, uint8(types.LegacyTxType), tx.Type())
		assert.Equal(t, uint64(9_000_000), tx.Gas())
		assert.Equal(t, big.NewInt(3), tx.GasPrice())
		assert.Nil(t, tx.To())
	})

	t.Run("reverted receipt", func(t *testing.T) {
		backend := &fakeBackend{chainID: 84532, baseFee: big.NewInt(1), estimate: 50_000, status: types.ReceiptStatusFailed}
		_, err := newTestChainClient(t, backend).Send(ctx, domain.TxRequest{Label: "setState", To: &to})
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
	})

	t.Run("wrong chain", func(t *testing.T) {
		backend := &fakeBackend{chainID: 1}
		_, err := newTestChainClient(t, backend).Send(ctx, domain.TxRequest{Label: "x", To: &to})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chain ID mismatch")
		assert.Empty(t, backend.sent)
	})
}

func TestChainClient_SendRaw(t *testing.T) {
	deployment, err := domain.DecodeFactoryDeployment()
	require.NoError(t, err)

	backend := &fakeBackend{chainID: 84532, status: types.ReceiptStatusSuccessful}
	client := newTestChainClient(t, backend)

	result, err := client.SendRaw(context.Background(), "create2 factory", deployment.Raw)
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash(), result.Hash)
}

func TestChainClient_NoNetwork(t *testing.T) {
	client := NewChainClient(&config.RuntimeConfig{}, &keySigner{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.CodeAt(context.Background(), common.Address{})
	assert.ErrorIs(t, err, domain.ErrNoNetwork)
}
