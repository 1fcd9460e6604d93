package usecase_test

import (
	"context"
	"testing"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreate2Deployer(t *testing.T) {
	ctx := context.Background()
	initCode := []byte{0x60, 0x80, 0x01}

	t.Run("mines once then reuses the cached record", func(t *testing.T) {
		miner := &stubMiner{}
		d := usecase.NewCreate2Deployer(testConfig(), new(MockChainClient), miner, testLogger())
		cache := domain.NewCreate2Cache("dev")

		rec, err := d.Record(ctx, cache, "ospRouter", initCode)
		require.NoError(t, err)
		assert.Equal(t, domain.Create2Address(d.Factory(), rec.Salt, initCode), rec.Address)

		again, err := d.Record(ctx, cache, "ospRouter", initCode)
		require.NoError(t, err)
		assert.Equal(t, rec, again)
		assert.Equal(t, 1, miner.calls)
	})

	t.Run("stale init code", func(t *testing.T) {
		d := usecase.NewCreate2Deployer(testConfig(), new(MockChainClient), &stubMiner{}, testLogger())
		cache := domain.NewCreate2Cache("dev")
		_, err := d.Record(ctx, cache, "ospRouter", initCode)
		require.NoError(t, err)

		_, err = d.Record(ctx, cache, "ospRouter", []byte{0x60, 0x80, 0x02})
		assert.ErrorIs(t, err, domain.ErrStaleInitCode)
	})

	t.Run("remine refuses identical init code", func(t *testing.T) {
		miner := &stubMiner{}
		d := usecase.NewCreate2Deployer(testConfig(), new(MockChainClient), miner, testLogger())
		cache := domain.NewCreate2Cache("dev")
		first, err := d.Record(ctx, cache, "whitelistAddressCommunityCond", initCode)
		require.NoError(t, err)

		_, _, err = d.Remine(ctx, cache, "whitelistAddressCommunityCond", initCode)
		assert.ErrorIs(t, err, domain.ErrSameInitCode)
		assert.Equal(t, 1, miner.calls)

		old, rec, err := d.Remine(ctx, cache, "whitelistAddressCommunityCond", []byte{0x60, 0x80, 0x02})
		require.NoError(t, err)
		assert.Equal(t, first, old)
		assert.NotEqual(t, first.Address, rec.Address)
		assert.Equal(t, rec, cache.Records["whitelistAddressCommunityCond"])
	})

	t.Run("deploy skips existing code", func(t *testing.T) {
		chain := new(MockChainClient)
		d := usecase.NewCreate2Deployer(testConfig(), chain, &stubMiner{}, testLogger())
		rec, err := d.Record(ctx, domain.NewCreate2Cache("dev"), "ospRouter", initCode)
		require.NoError(t, err)
		chain.On("CodeAt", mock.Anything, rec.Address).Return([]byte{0x01}, nil)

		res, err := d.Deploy(ctx, "ospRouter", rec)
		require.NoError(t, err)
		assert.Nil(t, res)
		chain.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("deploy sends through the factory", func(t *testing.T) {
		chain := new(MockChainClient)
		d := usecase.NewCreate2Deployer(testConfig(), chain, &stubMiner{}, testLogger())
		rec, err := d.Record(ctx, domain.NewCreate2Cache("dev"), "ospRouter", initCode)
		require.NoError(t, err)

		chain.On("CodeAt", mock.Anything, rec.Address).Return([]byte{}, nil).Once()
		chain.On("CodeAt", mock.Anything, rec.Address).Return([]byte{0x01}, nil).Once()
		chain.On("Send", mock.Anything, mock.MatchedBy(func(req domain.TxRequest) bool {
			return req.To != nil && *req.To == domain.Create2FactoryAddress && req.GasLimit == domain.Create2DeployGasLimit
		})).Return(&domain.TxResult{Label: "ospRouter"}, nil)

		res, err := d.Deploy(ctx, "ospRouter", rec)
		require.NoError(t, err)
		assert.Equal(t, rec.Address, res.ContractAddress)
		chain.AssertExpectations(t)
	})

	t.Run("deploy fails when no code appears", func(t *testing.T) {
		chain := new(MockChainClient)
		d := usecase.NewCreate2Deployer(testConfig(), chain, &stubMiner{}, testLogger())
		rec, err := d.Record(ctx, domain.NewCreate2Cache("dev"), "ospRouter", initCode)
		require.NoError(t, err)

		chain.On("CodeAt", mock.Anything, rec.Address).Return([]byte{}, nil)
		chain.On("Send", mock.Anything, mock.Anything).Return(&domain.TxResult{}, nil)

		_, err = d.Deploy(ctx, "ospRouter", rec)
		assert.ErrorIs(t, err, domain.ErrDeployFailed)
	})
}

func TestShowCreate2(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	miner := &stubMiner{}
	d := usecase.NewCreate2Deployer(cfg, new(MockChainClient), miner, testLogger())

	cache := domain.NewCreate2Cache("dev")
	_, err := d.Record(ctx, cache, "voteReaction", []byte{0x01})
	require.NoError(t, err)
	_, err = d.Record(ctx, cache, "communityNFT", []byte{0x02, 0x03})
	require.NoError(t, err)
	// corrupt one record
	cache.Records["voteReaction"].Address = routerAddr

	repo := &memCreate2{caches: map[string]*domain.Create2Cache{"dev": cache}}
	result, err := usecase.NewShowCreate2(cfg, repo).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, "create2-osp/osp-dev.json", result.File)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "communityNFT", result.Entries[0].Name)
	assert.Equal(t, 2, result.Entries[0].InitCodeSize)
	assert.True(t, result.Entries[0].Valid)
	assert.False(t, result.Entries[1].Valid)
}
