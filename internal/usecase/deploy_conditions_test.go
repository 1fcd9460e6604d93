package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedFeeCond  = common.HexToAddress("0x7000000000000000000000000000000000000007")
	oldWhitelist  = common.HexToAddress("0x8000000000000000000000000000000000000008")
	presaleSigner = common.HexToAddress("0x9000000000000000000000000000000000000009")
)

const presaleCtorABI = `[{"type":"constructor","inputs":[
	{"name":"router","type":"address"},
	{"name":"fixedFeeCond","type":"address"},
	{"name":"signer","type":"address"},
	{"name":"start","type":"uint256"}],"stateMutability":"nonpayable"}]`

func conditionArtifacts() memArtifacts {
	return memArtifacts{
		"FixedFeeCommunityCond":         newArtifact("FixedFeeCommunityCond", "contracts/core/conditions/FixedFeeCommunityCond.sol", routerCtorABI),
		"WhitelistAddressCommunityCond": newArtifact("WhitelistAddressCommunityCond", "contracts/core/conditions/WhitelistAddressCommunityCond.sol", routerCtorABI),
		"PresaleSigCommunityCond":       newArtifact("PresaleSigCommunityCond", "contracts/core/conditions/PresaleSigCommunityCond.sol", presaleCtorABI),
		"JoinNFT":                       newArtifact("JoinNFT", "contracts/core/JoinNFT.sol", routerCtorABI),
		"ERC6551Account":                newArtifact("ERC6551Account", "contracts/core/ERC6551Account.sol", routerCtorABI),
		"CommunityNFT":                  newArtifact("CommunityNFT", "contracts/core/CommunityNFT.sol", routerCtorABI),
	}
}

func localConfig() *config.RuntimeConfig {
	cfg := testConfig()
	cfg.Network.Local = true
	return cfg
}

func whitelistCall(t *testing.T, app common.Address, enable bool) []byte {
	t.Helper()
	data, err := bindings.EncodeWhitelistApp(app, enable)
	require.NoError(t, err)
	return data
}

func TestDeployFixedFeeCond(t *testing.T) {
	ctx := context.Background()

	newUseCase := func(chain *fakeChain, books *memBooks, create2 *memCreate2, miner *stubMiner) *usecase.DeployFixedFeeCond {
		cfg := localConfig()
		deployer := usecase.NewCreate2Deployer(cfg, chain, miner, testLogger())
		return usecase.NewDeployFixedFeeCond(cfg, conditionArtifacts(), create2, deployer, books, chain,
			&fixedConfirmer{}, usecase.NopProgress{}, testLogger())
	}

	tests := []struct {
		name      string
		whitelist bool
		wantSent  int
	}{
		{name: "deploys through the factory", wantSent: 1},
		{name: "whitelists on the router", whitelist: true, wantSent: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newFakeChain()
			books := newMemBooks(bookWith("dev", "baseSepolia", map[string]common.Address{domain.KeyRouterProxy: routerAddr}))
			create2 := &memCreate2{}

			result, err := newUseCase(chain, books, create2, &stubMiner{}).Run(ctx, usecase.DeployFixedFeeCondParams{Whitelist: tt.whitelist})
			require.NoError(t, err)

			rec := create2.caches["dev"].Records[domain.RecordFixedFeeCommunityCond]
			require.NotNil(t, rec)
			assert.Equal(t, rec.Address, result.Address)
			assert.Equal(t, domain.KeyFixedFeeCommunityCond, result.Name)
			require.NotNil(t, result.Tx)
			assert.Equal(t, rec.Address, books.get("dev", "baseSepolia", domain.KeyFixedFeeCommunityCond))
			assert.Equal(t, 1, create2.saves)

			require.Len(t, chain.sent, tt.wantSent)
			require.NotNil(t, chain.sent[0].To)
			assert.Equal(t, domain.Create2FactoryAddress, *chain.sent[0].To)
			if tt.whitelist {
				require.NotNil(t, result.Whitelisted)
				last := chain.sent[1]
				require.NotNil(t, last.To)
				assert.Equal(t, routerAddr, *last.To)
				assert.Equal(t, whitelistCall(t, rec.Address, true), last.Data)
			} else {
				assert.Nil(t, result.Whitelisted)
			}
		})
	}

	t.Run("rerun reuses the record and skips the deploy", func(t *testing.T) {
		chain := newFakeChain()
		books := newMemBooks(bookWith("dev", "baseSepolia", map[string]common.Address{domain.KeyRouterProxy: routerAddr}))
		create2 := &memCreate2{}
		miner := &stubMiner{}

		first, err := newUseCase(chain, books, create2, miner).Run(ctx, usecase.DeployFixedFeeCondParams{})
		require.NoError(t, err)
		second, err := newUseCase(chain, books, create2, miner).Run(ctx, usecase.DeployFixedFeeCondParams{})
		require.NoError(t, err)

		assert.Equal(t, first.Address, second.Address)
		assert.Equal(t, first.Address, second.Previous)
		assert.Nil(t, second.Tx)
		assert.Equal(t, 1, miner.calls)
		assert.Equal(t, 1, create2.saves)
		assert.Len(t, chain.sent, 1)
	})

	t.Run("requires the router", func(t *testing.T) {
		chain := newFakeChain()
		_, err := newUseCase(chain, newMemBooks(), &memCreate2{}, &stubMiner{}).Run(ctx, usecase.DeployFixedFeeCondParams{})
		assert.ErrorIs(t, err, domain.ErrMissingAddress)
		assert.Empty(t, chain.sent)
	})
}

func TestRedeployWhitelistCond(t *testing.T) {
	ctx := context.Background()

	currentInitCode := func(t *testing.T) []byte {
		t.Helper()
		code, err := conditionArtifacts()["WhitelistAddressCommunityCond"].InitCode(routerAddr)
		require.NoError(t, err)
		return code
	}

	type fixture struct {
		uc      *usecase.RedeployWhitelistCond
		chain   *fakeChain
		books   *memBooks
		create2 *memCreate2
		miner   *stubMiner
	}
	newFixture := func(cachedInitCode []byte) *fixture {
		cfg := localConfig()
		chain := newFakeChain()
		miner := &stubMiner{}
		books := newMemBooks(bookWith("dev", "baseSepolia", map[string]common.Address{
			domain.KeyRouterProxy:                   routerAddr,
			domain.KeyWhitelistAddressCommunityCond: oldWhitelist,
		}))
		cache := domain.NewCreate2Cache("dev")
		cache.Records[domain.RecordWhitelistAddressCommunityCond] = &domain.Create2Record{InitCode: cachedInitCode, Address: oldWhitelist}
		create2 := &memCreate2{caches: map[string]*domain.Create2Cache{"dev": cache}}

		deployer := usecase.NewCreate2Deployer(cfg, chain, miner, testLogger())
		uc := usecase.NewRedeployWhitelistCond(cfg, conditionArtifacts(), create2, deployer, books, chain,
			&fixedConfirmer{}, usecase.NopProgress{}, testLogger())
		return &fixture{uc: uc, chain: chain, books: books, create2: create2, miner: miner}
	}

	t.Run("swaps the whitelisted condition", func(t *testing.T) {
		f := newFixture([]byte{0xfe})

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)

		rec := f.create2.caches["dev"].Records[domain.RecordWhitelistAddressCommunityCond]
		assert.Equal(t, currentInitCode(t), []byte(rec.InitCode))
		assert.Equal(t, rec.Address, result.Address)
		assert.NotEqual(t, oldWhitelist, result.Address)
		assert.Equal(t, oldWhitelist, result.Previous)
		assert.Equal(t, rec.Address, f.books.get("dev", "baseSepolia", domain.KeyWhitelistAddressCommunityCond))
		require.NotNil(t, result.Tx)
		require.NotNil(t, result.Whitelisted)

		require.Len(t, f.chain.sent, 2)
		last := f.chain.sent[1]
		require.NotNil(t, last.To)
		assert.Equal(t, routerAddr, *last.To)
		calls := decodeMulticall(t, last.Data)
		require.Len(t, calls, 2)
		assert.Equal(t, whitelistCall(t, oldWhitelist, false), calls[0])
		assert.Equal(t, whitelistCall(t, rec.Address, true), calls[1])
	})

	t.Run("identical init code is refused", func(t *testing.T) {
		f := newFixture(currentInitCode(t))

		_, err := f.uc.Run(ctx)
		assert.ErrorIs(t, err, domain.ErrSameInitCode)
		assert.Zero(t, f.miner.calls)
		assert.Zero(t, f.create2.saves)
		assert.Zero(t, f.books.saves)
		assert.Empty(t, f.chain.sent)
	})

	t.Run("records the new address before deploying", func(t *testing.T) {
		f := newFixture([]byte{0xfe})
		f.chain.failTo[domain.Create2FactoryAddress] = errors.New("insufficient funds")

		_, err := f.uc.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient funds")

		rec := f.create2.caches["dev"].Records[domain.RecordWhitelistAddressCommunityCond]
		assert.Equal(t, 1, f.create2.saves)
		assert.NotEqual(t, oldWhitelist, rec.Address)
		assert.Equal(t, 1, f.books.saves)
		assert.Equal(t, rec.Address, f.books.get("dev", "baseSepolia", domain.KeyWhitelistAddressCommunityCond))
	})
}

func TestDeployPresaleSigCond(t *testing.T) {
	ctx := context.Background()
	const start = 1_700_000_000

	tests := []struct {
		name      string
		signers   map[string]string
		entries   map[string]common.Address
		whitelist bool
		wantErr   error
		wantMsg   string
	}{
		{
			name:    "deploys with the environment signer",
			signers: map[string]string{"dev": presaleSigner.Hex(), "prod": "0x1111111111111111111111111111111111111111"},
			entries: map[string]common.Address{domain.KeyRouterProxy: routerAddr, domain.KeyFixedFeeCommunityCond: fixedFeeCond},
		},
		{
			name:      "whitelists on the router",
			signers:   map[string]string{"dev": presaleSigner.Hex()},
			entries:   map[string]common.Address{domain.KeyRouterProxy: routerAddr, domain.KeyFixedFeeCommunityCond: fixedFeeCond},
			whitelist: true,
		},
		{
			name:    "no signer for the environment",
			signers: map[string]string{"prod": presaleSigner.Hex()},
			entries: map[string]common.Address{domain.KeyRouterProxy: routerAddr, domain.KeyFixedFeeCommunityCond: fixedFeeCond},
			wantMsg: "no presale signer configured for env dev",
		},
		{
			name:    "requires the fixed fee condition",
			signers: map[string]string{"dev": presaleSigner.Hex()},
			entries: map[string]common.Address{domain.KeyRouterProxy: routerAddr},
			wantErr: domain.ErrMissingAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := localConfig()
			cfg.Protocol.PresaleSigners = tt.signers
			chain := newFakeChain()
			books := newMemBooks(bookWith("dev", "baseSepolia", tt.entries))
			artifacts := conditionArtifacts()

			uc := usecase.NewDeployPresaleSigCond(cfg, artifacts, books, chain, &fixedConfirmer{}, usecase.NopProgress{}, testLogger())
			result, err := uc.Run(ctx, usecase.DeployPresaleSigCondParams{Start: start, Whitelist: tt.whitelist})

			if tt.wantErr != nil || tt.wantMsg != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Empty(t, chain.sent)
				assert.Zero(t, books.saves)
				return
			}
			require.NoError(t, err)

			want, err := artifacts["PresaleSigCommunityCond"].InitCode(routerAddr, fixedFeeCond, presaleSigner, big.NewInt(start))
			require.NoError(t, err)
			require.NotEmpty(t, chain.sent)
			assert.Nil(t, chain.sent[0].To)
			assert.Equal(t, want, chain.sent[0].Data)

			assert.Equal(t, crypto.CreateAddress(deployerAddr, 0), result.Address)
			assert.Equal(t, result.Address, books.get("dev", "baseSepolia", domain.KeyPresaleSigCommunityCond))

			if tt.whitelist {
				require.Len(t, chain.sent, 2)
				assert.Equal(t, whitelistCall(t, result.Address, true), chain.sent[1].Data)
				require.NotNil(t, result.Whitelisted)
			} else {
				assert.Len(t, chain.sent, 1)
				assert.Nil(t, result.Whitelisted)
			}
		})
	}
}

func TestDeployImplementations(t *testing.T) {
	ctx := context.Background()
	oldJoinNFT := common.HexToAddress("0xa00000000000000000000000000000000000000a")
	oldAccount := common.HexToAddress("0xb00000000000000000000000000000000000000b")

	newUseCase := func(cfg *config.RuntimeConfig, chain *fakeChain, books *memBooks, confirmer usecase.Confirmer) *usecase.DeployImplementations {
		return usecase.NewDeployImplementations(cfg, conditionArtifacts(), books, chain, confirmer, usecase.NopProgress{}, testLogger())
	}
	newBooks := func() *memBooks {
		return newMemBooks(bookWith("dev", "baseSepolia", map[string]common.Address{
			domain.KeyRouterProxy:        routerAddr,
			domain.KeyJoinNFTImpl:        oldJoinNFT,
			domain.KeyERC6551AccountImpl: oldAccount,
		}))
	}

	tests := []struct {
		name       string
		keys       []string
		wantLabels []string
	}{
		{
			name:       "redeploys every implementation in order",
			wantLabels: []string{"JoinNFT", "ERC6551Account", "CommunityNFT"},
		},
		{
			name:       "limits the redeploy to the given keys",
			keys:       []string{domain.KeyCommunityNFT, domain.KeyJoinNFTImpl},
			wantLabels: []string{"JoinNFT", "CommunityNFT"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newFakeChain()
			books := newBooks()

			result, err := newUseCase(localConfig(), chain, books, &fixedConfirmer{}).Run(ctx, usecase.DeployImplementationsParams{Keys: tt.keys})
			require.NoError(t, err)

			labels := make([]string, 0, len(chain.sent))
			for _, req := range chain.sent {
				assert.Nil(t, req.To)
				labels = append(labels, req.Label)
			}
			assert.Equal(t, tt.wantLabels, labels)
			require.Len(t, result.Deployed, len(tt.wantLabels))
			for _, d := range result.Deployed {
				assert.Equal(t, d.Address, books.get("dev", "baseSepolia", d.Name))
			}
			assert.Equal(t, 1, books.saves)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		chain := newFakeChain()
		_, err := newUseCase(localConfig(), chain, newBooks(), &fixedConfirmer{}).Run(ctx, usecase.DeployImplementationsParams{Keys: []string{"followSBTImpl"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown implementation "followSBTImpl"`)
		assert.Empty(t, chain.sent)
	})

	t.Run("failure keeps earlier deployments", func(t *testing.T) {
		chain := newFakeChain()
		chain.failLabel["ERC6551Account"] = errors.New("execution reverted")
		books := newBooks()

		_, err := newUseCase(localConfig(), chain, books, &fixedConfirmer{}).Run(ctx, usecase.DeployImplementationsParams{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execution reverted")

		assert.Equal(t, 1, books.saves)
		assert.Equal(t, crypto.CreateAddress(deployerAddr, 0), books.get("dev", "baseSepolia", domain.KeyJoinNFTImpl))
		assert.Equal(t, oldAccount, books.get("dev", "baseSepolia", domain.KeyERC6551AccountImpl))
	})

	t.Run("declined confirmation on a remote network", func(t *testing.T) {
		chain := newFakeChain()
		books := newBooks()
		confirmer := &fixedConfirmer{answer: false}

		_, err := newUseCase(testConfig(), chain, books, confirmer).Run(ctx, usecase.DeployImplementationsParams{})
		assert.ErrorIs(t, err, domain.ErrCancelled)
		assert.Len(t, confirmer.prompts, 1)
		assert.Empty(t, chain.sent)
		assert.Zero(t, books.saves)
	})
}

func TestDeployReactions(t *testing.T) {
	ctx := context.Background()
	artifacts := memArtifacts{
		"LikeReaction": newArtifact("LikeReaction", "contracts/core/reactions/LikeReaction.sol", routerCtorABI),
		"VoteReaction": newArtifact("VoteReaction", "contracts/core/reactions/VoteReaction.sol", routerCtorABI),
	}
	newBooks := func() *memBooks {
		return newMemBooks(bookWith("dev", "baseSepolia", map[string]common.Address{domain.KeyRouterProxy: routerAddr}))
	}

	t.Run("deploys and whitelists both reactions", func(t *testing.T) {
		chain := newFakeChain()
		books := newBooks()
		uc := usecase.NewDeployReactions(localConfig(), artifacts, books, chain, &fixedConfirmer{}, usecase.NopProgress{}, testLogger())

		result, err := uc.Run(ctx)
		require.NoError(t, err)

		like := crypto.CreateAddress(deployerAddr, 0)
		vote := crypto.CreateAddress(deployerAddr, 1)
		require.Len(t, result.Deployed, 2)
		assert.Equal(t, like, result.Deployed[0].Address)
		assert.Equal(t, vote, result.Deployed[1].Address)
		assert.Equal(t, like, books.get("dev", "baseSepolia", domain.KeyLikeReaction))
		assert.Equal(t, vote, books.get("dev", "baseSepolia", domain.KeyVoteReaction))
		require.NotNil(t, result.Whitelisted)

		require.Len(t, chain.sent, 3)
		last := chain.sent[2]
		require.NotNil(t, last.To)
		assert.Equal(t, routerAddr, *last.To)
		calls := decodeMulticall(t, last.Data)
		require.Len(t, calls, 2)
		assert.Equal(t, whitelistCall(t, like, true), calls[0])
		assert.Equal(t, whitelistCall(t, vote, true), calls[1])
	})

	t.Run("failed deployment keeps the first reaction", func(t *testing.T) {
		chain := newFakeChain()
		chain.failLabel["VoteReaction"] = errors.New("execution reverted")
		books := newBooks()
		uc := usecase.NewDeployReactions(localConfig(), artifacts, books, chain, &fixedConfirmer{}, usecase.NopProgress{}, testLogger())

		_, err := uc.Run(ctx)
		require.Error(t, err)

		assert.Equal(t, 1, books.saves)
		assert.Equal(t, crypto.CreateAddress(deployerAddr, 0), books.get("dev", "baseSepolia", domain.KeyLikeReaction))
		assert.Len(t, chain.sent, 1)
	})
}
