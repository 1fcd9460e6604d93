package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// AdminResult contains the outcome of an administrative call
type AdminResult struct {
	Action string
	Target common.Address
	*SubmitResult
}

// Admin sends administrative calls to deployed protocol contracts.
// With dry-run enabled every action only returns its calldata.
type Admin struct {
	config    *config.RuntimeConfig
	books     AddressBookRepository
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewAdmin creates a new Admin use case
func NewAdmin(
	cfg *config.RuntimeConfig,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *Admin {
	return &Admin{
		config:    cfg,
		books:     books,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "Admin"),
	}
}

// GrantRoles grants every admin role on the router to account
func (uc *Admin) GrantRoles(ctx context.Context, account common.Address) (*AdminResult, error) {
	calls, err := bindings.GrantRolesCalls(account)
	if err != nil {
		return nil, err
	}
	return uc.routerCalls(ctx, "grant roles to "+account.Hex(), calls)
}

// WhitelistApp enables or disables app on the router
func (uc *Admin) WhitelistApp(ctx context.Context, app common.Address, enable bool) (*AdminResult, error) {
	data, err := bindings.EncodeWhitelistApp(app, enable)
	if err != nil {
		return nil, err
	}
	return uc.routerCalls(ctx, fmt.Sprintf("whitelistApp(%s, %t)", app.Hex(), enable), [][]byte{data})
}

// WhitelistToken enables or disables token on the router
func (uc *Admin) WhitelistToken(ctx context.Context, token common.Address, enable bool) (*AdminResult, error) {
	data, err := bindings.EncodeWhitelistToken(token, enable)
	if err != nil {
		return nil, err
	}
	return uc.routerCalls(ctx, fmt.Sprintf("whitelistToken(%s, %t)", token.Hex(), enable), [][]byte{data})
}

// SetBaseURI sets the metadata base URI. An empty uri uses the env's
// metadata base URL for the current chain.
func (uc *Admin) SetBaseURI(ctx context.Context, uri string) (*AdminResult, error) {
	if uri == "" {
		network, err := requireNetwork(uc.config)
		if err != nil {
			return nil, err
		}
		uri = baseURI(uc.config.Protocol, uc.config.Env, network.ChainID)
		if uri == "" {
			return nil, fmt.Errorf("no metadata base url configured for env %s", uc.config.Env)
		}
	}
	data, err := bindings.EncodeSetBaseURI(uri)
	if err != nil {
		return nil, err
	}
	return uc.routerCalls(ctx, fmt.Sprintf("setBaseURI(%q)", uri), [][]byte{data})
}

// SetERC6551AccountImpl points the router at the recorded account implementation
func (uc *Admin) SetERC6551AccountImpl(ctx context.Context) (*AdminResult, error) {
	_, addrs, err := uc.book(ctx, domain.KeyERC6551AccountImpl)
	if err != nil {
		return nil, err
	}
	data, err := bindings.EncodeSetERC6551AccountImpl(addrs[domain.KeyERC6551AccountImpl])
	if err != nil {
		return nil, err
	}
	return uc.routerCalls(ctx, "setERC6551AccountImpl", [][]byte{data})
}

// InitFixedFee writes the launch price table to the fixed fee community condition
func (uc *Admin) InitFixedFee(ctx context.Context, start uint64) (*AdminResult, error) {
	_, addrs, err := uc.book(ctx, domain.KeyFixedFeeCommunityCond)
	if err != nil {
		return nil, err
	}
	data, err := bindings.EncodeSetFixedFeeCondData(domain.DefaultFixedFeeCondData(start))
	if err != nil {
		return nil, err
	}
	return uc.send(ctx, Submission{
		Label: "setFixedFeeCondData",
		To:    addrs[domain.KeyFixedFeeCommunityCond],
		Data:  data,
	})
}

// SetCommunityCreator allows creator to create amount communities through the
// whitelist address community condition
func (uc *Admin) SetCommunityCreator(ctx context.Context, creator common.Address, amount *big.Int) (*AdminResult, error) {
	_, addrs, err := uc.book(ctx, domain.KeyWhitelistAddressCommunityCond)
	if err != nil {
		return nil, err
	}
	data, err := bindings.EncodeSetMaxCreationNumber(creator, amount)
	if err != nil {
		return nil, err
	}
	return uc.send(ctx, Submission{
		Label: fmt.Sprintf("setMaxCreationNumber(%s, %s)", creator.Hex(), amount),
		To:    addrs[domain.KeyWhitelistAddressCommunityCond],
		Data:  data,
	})
}

// WhitelistSlot enables or disables a slot NFT on the slot NFT community condition
func (uc *Admin) WhitelistSlot(ctx context.Context, slot common.Address, enable bool) (*AdminResult, error) {
	_, addrs, err := uc.book(ctx, domain.KeySlotNFTCommunityCond)
	if err != nil {
		return nil, err
	}
	data, err := bindings.EncodeWhitelistCommunitySlot(slot, enable)
	if err != nil {
		return nil, err
	}
	return uc.send(ctx, Submission{
		Label: fmt.Sprintf("whitelistCommunitySlot(%s, %t)", slot.Hex(), enable),
		To:    addrs[domain.KeySlotNFTCommunityCond],
		Data:  data,
	})
}

func (uc *Admin) book(ctx context.Context, keys ...string) (*domain.AddressBook, map[string]common.Address, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, nil, err
	}
	return requireBook(ctx, uc.books, uc.config.Env, network.Name, keys...)
}

// routerCalls wraps calls into a router multicall
func (uc *Admin) routerCalls(ctx context.Context, label string, calls [][]byte) (*AdminResult, error) {
	_, addrs, err := uc.book(ctx, domain.KeyRouterProxy)
	if err != nil {
		return nil, err
	}
	sub, err := routerMulticall(label, addrs[domain.KeyRouterProxy], calls, 0)
	if err != nil {
		return nil, err
	}
	return uc.send(ctx, sub)
}

func (uc *Admin) send(ctx context.Context, sub Submission) (*AdminResult, error) {
	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, sub.Label); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: fmt.Sprintf("Submitting %s...", sub.Label), Spinner: true})
	res, err := submit(ctx, uc.chain, uc.config.DryRun, sub)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting})
	if err != nil {
		return nil, err
	}

	if res.Tx != nil {
		uc.log.Info("admin call confirmed", "action", sub.Label, "tx", res.Tx.Hash)
	}
	return &AdminResult{Action: sub.Label, Target: sub.To, SubmitResult: res}, nil
}
