package domain

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Address book role names
const (
	KeyRouterProxy                   = "routerProxy"
	KeyGovernanceLogic               = "governanceLogic"
	KeyProfileLogic                  = "profileLogic"
	KeyCommunityLogic                = "communityLogic"
	KeyContentLogic                  = "contentLogic"
	KeyRelationLogic                 = "relationLogic"
	KeyFollowSBTImpl                 = "followSBTImpl"
	KeyJoinNFTImpl                   = "joinNFTImpl"
	KeyERC6551AccountImpl            = "erc6551AccountImpl"
	KeyCommunityNFT                  = "communityNFT"
	KeyCommunityNFTProxy             = "communityNFTProxy"
	KeyLikeReaction                  = "likeReaction"
	KeyVoteReaction                  = "voteReaction"
	KeyHoldTokenJoinCond             = "holdTokenJoinCond"
	KeyERC20FeeJoinCond              = "erc20FeeJoinCond"
	KeyNativeFeeJoinCond             = "nativeFeeJoinCond"
	KeyOnlyMemberReferenceCond       = "onlyMemberReferenceCond"
	KeySlotNFTCommunityCond          = "slotNFTCommunityCond"
	KeyFixedFeeCommunityCond         = "fixedFeeCommunityCond"
	KeyWhitelistAddressCommunityCond = "whitelistAddressCommunityCond"
	KeyPresaleSigCommunityCond       = "presaleSigCommunityCond"
)

// AddressBook maps logical contract roles to deployed addresses for one
// environment and network. Values are kept as written so that a load/save
// cycle never rewrites entries it did not touch.
type AddressBook struct {
	Env     string
	Network string // empty for the environment-wide book
	Entries map[string]string
}

// NewAddressBook creates an empty address book
func NewAddressBook(env, network string) *AddressBook {
	return &AddressBook{
		Env:     env,
		Network: network,
		Entries: make(map[string]string),
	}
}

// FileName returns the file the book is persisted to
func (b *AddressBook) FileName() string {
	if b.Network == "" {
		return fmt.Sprintf("addresses-%s.json", b.Env)
	}
	return fmt.Sprintf("addresses-%s-%s.json", b.Env, b.Network)
}

// Get returns the address recorded under key
func (b *AddressBook) Get(key string) (common.Address, bool) {
	raw, ok := b.Entries[key]
	if !ok || !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// Has reports whether key holds a valid address
func (b *AddressBook) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Set records addr under key, overwriting any previous value
func (b *AddressBook) Set(key string, addr common.Address) {
	if b.Entries == nil {
		b.Entries = make(map[string]string)
	}
	b.Entries[key] = addr.Hex()
}

// Keys returns the recorded keys in sorted order
func (b *AddressBook) Keys() []string {
	keys := make([]string, 0, len(b.Entries))
	for k := range b.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require resolves every key or reports all of the missing ones at once
func (b *AddressBook) Require(keys ...string) (map[string]common.Address, error) {
	resolved := make(map[string]common.Address, len(keys))
	var missing []string
	for _, key := range keys {
		addr, ok := b.Get(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		resolved[key] = addr
	}
	if len(missing) > 0 {
		return nil, &MissingAddressError{Env: b.Env, Network: b.Network, Keys: missing}
	}
	return resolved, nil
}
