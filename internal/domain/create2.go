package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Create2 cache role names
const (
	RecordOspRouter                     = "ospRouter"
	RecordCommunityNFT                  = "communityNFT"
	RecordCommunityNFTProxy             = "communityNFTProxy"
	RecordSlotNFTCommunityCond          = "slotNFTCommunityCond"
	RecordWhitelistAddressCommunityCond = "whitelistAddressCommunityCond"
	RecordERC20FeeJoinCond              = "erc20FeeJoinCond"
	RecordHoldTokenJoinCond             = "holdTokenJoinCond"
	RecordNativeFeeJoinCond             = "nativeFeeJoinCond"
	RecordOnlyMemberReferenceCond       = "onlyMemberReferenceCond"
	RecordVoteReaction                  = "voteReaction"
	RecordFixedFeeCommunityCond         = "fixedFeeCommunityCond"
)

// Salt is a CREATE2 salt. It accepts the short hex form older cache files
// were written with and always serializes as a full 32-byte word.
type Salt common.Hash

// ParseSalt parses a 0x-prefixed hex salt of at most 32 bytes
func ParseSalt(s string) (Salt, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Salt{}, fmt.Errorf("salt %q is not 0x-prefixed", s)
	}
	raw := common.FromHex(s)
	if len(raw) > common.HashLength {
		return Salt{}, fmt.Errorf("salt %q is longer than 32 bytes", s)
	}
	return Salt(common.BytesToHash(raw)), nil
}

func (s Salt) Hex() string { return common.Hash(s).Hex() }

func (s Salt) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *Salt) UnmarshalText(text []byte) error {
	parsed, err := ParseSalt(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Create2Record is a mined (init code, salt, address) triple
type Create2Record struct {
	InitCode hexutil.Bytes  `json:"initCode"`
	Salt     Salt           `json:"salt"`
	Address  common.Address `json:"address"`
}

// Create2Address derives the address a factory deploys initCode to with salt
func Create2Address(factory common.Address, salt Salt, initCode []byte) common.Address {
	return crypto.CreateAddress2(factory, salt, crypto.Keccak256(initCode))
}

// Verify checks the recorded address against the CREATE2 derivation
func (r *Create2Record) Verify(factory common.Address) error {
	expected := Create2Address(factory, r.Salt, r.InitCode)
	if expected != r.Address {
		return fmt.Errorf("create2 record address %s does not match derived address %s", r.Address.Hex(), expected.Hex())
	}
	return nil
}

// Create2Cache holds the mined records for one environment
type Create2Cache struct {
	Env     string
	Records map[string]*Create2Record
}

// NewCreate2Cache creates an empty cache
func NewCreate2Cache(env string) *Create2Cache {
	return &Create2Cache{Env: env, Records: make(map[string]*Create2Record)}
}

// FileName returns the cache file path relative to the project root
func (c *Create2Cache) FileName() string {
	return fmt.Sprintf("create2-osp/osp-%s.json", c.Env)
}

// Lookup returns the cached record for name when it was mined for initCode.
// A record for different init code is stale and yields ErrStaleInitCode.
func (c *Create2Cache) Lookup(name string, initCode []byte) (*Create2Record, error) {
	rec, ok := c.Records[name]
	if !ok {
		return nil, ErrNotFound
	}
	if !bytes.Equal(rec.InitCode, initCode) {
		return nil, fmt.Errorf("%s: %w", name, ErrStaleInitCode)
	}
	return rec, nil
}

// Put stores a record for a name that has none yet
func (c *Create2Cache) Put(name string, rec *Create2Record) error {
	if _, exists := c.Records[name]; exists {
		return fmt.Errorf("create2 record %s already exists", name)
	}
	if c.Records == nil {
		c.Records = make(map[string]*Create2Record)
	}
	c.Records[name] = rec
	return nil
}

// Replace swaps in a record mined for new init code. Replacing with identical
// init code is refused since it would deploy to the same address.
func (c *Create2Cache) Replace(name string, rec *Create2Record) (*Create2Record, error) {
	old := c.Records[name]
	if old != nil && bytes.Equal(old.InitCode, rec.InitCode) {
		return nil, fmt.Errorf("%s: %w", name, ErrSameInitCode)
	}
	if c.Records == nil {
		c.Records = make(map[string]*Create2Record)
	}
	c.Records[name] = rec
	return old, nil
}
