package bindings

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	tests := []struct {
		name string
		sel  [4]byte
		want string
	}{
		{"factory deploy", FuncCreate2Deploy.Selector, "0x4af63f02"},
		{"multicall", FuncMulticall.Selector, "0xac9650d8"},
		{"grantRole", FuncGrantRole.Selector, "0x2f2ff15d"},
		{"totalSupply", FuncTotalSupply.Selector, "0x18160ddd"},
		{"aggregate", FuncAggregate.Selector, "0x252dba42"},
		{"aggregate3", FuncAggregate3.Selector, "0x82ad56cb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hexutil.Encode(tt.sel[:]))
		})
	}
}

func TestEncodeRouterDiffOrder(t *testing.T) {
	impl := common.HexToAddress("0x2000000000000000000000000000000000000002")
	entry := func(sel, sig string) domain.RouterEntry {
		s, err := domain.ParseSelector(sel)
		require.NoError(t, err)
		return domain.RouterEntry{Selector: s, Signature: sig, Address: impl}
	}

	diff := &domain.RouterDiff{
		Module: "profile",
		Impl:   impl,
		Add:    []domain.RouterEntry{entry("0x00000003", "c()")},
		Update: []domain.RouterEntry{entry("0x00000002", "b()")},
		Remove: []domain.RouterEntry{entry("0x00000001", "a()")},
	}

	calls, err := EncodeRouterDiff(diff)
	require.NoError(t, err)
	require.Len(t, calls, 3)

	assert.Equal(t, FuncRemoveRouter.Selector[:], calls[0][:4])
	assert.Equal(t, FuncUpdateRouter.Selector[:], calls[1][:4])
	assert.Equal(t, FuncAddRouter.Selector[:], calls[2][:4])
}

func TestEncodeRouterDiffOrderAcrossModules(t *testing.T) {
	profileImpl := common.HexToAddress("0x2000000000000000000000000000000000000002")
	contentImpl := common.HexToAddress("0x3000000000000000000000000000000000000003")
	entry := func(sel, sig string, impl common.Address) domain.RouterEntry {
		s, err := domain.ParseSelector(sel)
		require.NoError(t, err)
		return domain.RouterEntry{Selector: s, Signature: sig, Address: impl}
	}

	profile := &domain.RouterDiff{
		Module: "profile",
		Impl:   profileImpl,
		Update: []domain.RouterEntry{entry("0x00000001", "a()", profileImpl)},
		Add:    []domain.RouterEntry{entry("0x00000002", "post(string)", profileImpl)},
	}
	content := &domain.RouterDiff{
		Module: "content",
		Impl:   contentImpl,
		Remove: []domain.RouterEntry{entry("0x00000002", "post(string)", contentImpl)},
		Update: []domain.RouterEntry{entry("0x00000003", "b()", contentImpl)},
	}

	calls, err := EncodeRouterDiff(profile, content)
	require.NoError(t, err)
	require.Len(t, calls, 4)

	assert.Equal(t, FuncRemoveRouter.Selector[:], calls[0][:4])
	assert.Equal(t, FuncUpdateRouter.Selector[:], calls[1][:4])
	assert.Equal(t, FuncUpdateRouter.Selector[:], calls[2][:4])
	assert.Equal(t, FuncAddRouter.Selector[:], calls[3][:4])
}

func TestEncodeMulticallRoundTrip(t *testing.T) {
	inner, err := EncodeWhitelistApp(common.HexToAddress("0x01"), true)
	require.NoError(t, err)

	data, err := EncodeMulticall([][]byte{inner})
	require.NoError(t, err)

	var decoded [][]byte
	require.NoError(t, FuncMulticall.DecodeArgs(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, inner, decoded[0])
}

func TestGrantRolesCalls(t *testing.T) {
	account := common.HexToAddress("0xabc")
	calls, err := GrantRolesCalls(account)
	require.NoError(t, err)
	require.Len(t, calls, len(domain.AdminRoles))

	for i, call := range calls {
		var (
			role common.Hash
			who  common.Address
		)
		require.NoError(t, FuncGrantRole.DecodeArgs(call, &role, &who))
		assert.Equal(t, domain.AdminRoles[i], role)
		assert.Equal(t, account, who)
	}
}

func TestEncodeSetFixedFeeCondData(t *testing.T) {
	data, err := EncodeSetFixedFeeCondData(domain.DefaultFixedFeeCondData(100))
	require.NoError(t, err)
	// selector + eight static words
	assert.Len(t, data, 4+8*32)
	assert.Equal(t, big.NewInt(100), new(big.Int).SetBytes(data[4+7*32:]))
}
