package bindings

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
)

var (
	FuncCreate2Deploy = w3.MustNewFunc("deploy(bytes _initCode, bytes32 _salt)", "address createdContract")

	// router
	FuncMulticall               = w3.MustNewFunc("multicall(bytes[] data)", "bytes[] results")
	FuncAddRouter               = w3.MustNewFunc("addRouter((bytes4 functionSelector, string functionSignature, address routerAddress) router)", "")
	FuncUpdateRouter            = w3.MustNewFunc("updateRouter((bytes4 functionSelector, string functionSignature, address routerAddress) router)", "")
	FuncRemoveRouter            = w3.MustNewFunc("removeRouter(bytes4 selector, string functionSignature)", "")
	FuncGetAllRouters           = w3.MustNewFunc("getAllRouters()", "(bytes4 functionSelector, string functionSignature, address routerAddress)[] routers")
	FuncGetAllFunctionsOfRouter = w3.MustNewFunc("getAllFunctionsOfRouter(address routerAddress)", "bytes4[] selectors")

	// client
	FuncInitialize            = w3.MustNewFunc("initialize(string name, string symbol, address followSBTImpl, address joinNFTImpl, address communityNFT)", "")
	FuncGrantRole             = w3.MustNewFunc("grantRole(bytes32 role, address account)", "")
	FuncWhitelistApp          = w3.MustNewFunc("whitelistApp(address app, bool whitelist)", "")
	FuncWhitelistToken        = w3.MustNewFunc("whitelistToken(address token, bool whitelist)", "")
	FuncSetBaseURI            = w3.MustNewFunc("setBaseURI(string baseURI)", "")
	FuncSetState              = w3.MustNewFunc("setState(uint8 newState)", "")
	FuncSetERC6551AccountImpl = w3.MustNewFunc("setERC6551AccountImpl(address accountImpl)", "")
	FuncGetCommunityAccount   = w3.MustNewFunc("getCommunityAccount(uint256 communityId)", "address account")

	// peripheral contracts
	FuncCommunityNFTInitialize = w3.MustNewFunc("initialize(string name, string symbol)", "")
	FuncTotalSupply            = w3.MustNewFunc("totalSupply()", "uint256 supply")
	FuncSetFixedFeeCondData    = w3.MustNewFunc("setFixedFeeCondData((uint256 price1Letter, uint256 price2Letter, uint256 price3Letter, uint256 price4Letter, uint256 price5Letter, uint256 price6Letter, uint256 price7ToMoreLetter, uint256 createStartTime) data)", "")
	FuncSetMaxCreationNumber   = w3.MustNewFunc("setMaxCreationNumber(address to, uint256 amount)", "")
	FuncSetCommunityId         = w3.MustNewFunc("setCommunityId(uint256 communityId)", "")
	FuncWhitelistCommunitySlot = w3.MustNewFunc("whitelistCommunitySlot(address slot, bool whitelist)", "")

	// multicall3
	FuncAggregate  = w3.MustNewFunc("aggregate((address target, bytes callData)[] calls)", "uint256 blockNumber, bytes[] returnData")
	FuncAggregate3 = w3.MustNewFunc("aggregate3((address target, bool allowFailure, bytes callData)[] calls)", "(bool success, bytes returnData)[] returnData")
)

// Router is the router's dispatch table entry tuple
type Router struct {
	FunctionSelector  [4]byte
	FunctionSignature string
	RouterAddress     common.Address
}

// Call is a Multicall3 aggregate call
type Call struct {
	Target   common.Address
	CallData []byte
}

// Call3 is a Multicall3 aggregate3 call
type Call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

func routerTuple(e domain.RouterEntry) Router {
	return Router{
		FunctionSelector:  e.Selector,
		FunctionSignature: e.Signature,
		RouterAddress:     e.Address,
	}
}

// ToEntry converts a decoded tuple into a router entry
func (r Router) ToEntry() domain.RouterEntry {
	return domain.RouterEntry{
		Selector:  domain.Selector(r.FunctionSelector),
		Signature: r.FunctionSignature,
		Address:   r.RouterAddress,
	}
}

// EncodeCreate2Deploy encodes the factory deploy call
func EncodeCreate2Deploy(initCode []byte, salt domain.Salt) ([]byte, error) {
	return FuncCreate2Deploy.EncodeArgs(initCode, common.Hash(salt))
}

// EncodeMulticall wraps calls into one router multicall
func EncodeMulticall(calls [][]byte) ([]byte, error) {
	return FuncMulticall.EncodeArgs(calls)
}

func EncodeAddRouter(e domain.RouterEntry) ([]byte, error) {
	return FuncAddRouter.EncodeArgs(routerTuple(e))
}

func EncodeUpdateRouter(e domain.RouterEntry) ([]byte, error) {
	return FuncUpdateRouter.EncodeArgs(routerTuple(e))
}

func EncodeRemoveRouter(e domain.RouterEntry) ([]byte, error) {
	return FuncRemoveRouter.EncodeArgs([4]byte(e.Selector), e.Signature)
}

// EncodeRouterDiff encodes the removals of every diff, then the updates,
// then the additions. A selector moving between modules is removed before
// it is added again.
func EncodeRouterDiff(diffs ...*domain.RouterDiff) ([][]byte, error) {
	var remove, update, add []domain.RouterEntry
	for _, diff := range diffs {
		remove = append(remove, diff.Remove...)
		update = append(update, diff.Update...)
		add = append(add, diff.Add...)
	}

	calls := make([][]byte, 0, len(remove)+len(update)+len(add))
	steps := []struct {
		entries []domain.RouterEntry
		encode  func(domain.RouterEntry) ([]byte, error)
		op      string
	}{
		{remove, EncodeRemoveRouter, "removeRouter"},
		{update, EncodeUpdateRouter, "updateRouter"},
		{add, EncodeAddRouter, "addRouter"},
	}
	for _, step := range steps {
		for _, entry := range step.entries {
			data, err := step.encode(entry)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s %s: %w", step.op, entry.Signature, err)
			}
			calls = append(calls, data)
		}
	}
	return calls, nil
}

func EncodeInitialize(name, symbol string, followSBTImpl, joinNFTImpl, communityNFT common.Address) ([]byte, error) {
	return FuncInitialize.EncodeArgs(name, symbol, followSBTImpl, joinNFTImpl, communityNFT)
}

func EncodeGrantRole(role common.Hash, account common.Address) ([]byte, error) {
	return FuncGrantRole.EncodeArgs(role, account)
}

func EncodeWhitelistApp(app common.Address, whitelist bool) ([]byte, error) {
	return FuncWhitelistApp.EncodeArgs(app, whitelist)
}

func EncodeWhitelistToken(token common.Address, whitelist bool) ([]byte, error) {
	return FuncWhitelistToken.EncodeArgs(token, whitelist)
}

func EncodeSetBaseURI(uri string) ([]byte, error) {
	return FuncSetBaseURI.EncodeArgs(uri)
}

func EncodeSetState(state domain.ProtocolState) ([]byte, error) {
	return FuncSetState.EncodeArgs(uint8(state))
}

func EncodeSetERC6551AccountImpl(impl common.Address) ([]byte, error) {
	return FuncSetERC6551AccountImpl.EncodeArgs(impl)
}

func EncodeGetCommunityAccount(communityID *big.Int) ([]byte, error) {
	return FuncGetCommunityAccount.EncodeArgs(communityID)
}

func EncodeCommunityNFTInitialize(name, symbol string) ([]byte, error) {
	return FuncCommunityNFTInitialize.EncodeArgs(name, symbol)
}

func EncodeSetFixedFeeCondData(data domain.FixedFeeCondData) ([]byte, error) {
	return FuncSetFixedFeeCondData.EncodeArgs(data)
}

func EncodeSetMaxCreationNumber(to common.Address, amount *big.Int) ([]byte, error) {
	return FuncSetMaxCreationNumber.EncodeArgs(to, amount)
}

func EncodeWhitelistCommunitySlot(slot common.Address, whitelist bool) ([]byte, error) {
	return FuncWhitelistCommunitySlot.EncodeArgs(slot, whitelist)
}

func EncodeSetCommunityId(communityID *big.Int) ([]byte, error) {
	return FuncSetCommunityId.EncodeArgs(communityID)
}

func EncodeAggregate(calls []Call) ([]byte, error) {
	return FuncAggregate.EncodeArgs(calls)
}

func EncodeAggregate3(calls []Call3) ([]byte, error) {
	return FuncAggregate3.EncodeArgs(calls)
}

// GrantRolesCalls encodes a grantRole call for every admin role
func GrantRolesCalls(account common.Address) ([][]byte, error) {
	calls := make([][]byte, 0, len(domain.AdminRoles))
	for _, role := range domain.AdminRoles {
		data, err := EncodeGrantRole(role, account)
		if err != nil {
			return nil, fmt.Errorf("failed to encode grantRole: %w", err)
		}
		calls = append(calls, data)
	}
	return calls, nil
}
