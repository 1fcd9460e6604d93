package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Create2FactoryAddress is the EIP-2470 singleton factory
	Create2FactoryAddress = common.HexToAddress("0xce0042b868300000d44a59004da54a005ffdcf9f")

	// Multicall3Address is the canonical Multicall3 deployment
	Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")
)

// Gas limits used for protocol transactions
const (
	Create2DeployGasLimit uint64 = 9_000_000
	InitMulticallGasLimit uint64 = 21_474_836
)

// Access control roles granted on the router
var (
	RoleAppAdmin   = crypto.Keccak256Hash([]byte("AppAdmin"))
	RoleGovernance = crypto.Keccak256Hash([]byte("Governance"))
	RoleOperation  = crypto.Keccak256Hash([]byte("Operation"))
	RoleStateAdmin = crypto.Keccak256Hash([]byte("StateAdmin"))
)

// AdminRoles is the role set granted to operators
var AdminRoles = []common.Hash{RoleAppAdmin, RoleGovernance, RoleOperation, RoleStateAdmin}

// ProtocolState mirrors the router's pause state enum
type ProtocolState uint8

const (
	StateUnpaused ProtocolState = iota
	StatePublishingPaused
	StatePaused
)

// LogicModule names a router logic module, e.g. "profile"
type LogicModule string

// Logic modules in the order they are wired into a fresh router
const (
	ModuleGovernance LogicModule = "governance"
	ModuleProfile    LogicModule = "profile"
	ModuleContent    LogicModule = "content"
	ModuleRelation   LogicModule = "relation"
	ModuleCommunity  LogicModule = "community"
)

// LogicModules lists every module in deployment order
var LogicModules = []LogicModule{ModuleGovernance, ModuleProfile, ModuleContent, ModuleRelation, ModuleCommunity}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// ContractName returns the implementation contract, e.g. ProfileLogic
func (m LogicModule) ContractName() string {
	return titleCaser.String(string(m)) + "Logic"
}

// InterfaceName returns the interface whose selectors the module routes
func (m LogicModule) InterfaceName() string {
	return "I" + m.ContractName()
}

// AddressKey returns the address book key of the implementation
func (m LogicModule) AddressKey() string {
	return string(m) + "Logic"
}

// ParseLogicModules parses a comma separated module list
func ParseLogicModules(csv string) ([]LogicModule, error) {
	var modules []LogicModule
	for _, part := range strings.Split(csv, ",") {
		name := LogicModule(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !lo.Contains(LogicModules, name) {
			return nil, fmt.Errorf("unknown logic module %q", name)
		}
		modules = append(modules, name)
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("no logic module given")
	}
	return lo.Uniq(modules), nil
}

// RouterVariableName converts a selector file name such as IProfileLogic.json
// to the variable the test setup binds the implementation to (profileLogic).
func RouterVariableName(fileName string) string {
	base := strings.TrimSuffix(strings.TrimPrefix(fileName, "I"), ".json")
	if base == "" {
		return ""
	}
	return strings.ToLower(base[:1]) + base[1:]
}

// FixedFeeCondData is the fixed fee community condition price table
type FixedFeeCondData struct {
	Price1Letter       *big.Int
	Price2Letter       *big.Int
	Price3Letter       *big.Int
	Price4Letter       *big.Int
	Price5Letter       *big.Int
	Price6Letter       *big.Int
	Price7ToMoreLetter *big.Int
	CreateStartTime    *big.Int
}

// DefaultFixedFeeCondData returns the launch price table starting at start (unix seconds)
func DefaultFixedFeeCondData(start uint64) FixedFeeCondData {
	return FixedFeeCondData{
		Price1Letter:       etherMilli(2049),
		Price2Letter:       etherMilli(257),
		Price3Letter:       etherMilli(65),
		Price4Letter:       etherMilli(17),
		Price5Letter:       etherMilli(5),
		Price6Letter:       etherMilli(3),
		Price7ToMoreLetter: etherMilli(1),
		CreateStartTime:    new(big.Int).SetUint64(start),
	}
}

// etherMilli returns n thousandths of an ether in wei
func etherMilli(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e15))
}
