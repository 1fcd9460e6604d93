package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/stretchr/testify/mock"
)

var (
	deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	routerAddr   = common.HexToAddress("0x1000000000000000000000000000000000000001")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: "/project",
		Env:         "dev",
		Network: &config.Network{
			Name:    "baseSepolia",
			ChainID: 84532,
			RPCURL:  "http://localhost:8545",
		},
		Protocol: &config.ProtocolConfig{
			SBTName:         "OpenSocial Follow SBT",
			SBTSymbol:       "OSPF",
			CommunityName:   "OpenSocial Community",
			CommunitySymbol: "OSPC",
			Create2Factory:  domain.Create2FactoryAddress.Hex(),
			MetadataBaseURL: map[string]string{"dev": "https://opensocial.dev/metadata/"},
			ClientABI:       "core/OspClient",
			EventsABI:       "core/OspEvents",
		},
	}
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
	fromErr error
}

func (m *MockChainClient) ChainID(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockChainClient) From(context.Context) (common.Address, error) {
	if m.fromErr != nil {
		return common.Address{}, m.fromErr
	}
	return deployerAddr, nil
}

func (m *MockChainClient) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockChainClient) Send(ctx context.Context, req domain.TxRequest) (*domain.TxResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TxResult), args.Error(1)
}

func (m *MockChainClient) SendRaw(ctx context.Context, label string, raw []byte) (*domain.TxResult, error) {
	args := m.Called(ctx, label, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TxResult), args.Error(1)
}

// MockContractReader is a mock implementation of ContractReader
type MockContractReader struct {
	mock.Mock
}

func (m *MockContractReader) RouterEntries(ctx context.Context, router common.Address) ([]domain.RouterEntry, error) {
	args := m.Called(ctx, router)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RouterEntry), args.Error(1)
}

func (m *MockContractReader) RouterSelectors(ctx context.Context, router, logic common.Address) ([]domain.Selector, error) {
	args := m.Called(ctx, router, logic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Selector), args.Error(1)
}

func (m *MockContractReader) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockContractReader) CommunityAccounts(ctx context.Context, router common.Address, ids []*big.Int) ([]common.Address, error) {
	args := m.Called(ctx, router, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

// memBooks is an in-memory AddressBookRepository
type memBooks struct {
	books map[string]*domain.AddressBook
	saves int
}

func newMemBooks(books ...*domain.AddressBook) *memBooks {
	m := &memBooks{books: make(map[string]*domain.AddressBook)}
	for _, b := range books {
		m.books[b.FileName()] = b
	}
	return m
}

func (m *memBooks) Load(_ context.Context, env, network string) (*domain.AddressBook, error) {
	b, ok := m.books[domain.NewAddressBook(env, network).FileName()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := domain.NewAddressBook(b.Env, b.Network)
	for k, v := range b.Entries {
		clone.Entries[k] = v
	}
	return clone, nil
}

func (m *memBooks) Save(_ context.Context, book *domain.AddressBook) error {
	m.books[book.FileName()] = book
	m.saves++
	return nil
}

func (m *memBooks) get(env, network, key string) common.Address {
	b, ok := m.books[domain.NewAddressBook(env, network).FileName()]
	if !ok {
		return common.Address{}
	}
	addr, _ := b.Get(key)
	return addr
}

// memCreate2 is an in-memory Create2Repository
type memCreate2 struct {
	caches map[string]*domain.Create2Cache
	saves  int
}

func (m *memCreate2) Load(_ context.Context, env string) (*domain.Create2Cache, error) {
	if c, ok := m.caches[env]; ok {
		return c, nil
	}
	return domain.NewCreate2Cache(env), nil
}

func (m *memCreate2) Save(_ context.Context, cache *domain.Create2Cache) error {
	if m.caches == nil {
		m.caches = make(map[string]*domain.Create2Cache)
	}
	m.caches[cache.Env] = cache
	m.saves++
	return nil
}

// memSelectors is an in-memory SelectorStore keyed by dir/contract
type memSelectors struct {
	maps    map[string]domain.SelectorMap
	cleaned bool
}

func newMemSelectors() *memSelectors {
	return &memSelectors{maps: make(map[string]domain.SelectorMap)}
}

func (m *memSelectors) Clean(context.Context) error {
	m.maps = make(map[string]domain.SelectorMap)
	m.cleaned = true
	return nil
}

func (m *memSelectors) Save(_ context.Context, dir, contract string, selectors domain.SelectorMap) error {
	m.maps[dir+"/"+contract] = selectors
	return nil
}

func (m *memSelectors) Load(_ context.Context, dir, contract string) (domain.SelectorMap, error) {
	s, ok := m.maps[dir+"/"+contract]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (m *memSelectors) List(_ context.Context, dir string) ([]string, error) {
	var files []string
	for key := range m.maps {
		d, contract := splitKey(key)
		if d == dir {
			files = append(files, contract+".json")
		}
	}
	sort.Strings(files)
	return files, nil
}

func splitKey(key string) (string, string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}

// memArtifacts is an in-memory ArtifactRepository
type memArtifacts map[string]*domain.Artifact

func (m memArtifacts) GetArtifact(_ context.Context, name string) (*domain.Artifact, error) {
	a, ok := m[name]
	if !ok {
		return nil, domain.ErrContractNotFound
	}
	return a, nil
}

func (m memArtifacts) ListArtifacts(context.Context) ([]*domain.Artifact, error) {
	all := make([]*domain.Artifact, 0, len(m))
	for _, a := range m {
		all = append(all, a)
	}
	return all, nil
}

const routerCtorABI = `[{"type":"constructor","inputs":[{"name":"router","type":"address"}],"stateMutability":"nonpayable"}]`

func newArtifact(name, source, abiJSON string) *domain.Artifact {
	return &domain.Artifact{
		Name:       name,
		SourceName: source,
		ABI:        []byte(abiJSON),
		Bytecode:   []byte{0x60, 0x80, 0x60, 0x40},
	}
}

// stubMiner derives a record from a fixed salt
type stubMiner struct {
	calls int
}

func (s *stubMiner) Mine(_ context.Context, initCode []byte, factory common.Address, _ string) (*domain.Create2Record, error) {
	s.calls++
	var salt domain.Salt
	salt[31] = byte(s.calls)
	return &domain.Create2Record{
		InitCode: initCode,
		Salt:     salt,
		Address:  domain.Create2Address(factory, salt, initCode),
	}, nil
}

// fixedConfirmer answers every prompt the same way
type fixedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fixedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

// recordingProgress records progress events
type recordingProgress struct {
	events []usecase.ProgressEvent
	errors []string
}

func (p *recordingProgress) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *recordingProgress) Info(string) {}

func (p *recordingProgress) Error(message string) {
	p.errors = append(p.errors, message)
}

func bookWith(env, network string, entries map[string]common.Address) *domain.AddressBook {
	b := domain.NewAddressBook(env, network)
	for k, v := range entries {
		b.Set(k, v)
	}
	return b
}
