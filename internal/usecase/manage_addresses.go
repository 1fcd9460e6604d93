package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the keys offered when a lookup misses
const maxSuggestions = 3

// AddressEntry is one address book line
type AddressEntry struct {
	Key     string
	Address string
	// Global is set for entries from the network-less book
	Global bool
}

// ShowAddressesResult contains the address books of the current env
type ShowAddressesResult struct {
	Env     string
	Network string
	Entries []AddressEntry
}

// UnknownKeyError is returned when an address book has no entry for a key
type UnknownKeyError struct {
	Key         string
	Suggestions []string
}

func (e *UnknownKeyError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no address recorded for %q", e.Key)
	}
	return fmt.Sprintf("no address recorded for %q, did you mean %v?", e.Key, e.Suggestions)
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == domain.ErrNotFound
}

// SetAddressParams contains parameters for recording an address
type SetAddressParams struct {
	Key     string
	Address common.Address
	// Global writes to the env-wide book instead of the network's
	Global bool
}

// SetAddressResult contains the result of recording an address
type SetAddressResult struct {
	Key      string
	Address  common.Address
	Previous string
	File     string
}

// ManageAddresses reads and edits the address books
type ManageAddresses struct {
	config *config.RuntimeConfig
	books  AddressBookRepository
	log    *slog.Logger
}

// NewManageAddresses creates a new ManageAddresses use case
func NewManageAddresses(cfg *config.RuntimeConfig, books AddressBookRepository, log *slog.Logger) *ManageAddresses {
	return &ManageAddresses{
		config: cfg,
		books:  books,
		log:    log.With("component", "ManageAddresses"),
	}
}

// Show lists the network book of the current env followed by the
// entries of the env-wide book that the network book does not override
func (uc *ManageAddresses) Show(ctx context.Context) (*ShowAddressesResult, error) {
	result := &ShowAddressesResult{Env: uc.config.Env}

	seen := make(map[string]bool)
	if uc.config.Network != nil {
		result.Network = uc.config.Network.Name
		book, err := uc.load(ctx, uc.config.Network.Name)
		if err != nil {
			return nil, err
		}
		if book != nil {
			for _, key := range book.Keys() {
				result.Entries = append(result.Entries, AddressEntry{Key: key, Address: book.Entries[key]})
				seen[key] = true
			}
		}
	}

	global, err := uc.load(ctx, "")
	if err != nil {
		return nil, err
	}
	if global != nil {
		for _, key := range global.Keys() {
			if seen[key] {
				continue
			}
			result.Entries = append(result.Entries, AddressEntry{Key: key, Address: global.Entries[key], Global: true})
		}
	}

	return result, nil
}

// Get returns the entry recorded under key. A miss suggests close keys.
func (uc *ManageAddresses) Get(ctx context.Context, key string) (*AddressEntry, error) {
	shown, err := uc.Show(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(shown.Entries))
	for _, entry := range shown.Entries {
		if entry.Key == key {
			return &entry, nil
		}
		keys = append(keys, entry.Key)
	}

	return nil, &UnknownKeyError{Key: key, Suggestions: suggestKeys(key, keys)}
}

// Set records an address under key
func (uc *ManageAddresses) Set(ctx context.Context, params SetAddressParams) (*SetAddressResult, error) {
	network := ""
	if !params.Global {
		n, err := requireNetwork(uc.config)
		if err != nil {
			return nil, err
		}
		network = n.Name
	}

	book, err := loadOrEmptyBook(ctx, uc.books, uc.config.Env, network)
	if err != nil {
		return nil, err
	}
	result := &SetAddressResult{
		Key:      params.Key,
		Address:  params.Address,
		Previous: book.Entries[params.Key],
		File:     book.FileName(),
	}
	book.Set(params.Key, params.Address)
	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	uc.log.Info("address recorded", "key", params.Key, "address", params.Address, "file", result.File)
	return result, nil
}

// load returns the book or nil when it does not exist
func (uc *ManageAddresses) load(ctx context.Context, network string) (*domain.AddressBook, error) {
	book, err := uc.books.Load(ctx, uc.config.Env, network)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}
	return book, nil
}

// suggestKeys returns the keys closest to key, best match first
func suggestKeys(key string, keys []string) []string {
	matches := fuzzy.Find(key, keys)
	suggestions := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}
