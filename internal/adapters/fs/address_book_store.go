package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// AddressBookStore stores address books as addresses-<env>[-<network>].json
// in the project root
type AddressBookStore struct {
	rootDir string
}

// NewAddressBookStore creates a new address book store
func NewAddressBookStore(cfg *config.RuntimeConfig) *AddressBookStore {
	return &AddressBookStore{rootDir: cfg.ProjectRoot}
}

// Load reads the book of env on network
func (s *AddressBookStore) Load(ctx context.Context, env, network string) (*domain.AddressBook, error) {
	book := domain.NewAddressBook(env, network)
	path := filepath.Join(s.rootDir, book.FileName())

	if err := readJSON(path, &book.Entries); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("address book %s: %w", book.FileName(), domain.ErrNotFound)
		}
		return nil, err
	}
	// a file holding null
	if book.Entries == nil {
		book.Entries = make(map[string]string)
	}
	return book, nil
}

// Save writes the book, keeping every entry it holds
func (s *AddressBookStore) Save(ctx context.Context, book *domain.AddressBook) error {
	entries := book.Entries
	if entries == nil {
		entries = map[string]string{}
	}
	return writeJSON(filepath.Join(s.rootDir, book.FileName()), entries, bookIndent)
}

var _ usecase.AddressBookRepository = (*AddressBookStore)(nil)
