package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBookFileName(t *testing.T) {
	assert.Equal(t, "addresses-dev-baseSepolia.json", NewAddressBook("dev", "baseSepolia").FileName())
	assert.Equal(t, "addresses-dev.json", NewAddressBook("dev", "").FileName())
}

func TestAddressBookGetSet(t *testing.T) {
	book := NewAddressBook("dev", "local")
	router := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	_, ok := book.Get(KeyRouterProxy)
	assert.False(t, ok)

	book.Set(KeyRouterProxy, router)
	got, ok := book.Get(KeyRouterProxy)
	require.True(t, ok)
	assert.Equal(t, router, got)

	book.Entries["note"] = "not an address"
	assert.False(t, book.Has("note"))
	assert.Equal(t, []string{"note", KeyRouterProxy}, book.Keys())
}

func TestAddressBookRequire(t *testing.T) {
	book := NewAddressBook("pre", "base")
	book.Set(KeyRouterProxy, common.HexToAddress("0x01"))

	resolved, err := book.Require(KeyRouterProxy)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x01"), resolved[KeyRouterProxy])

	_, err = book.Require(KeyRouterProxy, KeyProfileLogic, KeyCommunityNFTProxy)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var missing *MissingAddressError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{KeyProfileLogic, KeyCommunityNFTProxy}, missing.Keys)
	assert.Contains(t, err.Error(), "communityNFTProxy, profileLogic")
}
