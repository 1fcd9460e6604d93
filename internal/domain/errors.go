package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNoNetwork is returned when a command needs a chain but no network is configured
	ErrNoNetwork = errors.New("no network configured")

	// ErrContractNotFound is returned when a compiled artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrStaleInitCode is returned when a cached CREATE2 record was mined for different init code
	ErrStaleInitCode = errors.New("cached init code does not match, redeploy required")

	// ErrSameInitCode is returned when a redeploy is requested but the init code is unchanged
	ErrSameInitCode = errors.New("same initCode")

	// ErrDeployFailed is returned when no code exists at the target after a deployment confirmed
	ErrDeployFailed = errors.New("deploy failed")

	// ErrSaltMinerUnavailable is returned when the salt mining tool is missing or its output can't be read
	ErrSaltMinerUnavailable = errors.New("cast not installed")

	// ErrTransactionReverted is returned when a receipt reports failure
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrMissingAddress is returned when a command needs an address book entry that isn't recorded
	ErrMissingAddress = errors.New("missing address")

	// ErrCancelled is returned when the operator declines a confirmation
	ErrCancelled = errors.New("cancelled by user")
)

// DuplicateSelectorError is returned when two contracts expose functions with the same selector
type DuplicateSelectorError struct {
	Signature        string
	Selector         string
	Contract         string
	ConflictContract string
}

func (e *DuplicateSelectorError) Error() string {
	return fmt.Sprintf("function signature already exists: %s, selector: %s, contract: %s, conflict contract: %s",
		e.Signature, e.Selector, e.Contract, e.ConflictContract)
}

// MissingAddressError is returned when a command needs address book entries that are not recorded
type MissingAddressError struct {
	Env     string
	Network string
	Keys    []string
}

func (e *MissingAddressError) Error() string {
	keys := make([]string, len(e.Keys))
	copy(keys, e.Keys)
	sort.Strings(keys)
	return fmt.Sprintf("address book %s/%s is missing: %s", e.Env, e.Network, strings.Join(keys, ", "))
}

func (e *MissingAddressError) Is(target error) bool {
	return target == ErrMissingAddress || target == ErrNotFound
}
