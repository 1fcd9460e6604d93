package domain

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// Selector is a 4-byte function selector
type Selector [4]byte

// ParseSelector parses a 0x-prefixed 4-byte hex selector
func ParseSelector(s string) (Selector, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	if len(raw) != 4 {
		return Selector{}, fmt.Errorf("invalid selector %q: want 4 bytes, got %d", s, len(raw))
	}
	var sel Selector
	copy(sel[:], raw)
	return sel, nil
}

func (s Selector) String() string { return hexutil.Encode(s[:]) }

// RouterEntry is one row of the on-chain dispatch table
type RouterEntry struct {
	Selector  Selector
	Signature string
	Address   common.Address
}

// SelectorMap maps a canonical function signature to its selector in 0x form
type SelectorMap map[string]string

// SelectorsFromABI computes the selector map of every function in the ABI
func SelectorsFromABI(parsed *abi.ABI) SelectorMap {
	m := make(SelectorMap, len(parsed.Methods))
	for _, method := range parsed.Methods {
		m[method.Sig] = hexutil.Encode(method.ID)
	}
	return m
}

// Signatures returns the signatures in sorted order
func (m SelectorMap) Signatures() []string {
	sigs := lo.Keys(m)
	sort.Strings(sigs)
	return sigs
}

// Entries converts the map into router entries pointing at impl, sorted by signature
func (m SelectorMap) Entries(impl common.Address) ([]RouterEntry, error) {
	entries := make([]RouterEntry, 0, len(m))
	for _, sig := range m.Signatures() {
		sel, err := ParseSelector(m[sig])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sig, err)
		}
		entries = append(entries, RouterEntry{Selector: sel, Signature: sig, Address: impl})
	}
	return entries, nil
}

// RouterDiff holds the router operations needed to move a logic module onto a
// new implementation. The three sets never share a selector.
type RouterDiff struct {
	Module string
	Impl   common.Address
	Remove []RouterEntry
	Update []RouterEntry
	Add    []RouterEntry
}

// Empty reports whether the diff contains no operations
func (d *RouterDiff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Update) == 0 && len(d.Add) == 0
}

// DiffRouter compares the selectors currently routed to a module with the
// desired selector map. Removed selectors take their signature from the full
// router table since the removal call needs it.
func DiffRouter(module string, current []Selector, table []RouterEntry, desired SelectorMap, impl common.Address) (*RouterDiff, error) {
	bySelector := lo.SliceToMap(table, func(e RouterEntry) (Selector, RouterEntry) {
		return e.Selector, e
	})
	routed := lo.SliceToMap(current, func(s Selector) (Selector, struct{}) {
		return s, struct{}{}
	})

	entries, err := desired.Entries(impl)
	if err != nil {
		return nil, err
	}

	diff := &RouterDiff{Module: module, Impl: impl}
	wanted := make(map[Selector]struct{}, len(entries))
	for _, entry := range entries {
		wanted[entry.Selector] = struct{}{}
		if _, ok := routed[entry.Selector]; ok {
			diff.Update = append(diff.Update, entry)
		} else {
			diff.Add = append(diff.Add, entry)
		}
	}

	for _, sel := range lo.Uniq(current) {
		if _, ok := wanted[sel]; ok {
			continue
		}
		registered, ok := bySelector[sel]
		if !ok {
			return nil, fmt.Errorf("selector %s routed to %s module is missing from the router table", sel, module)
		}
		diff.Remove = append(diff.Remove, registered)
	}
	sort.Slice(diff.Remove, func(i, j int) bool {
		return diff.Remove[i].Signature < diff.Remove[j].Signature
	})

	return diff, nil
}

// Summary returns a one-line description of the diff
func (d *RouterDiff) Summary() string {
	return fmt.Sprintf("%s: %d removed, %d updated, %d added", d.Module, len(d.Remove), len(d.Update), len(d.Add))
}
