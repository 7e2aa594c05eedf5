// SPDX-License-Identifier: MPL-2.0

package abi

import (
	"encoding/hex"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SelectorLen is the fixed length in bytes of an endpoint selector: the
// truncation length applied to the SHA3-256 digest of the canonical
// signature.
const SelectorLen = 8

// Selector is the fixed-length hash-derived identifier of an endpoint, used
// in place of its name in the wire encoding.
type Selector [SelectorLen]byte

// String returns the selector as lowercase hex.
func (s Selector) String() string {
	return hex.EncodeToString(s[:])
}

// selectorTable is a bidirectional selector<->name lookup. Inserts validate
// uniqueness in both directions and report the offending pair instead of
// silently overwriting, which is what a merged forward/reverse dictionary
// would do on a collision.
type selectorTable struct {
	byName     map[string]Selector
	bySelector map[Selector]string
}

func newSelectorTable(size int) *selectorTable {
	return &selectorTable{
		byName:     make(map[string]Selector, size),
		bySelector: make(map[Selector]string, size),
	}
}

// insert adds one endpoint<->selector pair. It returns a
// SelectorCollisionError naming both endpoints when the selector is already
// taken. Inserting the same endpoint name twice is a caller bug guarded by
// interface validation, so it surfaces as a collision too.
func (t *selectorTable) insert(contract, endpoint string, sel Selector) error {
	if prior, taken := t.bySelector[sel]; taken {
		return &SelectorCollisionError{
			Contract:  contract,
			Selector:  sel,
			Endpoints: [2]string{prior, endpoint},
		}
	}
	t.byName[endpoint] = sel
	t.bySelector[sel] = endpoint
	return nil
}

func (t *selectorTable) selector(endpoint string) (Selector, bool) {
	sel, ok := t.byName[endpoint]
	return sel, ok
}

func (t *selectorTable) endpoint(sel Selector) (string, bool) {
	name, ok := t.bySelector[sel]
	return name, ok
}

// names returns the endpoint names in sorted order, for deterministic
// listings.
func (t *selectorTable) names() []string {
	names := maps.Keys(t.byName)
	slices.Sort(names)
	return names
}
