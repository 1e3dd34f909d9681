// Package id allocates identifiers for the persisted document.
//
// Account ids are stable content hashes so the same account name maps to
// the same id across runs. Budget-item ids come from a sequence allocator
// seeded above every id already present in the document, so new ids never
// collide with prior ones. Run ids are UUIDs.
package id

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// jsSafeBits keeps ids within JavaScript's exact-integer range (2^53),
// since the document is consumed by a browser dashboard.
const jsSafeBits = 53

// ForAccount returns a stable id derived from the account name via
// FNV-1a 64, folded to 53 bits.
func ForAccount(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	sum := h.Sum64()
	folded := (sum >> jsSafeBits) ^ (sum & (1<<jsSafeBits - 1))
	return int64(folded)
}

// Allocator hands out budget-item ids strictly above any id it was
// seeded with.
type Allocator struct {
	next int64
}

// NewAllocator returns an Allocator whose first id is one above the
// largest existing id, and at least 1.
func NewAllocator(existing []int64) *Allocator {
	next := int64(1)
	for _, id := range existing {
		if id >= next {
			next = id + 1
		}
	}
	return &Allocator{next: next}
}

// Next returns the next free id.
func (a *Allocator) Next() int64 {
	id := a.next
	a.next++
	return id
}

// NewRunID returns a fresh UUID identifying one simulation run.
func NewRunID() string {
	return uuid.NewString()
}
