// Package registry persists the set of citation hashes already emitted so
// that no variant is ever published twice.
//
// The in-memory Set remembers insertion order; stores persist only the most
// recent entries (DefaultMaxEntries unless configured) and drop the oldest.
// Loading never fails: a missing or unreadable registry is an empty Set.
// Saving overwrites the previous state entirely and its errors are fatal.
package registry

import "git.home.luguber.info/inful/citepage/internal/util/sets"

// DefaultMaxEntries bounds how many hashes a store keeps.
const DefaultMaxEntries = 10000

// Set is the insertion-ordered set of used hashes.
type Set struct {
	hashes *sets.Ordered[string]
}

// NewSet creates a Set holding hashes in order, keeping the first
// occurrence of duplicates.
func NewSet(hashes ...string) *Set {
	return &Set{hashes: sets.NewOrdered(hashes...)}
}

// Has reports whether hash is present.
func (s *Set) Has(hash string) bool { return s.hashes.Has(hash) }

// Add appends hash and reports whether it was new.
func (s *Set) Add(hash string) bool { return s.hashes.Add(hash) }

// Len returns the number of hashes.
func (s *Set) Len() int { return s.hashes.Len() }

// Hashes returns every hash, oldest first.
func (s *Set) Hashes() []string { return s.hashes.Values() }

// Newest returns the n most recently added hashes, oldest first.
func (s *Set) Newest(n int) []string { return s.hashes.Last(n) }

func effectiveMax(maxEntries int) int {
	if maxEntries <= 0 {
		return DefaultMaxEntries
	}
	return maxEntries
}
