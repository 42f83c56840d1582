// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mapper

import "sort"

// LengthPair associates a countable canonical field with the backend
// field that stores its length, so that a length constraint on the
// countable field can be served by a direct lookup instead of counting
// array members.
type LengthPair struct {
	// Countable is the canonical name of the list-valued field.
	Countable string

	// Length is the backend field holding the precomputed length.
	Length string
}

// LengthTable resolves countable fields to their length fields.  Like
// the alias Table it is ordered, and the first pair for a countable
// field wins.  It is consulted only in the countable-to-length
// direction; length fields never map back, and length pairs never
// participate in value aliasing or reshaping.
type LengthTable struct {
	pairs []LengthPair
	index map[string]string
}

// NewLengthTable builds a LengthTable from pairs, copying the slice.
func NewLengthTable(pairs []LengthPair) *LengthTable {
	t := &LengthTable{
		pairs: append([]LengthPair(nil), pairs...),
		index: make(map[string]string, len(pairs)),
	}
	for _, pair := range t.pairs {
		if _, dup := t.index[pair.Countable]; !dup {
			t.index[pair.Countable] = pair.Length
		}
	}
	return t
}

// Lookup returns the length field for a countable canonical field.
// The second return is false when no alias exists, in which case query
// planners fall back to the backend's native length operator.
func (t *LengthTable) Lookup(field string) (string, bool) {
	length, ok := t.index[field]
	return length, ok
}

// sortedLengthPairs converts a countable-to-length map into a pair
// list ordered by countable name, for the same determinism reasons as
// sortedPairs.
func sortedLengthPairs(aliases map[string]string) []LengthPair {
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]LengthPair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, LengthPair{Countable: name, Length: aliases[name]})
	}
	return pairs
}
