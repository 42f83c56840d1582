// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mapper

import (
	"sort"
	"strings"
)

// Pair associates a canonical field name with the backend field name
// that stores it.  A slice of pairs is ordered: earlier pairs take
// priority over later ones when the same canonical name appears more
// than once.
type Pair struct {
	// Canonical is the field name as the API presents it.
	Canonical string

	// Backend is the field name as the storage layer records it.
	Backend string
}

// Table resolves field names in both directions over an ordered list
// of alias pairs.  The two directions deliberately disagree on
// duplicates: the forward (canonical to backend) index keeps the
// FIRST pair for a given canonical name, while the reverse index
// keeps the LAST pair for a given backend name.  Callers that depend
// on collision behavior get exactly this, never a random map order.
type Table struct {
	pairs   []Pair
	forward map[string]string
	reverse map[string]string
}

// NewTable builds a Table from pairs.  The slice is copied; later
// changes to the caller's slice do not affect the table.
func NewTable(pairs []Pair) *Table {
	t := &Table{
		pairs:   append([]Pair(nil), pairs...),
		forward: make(map[string]string, len(pairs)),
		reverse: make(map[string]string, len(pairs)),
	}
	for _, pair := range t.pairs {
		if _, dup := t.forward[pair.Canonical]; !dup {
			t.forward[pair.Canonical] = pair.Backend
		}
	}
	for _, pair := range t.pairs {
		t.reverse[pair.Backend] = pair.Canonical
	}
	return t
}

// Len returns the number of pairs in the table.
func (t *Table) Len() int {
	return len(t.pairs)
}

// ToBackend maps a canonical field name to its backend form.  Names
// with no alias pass through unchanged.  A dotted path maps only its
// first segment; the rest is reattached verbatim.
func (t *Table) ToBackend(field string) string {
	return resolve(field, t.forward)
}

// ToCanonical maps a backend field name to its canonical form, with
// the same pass-through and dotted-path rules as ToBackend.
func (t *Table) ToCanonical(field string) string {
	return resolve(field, t.reverse)
}

func resolve(field string, index map[string]string) string {
	head, rest, dotted := strings.Cut(field, ".")
	mapped, ok := index[head]
	if !ok {
		mapped = head
	}
	if dotted {
		return mapped + "." + rest
	}
	return mapped
}

// hasBackend reports whether name is the backend side of any pair.
func (t *Table) hasBackend(name string) bool {
	_, ok := t.reverse[name]
	return ok
}

// sortedPairs converts a canonical-to-backend map into a pair list
// ordered by canonical name.  Configuration sources are maps, so this
// keeps table construction deterministic across runs.
func sortedPairs(aliases map[string]string) []Pair {
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]Pair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, Pair{Canonical: name, Backend: aliases[name]})
	}
	return pairs
}
