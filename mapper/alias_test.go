// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableBasics(t *testing.T) {
	table := NewTable([]Pair{
		{Canonical: "elements", Backend: "custom_elements_field"},
		{Canonical: "nsites", Backend: "site_count"},
	})
	assert.Equal(t, "custom_elements_field", table.ToBackend("elements"))
	assert.Equal(t, "site_count", table.ToBackend("nsites"))
	assert.Equal(t, "elements", table.ToCanonical("custom_elements_field"))
	assert.Equal(t, "nsites", table.ToCanonical("site_count"))
}

func TestUnknownNamesPassThrough(t *testing.T) {
	table := NewTable([]Pair{{Canonical: "elements", Backend: "els"}})
	assert.Equal(t, "nelements", table.ToBackend("nelements"))
	assert.Equal(t, "nelements", table.ToCanonical("nelements"))
	assert.Equal(t, "", table.ToBackend(""))
}

// TestCollidingPairs pins the collision contract: the forward index
// keeps the first pair for a canonical name, the reverse index keeps
// the last pair for a backend name.
func TestCollidingPairs(t *testing.T) {
	table := NewTable([]Pair{
		{Canonical: "elements", Backend: "first_backend"},
		{Canonical: "elements", Backend: "second_backend"},
		{Canonical: "other", Backend: "shared"},
		{Canonical: "winner", Backend: "shared"},
	})
	assert.Equal(t, "first_backend", table.ToBackend("elements"))
	assert.Equal(t, "winner", table.ToCanonical("shared"))

	// Both colliding pairs still resolve in reverse.
	assert.Equal(t, "elements", table.ToCanonical("first_backend"))
	assert.Equal(t, "elements", table.ToCanonical("second_backend"))
}

func TestDottedPaths(t *testing.T) {
	table := NewTable([]Pair{{Canonical: "species", Backend: "kinds"}})
	tests := []struct {
		name, in, backend, canonical string
	}{
		{"aliased head", "species.mass", "kinds.mass", "species.mass"},
		{"unaliased head", "assemblies.group_probabilities", "assemblies.group_probabilities", "assemblies.group_probabilities"},
		{"deep path", "species.mass.value", "kinds.mass.value", "species.mass.value"},
		{"bare aliased", "species", "kinds", "species"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.backend, table.ToBackend(test.in))
		})
	}
	assert.Equal(t, "species.mass", table.ToCanonical("kinds.mass"))
	assert.Equal(t, "species.mass.value", table.ToCanonical("kinds.mass.value"))
}

func TestRoundTrip(t *testing.T) {
	table := NewTable([]Pair{
		{Canonical: "elements", Backend: "custom_elements_field"},
		{Canonical: "nsites", Backend: "site_count"},
	})
	for _, field := range []string{"elements", "nsites", "unaliased", "species.mass"} {
		assert.Equal(t, field, table.ToCanonical(table.ToBackend(field)), "field %q", field)
	}
	for _, field := range []string{"custom_elements_field", "site_count", "unaliased"} {
		assert.Equal(t, field, table.ToBackend(table.ToCanonical(field)), "field %q", field)
	}
}

func TestSortedPairsDeterministic(t *testing.T) {
	pairs := sortedPairs(map[string]string{
		"zeta":     "z",
		"alpha":    "a",
		"elements": "els",
	})
	assert.Equal(t, []Pair{
		{Canonical: "alpha", Backend: "a"},
		{Canonical: "elements", Backend: "els"},
		{Canonical: "zeta", Backend: "z"},
	}, pairs)
	assert.Nil(t, sortedPairs(nil))
}

func TestLengthTable(t *testing.T) {
	table := NewLengthTable([]LengthPair{
		{Countable: "elements", Length: "nelements"},
		{Countable: "elements", Length: "shadowed"},
		{Countable: "cartesian_site_positions", Length: "nsites"},
	})
	length, ok := table.Lookup("elements")
	assert.True(t, ok)
	assert.Equal(t, "nelements", length)

	length, ok = table.Lookup("cartesian_site_positions")
	assert.True(t, ok)
	assert.Equal(t, "nsites", length)

	length, ok = table.Lookup("species")
	assert.False(t, ok)
	assert.Equal(t, "", length)
}

func TestValidatePrefix(t *testing.T) {
	for _, prefix := range []string{"exmpl", "mp", "aflow2", "a"} {
		assert.NoError(t, ValidatePrefix(prefix), "prefix %q", prefix)
	}
	for _, prefix := range []string{"", "ex_mpl", "_exmpl", "Exmpl", "2x", "ex.mpl", "ex mpl"} {
		err := ValidatePrefix(prefix)
		if assert.Error(t, err, "prefix %q", prefix) {
			var bad *BadPrefixError
			assert.ErrorAs(t, err, &bad)
			assert.Equal(t, prefix, bad.Prefix)
		}
	}
}

func TestNamespaceField(t *testing.T) {
	assert.Equal(t, "_exmpl_hull_distance", NamespaceField("exmpl", "hull_distance"))
	assert.Equal(t, "_mp_band_gap", NamespaceField("mp", "band_gap"))
}
