// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package mapper translates between the canonical field vocabulary of
// an entry type and the field names a particular backend actually
// stores.  One deployment of the service may call the canonical
// "elements" field "custom_elements_field" in its database, expose
// extra provider-specific fields under a namespaced "_exmpl_..."
// spelling, and precompute lengths of list fields under separate
// names; this package is the single place all of those concerns meet.
//
// A Mapper is built from two explicit inputs.  A Definition describes
// what the implementation ships for an entry type: its attribute
// schema, any built-in aliases, provider fields, length aliases, and
// required response fields.  A Deployment describes what one
// installation adds on top through configuration: the provider prefix
// and per-entry-type aliases, provider fields, and length aliases.
// New composes the two into one ordered alias table; the priority
// order, highest first, is
//
//	configured provider fields
//	implementation provider fields
//	configured aliases
//	implementation aliases
//
// Earlier pairs win forward lookups (BackendField); later pairs win
// reverse lookups (CanonicalField).  That asymmetry is part of the
// contract, and tests pin it down.
//
// Mappers are plain values with no global registry.  Derived state
// (alias tables, the attribute set) is built lazily on first use and
// memoized, so concurrent first accesses converge on a single build.
// Field lookups never fail; callers that need to know whether a
// canonical name exists at all check AllAttributes themselves.
package mapper

import (
	"sync"

	"github.com/diffeo/go-strata/schema"
)

// topLevelFields are the canonical resource fields that live beside
// "attributes" rather than inside it.
var topLevelFields = []string{"id", "type", "relationships", "links"}

// Definition describes an entry type as shipped by the
// implementation.
type Definition struct {
	// EntryType is the name of the entry type, "structures" or
	// similar.  Reshape forces it into every resource's "type"
	// field.
	EntryType string

	// Description is a human-readable summary of the entry type,
	// served in its info document.
	Description string

	// Schema declares the canonical attributes of the entry type.
	Schema schema.Description

	// Aliases are implementation-declared alias pairs, in priority
	// order.  They rank below everything configuration declares.
	Aliases []Pair

	// ProviderFields are implementation-declared provider-specific
	// fields, namespaced under the deployment's prefix.
	ProviderFields []string

	// LengthAliases are implementation-declared length pairs, in
	// priority order below configured ones.
	LengthAliases []LengthPair

	// Required lists entry-type-specific fields that responses
	// must always carry, in addition to the fixed top-level set.
	Required []string
}

// Deployment describes what one installation's configuration adds to
// a Definition.  The alias and length maps come from configuration
// files; within each map, pairs are ordered by sorted canonical name
// so that table construction is deterministic.
type Deployment struct {
	// Prefix is the deployment's provider prefix, without the
	// surrounding underscores.  It may be empty only if no
	// provider fields are declared anywhere.
	Prefix string

	// ExtraPrefixes are additional provider prefixes this
	// deployment recognizes beyond its own.
	ExtraPrefixes []string

	// Aliases maps canonical names to backend names.
	Aliases map[string]string

	// ProviderFields are configuration-declared provider-specific
	// fields.  They take priority over everything else.
	ProviderFields []string

	// LengthAliases maps countable canonical fields to the backend
	// fields storing their lengths.
	LengthAliases map[string]string
}

// Mapper resolves field names, attribute membership, and record
// reshaping for one entry type in one deployment.  The zero value is
// not usable; call New.
type Mapper struct {
	def Definition
	dep Deployment

	aliasOnce  sync.Once
	aliases    *Table
	lengthOnce sync.Once
	lengths    *LengthTable
	attrOnce   sync.Once
	attrs      map[string]bool
	reqOnce    sync.Once
	required   map[string]bool
	prefixOnce sync.Once
	prefixes   map[string]bool
}

// New builds a Mapper for def as deployed per dep.  It validates the
// provider prefix if one is set, and requires one if any provider
// fields are declared.
func New(def Definition, dep Deployment) (*Mapper, error) {
	if dep.Prefix == "" {
		if len(dep.ProviderFields) > 0 || len(def.ProviderFields) > 0 {
			return nil, ErrNoPrefix
		}
	} else if err := ValidatePrefix(dep.Prefix); err != nil {
		return nil, err
	}
	for _, prefix := range dep.ExtraPrefixes {
		if err := ValidatePrefix(prefix); err != nil {
			return nil, err
		}
	}
	return &Mapper{def: def, dep: dep}, nil
}

// EntryType returns the entry type name the mapper serves.
func (m *Mapper) EntryType() string {
	return m.def.EntryType
}

// Description returns the entry type's human-readable summary.
func (m *Mapper) Description() string {
	return m.def.Description
}

// Schema returns the entry type's attribute description.
func (m *Mapper) Schema() schema.Description {
	return m.def.Schema
}

// table returns the effective alias table, building it on first use.
func (m *Mapper) table() *Table {
	m.aliasOnce.Do(func() {
		pairs := make([]Pair, 0,
			len(m.dep.ProviderFields)+len(m.def.ProviderFields)+
				len(m.dep.Aliases)+len(m.def.Aliases))
		pairs = append(pairs, providerPairs(m.dep.Prefix, m.dep.ProviderFields)...)
		pairs = append(pairs, providerPairs(m.dep.Prefix, m.def.ProviderFields)...)
		pairs = append(pairs, sortedPairs(m.dep.Aliases)...)
		pairs = append(pairs, m.def.Aliases...)
		m.aliases = NewTable(pairs)
	})
	return m.aliases
}

// lengthTable returns the effective length table, building it on
// first use.
func (m *Mapper) lengthTable() *LengthTable {
	m.lengthOnce.Do(func() {
		pairs := make([]LengthPair, 0,
			len(m.dep.LengthAliases)+len(m.def.LengthAliases))
		pairs = append(pairs, sortedLengthPairs(m.dep.LengthAliases)...)
		pairs = append(pairs, m.def.LengthAliases...)
		m.lengths = NewLengthTable(pairs)
	})
	return m.lengths
}

// BackendField maps a canonical field name to the backend name that
// stores it.  Unaliased names pass through unchanged; dotted paths
// map only their first segment.
func (m *Mapper) BackendField(field string) string {
	return m.table().ToBackend(field)
}

// CanonicalField maps a backend field name to its canonical form,
// with the same pass-through and dotted-path rules as BackendField.
func (m *Mapper) CanonicalField(field string) string {
	return m.table().ToCanonical(field)
}

// LengthAlias returns the backend field storing the length of a
// countable canonical field.  The second return is false when no
// length alias exists.
func (m *Mapper) LengthAlias(field string) (string, bool) {
	return m.lengthTable().Lookup(field)
}

// AllAttributes returns the set of every canonical attribute name the
// entry type can serve: schema attributes, the canonical side of each
// alias pair, and the namespaced provider fields.  The returned map is
// memoized and shared between calls; callers must treat it as
// read-only.
func (m *Mapper) AllAttributes() map[string]bool {
	m.attrOnce.Do(func() {
		table := m.table()
		attrs := make(map[string]bool, len(m.def.Schema)+table.Len())
		for name := range m.def.Schema {
			attrs[name] = true
		}
		for _, pair := range table.pairs {
			attrs[pair.Canonical] = true
		}
		m.attrs = attrs
	})
	return m.attrs
}

// RequiredFields returns the fields every response for this entry
// type must carry: the fixed top-level set ("id", "type",
// "relationships", "links") plus the definition's required response
// fields.  The returned map is memoized and shared; treat it as
// read-only.
func (m *Mapper) RequiredFields() map[string]bool {
	m.reqOnce.Do(func() {
		required := make(map[string]bool, len(topLevelFields)+len(m.def.Required))
		for _, field := range topLevelFields {
			required[field] = true
		}
		for _, field := range m.def.Required {
			required[field] = true
		}
		m.required = required
	})
	return m.required
}

// Prefixes returns the set of provider prefixes this deployment
// recognizes: its own prefix (when set) plus any extra configured
// ones.  The returned map is memoized and shared; treat it as
// read-only.
func (m *Mapper) Prefixes() map[string]bool {
	m.prefixOnce.Do(func() {
		prefixes := make(map[string]bool, 1+len(m.dep.ExtraPrefixes))
		if m.dep.Prefix != "" {
			prefixes[m.dep.Prefix] = true
		}
		for _, prefix := range m.dep.ExtraPrefixes {
			prefixes[prefix] = true
		}
		m.prefixes = prefixes
	})
	return m.prefixes
}
