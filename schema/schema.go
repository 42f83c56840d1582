// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package schema declares the canonical attributes of an entry type.
// A Description maps each canonical attribute name to its Property
// metadata: a human-readable description, an optional physical unit,
// a value type, and whether collections may sort on it.  Descriptions
// are plain values; the mapping layer receives one explicitly when an
// entry type is defined, and the REST layer renders one into the
// per-entry-type info document.
//
// Nothing here is discovered by reflection.  If an entry type grows a
// new attribute, its Description says so, and every derived view
// (attribute sets, info documents, export headers) follows.
package schema

import "sort"

// Type describes the shape of an attribute value as it appears in the
// canonical JSON form.
type Type string

// Value types for Property.Type.
const (
	String    Type = "string"
	Integer   Type = "integer"
	Float     Type = "float"
	Boolean   Type = "boolean"
	List      Type = "list"
	Dict      Type = "dictionary"
	Timestamp Type = "timestamp"
)

// Property holds the metadata for one canonical attribute.
type Property struct {
	// Description is a human-readable summary of the attribute.
	Description string

	// Unit names the physical unit of the value, if any ("Å",
	// "degrees").  Empty means the value is dimensionless.
	Unit string

	// Type is the canonical value type.
	Type Type

	// Sortable reports whether collections can order results by
	// this attribute.
	Sortable bool
}

// Description maps canonical attribute names to their metadata.  It is
// the complete statement of an entry type's own attributes; aliased
// and provider-specific names are layered on top by the mapping
// package.
type Description map[string]Property

// Fields returns the canonical attribute names in sorted order.  The
// ordering is deterministic so that derived listings (info documents,
// export column headers) are stable across runs.
func (d Description) Fields() []string {
	fields := make([]string, 0, len(d))
	for name := range d {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// Has reports whether name is declared in the description.
func (d Description) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// Sortable returns the sortable attribute names in sorted order.
func (d Description) Sortable() []string {
	fields := make([]string, 0, len(d))
	for name, prop := range d {
		if prop.Sortable {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return fields
}
