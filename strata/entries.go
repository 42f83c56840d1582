// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package strata

import (
	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/schema"
)

// Shipped entry type names.
const (
	StructuresType = "structures"
	ReferencesType = "references"
	LinksType      = "links"
)

// Structures returns the shipped definition of the "structures" entry
// type.  The length aliases let a length constraint on a list field
// be served by its precomputed counter; structure_features is always
// included in responses because consumers need it to interpret
// partial occupancy and assemblies.
func Structures() mapper.Definition {
	return mapper.Definition{
		EntryType:   StructuresType,
		Description: "Crystal structures: sites, species, and cell geometry",
		Schema:      schema.Structures(),
		LengthAliases: []mapper.LengthPair{
			{Countable: "elements", Length: "nelements"},
			{Countable: "elements_ratios", Length: "nelements"},
			{Countable: "cartesian_site_positions", Length: "nsites"},
			{Countable: "species_at_sites", Length: "nsites"},
		},
		Required: []string{"structure_features"},
	}
}

// References returns the shipped definition of the "references" entry
// type.
func References() mapper.Definition {
	return mapper.Definition{
		EntryType:   ReferencesType,
		Description: "Bibliographic references backing other entries",
		Schema:      schema.References(),
		LengthAliases: []mapper.LengthPair{
			{Countable: "authors", Length: "nauthors"},
		},
	}
}

// Links returns the shipped definition of the "links" entry type.
func Links() mapper.Definition {
	return mapper.Definition{
		EntryType:   LinksType,
		Description: "Links to related services and sibling deployments",
		Schema:      schema.Links(),
	}
}

// Definitions returns every shipped entry type definition, keyed by
// entry type name.  The map is freshly built on each call; callers
// may modify it.
func Definitions() map[string]mapper.Definition {
	return map[string]mapper.Definition{
		StructuresType: Structures(),
		ReferencesType: References(),
		LinksType:      Links(),
	}
}

// EntryTypes returns the shipped entry type names, sorted.
func EntryTypes() []string {
	return SortedEntryTypes(Definitions())
}
