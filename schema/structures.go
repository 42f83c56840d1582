// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

// Structures returns the attribute description for the "structures"
// entry type: crystallographic and compositional data for a single
// structural record.
func Structures() Description {
	return Description{
		"elements": {
			Description: "Names of the different chemical elements present, alphabetized",
			Type:        List,
			Sortable:    true,
		},
		"nelements": {
			Description: "Number of different chemical elements present",
			Type:        Integer,
			Sortable:    true,
		},
		"elements_ratios": {
			Description: "Relative proportions of the elements, in the same order as elements",
			Type:        List,
		},
		"chemical_formula_descriptive": {
			Description: "Chemical formula as a descriptive string",
			Type:        String,
			Sortable:    true,
		},
		"chemical_formula_reduced": {
			Description: "Reduced chemical formula with relative integer proportions",
			Type:        String,
			Sortable:    true,
		},
		"chemical_formula_anonymous": {
			Description: "Reduced formula with element symbols replaced by A, B, C, ...",
			Type:        String,
			Sortable:    true,
		},
		"dimension_types": {
			Description: "Periodicity flags for each lattice direction, 1 periodic and 0 not",
			Type:        List,
		},
		"lattice_vectors": {
			Description: "Three lattice vectors in Cartesian coordinates",
			Unit:        "Å",
			Type:        List,
		},
		"cartesian_site_positions": {
			Description: "Cartesian positions of each site",
			Unit:        "Å",
			Type:        List,
		},
		"nsites": {
			Description: "Number of sites",
			Type:        Integer,
			Sortable:    true,
		},
		"species": {
			Description: "Chemical species that may occupy the sites",
			Type:        List,
		},
		"species_at_sites": {
			Description: "Name of the species at each site, in the same order as cartesian_site_positions",
			Type:        List,
		},
		"assemblies": {
			Description: "Statistical sets of co-occurring sites for disordered structures",
			Type:        List,
		},
		"structure_features": {
			Description: "Special structural aspects present, such as disorder or assemblies",
			Type:        List,
		},
		"last_modified": {
			Description: "Time of the last modification of this record",
			Type:        Timestamp,
			Sortable:    true,
		},
		"immutable_id": {
			Description: "Permanent identifier for this record in the source database",
			Type:        String,
			Sortable:    true,
		},
	}
}
