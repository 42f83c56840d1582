// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cif renders canonical structures entries as
// Crystallographic Information File text.
//
// The rendering follows the conventions of ase.io.cif: a data block
// named after the entry ID; cell parameters derived from the lattice
// vectors when the structure is periodic in all three directions; and
// one atom site row per occupying species, with partial occupancies
// taken from the species concentrations and wholly vacant fractions
// skipped.
package cif

import (
	"fmt"
	"math"
	"strings"

	"github.com/diffeo/go-strata/strata"
	"github.com/mitchellh/mapstructure"
)

// vacancy is the chemical symbol marking an unoccupied fraction of a
// site.
const vacancy = "vacancy"

// header opens every rendered file.
const header = `#
# Created from a strata structures entry.
#
`

// symmetryBlock follows the cell parameters.  Without symmetry
// information every structure is rendered in space group P 1.
const symmetryBlock = `_symmetry_space_group_name_H-M    'P 1'
_symmetry_int_tables_number       1

loop_
  _symmetry_equiv_pos_as_xyz
  'x, y, z'

`

// siteLoopHeader declares the columns of the atom site loop.
const siteLoopHeader = `loop_
  _atom_site_label
  _atom_site_occupancy
  _atom_site_Cartn_x
  _atom_site_Cartn_y
  _atom_site_Cartn_z
  _atom_site_thermal_displace_type
  _atom_site_B_iso_or_equiv
  _atom_site_type_symbol
`

// Species describes one chemical species that may occupy sites, and
// the relative concentration of each of its chemical symbols.
type Species struct {
	Name            string    `mapstructure:"name"`
	ChemicalSymbols []string  `mapstructure:"chemical_symbols"`
	Concentration   []float64 `mapstructure:"concentration"`
}

// hasVacancy reports whether any fraction of the species' sites is
// vacant.
func (sp Species) hasVacancy() bool {
	for _, symbol := range sp.ChemicalSymbols {
		if symbol == vacancy {
			return true
		}
	}
	return false
}

// label picks the atom site label for one symbol of the species: the
// species name, unless several real symbols share the site, in which
// case each gets a numbered symbol label.
func (sp Species) label(index int) string {
	if len(sp.ChemicalSymbols) <= 1 {
		return sp.Name
	}
	if len(sp.ChemicalSymbols) == 2 && sp.hasVacancy() {
		return sp.Name
	}
	return fmt.Sprintf("%v%v", sp.ChemicalSymbols[index], index+1)
}

// Structure is the subset of a structures entry's attributes that the
// CIF rendering consumes.
type Structure struct {
	DimensionTypes         []int       `mapstructure:"dimension_types"`
	LatticeVectors         [][]float64 `mapstructure:"lattice_vectors"`
	CartesianSitePositions [][]float64 `mapstructure:"cartesian_site_positions"`
	NSites                 int         `mapstructure:"nsites"`
	Species                []Species   `mapstructure:"species"`
	SpeciesAtSites         []string    `mapstructure:"species_at_sites"`
}

// Fields returns the canonical attribute names the CIF rendering
// reads.  Info documents advertise these as the format's output
// fields.
func Fields() []string {
	return []string{
		"dimension_types",
		"lattice_vectors",
		"cartesian_site_positions",
		"nsites",
		"species",
		"species_at_sites",
	}
}

// FromResource renders a canonical structures resource as CIF text.
func FromResource(resource strata.Document) (string, error) {
	id, _ := resource.ID()
	attrs, ok := resource.Attributes()
	if !ok {
		return "", fmt.Errorf("structures entry %v has no attributes", id)
	}
	structure, err := DecodeStructure(attrs)
	if err != nil {
		return "", fmt.Errorf("structures entry %v: %v", id, err)
	}
	return structure.Render(id)
}

// DecodeStructure converts the attributes of a canonical structures
// resource into typed form.  Attributes the rendering does not use are
// ignored.
func DecodeStructure(attrs map[string]interface{}) (*Structure, error) {
	var result Structure
	config := mapstructure.DecoderConfig{
		Result: &result,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(attrs); err != nil {
		return nil, err
	}
	return &result, nil
}

// Render produces the CIF text for a structure whose data block is
// named id.
func (s *Structure) Render(id string) (string, error) {
	species := make(map[string]Species, len(s.Species))
	for _, sp := range s.Species {
		species[sp.Name] = sp
	}

	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "data_%v\n\n", id)

	if s.periodic() {
		lengths, angles := cellParameters(s.LatticeVectors)
		fmt.Fprintf(&b, "_cell_length_a                    %.6g\n", lengths[0])
		fmt.Fprintf(&b, "_cell_length_b                    %.6g\n", lengths[1])
		fmt.Fprintf(&b, "_cell_length_c                    %.6g\n", lengths[2])
		fmt.Fprintf(&b, "_cell_angle_alpha                 %.6g\n", angles[0])
		fmt.Fprintf(&b, "_cell_angle_beta                  %.6g\n", angles[1])
		fmt.Fprintf(&b, "_cell_angle_gamma                 %.6g\n\n", angles[2])
		b.WriteString(symmetryBlock)
	}

	b.WriteString(siteLoopHeader)

	for i, name := range s.SpeciesAtSites {
		sp, known := species[name]
		if !known {
			return "", fmt.Errorf("site %v names unknown species %q", i, name)
		}
		site := row(s.CartesianSitePositions, i)
		for index, symbol := range sp.ChemicalSymbols {
			if symbol == vacancy {
				continue
			}
			if index >= len(sp.Concentration) {
				return "", fmt.Errorf("species %q has no concentration for %q", name, symbol)
			}
			fmt.Fprintf(&b, "  %-8v %6.4f %8.5f  %8.5f  %8.5f  %-4v  %-6v  %v\n",
				sp.label(index), sp.Concentration[index],
				component(site, 0), component(site, 1), component(site, 2),
				"Biso", "1.000", symbol)
		}
	}
	return b.String(), nil
}

// periodic reports whether the structure repeats in all three lattice
// directions.  Cell parameters only make sense when it does.
func (s *Structure) periodic() bool {
	sum := 0
	for _, d := range s.DimensionTypes {
		sum += d
	}
	return sum == 3
}

// cellParameters converts three lattice vectors to the a, b, c cell
// lengths and the alpha, beta, gamma angles in degrees.  Angles next
// to a degenerate vector come out as 90 degrees.
func cellParameters(cell [][]float64) (lengths, angles [3]float64) {
	for i := 0; i < 3; i++ {
		lengths[i] = norm(row(cell, i))
	}
	for i := 0; i < 3; i++ {
		j := (i + 2) % 3
		k := (i + 1) % 3
		ll := lengths[j] * lengths[k]
		if ll > 1e-16 {
			x := dot(row(cell, j), row(cell, k)) / ll
			// Rounding can push the cosine just out of range,
			// where Acos is undefined.
			x = math.Max(-1.0, math.Min(1.0, x))
			angles[i] = 180.0 / math.Pi * math.Acos(x)
		} else {
			angles[i] = 90.0
		}
	}
	return
}

// row returns the i'th row of a vector list, or nil past the end.
func row(vectors [][]float64, i int) []float64 {
	if i >= len(vectors) {
		return nil
	}
	return vectors[i]
}

// component returns the i'th component of a vector, padding missing
// components with zero.
func component(v []float64, i int) float64 {
	if i >= len(v) {
		return 0
	}
	return v[i]
}

// dot is the three-component dot product of two vectors.
func dot(a, b []float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		sum += component(a, i) * component(b, i)
	}
	return sum
}

// norm is the Euclidean length of a vector.
func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
