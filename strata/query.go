// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package strata

// Operator is a comparison in a query condition.
type Operator int

// Comparison operators for Condition.  Has tests list membership;
// Length constrains the number of members in a list-valued field, and
// backends serve it from a length alias when the mapper has one.
const (
	Eq Operator = iota
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Has
	Length
)

// Condition constrains one canonical field.  Field may be a dotted
// path into nested values.
type Condition struct {
	Field string
	Op    Operator
	Value interface{}
}

// Sort orders results by one canonical field.
type Sort struct {
	Field      string
	Descending bool
}

// Query selects, orders, and pages records.  Every field name in it
// is canonical; backends translate to their own field names through
// the collection's mapper.  Conditions in Filter are ANDed together.
//
// An empty Fields slice means the whole resource; otherwise only the
// named attributes (plus the mapper's required response fields) are
// returned.  A Limit of zero or less means no limit.
type Query struct {
	Filter []Condition
	Fields []string
	Sort   []Sort
	Offset int
	Limit  int
}

// WithID returns a query selecting the single record whose canonical
// "id" equals id.
func WithID(id string) Query {
	return Query{
		Filter: []Condition{{Field: "id", Op: Eq, Value: id}},
		Limit:  1,
	}
}
