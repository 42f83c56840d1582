// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package stratatest

import (
	"context"

	"github.com/diffeo/go-strata/strata"
)

// TestStorageShape checks the storage's collection roster and health.
func (s *Suite) TestStorageShape() {
	s.Equal(strata.EntryTypes(), s.Storage.EntryTypes())
	s.NoError(s.Storage.CheckHealth())

	for _, entryType := range s.Storage.EntryTypes() {
		c, err := s.Storage.Collection(entryType)
		if s.NoError(err) {
			s.Equal(entryType, c.Mapper().EntryType())
		}
	}

	_, err := s.Storage.Collection("molecules")
	s.Equal(strata.ErrNoSuchEntryType{Name: "molecules"}, err)
}

// TestInsertAndGet stores backend-form records and retrieves one as a
// canonical resource.
func (s *Suite) TestInsertAndGet() {
	c := s.insertFixtures()

	resource, err := c.Get(context.Background(), "alpha")
	s.Require().NoError(err)
	s.Equal("alpha", resource["id"])
	s.Equal("structures", resource["type"])
	s.NotContains(resource, "_id")

	attrs := s.attributes(resource)
	// EqualValues, not Equal: some backends return lists as their own
	// named slice types.
	s.EqualValues([]interface{}{"Cl", "Na"}, attrs["elements"])
	s.NotContains(attrs, "custom_elements_field")
	s.EqualValues(0.05, attrs["_exmpl_hull_distance"])
	s.NotContains(attrs, "hull_distance")
	s.EqualValues(2, attrs["nsites"])
}

// TestGetMissing checks the error for an absent record.
func (s *Suite) TestGetMissing() {
	c := s.insertFixtures()

	_, err := c.Get(context.Background(), "missing")
	s.Equal(strata.ErrNoSuchEntry{EntryType: "structures", ID: "missing"}, err)
}

// TestFindAll retrieves every record with no filter.
func (s *Suite) TestFindAll() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{Sort: byID()})
	s.Equal([]string{"alpha", "beta", "gamma"}, s.ids(results))
	s.Equal(3, results.Available)
	s.False(results.More)
}

// TestFilterEq checks equality filters on schema fields.
func (s *Suite) TestFilterEq() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "nsites", Op: strata.Eq, Value: 6}},
	})
	s.Equal([]string{"beta"}, s.ids(results))

	results = s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "id", Op: strata.Eq, Value: "gamma"}},
	})
	s.Equal([]string{"gamma"}, s.ids(results))
}

// TestFilterNotEq checks inequality filters.
func (s *Suite) TestFilterNotEq() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "nsites", Op: strata.NotEq, Value: 6}},
		Sort:   byID(),
	})
	s.Equal([]string{"alpha", "gamma"}, s.ids(results))
}

// TestFilterComparisons checks the ordering operators on an integer
// field.
func (s *Suite) TestFilterComparisons() {
	c := s.insertFixtures()
	matches := map[strata.Operator][]string{
		strata.Lt:   {"alpha", "gamma"},
		strata.LtEq: {"alpha", "beta", "gamma"},
		strata.Gt:   {},
		strata.GtEq: {"beta"},
	}

	for op, expected := range matches {
		results := s.find(c, strata.Query{
			Filter: []strata.Condition{{Field: "nsites", Op: op, Value: 6}},
			Sort:   byID(),
		})
		s.Equal(expected, s.ids(results), "operator %s", op)
	}
}

// TestFilterHas checks list membership filters through a field alias.
func (s *Suite) TestFilterHas() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "elements", Op: strata.Has, Value: "Na"}},
	})
	s.Equal([]string{"alpha"}, s.ids(results))

	results = s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "elements", Op: strata.Has, Value: "W"}},
	})
	s.Empty(s.ids(results))
	s.Equal(0, results.Available)
}

// TestFilterLength checks length filters, both through a length alias
// (elements counts via nelements) and by direct list length.
func (s *Suite) TestFilterLength() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "elements", Op: strata.Length, Value: 2}},
		Sort:   byID(),
	})
	s.Equal([]string{"alpha", "beta"}, s.ids(results))

	results = s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "structure_features", Op: strata.Length, Value: 1}},
	})
	s.Equal([]string{"beta"}, s.ids(results))
}

// TestFilterConjunction checks that multiple conditions are ANDed.
func (s *Suite) TestFilterConjunction() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{
			{Field: "nelements", Op: strata.Eq, Value: 2},
			{Field: "nsites", Op: strata.Gt, Value: 2},
		},
	})
	s.Equal([]string{"beta"}, s.ids(results))
}

// TestSort checks ascending and descending sorts.
func (s *Suite) TestSort() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Sort: []strata.Sort{{Field: "nsites"}},
	})
	s.Equal([]string{"gamma", "alpha", "beta"}, s.ids(results))

	results = s.find(c, strata.Query{
		Sort: []strata.Sort{{Field: "nsites", Descending: true}},
	})
	s.Equal([]string{"beta", "alpha", "gamma"}, s.ids(results))
}

// TestPaging walks the fixture set in pages of two.
func (s *Suite) TestPaging() {
	c := s.insertFixtures()

	page := s.find(c, strata.Query{Sort: byID(), Limit: 2})
	s.Equal([]string{"alpha", "beta"}, s.ids(page))
	s.Equal(3, page.Available)
	s.True(page.More)

	page = s.find(c, strata.Query{Sort: byID(), Offset: 2, Limit: 2})
	s.Equal([]string{"gamma"}, s.ids(page))
	s.Equal(3, page.Available)
	s.False(page.More)

	page = s.find(c, strata.Query{Sort: byID(), Offset: 5, Limit: 2})
	s.Empty(s.ids(page))
	s.Equal(3, page.Available)
	s.False(page.More)
}

// TestProjection checks that a field selection trims attributes down
// to the requested set plus the required response fields.
func (s *Suite) TestProjection() {
	c := s.insertFixtures()

	results := s.find(c, strata.Query{
		Filter: []strata.Condition{{Field: "id", Op: strata.Eq, Value: "beta"}},
		Fields: []string{"nsites"},
	})
	s.Require().Len(results.Documents, 1)
	resource := results.Documents[0]
	s.Equal("beta", resource["id"])
	s.Equal("structures", resource["type"])

	attrs := s.attributes(resource)
	s.EqualValues(6, attrs["nsites"])
	s.EqualValues([]interface{}{"disorder"}, attrs["structure_features"])
	s.NotContains(attrs, "elements")
	s.NotContains(attrs, "nelements")
}

// TestCount counts records without retrieving them.
func (s *Suite) TestCount() {
	c := s.insertFixtures()
	ctx := context.Background()

	count, err := c.Count(ctx, strata.Query{})
	s.Require().NoError(err)
	s.Equal(3, count)

	count, err = c.Count(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "nelements", Op: strata.Eq, Value: 2}},
	})
	s.Require().NoError(err)
	s.Equal(2, count)
}

// TestEmptyCollection checks queries against a collection with no
// records.
func (s *Suite) TestEmptyCollection() {
	c := s.structures()

	results := s.find(c, strata.Query{})
	s.Empty(results.Documents)
	s.Equal(0, results.Available)
	s.False(results.More)

	count, err := c.Count(context.Background(), strata.Query{})
	s.Require().NoError(err)
	s.Equal(0, count)
}

// TestInsertNil rejects a nil document.
func (s *Suite) TestInsertNil() {
	c := s.structures()
	err := c.Insert(context.Background(), []strata.Document{nil})
	s.Equal(strata.ErrBadDocument, err)
}
