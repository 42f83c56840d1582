// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

func testStorage(t *testing.T) strata.Storage {
	mappers, err := strata.NewMappers(strata.Definitions(), map[string]mapper.Deployment{
		strata.StructuresType: {
			Prefix:         "exmpl",
			ProviderFields: []string{"hull_distance"},
			Aliases:        map[string]string{"elements": "custom_elements_field"},
		},
	})
	require.NoError(t, err)
	return New(mappers)
}

func testCollection(t *testing.T) strata.Collection {
	c, err := testStorage(t).Collection(strata.StructuresType)
	require.NoError(t, err)
	return c
}

func structureDocs() []strata.Document {
	return []strata.Document{
		{
			"_id":                   "m1",
			"id":                    "alpha",
			"custom_elements_field": []interface{}{"Na", "Cl"},
			"nelements":             2,
			"nsites":                2,
			"hull_distance":         0.05,
			"structure_features":    []interface{}{},
		},
		{
			"_id":                   "m2",
			"id":                    "beta",
			"custom_elements_field": []interface{}{"O", "Si"},
			"nelements":             2,
			"nsites":                6,
			"structure_features":    []interface{}{"disorder"},
		},
		{
			"_id":                   "m3",
			"id":                    "gamma",
			"custom_elements_field": []interface{}{"Fe"},
			"nelements":             1,
			"nsites":                1,
			"structure_features":    []interface{}{},
		},
	}
}

func TestStorageShape(t *testing.T) {
	s := testStorage(t)
	assert.Equal(t, []string{"links", "references", "structures"}, s.EntryTypes())
	assert.NoError(t, s.CheckHealth())
	assert.NoError(t, s.Close())

	_, err := s.Collection("molecules")
	assert.Equal(t, strata.ErrNoSuchEntryType{Name: "molecules"}, err)
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	resource, err := c.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", resource["id"])
	assert.Equal(t, "structures", resource["type"])

	attrs, ok := resource.Attributes()
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Na", "Cl"}, attrs["elements"])
	assert.Equal(t, 0.05, attrs["_exmpl_hull_distance"])
	assert.NotContains(t, attrs, "custom_elements_field")
	assert.NotContains(t, resource, "_id")

	_, err = c.Get(ctx, "missing")
	assert.Equal(t, strata.ErrNoSuchEntry{EntryType: "structures", ID: "missing"}, err)
}

func TestGetThroughAliasedID(t *testing.T) {
	ctx := context.Background()
	m, err := mapper.New(strata.Structures(), mapper.Deployment{
		Aliases: map[string]string{"id": "task_id"},
	})
	require.NoError(t, err)
	s := New(map[string]*mapper.Mapper{strata.StructuresType: m})
	c, err := s.Collection(strata.StructuresType)
	require.NoError(t, err)

	require.NoError(t, c.Insert(ctx, []strata.Document{{"task_id": "mp-149", "nsites": 2}}))
	resource, err := c.Get(ctx, "mp-149")
	require.NoError(t, err)
	assert.Equal(t, "mp-149", resource["id"])
}

func TestInsertCopiesDocuments(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	doc := strata.Document{"id": "alpha", "nsites": 2}
	require.NoError(t, c.Insert(ctx, []strata.Document{doc}))
	doc["nsites"] = 99

	resource, err := c.Get(ctx, "alpha")
	require.NoError(t, err)
	attrs, _ := resource.Attributes()
	assert.Equal(t, 2, attrs["nsites"])
}

func TestInsertNilDocument(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	err := c.Insert(ctx, []strata.Document{{"id": "ok"}, nil})
	assert.Equal(t, strata.ErrBadDocument, err)

	// The batch is rejected as a whole.
	count, err := c.Count(ctx, strata.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFindFilters(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	tests := []struct {
		name string
		cond strata.Condition
		want []string
	}{
		{"eq", strata.Condition{Field: "nelements", Op: strata.Eq, Value: 2}, []string{"alpha", "beta"}},
		{"not eq", strata.Condition{Field: "id", Op: strata.NotEq, Value: "beta"}, []string{"alpha", "gamma"}},
		{"lt", strata.Condition{Field: "nsites", Op: strata.Lt, Value: 2}, []string{"gamma"}},
		{"gte", strata.Condition{Field: "nsites", Op: strata.GtEq, Value: 2}, []string{"alpha", "beta"}},
		{"has aliased", strata.Condition{Field: "elements", Op: strata.Has, Value: "Si"}, []string{"beta"}},
		{"provider field", strata.Condition{Field: "_exmpl_hull_distance", Op: strata.LtEq, Value: 0.1}, []string{"alpha"}},
		{"eq missing field", strata.Condition{Field: "_exmpl_hull_distance", Op: strata.Eq, Value: 0.05}, []string{"alpha"}},
		{"not eq missing field", strata.Condition{Field: "_exmpl_hull_distance", Op: strata.NotEq, Value: 0.05}, []string{"beta", "gamma"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			results, err := c.Find(ctx, strata.Query{
				Filter: []strata.Condition{test.cond},
				Sort:   []strata.Sort{{Field: "id"}},
			})
			require.NoError(t, err)
			assert.Equal(t, test.want, resultIDs(results))
		})
	}
}

func TestFindLengthAlias(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)

	// nelements deliberately disagrees with the actual list length
	// to prove the precomputed field is what answers the query.
	require.NoError(t, c.Insert(ctx, []strata.Document{
		{"id": "odd", "custom_elements_field": []interface{}{"Na", "Cl"}, "nelements": 5},
	}))

	results, err := c.Find(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "elements", Op: strata.Length, Value: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, resultIDs(results))

	results, err = c.Find(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "elements", Op: strata.Length, Value: 2}},
	})
	require.NoError(t, err)
	assert.Empty(t, results.Documents)
}

func TestFindLengthFallback(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, []strata.Document{
		{"id": "s1", "species": []interface{}{map[string]interface{}{"name": "Na"}}},
		{"id": "s2", "species": []interface{}{}},
	}))

	// No length alias for species; the list itself is counted.
	results, err := c.Find(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "species", Op: strata.Length, Value: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, resultIDs(results))
}

func TestFindSort(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	results, err := c.Find(ctx, strata.Query{
		Sort: []strata.Sort{{Field: "nsites", Descending: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, resultIDs(results))

	results, err = c.Find(ctx, strata.Query{
		Sort: []strata.Sort{{Field: "nelements"}, {Field: "id", Descending: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "beta", "alpha"}, resultIDs(results))
}

func TestFindPaging(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	q := strata.Query{Sort: []strata.Sort{{Field: "id"}}, Limit: 2}
	results, err := c.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, resultIDs(results))
	assert.Equal(t, 3, results.Available)
	assert.True(t, results.More)

	q.Offset = 2
	results, err = c.Find(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma"}, resultIDs(results))
	assert.False(t, results.More)

	q.Offset = 10
	results, err = c.Find(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, results.Documents)
	assert.False(t, results.More)
	assert.Equal(t, 3, results.Available)
}

func TestFindProjection(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	results, err := c.Find(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "id", Op: strata.Eq, Value: "beta"}},
		Fields: []string{"nelements"},
	})
	require.NoError(t, err)
	require.Len(t, results.Documents, 1)

	resource := results.Documents[0]
	assert.Equal(t, "beta", resource["id"])
	attrs, _ := resource.Attributes()
	assert.Equal(t, 2, attrs["nelements"])
	// structure_features is a required response field and survives
	// any projection.
	assert.Equal(t, []interface{}{"disorder"}, attrs["structure_features"])
	assert.NotContains(t, attrs, "elements")
	assert.NotContains(t, attrs, "nsites")
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	c := testCollection(t)
	require.NoError(t, c.Insert(ctx, structureDocs()))

	count, err := c.Count(ctx, strata.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = c.Count(ctx, strata.Query{
		Filter: []strata.Condition{{Field: "nelements", Op: strata.Eq, Value: 2}},
		// Paging does not affect counting.
		Limit:  1,
		Offset: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func resultIDs(results *strata.Results) []string {
	ids := make([]string, 0, len(results.Documents))
	for _, doc := range results.Documents {
		id, _ := doc.ID()
		ids = append(ids, id)
	}
	return ids
}
