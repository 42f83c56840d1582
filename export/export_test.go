// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/schema"
	"github.com/diffeo/go-strata/strata"
)

func testMapper(t *testing.T) *mapper.Mapper {
	def := mapper.Definition{
		EntryType: "structures",
		Schema: schema.Description{
			"elements":  {Type: schema.List},
			"nelements": {Type: schema.Integer},
		},
	}
	m, err := mapper.New(def, mapper.Deployment{})
	require.NoError(t, err)
	return m
}

func TestListing(t *testing.T) {
	m := testMapper(t)
	docs := []strata.Document{
		{
			"id":   "s1",
			"type": "structures",
			"attributes": map[string]interface{}{
				"elements":  []interface{}{"Na", "Cl"},
				"nelements": 2,
			},
		},
		{
			"id":         "s2",
			"type":       "structures",
			"attributes": map[string]interface{}{"nelements": 1},
		},
	}

	data, err := Listing(m, docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("structures")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "type", "elements", "nelements"}, rows[0])
	assert.Equal(t, []string{"s1", "structures", "Na,Cl", "2"}, rows[1])
	// The second row has no elements; trailing cells may be trimmed.
	assert.Equal(t, "s2", rows[2][0])
}

func TestListingEmpty(t *testing.T) {
	m := testMapper(t)
	data, err := Listing(m, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("structures")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id", "type", "elements", "nelements"}, rows[0])
}
