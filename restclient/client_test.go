// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/memory"
	"github.com/diffeo/go-strata/restserver"
	"github.com/diffeo/go-strata/strata"
)

// startServer runs a whole strata REST stack over memory storage and
// returns a client opened against it.
func startServer(t *testing.T) *Client {
	deps := map[string]mapper.Deployment{
		strata.StructuresType: {
			Prefix:         "exmpl",
			Aliases:        map[string]string{"elements": "custom_elements_field"},
			ProviderFields: []string{"hull_distance"},
		},
	}
	mappers, err := strata.NewMappers(strata.Definitions(), deps)
	require.NoError(t, err)

	storage := memory.New(mappers)
	server := httptest.NewServer(restserver.NewRouter(storage, restserver.Options{}))
	t.Cleanup(server.Close)

	client, err := Open(context.Background(), server.URL+"/")
	require.NoError(t, err)
	return client
}

func loadFixtures(t *testing.T, client *Client) {
	resp, err := client.Insert(context.Background(), strata.StructuresType, []strata.Document{
		{
			"id":                    "x1",
			"custom_elements_field": []interface{}{"Na", "Cl"},
			"nelements":             2,
			"hull_distance":         0.1,
		},
		{
			"id":                    "x2",
			"custom_elements_field": []interface{}{"Si"},
			"nelements":             1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Inserted)
}

func TestGet(t *testing.T) {
	client := startServer(t)
	loadFixtures(t, client)

	entry, err := client.Get(context.Background(), strata.StructuresType, "x1")
	require.NoError(t, err)
	assert.Equal(t, "x1", entry.Data["id"])
	assert.Equal(t, "structures", entry.Data["type"])

	attrs, ok := entry.Data.Attributes()
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Na", "Cl"}, attrs["elements"])
	assert.Equal(t, "_exmpl_hull_distance", canonicalKeyFor(attrs, 0.1))
}

// canonicalKeyFor finds the attribute name carrying value, so the test
// does not depend on numeric decoding details.
func canonicalKeyFor(attrs strata.Document, value float64) string {
	for key, v := range attrs {
		if f, ok := v.(float64); ok && f == value {
			return key
		}
	}
	return ""
}

func TestGetMissing(t *testing.T) {
	client := startServer(t)
	_, err := client.Get(context.Background(), strata.StructuresType, "nope")
	assert.Equal(t, strata.ErrNoSuchEntry{EntryType: "structures", ID: "nope"}, err)
}

func TestList(t *testing.T) {
	client := startServer(t)
	loadFixtures(t, client)

	listing, err := client.List(context.Background(), strata.StructuresType, ListOptions{
		Filters: map[string]string{"elements": "Na"},
	})
	require.NoError(t, err)
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "x1", listing.Data[0]["id"])
	assert.Equal(t, 1, listing.Meta.DataReturned)
	assert.Equal(t, 1, listing.Meta.DataAvailable)
	assert.False(t, listing.Meta.MoreDataAvailable)
}

func TestListPagination(t *testing.T) {
	client := startServer(t)
	loadFixtures(t, client)
	ctx := context.Background()

	page, err := client.List(ctx, strata.StructuresType, ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Meta.MoreDataAvailable)
	assert.Equal(t, 2, page.Meta.DataAvailable)

	next, more, err := client.ListNext(ctx, page)
	require.NoError(t, err)
	require.True(t, more)
	require.Len(t, next.Data, 1)
	assert.NotEqual(t, page.Data[0]["id"], next.Data[0]["id"])

	_, more, err = client.ListNext(ctx, next)
	require.NoError(t, err)
	assert.False(t, more)
}

func TestListBadField(t *testing.T) {
	client := startServer(t)
	_, err := client.List(context.Background(), strata.StructuresType, ListOptions{
		Filters: map[string]string{"bogus": "1"},
	})
	assert.Equal(t, strata.ErrUnknownField{EntryType: "structures", Field: "bogus"}, err)
}

func TestInfo(t *testing.T) {
	client := startServer(t)

	info, err := client.Info(context.Background())
	require.NoError(t, err)
	assert.Contains(t, info.Data.Attributes.AvailableEndpoints, "structures")
	assert.Contains(t, info.Data.Attributes.Formats, "json")

	entryInfo, err := client.EntryInfo(context.Background(), strata.StructuresType)
	require.NoError(t, err)
	assert.Contains(t, entryInfo.Data.Properties, "elements")
	assert.Contains(t, entryInfo.Data.Properties, "_exmpl_hull_distance")
}

func TestUnknownEntryType(t *testing.T) {
	client := startServer(t)
	_, err := client.List(context.Background(), "bogus", ListOptions{})
	assert.Equal(t, strata.ErrNoSuchEntryType{Name: "bogus"}, err)
}
