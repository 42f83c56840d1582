// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/strata"
)

func TestNormalizeMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"application/json", V1JSONMediaType},
		{"text/json", V1JSONMediaType},
		{"application/json; charset=utf-8", V1JSONMediaType},
		{JSONMediaType, V1JSONMediaType},
		{JSONAPIMediaType, V1JSONMediaType},
		{V1JSONMediaType, V1JSONMediaType},
		{CIFMediaType, CIFMediaType},
		{XLSXMediaType, XLSXMediaType},
	}
	for _, test := range tests {
		got, err := NormalizeMediaType(test.in)
		if assert.NoError(t, err, "type %q", test.in) {
			assert.Equal(t, test.want, got)
		}
	}

	_, err := NormalizeMediaType("application/xml")
	assert.Equal(t, ErrUnsupportedMediaType{Type: "application/xml"}, err)

	_, err = NormalizeMediaType("")
	assert.Equal(t, ErrUnsupportedMediaType{Type: "application/octet-stream"}, err)
}

func TestDecodeDocuments(t *testing.T) {
	body := `{"data": [{"id": "abc", "attributes": {"nelements": 2, "species": [{"name": "Na"}]}}]}`
	var resp EntryResponseMany
	err := Decode("application/json", strings.NewReader(body), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)

	doc := resp.Data[0]
	assert.Equal(t, "abc", doc["id"])

	// Nested untyped objects decode as map[string]interface{}, the
	// strata.Document shape.
	attrs, ok := doc.Attributes()
	require.True(t, ok, "attributes did not decode as map[string]interface{}")
	list, ok := attrs["species"].([]interface{})
	require.True(t, ok)
	_, ok = list[0].(map[string]interface{})
	assert.True(t, ok, "nested object did not decode as map[string]interface{}")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	next := "/v1/structures?page_offset=2"
	resp := EntryResponseMany{
		Links: &ResponseLinks{Next: &next},
		Data: []strata.Document{
			{"id": "abc", "type": "structures", "attributes": map[string]interface{}{"nsites": int64(4)}},
		},
		Meta: Meta{
			Query:         MetaQuery{Representation: "/v1/structures"},
			APIVersion:    "1.0.0",
			DataReturned:  1,
			DataAvailable: 1,
			Provider:      &Provider{Name: "Example", Prefix: "exmpl"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(JSONMediaType, &buf, resp))

	var back EntryResponseMany
	require.NoError(t, Decode(V1JSONMediaType, &buf, &back))
	require.NotNil(t, back.Links)
	require.NotNil(t, back.Links.Next)
	assert.Equal(t, next, *back.Links.Next)
	assert.Equal(t, 1, back.Meta.DataReturned)
	assert.Equal(t, "exmpl", back.Meta.Provider.Prefix)
	require.Len(t, back.Data, 1)
	assert.Equal(t, "structures", back.Data[0]["type"])
}

func TestEncodeRenderOnlyTypes(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(CIFMediaType, &buf, EntryResponseOne{})
	assert.Equal(t, ErrUnsupportedMediaType{Type: CIFMediaType}, err)

	err = Decode(XLSXMediaType, strings.NewReader(""), &EntryResponseMany{})
	assert.Equal(t, ErrUnsupportedMediaType{Type: XLSXMediaType}, err)
}

func TestDecodeBadContentType(t *testing.T) {
	err := Decode("not a media type;;;", strings.NewReader("{}"), &EntryResponseOne{})
	var bad ErrBadRequest
	assert.ErrorAs(t, err, &bad)
}
