// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures shared between the
// restserver and restclient packages.  Generally JSON encodings of
// these are passed across the wire as the
// application/vnd.diffeo.strata.v1+json MIME type; plain
// application/json and the JSON:API media type are accepted as
// synonyms.
//
// # API Usage
//
// HTTP GET the root document at its specified URL.  This returns a
// JSON serialization of the RootData object, whose links lead to
// everything else: the API info document, per-entry-type info
// documents, entry listings, and single entries.
//
// Several of the URL fields are RFC 6570 URI templates, URL strings
// with {parameter} segments (or {?p1,p2} query blocks).  For
// instance, if the system is rooted at /, a serialization of RootData
// will look like
//
//	{
//	    "info_url": "/v1/info",
//	    "entry_info_url": "/v1/info/{entry}",
//	    "entries_url": "/v1/{entry}{?filters*,page_offset,page_limit,sort,response_fields}",
//	    "entry_url": "/v1/{entry}/{id}"
//	}
//
// The URL structure is predictable and formulaic, but it is not part
// of the API contract; the only guarantee is that the root resource
// is a RootData serialization.
//
// # Encoding Considerations
//
// An entry ID that appears in a URL must be made of ASCII characters
// that can be represented unescaped.  Other IDs are escaped by
// encoding their byte representations using the URL-safe base64
// alphabet with no padding, and prepending a hyphen.
//
// Successful responses carry a "data" member, a "meta" member
// described by Meta, and possibly a "links" member with a "next"
// pagination link.  Timestamps are RFC 3339 strings,
// "2012-03-04T05:06:07.890Z".
//
// # Errors
//
// Errors are returned as encodings of the ErrorResponse type with a
// failing HTTP status.  The "code" of each error can round-trip the
// strata package's errors; other errors come back as plain strings.
// If Go server code panics, the response has code "panic" and, when
// the server runs in debug mode, a formatted backtrace.
package restdata

import (
	"time"

	"github.com/diffeo/go-strata/strata"
)

// V1JSONMediaType is the preferred, most specific MIME type for the
// JSON representation of this content.
const V1JSONMediaType = "application/vnd.diffeo.strata.v1+json"

// JSONMediaType requests the most recent version of the JSON
// representation of this content.
const JSONMediaType = "application/vnd.diffeo.strata+json"

// JSONAPIMediaType is the standard JSON:API media type, accepted as a
// synonym for the current JSON representation.
const JSONAPIMediaType = "application/vnd.api+json"

// CIFMediaType identifies Crystallographic Information File text.
// Single structure entries can be retrieved in this representation.
const CIFMediaType = "chemical/x-cif"

// XLSXMediaType identifies spreadsheet output.  Entry listings can be
// retrieved in this representation.
const XLSXMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CurrentAPIVersion is the API version reported in every response's
// meta block.
const CurrentAPIVersion = "v0.10"

// CurrentAPIVersionFull is the full dotted version of the current API,
// reported in the info document's version list.
const CurrentAPIVersionFull = "0.10.0"

// Resource is a base type for all resources in this module.
type Resource struct {
	// URL points at this resource.  This field does not need to
	// be provided when posting data.
	URL string `json:"url"`
}

// RootData is returned by the root path.
type RootData struct {
	Resource

	// InfoURL points at the API info document, a serialization
	// of InfoResponse.  Supports HTTP GET.
	InfoURL string `json:"info_url"`

	// EntryInfoURL points at the info document for one entry
	// type, a serialization of EntryInfoResponse.  This is a URI
	// template with a single parameter, "entry".  Supports HTTP
	// GET.
	EntryInfoURL string `json:"entry_info_url"`

	// EntriesURL points at the listing for one entry type, a
	// serialization of EntryResponseMany.  This is a URI template
	// with an "entry" path parameter and query parameters
	// "page_offset", "page_limit", "sort", "response_fields", and
	// one "filter[name]" pair per filtered field.  Supports HTTP
	// GET, and HTTP POST of backend-form documents to load
	// records.
	EntriesURL string `json:"entries_url"`

	// EntryURL points at a single entry, a serialization of
	// EntryResponseOne.  This is a URI template with parameters
	// "entry" and "id"; the ID should be substituted in its
	// (possibly escaped) form.  Supports HTTP GET.
	EntryURL string `json:"entry_url"`
}

// MetaQuery describes the request a response answers.
type MetaQuery struct {
	// Representation is the URL path and query of the request.
	Representation string `json:"representation"`
}

// Provider identifies the data provider running this deployment.
type Provider struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Prefix       string `json:"prefix"`
	Homepage     string `json:"homepage,omitempty"`
	IndexBaseURL string `json:"index_base_url,omitempty"`
}

// Implementation identifies the server software behind this
// deployment.
type Implementation struct {
	Name            string `json:"name,omitempty"`
	Version         string `json:"version,omitempty"`
	SourceURL       string `json:"source_url,omitempty"`
	MaintainerEmail string `json:"maintainer_email,omitempty"`
}

// Meta is carried by every successful response.
type Meta struct {
	// Query describes the request being answered.
	Query MetaQuery `json:"query"`

	// APIVersion is the version of the API serving the response.
	APIVersion string `json:"api_version"`

	// TimeStamp is the server time the response was built.
	TimeStamp time.Time `json:"time_stamp"`

	// DataReturned is the number of resources in this response's
	// data member.
	DataReturned int `json:"data_returned"`

	// DataAvailable is the total number of records matching the
	// query, ignoring pagination.
	DataAvailable int `json:"data_available"`

	// MoreDataAvailable reports whether records matching the
	// query remain beyond this page.
	MoreDataAvailable bool `json:"more_data_available"`

	// Provider and Implementation identify the deployment.
	Provider       *Provider       `json:"provider,omitempty"`
	Implementation *Implementation `json:"implementation,omitempty"`
}

// ResponseLinks carries pagination links.  Next is always present in
// the serialization, null when there is no further page.
type ResponseLinks struct {
	Next *string `json:"next"`
}

// EntryResponseMany is the envelope for an entry listing.
type EntryResponseMany struct {
	Links *ResponseLinks    `json:"links,omitempty"`
	Data  []strata.Document `json:"data"`
	Meta  Meta              `json:"meta"`
}

// EntryResponseOne is the envelope for a single entry.
type EntryResponseOne struct {
	Data strata.Document `json:"data"`
	Meta Meta            `json:"meta"`
}

// InsertRequest is the body of an HTTP POST to an entry listing: raw
// backend-form documents to store.
type InsertRequest struct {
	Documents []strata.Document `json:"data"`
}

// InsertResponse reports how many documents a POST stored.
type InsertResponse struct {
	Inserted int  `json:"inserted"`
	Meta     Meta `json:"meta"`
}

// APIVersion describes one available version of the API.
type APIVersion struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

// BaseInfoAttributes describes the API as a whole.
type BaseInfoAttributes struct {
	APIVersion           string              `json:"api_version"`
	AvailableAPIVersions []APIVersion        `json:"available_api_versions"`
	Formats              []string            `json:"formats"`
	AvailableEndpoints   []string            `json:"available_endpoints"`
	EntryTypesByFormat   map[string][]string `json:"entry_types_by_format"`
	IsIndex              bool                `json:"is_index"`
}

// BaseInfoResource wraps BaseInfoAttributes in resource form.
type BaseInfoResource struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Attributes BaseInfoAttributes `json:"attributes"`
}

// InfoResponse is the envelope for the API info document.
type InfoResponse struct {
	Data BaseInfoResource `json:"data"`
	Meta Meta             `json:"meta"`
}

// PropertyInfo describes one canonical attribute of an entry type.
type PropertyInfo struct {
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	Type        string `json:"type,omitempty"`
	Sortable    bool   `json:"sortable,omitempty"`
}

// EntryInfoResource describes one entry type: the representations it
// can be retrieved in and the properties its resources carry,
// provider-specific fields included.
type EntryInfoResource struct {
	Formats              []string                `json:"formats"`
	Description          string                  `json:"description"`
	Properties           map[string]PropertyInfo `json:"properties"`
	OutputFieldsByFormat map[string][]string     `json:"output_fields_by_format"`
}

// EntryInfoResponse is the envelope for an entry type info document.
type EntryInfoResponse struct {
	Data EntryInfoResource `json:"data"`
	Meta Meta              `json:"meta"`
}

// ErrorSource identifies where in the request an error came from.
type ErrorSource struct {
	// Pointer is a JSON pointer into the request body.
	Pointer string `json:"pointer,omitempty"`

	// Parameter names the offending query parameter.
	Parameter string `json:"parameter,omitempty"`
}

// Error is one error in an ErrorResponse.
type Error struct {
	// Status is the HTTP status code of the failure, as a
	// string.
	Status string `json:"status,omitempty"`

	// Title is a short description of the failure.
	Title string `json:"title,omitempty"`

	// Detail is a human-readable description of this particular
	// failure.
	Detail string `json:"detail,omitempty"`

	// Code is a machine-readable identifier: the name of a
	// strata API error, the string "panic", or the string
	// "error" for anything else.
	Code string `json:"code,omitempty"`

	// Value is an extra parameter to the error if applicable.
	Value string `json:"value,omitempty"`

	// Source identifies the offending part of the request, when
	// known.
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorResponse can be a response to any method, accompanied by a
// failing HTTP status code.
type ErrorResponse struct {
	// Errors holds the failures, most significant first.
	Errors []Error `json:"errors"`

	// Stack holds a formatted backtrace if the method failed due
	// to a panic and the server is running in debug mode.
	Stack string `json:"stack,omitempty"`
}
