// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a typed client for the strata REST API.
// Open it against the API's root URL; the root document's URI
// templates lead to everything else, so the client never assembles an
// API path by hand.
//
//	client, err := restclient.Open(ctx, "http://localhost:5980/")
//	if err != nil { ... }
//	entry, err := client.Get(ctx, "structures", "x1")
package restclient

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/strata"
)

// Client talks to one strata deployment.
type Client struct {
	http *resty.Client
	root restdata.RootData
}

// Open fetches the root document at rootURL and returns a client bound
// to the URLs it advertises.
func Open(ctx context.Context, rootURL string) (*Client, error) {
	c := &Client{http: resty.New().SetBaseURL(rootURL)}
	if err := c.get(ctx, "", &c.root); err != nil {
		return nil, err
	}
	return c, nil
}

// Info retrieves the API info document.
func (c *Client) Info(ctx context.Context) (restdata.InfoResponse, error) {
	var resp restdata.InfoResponse
	err := c.get(ctx, c.root.InfoURL, &resp)
	return resp, err
}

// EntryInfo retrieves the info document for one entry type.
func (c *Client) EntryInfo(ctx context.Context, entryType string) (restdata.EntryInfoResponse, error) {
	var resp restdata.EntryInfoResponse
	url, err := expand(c.root.EntryInfoURL, map[string]interface{}{"entry": entryType})
	if err == nil {
		err = c.get(ctx, url, &resp)
	}
	return resp, err
}

// ListOptions adjusts an entry listing request.  The zero value lists
// the first page with the server's defaults.
type ListOptions struct {
	// Filters constrains results to records whose canonical field
	// (the key) equals the value; list-valued fields match by
	// membership.
	Filters map[string]string

	// Fields names the canonical attributes to return, or nil for
	// whole resources.
	Fields []string

	// Sort orders results; a leading "-" on a field means
	// descending.
	Sort []string

	// Offset and Limit page through results.  Zero values take the
	// server's defaults.
	Offset int
	Limit  int
}

// vars converts the options to URI template variables matching the
// listing template's parameter names.
func (opts ListOptions) vars(entryType string) map[string]interface{} {
	vars := map[string]interface{}{"entry": entryType}
	if len(opts.Filters) > 0 {
		filters := make(map[string]interface{}, len(opts.Filters))
		for field, value := range opts.Filters {
			filters["filter["+field+"]"] = value
		}
		vars["filters"] = filters
	}
	if len(opts.Fields) > 0 {
		vars["response_fields"] = joinComma(opts.Fields)
	}
	if len(opts.Sort) > 0 {
		vars["sort"] = joinComma(opts.Sort)
	}
	if opts.Offset > 0 {
		vars["page_offset"] = opts.Offset
	}
	if opts.Limit > 0 {
		vars["page_limit"] = opts.Limit
	}
	return vars
}

// List retrieves one page of an entry type's resources.
func (c *Client) List(ctx context.Context, entryType string, opts ListOptions) (restdata.EntryResponseMany, error) {
	var resp restdata.EntryResponseMany
	url, err := expand(c.root.EntriesURL, opts.vars(entryType))
	if err == nil {
		err = c.get(ctx, url, &resp)
	}
	return resp, err
}

// joinComma renders a list parameter in its comma-separated wire form.
func joinComma(parts []string) string {
	return strings.Join(parts, ",")
}

// ListNext follows a listing's pagination link.  The second return is
// false when there is no further page.
func (c *Client) ListNext(ctx context.Context, prev restdata.EntryResponseMany) (restdata.EntryResponseMany, bool, error) {
	var resp restdata.EntryResponseMany
	if prev.Links == nil || prev.Links.Next == nil {
		return resp, false, nil
	}
	err := c.get(ctx, *prev.Links.Next, &resp)
	return resp, true, err
}

// Get retrieves a single resource by canonical ID.
func (c *Client) Get(ctx context.Context, entryType, id string) (restdata.EntryResponseOne, error) {
	var resp restdata.EntryResponseOne
	url, err := expand(c.root.EntryURL, map[string]interface{}{
		"entry": entryType,
		"id":    restdata.MaybeEncodeID(id),
	})
	if err == nil {
		err = c.get(ctx, url, &resp)
	}
	return resp, err
}

// Insert stores backend-form records in an entry type's collection.
func (c *Client) Insert(ctx context.Context, entryType string, docs []strata.Document) (restdata.InsertResponse, error) {
	var resp restdata.InsertResponse
	url, err := expand(c.root.EntriesURL, map[string]interface{}{"entry": entryType})
	if err == nil {
		err = c.do(ctx, "POST", url, restdata.InsertRequest{Documents: docs}, &resp)
	}
	return resp, err
}
