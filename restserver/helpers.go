// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains various HTTP-related helpers.  I sort of suspect
// most of them belong in some sort of standard library I haven't
// immediately found.

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/diffeo/go-strata/restdata"
	"github.com/gorilla/mux"
)

type urlBuilder struct {
	Router *mux.Router
	Params []string
	Error  error
}

func buildURLs(router *mux.Router, params ...string) *urlBuilder {
	// Encode all of the values in params
	for i, value := range params {
		if i%2 == 1 {
			params[i] = restdata.MaybeEncodeID(value)
		}
	}
	return &urlBuilder{Router: router, Params: params}
}

func (u *urlBuilder) Route(route string) *mux.Route {
	if u.Error != nil {
		return nil
	}
	r := u.Router.Get(route)
	if r == nil {
		u.Error = fmt.Errorf("No such route %q", route)
	}
	return r
}

func (u *urlBuilder) URL(out *string, route string) *urlBuilder {
	var r *mux.Route
	var url *url.URL
	if u.Error == nil {
		r = u.Route(route)
	}
	if u.Error == nil {
		url, u.Error = r.URL(u.Params...)
	}
	if u.Error == nil {
		*out = url.String()
	}
	return u
}

// Template builds a URI template for a route, leaving each named
// parameter as a {param} placeholder.  Parameters should be given in
// the order they appear in the route's path.
func (u *urlBuilder) Template(out *string, route string, params ...string) *urlBuilder {
	var r *mux.Route
	var url *url.URL
	if u.Error == nil {
		r = u.Route(route)
	}
	if u.Error == nil {
		pairs := make([]string, 0, len(u.Params)+2*len(params))
		pairs = append(pairs, u.Params...)
		for _, param := range params {
			pairs = append(pairs, param, "---"+param+"---")
		}
		url, u.Error = r.URL(pairs...)
	}
	if u.Error == nil {
		s := url.String()
		for _, param := range params {
			s = strings.Replace(s, "---"+param+"---", "{"+param+"}", 1)
		}
		*out = s
	}
	return u
}

// meta builds the metadata block carried by every successful response.
func (api *restAPI) meta(ctx *context, returned, available int, more bool) restdata.Meta {
	return restdata.Meta{
		Query:             restdata.MetaQuery{Representation: ctx.Representation()},
		APIVersion:        restdata.CurrentAPIVersion,
		TimeStamp:         api.Clock.Now().UTC(),
		DataReturned:      returned,
		DataAvailable:     available,
		MoreDataAvailable: more,
		Provider:          api.Provider,
		Implementation:    api.Implementation,
	}
}

// nextPageLink rebuilds the request URL with page_offset moved to
// nextOffset, for the "next" member of a listing's links.
func (api *restAPI) nextPageLink(ctx *context, nextOffset int) *string {
	query := url.Values{}
	for name, values := range ctx.QueryParams {
		query[name] = values
	}
	query.Set("page_offset", strconv.Itoa(nextOffset))
	next := api.BaseURL + ctx.Request.URL.Path + "?" + query.Encode()
	return &next
}
