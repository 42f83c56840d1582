// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/strata"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Default pagination bounds, used when Options leaves them zero.
const (
	defaultPageLimit    = 20
	defaultMaxPageLimit = 500
)

// Options adjusts optional behavior of the REST API.  The zero value
// is usable.
type Options struct {
	// Provider identifies the data provider in every response's
	// meta block, if set.
	Provider *restdata.Provider

	// Implementation identifies the server software in every
	// response's meta block, if set.
	Implementation *restdata.Implementation

	// BaseURL prefixes pagination and API version links.  Empty
	// means those links are relative.
	BaseURL string

	// PageLimit is the listing page size when a request does not
	// name one, and MaxPageLimit is the largest size a request may
	// ask for.  Zero values choose built-in defaults.
	PageLimit    int
	MaxPageLimit int

	// Debug includes a backtrace in the response when a handler
	// panics.
	Debug bool

	// Clock supplies response timestamps.  Nil means wall time.
	Clock clock.Clock

	// Log receives request error logs.  Nil disables logging.
	Log *logrus.Logger
}

// NewRouter creates a new HTTP handler that serves all strata
// requests.  All strata resources are under the URL path root, e.g.
// /v1/structures.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(s strata.Storage, opts Options) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, s, opts)
	return r
}

// PopulateRouter adds strata routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the API under a subpath:
//
//	import "github.com/diffeo/go-strata/memory"
//	import "github.com/gorilla/mux"
//	r := mux.NewRouter()
//	s := r.PathPrefix("/strata").Subrouter()
//	restserver.PopulateRouter(s, storage, restserver.Options{})
func PopulateRouter(r *mux.Router, s strata.Storage, opts Options) {
	api := &restAPI{Storage: s, Router: r, Options: opts}
	if api.PageLimit <= 0 {
		api.PageLimit = defaultPageLimit
	}
	if api.MaxPageLimit <= 0 {
		api.MaxPageLimit = defaultMaxPageLimit
	}
	if api.Clock == nil {
		api.Clock = clock.New()
	}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the strata REST API.
type restAPI struct {
	Storage strata.Storage
	Router  *mux.Router
	Options
}

// PopulateRouter adds all strata URL paths to a router.  The info
// routes register first so that /v1/info is not captured by the
// {entry} pattern.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateInfo(r)
	api.PopulateEntries(r)
	r.Path("/").Name("root").Handler(&resourceHandler{
		API:            api,
		Representation: restdata.RootData{},
		Context:        api.Context,
		Get:            api.RootDocument,
	})
}

// RootDocument returns the root resource, whose links lead to
// everything else the API serves.
func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	resp := restdata.RootData{}
	err := buildURLs(api.Router).
		URL(&resp.URL, "root").
		URL(&resp.InfoURL, "info").
		Template(&resp.EntryInfoURL, "entryInfo", "entry").
		Template(&resp.EntriesURL, "entries", "entry").
		Template(&resp.EntryURL, "entry", "entry", "id").
		Error
	if err == nil {
		// Advertise the listing query parameters in RFC 6570 form;
		// "filters" explodes to one filter[name] pair per field.
		resp.EntriesURL += "{?filters*,page_offset,page_limit,sort,response_fields}"
	}
	return resp, err
}

// logError reports a failed request to the configured logger.
func (api *restAPI) logError(req *http.Request, status int, err error) {
	if api.Log == nil {
		return
	}
	entry := api.Log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error(err)
	} else {
		entry.Debug(err)
	}
}
