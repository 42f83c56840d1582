// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-strata/cif"
	"github.com/diffeo/go-strata/export"
	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/strata"
	"github.com/gorilla/mux"
)

// EntriesGet returns one page of an entry type's resources.
func (api *restAPI) EntriesGet(ctx *context) (interface{}, error) {
	q, err := api.EntryQuery(ctx)
	if err != nil {
		return nil, err
	}
	results, err := ctx.Collection.Find(ctx.Request.Context(), q)
	if err != nil {
		return nil, err
	}
	resp := restdata.EntryResponseMany{
		Links: &restdata.ResponseLinks{},
		Data:  results.Documents,
		Meta:  api.meta(ctx, len(results.Documents), results.Available, results.More),
	}
	if results.More {
		resp.Links.Next = api.nextPageLink(ctx, q.Offset+len(results.Documents))
	}
	return resp, nil
}

// EntriesPost stores backend-form records in an entry type's
// collection.
func (api *restAPI) EntriesPost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.InsertRequest)
	if !valid {
		return nil, errUnmarshal
	}
	err := ctx.Collection.Insert(ctx.Request.Context(), req.Documents)
	if err == strata.ErrBadDocument {
		err = restdata.ErrBadRequest{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return restdata.InsertResponse{
		Inserted: len(req.Documents),
		Meta:     api.meta(ctx, len(req.Documents), len(req.Documents), false),
	}, nil
}

// EntryGet returns the single resource named by the URL.  Without a
// projection this goes through Collection.Get, which backends can
// serve from cache.
func (api *restAPI) EntryGet(ctx *context) (interface{}, error) {
	fields, err := ctx.responseFields()
	if err != nil {
		return nil, err
	}
	var doc strata.Document
	if len(fields) == 0 {
		doc, err = ctx.Collection.Get(ctx.Request.Context(), ctx.ID)
	} else {
		q := strata.WithID(ctx.ID)
		q.Fields = fields
		var results *strata.Results
		results, err = ctx.Collection.Find(ctx.Request.Context(), q)
		if err == nil {
			if len(results.Documents) == 0 {
				err = strata.ErrNoSuchEntry{EntryType: ctx.EntryType, ID: ctx.ID}
			} else {
				doc = results.Documents[0]
			}
		}
	}
	if _, missing := err.(strata.ErrNoSuchEntry); missing {
		err = restdata.ErrNotFound{Err: err}
	}
	if err != nil {
		return nil, err
	}
	return restdata.EntryResponseOne{
		Data: doc,
		Meta: api.meta(ctx, 1, 1, false),
	}, nil
}

// renderEntryCIF produces the CIF representation of a single
// structures entry.  Other entry types have no CIF form.
func (api *restAPI) renderEntryCIF(ctx *context, out interface{}) ([]byte, error) {
	resp, valid := out.(restdata.EntryResponseOne)
	if !valid || ctx.EntryType != strata.StructuresType {
		return nil, errNotAcceptable{}
	}
	text, err := cif.FromResource(resp.Data)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// renderListingXLSX produces the spreadsheet representation of an
// entry listing.
func (api *restAPI) renderListingXLSX(ctx *context, out interface{}) ([]byte, error) {
	resp, valid := out.(restdata.EntryResponseMany)
	if !valid {
		return nil, errNotAcceptable{}
	}
	return export.Listing(ctx.Collection.Mapper(), resp.Data)
}

// PopulateEntries adds the entry listing and single-entry routes to a
// router.  r should be rooted at the root of the strata URL tree,
// e.g. "/".
func (api *restAPI) PopulateEntries(r *mux.Router) {
	r.Path("/v1/{entry}").Name("entries").Handler(&resourceHandler{
		API:            api,
		Representation: restdata.InsertRequest{},
		Context:        api.Context,
		Get:            api.EntriesGet,
		Post:           api.EntriesPost,
		Renderers: map[string]renderFunc{
			restdata.XLSXMediaType: api.renderListingXLSX,
		},
	})
	r.Path("/v1/{entry}/{id}").Name("entry").Handler(&resourceHandler{
		API:            api,
		Representation: restdata.EntryResponseOne{},
		Context:        api.Context,
		Get:            api.EntryGet,
		Renderers: map[string]renderFunc{
			restdata.CIFMediaType: api.renderEntryCIF,
		},
	})
}
