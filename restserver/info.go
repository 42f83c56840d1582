// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-strata/cif"
	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/strata"
	"github.com/gorilla/mux"
)

// hasEntryType reports whether the storage serves an entry type.
func (api *restAPI) hasEntryType(name string) bool {
	for _, entryType := range api.Storage.EntryTypes() {
		if entryType == name {
			return true
		}
	}
	return false
}

// InfoGet returns the API info document: versions, formats, and the
// entry types available in each format.
func (api *restAPI) InfoGet(ctx *context) (interface{}, error) {
	entryTypes := api.Storage.EntryTypes()
	formats := []string{"json"}
	byFormat := map[string][]string{"json": entryTypes}
	if api.hasEntryType(strata.StructuresType) {
		formats = append(formats, "cif")
		byFormat["cif"] = []string{strata.StructuresType}
	}
	formats = append(formats, "xlsx")
	byFormat["xlsx"] = entryTypes

	resp := restdata.InfoResponse{
		Data: restdata.BaseInfoResource{
			ID:   "/",
			Type: "info",
			Attributes: restdata.BaseInfoAttributes{
				APIVersion: restdata.CurrentAPIVersion,
				AvailableAPIVersions: []restdata.APIVersion{
					{URL: api.BaseURL + "/v1", Version: restdata.CurrentAPIVersionFull},
				},
				Formats:            formats,
				AvailableEndpoints: append([]string{"info"}, entryTypes...),
				EntryTypesByFormat: byFormat,
			},
		},
		Meta: api.meta(ctx, 1, 1, false),
	}
	return resp, nil
}

// EntryInfoGet returns the info document for one entry type: the
// formats it can be retrieved in and the properties its resources
// carry.
func (api *restAPI) EntryInfoGet(ctx *context) (interface{}, error) {
	m := ctx.Collection.Mapper()
	desc := m.Schema()

	properties := make(map[string]restdata.PropertyInfo, len(m.AllAttributes()))
	for name, prop := range desc {
		properties[name] = restdata.PropertyInfo{
			Description: prop.Description,
			Unit:        prop.Unit,
			Type:        string(prop.Type),
			Sortable:    prop.Sortable,
		}
	}
	// Attributes outside the schema are the deployment's own:
	// namespaced provider fields and configured canonical spellings.
	for name := range m.AllAttributes() {
		if _, known := properties[name]; !known {
			properties[name] = restdata.PropertyInfo{
				Description: "Provider-specific field",
			}
		}
	}

	jsonFields := append([]string{"id", "type"}, desc.Fields()...)
	formats := []string{"json"}
	byFormat := map[string][]string{"json": jsonFields}
	if ctx.EntryType == strata.StructuresType {
		formats = append(formats, "cif")
		byFormat["cif"] = cif.Fields()
	}
	formats = append(formats, "xlsx")
	byFormat["xlsx"] = desc.Fields()

	resp := restdata.EntryInfoResponse{
		Data: restdata.EntryInfoResource{
			Formats:              formats,
			Description:          m.Description(),
			Properties:           properties,
			OutputFieldsByFormat: byFormat,
		},
		Meta: api.meta(ctx, 1, 1, false),
	}
	return resp, nil
}

// PopulateInfo adds the API and entry type info routes to a router.
func (api *restAPI) PopulateInfo(r *mux.Router) {
	r.Path("/v1/info").Name("info").Handler(&resourceHandler{
		API:            api,
		Representation: restdata.InfoResponse{},
		Context:        api.Context,
		Get:            api.InfoGet,
	})
	r.Path("/v1/info/{entry}").Name("entryInfo").Handler(&resourceHandler{
		API:            api,
		Representation: restdata.EntryInfoResponse{},
		Context:        api.Context,
		Get:            api.EntryInfoGet,
	})
}
