// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/diffeo/go-strata/restdata"
	"github.com/diffeo/go-strata/schema"
	"github.com/diffeo/go-strata/strata"
	"github.com/gorilla/mux"
)

// errUnmarshal is returned if the post contract is violated and a
// handler function is passed the wrong type.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// filterPrefix and filterSuffix bracket the field name in a
// filter[name] query parameter.
const (
	filterPrefix = "filter["
	filterSuffix = "]"
)

// context holds all of the information and objects that can be
// extracted from an HTTP request.
type context struct {
	Request     *http.Request
	EntryType   string
	Collection  strata.Collection
	ID          string
	QueryParams url.Values
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{Request: req}
	ctx.QueryParams = req.URL.Query()
	vars := mux.Vars(req)

	var present bool
	var entry, id string

	if entry, present = vars["entry"]; present && err == nil {
		ctx.EntryType = entry
		ctx.Collection, err = api.Storage.Collection(entry)
		if _, missing := err.(strata.ErrNoSuchEntryType); missing {
			err = restdata.ErrNotFound{Err: err}
		}
	}

	if id, present = vars["id"]; present && err == nil {
		ctx.ID, err = restdata.MaybeDecodeID(id)
		if err != nil {
			err = restdata.ErrBadRequest{Err: err}
		}
	}

	return
}

// Build an entry query from query parameters.  This can fail (if a
// filtered or sorted field is unknown, if a non-integer page offset is
// provided) so it should only be called by routes that want it.
func (api *restAPI) EntryQuery(ctx *context) (q strata.Query, err error) {
	q.Offset, err = intParam(ctx.QueryParams, "page_offset", 0)
	if err == nil {
		q.Limit, err = intParam(ctx.QueryParams, "page_limit", api.PageLimit)
	}
	if err == nil && q.Limit > api.MaxPageLimit {
		err = restdata.ErrBadRequest{
			Err: fmt.Errorf("page_limit %v exceeds maximum %v", q.Limit, api.MaxPageLimit),
		}
	}
	if err == nil && q.Limit == 0 {
		// A zero limit would turn into an unpaged listing; serve
		// the default page size instead.
		q.Limit = api.PageLimit
	}

	if err == nil {
		q.Fields, err = ctx.responseFields()
	}

	if err == nil && ctx.QueryParams.Get("sort") != "" {
		q.Sort, err = ctx.sortKeys(ctx.QueryParams.Get("sort"))
	}

	if err == nil {
		q.Filter, err = ctx.filterConditions()
	}
	return
}

// Representation is the "path?query" form of the request URL that
// response metadata reports.  The "?" separator is always present.
func (ctx *context) Representation() string {
	return ctx.Request.URL.Path + "?" + ctx.Request.URL.RawQuery
}

// responseFields parses the comma-separated response_fields parameter.
// Nil means the parameter was absent and the whole resource should be
// returned.
func (ctx *context) responseFields() ([]string, error) {
	raw := ctx.QueryParams.Get("response_fields")
	if raw == "" {
		return nil, nil
	}
	var fields []string
	for _, field := range strings.Split(raw, ",") {
		if !ctx.knownField(field) {
			return nil, badField(ctx.Collection.Mapper().EntryType(), field)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// knownField reports whether the first segment of a possibly dotted
// canonical field path is something this entry type serves.  The
// top-level "id" is always known; it lives outside the attribute set.
func (ctx *context) knownField(field string) bool {
	base, _, _ := strings.Cut(field, ".")
	if base == "id" {
		return true
	}
	return ctx.Collection.Mapper().AllAttributes()[base]
}

// sortKeys parses the comma-separated sort parameter.  A leading "-"
// means descending.  Fields must be known, and must be declared
// sortable by the entry type's schema; "id" is always sortable.
func (ctx *context) sortKeys(param string) ([]strata.Sort, error) {
	m := ctx.Collection.Mapper()
	var keys []strata.Sort
	for _, field := range strings.Split(param, ",") {
		key := strata.Sort{Field: field}
		if strings.HasPrefix(field, "-") {
			key.Field = field[1:]
			key.Descending = true
		}
		if !ctx.knownField(key.Field) {
			return nil, badField(m.EntryType(), key.Field)
		}
		if key.Field != "id" && !m.Schema()[key.Field].Sortable {
			return nil, restdata.ErrBadRequest{
				Err: strata.ErrUnsortableField{EntryType: m.EntryType(), Field: key.Field},
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// filterConditions turns filter[name] query parameters into query
// conditions.  Every condition tests equality, except that filtering a
// list-valued field tests membership.  Parameters are visited in
// sorted order so the resulting filter is deterministic.
func (ctx *context) filterConditions() ([]strata.Condition, error) {
	names := make([]string, 0, len(ctx.QueryParams))
	for name := range ctx.QueryParams {
		if strings.HasPrefix(name, filterPrefix) && strings.HasSuffix(name, filterSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	m := ctx.Collection.Mapper()
	var conds []strata.Condition
	for _, name := range names {
		field := name[len(filterPrefix) : len(name)-len(filterSuffix)]
		if !ctx.knownField(field) {
			return nil, badField(m.EntryType(), field)
		}
		base, _, _ := strings.Cut(field, ".")
		prop := m.Schema()[base]
		for _, raw := range ctx.QueryParams[name] {
			value, err := conditionValue(prop, raw)
			if err != nil {
				return nil, restdata.ErrBadRequest{
					Err: fmt.Errorf("invalid %v value %q: %v", name, raw, err),
				}
			}
			op := strata.Eq
			if prop.Type == schema.List {
				op = strata.Has
			}
			conds = append(conds, strata.Condition{Field: field, Op: op, Value: value})
		}
	}
	return conds, nil
}

// conditionValue converts the string form of a filter value to the
// type the schema declares for its field.  Fields with no schema entry
// (provider fields, alias-only names) compare as strings.
func conditionValue(prop schema.Property, raw string) (interface{}, error) {
	switch prop.Type {
	case schema.Integer:
		return strconv.Atoi(raw)
	case schema.Float:
		return strconv.ParseFloat(raw, 64)
	case schema.Boolean:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

// intParam reads a non-negative integer query parameter, returning def
// if it is absent.
func intParam(params url.Values, name string, def int) (int, error) {
	raw := params.Get(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err == nil && value < 0 {
		err = fmt.Errorf("cannot be negative")
	}
	if err != nil {
		return 0, restdata.ErrBadRequest{
			Err: fmt.Errorf("invalid %v %q: %v", name, raw, err),
		}
	}
	return value, nil
}

// badField wraps an unknown-field error for an HTTP 400 response.
func badField(entryType, field string) error {
	return restdata.ErrBadRequest{
		Err: strata.ErrUnknownField{EntryType: entryType, Field: field},
	}
}
