// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

// This file translates structured strata queries into SQL fragments
// over the JSONB document column.  Condition fields arrive in
// canonical spelling and are translated to backend field paths through
// the collection's mapper; values travel as query parameters, never by
// string concatenation.

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/ugorji/go/codec"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/schema"
	"github.com/diffeo/go-strata/strata"
)

// docPath returns the JSONB path array for a dotted backend field, as
// a query parameter.
func docPath(field string, params *queryParams) string {
	return params.Param(pq.Array(strings.Split(field, ".")))
}

// textAccessor extracts a document field as text, with a cast when the
// schema declares a comparable non-text type.  prop is the schema
// property of the field's canonical first segment; fields outside the
// schema compare as text.
func textAccessor(field string, prop schema.Property, params *queryParams) string {
	accessor := "doc #>> " + docPath(field, params)
	switch prop.Type {
	case schema.Integer, schema.Float:
		return "(" + accessor + ")::numeric"
	case schema.Boolean:
		return "(" + accessor + ")::boolean"
	default:
		return accessor
	}
}

// schemaProperty looks up the schema metadata for a possibly dotted
// canonical field.
func schemaProperty(field string, m *mapper.Mapper) schema.Property {
	base, _, _ := strings.Cut(field, ".")
	return m.Schema()[base]
}

// sqlCondition translates one query condition to a SQL boolean
// expression, appending its values to params.
func sqlCondition(cond strata.Condition, m *mapper.Mapper, params *queryParams) (string, error) {
	if cond.Op == strata.Length {
		return lengthCondition(cond, m, params)
	}
	field := m.BackendField(cond.Field)
	prop := schemaProperty(cond.Field, m)
	switch cond.Op {
	case strata.Eq:
		return textAccessor(field, prop, params) + " = " + params.Param(cond.Value), nil
	case strata.NotEq:
		// IS DISTINCT FROM treats a missing field (NULL) as "not
		// equal", like document databases do.
		return textAccessor(field, prop, params) + " IS DISTINCT FROM " + params.Param(cond.Value), nil
	case strata.Lt:
		return textAccessor(field, prop, params) + " < " + params.Param(cond.Value), nil
	case strata.LtEq:
		return textAccessor(field, prop, params) + " <= " + params.Param(cond.Value), nil
	case strata.Gt:
		return textAccessor(field, prop, params) + " > " + params.Param(cond.Value), nil
	case strata.GtEq:
		return textAccessor(field, prop, params) + " >= " + params.Param(cond.Value), nil
	case strata.Has:
		member, err := encodeValue(cond.Value)
		if err != nil {
			return "", err
		}
		return "doc #> " + docPath(field, params) + " @> " + params.Param(string(member)) + "::jsonb", nil
	default:
		return "", fmt.Errorf("unsupported query operator %v", cond.Op)
	}
}

// lengthCondition serves a length constraint, preferring the mapper's
// length alias so a precomputed counter field answers the query, and
// falling back to jsonb_array_length on the array itself.
func lengthCondition(cond strata.Condition, m *mapper.Mapper, params *queryParams) (string, error) {
	if length, ok := m.LengthAlias(cond.Field); ok {
		accessor := "(doc #>> " + docPath(length, params) + ")::numeric"
		return accessor + " = " + params.Param(cond.Value), nil
	}
	field := m.BackendField(cond.Field)
	return "jsonb_array_length(doc #> " + docPath(field, params) + ") = " + params.Param(cond.Value), nil
}

// sqlSort translates sort keys to ORDER BY expressions in backend
// field spelling.
func sqlSort(keys []strata.Sort, m *mapper.Mapper) []string {
	exprs := make([]string, len(keys))
	for i, key := range keys {
		// Sort keys carry no user values, only field names, so
		// the path is embedded as an escaped literal.
		field := m.BackendField(key.Field)
		expr := "doc #>> " + pathLiteral(field)
		switch schemaProperty(key.Field, m).Type {
		case schema.Integer, schema.Float:
			expr = "(" + expr + ")::numeric"
		}
		if key.Descending {
			expr += " DESC"
		}
		exprs[i] = expr
	}
	return exprs
}

// pathLiteral renders a dotted field as a quoted text-array literal,
// '{a,b}'.  Single quotes in field names are doubled.
func pathLiteral(field string) string {
	segments := strings.Split(field, ".")
	for i, segment := range segments {
		segments[i] = strings.ReplaceAll(segment, "'", "''")
	}
	return "'{" + strings.Join(segments, ",") + "}'"
}

func encodeValue(value interface{}) ([]byte, error) {
	var encoded []byte
	err := codec.NewEncoderBytes(&encoded, jsonHandle()).Encode(value)
	return encoded, err
}
