// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"reflect"
	"sort"
	"strings"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// This file evaluates structured queries against backend-form
// documents.  Condition fields arrive in canonical spelling and are
// translated through the collection's mapper, the same contract the
// database-backed implementations honor in their native query
// languages.

// matchesAll reports whether doc satisfies every condition.
func matchesAll(doc strata.Document, conds []strata.Condition, m *mapper.Mapper) bool {
	for _, cond := range conds {
		if !matches(doc, cond, m) {
			return false
		}
	}
	return true
}

func matches(doc strata.Document, cond strata.Condition, m *mapper.Mapper) bool {
	if cond.Op == strata.Length {
		return matchesLength(doc, cond, m)
	}
	value, ok := fieldValue(doc, m.BackendField(cond.Field))
	switch cond.Op {
	case strata.Eq:
		return ok && equal(value, cond.Value)
	case strata.NotEq:
		// Like document databases, a missing field is "not
		// equal" to anything.
		return !ok || !equal(value, cond.Value)
	case strata.Lt, strata.LtEq, strata.Gt, strata.GtEq:
		if !ok {
			return false
		}
		cmp, comparable := compare(value, cond.Value)
		if !comparable {
			return false
		}
		switch cond.Op {
		case strata.Lt:
			return cmp < 0
		case strata.LtEq:
			return cmp <= 0
		case strata.Gt:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case strata.Has:
		list, isList := value.([]interface{})
		if !ok || !isList {
			return false
		}
		for _, member := range list {
			if equal(member, cond.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchesLength serves a length constraint, preferring the mapper's
// length alias and falling back to counting the list itself.
func matchesLength(doc strata.Document, cond strata.Condition, m *mapper.Mapper) bool {
	if length, ok := m.LengthAlias(cond.Field); ok {
		value, present := fieldValue(doc, length)
		return present && equal(value, cond.Value)
	}
	value, present := fieldValue(doc, m.BackendField(cond.Field))
	if !present {
		return false
	}
	list, isList := value.([]interface{})
	if !isList {
		return false
	}
	return equal(len(list), cond.Value)
}

// fieldValue resolves a dotted backend field path within a document.
func fieldValue(doc strata.Document, path string) (interface{}, bool) {
	var value interface{} = map[string]interface{}(doc)
	for _, segment := range strings.Split(path, ".") {
		sub, ok := value.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, ok = sub[segment]
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// numeric converts any of the numeric types a decoded document can
// carry to float64.
func numeric(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// compare orders two values when they are mutually comparable:
// numbers with numbers, strings with strings.  The second return is
// false otherwise.
func compare(a, b interface{}) (int, bool) {
	if fa, ok := numeric(a); ok {
		fb, ok := numeric(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// equal tests value equality: comparable values by compare, anything
// else structurally.
func equal(a, b interface{}) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// sortDocuments orders docs by the given sort keys.  Missing values
// sort before present ones; documents otherwise equal keep their
// insertion order.
func sortDocuments(docs []strata.Document, keys []strata.Sort, m *mapper.Mapper) {
	if len(keys) == 0 {
		return
	}
	fields := make([]string, len(keys))
	for i, key := range keys {
		fields[i] = m.BackendField(key.Field)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for k, key := range keys {
			cmp := compareForSort(docs[i], docs[j], fields[k])
			if cmp == 0 {
				continue
			}
			if key.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareForSort(a, b strata.Document, field string) int {
	av, aok := fieldValue(a, field)
	bv, bok := fieldValue(b, field)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	cmp, comparable := compare(av, bv)
	if !comparable {
		return 0
	}
	return cmp
}
