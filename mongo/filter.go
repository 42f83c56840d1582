// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// filterFor translates structured query conditions to a MongoDB filter
// document.  Condition fields arrive canonical and leave in backend
// spelling; conditions are ANDed with $and so that two conditions on
// the same field do not collapse into one map key.
func filterFor(conds []strata.Condition, m *mapper.Mapper) bson.M {
	if len(conds) == 0 {
		return bson.M{}
	}
	clauses := make([]bson.M, len(conds))
	for i, cond := range conds {
		clauses[i] = clauseFor(cond, m)
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func clauseFor(cond strata.Condition, m *mapper.Mapper) bson.M {
	if cond.Op == strata.Length {
		return lengthClause(cond, m)
	}
	field := m.BackendField(cond.Field)
	switch cond.Op {
	case strata.NotEq:
		return bson.M{field: bson.M{"$ne": cond.Value}}
	case strata.Lt:
		return bson.M{field: bson.M{"$lt": cond.Value}}
	case strata.LtEq:
		return bson.M{field: bson.M{"$lte": cond.Value}}
	case strata.Gt:
		return bson.M{field: bson.M{"$gt": cond.Value}}
	case strata.GtEq:
		return bson.M{field: bson.M{"$gte": cond.Value}}
	default:
		// Eq and Has share MongoDB's semantics: a bare value
		// matches scalars by equality and arrays by membership.
		return bson.M{field: bson.M{"$eq": cond.Value}}
	}
}

// lengthClause serves a length constraint from the mapper's length
// alias when one exists, so a deployment that precomputes "nelements"
// answers the query from that field and its indexes.  Without an alias
// it falls back to $size on the array itself.
func lengthClause(cond strata.Condition, m *mapper.Mapper) bson.M {
	if length, ok := m.LengthAlias(cond.Field); ok {
		return bson.M{length: bson.M{"$eq": cond.Value}}
	}
	return bson.M{m.BackendField(cond.Field): bson.M{"$size": cond.Value}}
}
