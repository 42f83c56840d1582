// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package strata defines the abstract API of a structural-data
// record service.  A deployment stores scientific records such as
// crystal structures in some document-oriented backend, under field
// names of its own choosing, and serves them through a canonical
// read-mostly API vocabulary; the mapping between the two worlds is
// the job of the mapper package, and the storage backends plug in
// underneath this one.
//
// The key types are Document, an untyped string-keyed record;
// Collection, one entry type's worth of records in some backend; and
// Storage, the bundle of collections making up a deployment.  Queries
// are structured values, a list of field conditions plus projection,
// sort, and paging, always spelled in canonical field names; each
// backend translates them to its native form through the collection's
// mapper.  There is intentionally no textual filter language here.
//
// Multiple backends implement this API: memory is the in-process
// reference implementation, mongo and postgres store documents
// durably, and cache layers an LRU over any of them.  The stratatest
// package contains a conformance suite any implementation should
// pass.
package strata

import (
	"context"
	"sort"

	"github.com/diffeo/go-strata/mapper"
)

// Document is a generic string-keyed record.  In backend form its
// keys are backend field names; in canonical form it has top-level
// "id" and "type" members and everything else under "attributes".
// Collection implementations accept backend form on the way in and
// return canonical form on the way out.
type Document map[string]interface{}

// ID returns the document's "id" member, if it is present and a
// string.
func (d Document) ID() (string, bool) {
	value, ok := d["id"]
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

// Attributes returns the document's "attributes" member, if it is
// present and itself a document.
func (d Document) Attributes() (Document, bool) {
	value, ok := d["attributes"]
	if !ok {
		return nil, false
	}
	attrs, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Document(attrs), true
}

// Copy returns a shallow copy of the document.  Nested values are
// shared with the original.
func (d Document) Copy() Document {
	if d == nil {
		return nil
	}
	dup := make(Document, len(d))
	for key, value := range d {
		dup[key] = value
	}
	return dup
}

// Results is one page of canonical resources from a Find call.
type Results struct {
	// Documents are the canonical resources on this page, in query
	// order.
	Documents []Document

	// Available is the total number of records matching the
	// query's filter, ignoring paging.
	Available int

	// More reports whether records matching the filter remain
	// beyond this page.
	More bool
}

// Collection holds one entry type's records in some backend.
//
// Find and Get return resources in canonical form, reshaped through
// the collection's mapper; Insert takes records in backend form,
// exactly as the deployment's database would spell them.
type Collection interface {
	// Mapper returns the field mapper serving this collection.
	Mapper() *mapper.Mapper

	// Insert stores records, given in backend form.
	Insert(ctx context.Context, docs []Document) error

	// Get returns the canonical resource whose "id" equals id, or
	// ErrNoSuchEntry if there is none.
	Get(ctx context.Context, id string) (Document, error)

	// Find returns one page of canonical resources matching q.
	Find(ctx context.Context, q Query) (*Results, error)

	// Count returns the number of records matching q's filter,
	// ignoring q's paging and projection.
	Count(ctx context.Context, q Query) (int, error)
}

// Storage bundles the collections of one deployment.  It also acts as
// a health checker for the underlying store, so daemons can expose
// backend liveness.
type Storage interface {
	// Collection returns the collection for an entry type, or
	// ErrNoSuchEntryType.
	Collection(entryType string) (Collection, error)

	// EntryTypes returns the entry type names this storage serves,
	// sorted.
	EntryTypes() []string

	// CheckHealth returns nil if the backend is reachable.
	CheckHealth() error

	// Close releases any connections the storage holds.
	Close() error
}

// SortedEntryTypes returns the keys of a definition map in sorted
// order.  Storage implementations use it so EntryTypes is stable.
func SortedEntryTypes(defs map[string]mapper.Definition) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
