// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// strata storage.  Nothing persists, and nothing is shared between
// processes.  The entire store sits behind a single global mutex; in
// some cases this can limit performance in the name of correctness.
//
// This is mostly intended as a reference implementation and as a
// fixture for testing higher-level components, and it is tuned for
// correctness rather than scale.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// New creates empty in-memory storage with one collection per
// mapper, keyed by entry type.
func New(mappers map[string]*mapper.Mapper) strata.Storage {
	s := &memStorage{
		collections: make(map[string]*memCollection, len(mappers)),
	}
	for name, m := range mappers {
		s.collections[name] = &memCollection{storage: s, mapper: m}
		s.types = append(s.types, name)
	}
	sort.Strings(s.types)
	return s
}

// storable is a common interface for objects that need to take the
// global lock on the storage state.
type storable interface {
	// Storage returns the storage object at the root of the
	// object tree.
	Storage() *memStorage
}

// globalLock locks the storage at the root of the object tree.  Pair
// it with globalUnlock, as
//
//	globalLock(self)
//	defer globalUnlock(self)
func globalLock(s storable) {
	s.Storage().mu.Lock()
}

// globalUnlock unlocks the storage at the root of the object tree.
func globalUnlock(s storable) {
	s.Storage().mu.Unlock()
}

type memStorage struct {
	mu          sync.Mutex
	collections map[string]*memCollection
	types       []string
}

func (s *memStorage) Storage() *memStorage {
	return s
}

func (s *memStorage) Collection(entryType string) (strata.Collection, error) {
	c, ok := s.collections[entryType]
	if !ok {
		return nil, strata.ErrNoSuchEntryType{Name: entryType}
	}
	return c, nil
}

func (s *memStorage) EntryTypes() []string {
	return s.types
}

// CheckHealth always succeeds; the store lives in this process.
func (s *memStorage) CheckHealth() error {
	return nil
}

func (s *memStorage) Close() error {
	return nil
}

type memCollection struct {
	storage *memStorage
	mapper  *mapper.Mapper
	docs    []strata.Document
}

func (c *memCollection) Storage() *memStorage {
	return c.storage
}

// do calls f with the global lock held.
func (c *memCollection) do(f func() error) error {
	globalLock(c)
	defer globalUnlock(c)
	return f()
}

func (c *memCollection) Mapper() *mapper.Mapper {
	return c.mapper
}

func (c *memCollection) Insert(ctx context.Context, docs []strata.Document) error {
	return c.do(func() error {
		for _, doc := range docs {
			if doc == nil {
				return strata.ErrBadDocument
			}
		}
		for _, doc := range docs {
			c.docs = append(c.docs, doc.Copy())
		}
		return nil
	})
}

func (c *memCollection) Get(ctx context.Context, id string) (strata.Document, error) {
	results, err := c.Find(ctx, strata.WithID(id))
	if err != nil {
		return nil, err
	}
	if len(results.Documents) == 0 {
		return nil, strata.ErrNoSuchEntry{EntryType: c.mapper.EntryType(), ID: id}
	}
	return results.Documents[0], nil
}

func (c *memCollection) Find(ctx context.Context, q strata.Query) (results *strata.Results, err error) {
	err = c.do(func() error {
		matched := make([]strata.Document, 0, len(c.docs))
		for _, doc := range c.docs {
			if matchesAll(doc, q.Filter, c.mapper) {
				matched = append(matched, doc)
			}
		}
		sortDocuments(matched, q.Sort, c.mapper)

		available := len(matched)
		page := pageOf(matched, q.Offset, q.Limit)
		resources := make([]strata.Document, 0, len(page))
		for _, doc := range page {
			resource, rerr := c.mapper.Reshape(doc)
			if rerr != nil {
				return rerr
			}
			resources = append(resources, strata.Project(resource, q.Fields, c.mapper))
		}
		results = &strata.Results{
			Documents: resources,
			Available: available,
			More:      q.Offset+len(page) < available,
		}
		return nil
	})
	return
}

func (c *memCollection) Count(ctx context.Context, q strata.Query) (count int, err error) {
	err = c.do(func() error {
		for _, doc := range c.docs {
			if matchesAll(doc, q.Filter, c.mapper) {
				count++
			}
		}
		return nil
	})
	return
}

// pageOf slices docs per offset and limit.  A non-positive limit
// means no limit.
func pageOf(docs []strata.Document, offset, limit int) []strata.Document {
	if offset >= len(docs) {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs
}
