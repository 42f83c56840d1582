// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache layers an in-process LRU cache over any strata
// storage.  Single-resource reads (Collection.Get) are served from the
// cache; listings always reach the underlying storage, since their
// result depends on the whole collection.  Inserting records evicts
// the cached resources they replace.
//
// The cache holds canonical resources after reshaping.  It assumes it
// is the only writer to the underlying storage in this process; an
// external writer can leave stale resources cached until they are
// evicted.
package cache

import (
	"context"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// DefaultSize is the cache capacity, in resources, used when New is
// given a non-positive size.
const DefaultSize = 1024

// New wraps storage with an LRU cache holding up to size canonical
// resources across all entry types.
func New(s strata.Storage, size int) strata.Storage {
	if size <= 0 {
		size = DefaultSize
	}
	return &cacheStorage{
		storage: s,
		lru:     newLRU(size),
	}
}

type cacheStorage struct {
	storage strata.Storage
	lru     *lru
}

func (s *cacheStorage) Collection(entryType string) (strata.Collection, error) {
	c, err := s.storage.Collection(entryType)
	if err != nil {
		return nil, err
	}
	return &cacheCollection{storage: s, collection: c}, nil
}

func (s *cacheStorage) EntryTypes() []string {
	return s.storage.EntryTypes()
}

func (s *cacheStorage) CheckHealth() error {
	return s.storage.CheckHealth()
}

func (s *cacheStorage) Close() error {
	return s.storage.Close()
}

type cacheCollection struct {
	storage    *cacheStorage
	collection strata.Collection
}

// cacheKey builds the cache key for one resource.  Keys carry the
// entry type so that one LRU can span every collection.
func (c *cacheCollection) cacheKey(id string) string {
	return c.collection.Mapper().EntryType() + "/" + id
}

func (c *cacheCollection) Mapper() *mapper.Mapper {
	return c.collection.Mapper()
}

// Insert stores records and evicts any cached resources with the same
// IDs, so the next Get refetches the stored form.
func (c *cacheCollection) Insert(ctx context.Context, docs []strata.Document) error {
	err := c.collection.Insert(ctx, docs)
	if err != nil {
		return err
	}
	idField := c.collection.Mapper().BackendField("id")
	for _, doc := range docs {
		if id, ok := doc[idField].(string); ok {
			c.storage.lru.Remove(c.cacheKey(id))
		}
	}
	return nil
}

func (c *cacheCollection) Get(ctx context.Context, id string) (strata.Document, error) {
	return c.storage.lru.Get(c.cacheKey(id), func(string) (strata.Document, error) {
		return c.collection.Get(ctx, id)
	})
}

// Find always queries the underlying storage; a listing's contents
// cannot be answered from cached single resources.
func (c *cacheCollection) Find(ctx context.Context, q strata.Query) (*strata.Results, error) {
	return c.collection.Find(ctx, q)
}

func (c *cacheCollection) Count(ctx context.Context, q strata.Query) (int, error) {
	return c.collection.Count(ctx, q)
}
