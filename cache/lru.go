// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache.  I know of at least two
// other implementations, though it is a pretty simple concept; I'm
// dissatisfied with the one I've looked at in several small ways.
// Resources here are looked up by caller-assembled string keys, which
// lets one cache span every entry type in a storage.

import (
	"container/list"
	"sync"

	"github.com/diffeo/go-strata/strata"
)

// item is one cached resource and the key it lives under.
type item struct {
	key      string
	resource strata.Document
}

// lru is a least-recently-used cache with a fixed capacity.  The cache
// can be safely accessed from multiple goroutines.
type lru struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int) *lru {
	return &lru{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves a resource from the cache.  If it is not present,
// calls the fetch function, and if that succeeds, saves the resource
// and returns it.  This should return an error only if the resource is
// not present and the fetch function returns an error.
func (lru *lru) Get(key string, fetch func(string) (strata.Document, error)) (strata.Document, error) {
	// This sadly happens under a writer lock, since we need to move
	// the item to the front of the list if it is present
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Is it there?
	if element, present := lru.index[key]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(item).resource, nil
	}

	// Otherwise call the fetch function
	resource, err := fetch(key)
	if err != nil {
		return resource, err
	}
	lru.add(item{key: key, resource: resource})
	return resource, nil
}

// Peek looks for a resource in the cache and returns it if present, or
// returns nil if absent.  This runs under a reader lock, and so can
// run concurrently with itself but not calls to Put or Get.  This
// does not affect the recency of the item.
func (lru *lru) Peek(key string) strata.Document {
	lru.lock.RLock()
	defer lru.lock.RUnlock()

	if element, present := lru.index[key]; present {
		return element.Value.(item).resource
	}
	return nil
}

// Put adds a resource to the LRU cache, possibly evicting something.
func (lru *lru) Put(key string, resource strata.Document) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Are we just updating an existing item?
	if element, present := lru.index[key]; present {
		element.Value = item{key: key, resource: resource}
		lru.evictList.MoveToBack(element)
		return
	}

	// Otherwise add it
	lru.add(item{key: key, resource: resource})
}

// Remove takes a resource out of the cache.  It does nothing if that
// key does not exist.
func (lru *lru) Remove(key string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}
}

// add is an internal helper, running under the write lock, that adds a
// new item to the cache.  The item is known to not already exist.
func (lru *lru) add(it item) {
	element := lru.evictList.PushBack(it)
	lru.index[it.key] = element

	// If this caused the cache to go over size, start evicting items
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		evicted := head.Value.(item)
		delete(lru.index, evicted.key)
		lru.evictList.Remove(head)
	}
}
