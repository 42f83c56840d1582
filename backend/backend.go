// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct strata storage
// based on command-line flags.
package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/diffeo/go-strata/cache"
	"github.com/diffeo/go-strata/config"
	"github.com/diffeo/go-strata/memory"
	"github.com/diffeo/go-strata/mongo"
	"github.com/diffeo/go-strata/postgres"
	"github.com/diffeo/go-strata/strata"
)

// Backend describes user-visible parameters to store strata records.
// This implements the flag.Value interface, and so a typical use is
//
//	func main() {
//	    storage := backend.Backend{Implementation: "memory"}
//	    flag.Var(&storage, "backend", "impl[:address] of strata storage")
//	    flag.Parse()
//	    s, err := storage.Storage(cfg)
//	}
type Backend struct {
	// Implementation holds the name of the implementation: "memory",
	// "mongodb", or "postgres".
	Implementation string

	// Address holds some backend-specific address: a MongoDB URI or
	// a PostgreSQL connect string.  Empty means the deployment
	// configuration's address is used.
	Address string
}

// Storage creates new strata storage for this backend under cfg, with
// one collection per shipped entry type and the configured cache
// layered on top.  This generally should be called only once: if the
// backend has in-process state, such as a database connection pool or
// an in-memory store, calling it multiple times will create multiple
// copies of that state.  In particular, if b.Implementation is
// "memory", multiple calls will create multiple independent record
// "worlds".
//
// If b.Implementation does not match a known implementation, returns
// an error; Set() validates the same thing earlier for flag input.
func (b *Backend) Storage(cfg config.Config) (strata.Storage, error) {
	mappers, err := cfg.Mappers()
	if err != nil {
		return nil, err
	}

	var s strata.Storage
	switch b.Implementation {
	case "memory":
		s = memory.New(mappers)
	case "mongodb":
		uri := b.Address
		if uri == "" {
			uri = cfg.Mongo.URI
		}
		s, err = mongo.New(context.Background(), uri, cfg.Mongo.Database, mappers)
	case "postgres":
		dsn := b.Address
		if dsn == "" {
			dsn = cfg.Postgres.DSN
		}
		s, err = postgres.New(dsn, mappers)
	default:
		err = errors.New("unknown strata backend " + b.Implementation)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		s = cache.New(s, cfg.CacheSize)
	}
	return s, nil
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where address
// can be any string.  Set checks to see if the provided implementation
// is any of the known implementations, and returns an appropriate
// error if not.
//
// This is part of the flag.Value interface.  Note that neither this
// nor Storage() attempts to validate the b.Address part of the string
// before actually making a connection.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	b.Implementation = parts[0]
	b.Address = ""
	if len(parts) == 2 {
		b.Address = parts[1]
	}
	switch b.Implementation {
	case "memory", "mongodb", "postgres":
		return nil
	default:
		return errors.New("unknown strata backend " + b.Implementation)
	}
}
