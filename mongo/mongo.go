// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package mongo implements strata storage on MongoDB.  Each entry type
// lives in its own MongoDB collection, named after the entry type, and
// records are stored exactly as inserted, in backend form.  Structured
// queries are translated to MongoDB filter documents through the
// collection's mapper; resources come back reshaped into canonical
// form.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// healthTimeout bounds the ping issued by CheckHealth.
const healthTimeout = 2 * time.Second

// New connects to MongoDB at uri and returns storage over the named
// database, with one collection per mapper, keyed by entry type.  The
// returned Storage carries a connection pool; create it once and share
// it.
func New(ctx context.Context, uri, database string, mappers map[string]*mapper.Mapper) (strata.Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	s := &mongoStorage{
		client:      client,
		db:          client.Database(database),
		collections: make(map[string]*mongoCollection, len(mappers)),
	}
	for name, m := range mappers {
		s.collections[name] = &mongoCollection{
			coll:   s.db.Collection(name),
			mapper: m,
		}
	}
	s.types = strata.SortedEntryTypes(definitionsOf(mappers))
	return s, nil
}

// definitionsOf recovers a definition map shape for entry-type
// ordering.
func definitionsOf(mappers map[string]*mapper.Mapper) map[string]mapper.Definition {
	defs := make(map[string]mapper.Definition, len(mappers))
	for name := range mappers {
		defs[name] = mapper.Definition{}
	}
	return defs
}

type mongoStorage struct {
	client      *mongo.Client
	db          *mongo.Database
	collections map[string]*mongoCollection
	types       []string
}

func (s *mongoStorage) Collection(entryType string) (strata.Collection, error) {
	c, ok := s.collections[entryType]
	if !ok {
		return nil, strata.ErrNoSuchEntryType{Name: entryType}
	}
	return c, nil
}

func (s *mongoStorage) EntryTypes() []string {
	return s.types
}

func (s *mongoStorage) CheckHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStorage) Close() error {
	return s.client.Disconnect(context.Background())
}

type mongoCollection struct {
	coll   *mongo.Collection
	mapper *mapper.Mapper
}

func (c *mongoCollection) Mapper() *mapper.Mapper {
	return c.mapper
}

func (c *mongoCollection) Insert(ctx context.Context, docs []strata.Document) error {
	if len(docs) == 0 {
		return nil
	}
	records := make([]interface{}, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return strata.ErrBadDocument
		}
		records[i] = map[string]interface{}(doc)
	}
	_, err := c.coll.InsertMany(ctx, records)
	return err
}

func (c *mongoCollection) Get(ctx context.Context, id string) (strata.Document, error) {
	results, err := c.Find(ctx, strata.WithID(id))
	if err != nil {
		return nil, err
	}
	if len(results.Documents) == 0 {
		return nil, strata.ErrNoSuchEntry{EntryType: c.mapper.EntryType(), ID: id}
	}
	return results.Documents[0], nil
}

func (c *mongoCollection) Find(ctx context.Context, q strata.Query) (*strata.Results, error) {
	filter := filterFor(q.Filter, c.mapper)
	available, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if len(q.Sort) > 0 {
		opts.SetSort(sortFor(q.Sort, c.mapper))
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	resources := []strata.Document{}
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		resource, err := c.mapper.Reshape(doc)
		if err != nil {
			return nil, err
		}
		resources = append(resources, strata.Project(resource, q.Fields, c.mapper))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return &strata.Results{
		Documents: resources,
		Available: int(available),
		More:      q.Offset+len(resources) < int(available),
	}, nil
}

func (c *mongoCollection) Count(ctx context.Context, q strata.Query) (int, error) {
	count, err := c.coll.CountDocuments(ctx, filterFor(q.Filter, c.mapper))
	return int(count), err
}

// sortFor translates sort keys to a MongoDB sort document, in backend
// field spelling.
func sortFor(keys []strata.Sort, m *mapper.Mapper) bson.D {
	sort := make(bson.D, len(keys))
	for i, key := range keys {
		order := 1
		if key.Descending {
			order = -1
		}
		sort[i] = bson.E{Key: m.BackendField(key.Field), Value: order}
	}
	return sort
}
