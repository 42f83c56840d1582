// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package stratatest provides generic functional tests for the strata
// storage interface.  A typical backend test module needs to wrap
// Suite to create its backend:
//
//	package mybackend
//
//	import (
//	        "testing"
//
//	        "github.com/diffeo/go-strata/strata/stratatest"
//	        "github.com/stretchr/testify/suite"
//	)
//
//	// Suite is the per-backend generic test suite.
//	type Suite struct {
//	        stratatest.Suite
//	}
//
//	// SetupTest creates a fresh, empty backend for each test.
//	func (s *Suite) SetupTest() {
//	        s.Storage = New(s.Mappers)
//	}
//
//	// TestStorage runs the storage generic tests.
//	func TestStorage(t *testing.T) {
//	        suite.Run(t, &Suite{})
//	}
//
// Every test starts from an empty store, so backends with durable
// state need to clear it in their SetupTest.
package stratatest

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/suite"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// Suite is the generic strata storage test suite.
type Suite struct {
	suite.Suite

	// Mappers contains one field mapper per shipped entry type,
	// with a deployment carrying a provider prefix, a field alias,
	// and a provider field.  It is pre-initialized so importing
	// packages can construct their backend from it.
	Mappers map[string]*mapper.Mapper

	// Storage contains the backend under test.  It is set by
	// importing packages, fresh and empty for each test.
	Storage strata.Storage
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	mappers, err := strata.NewMappers(strata.Definitions(), map[string]mapper.Deployment{
		strata.StructuresType: {
			Prefix:         "exmpl",
			Aliases:        map[string]string{"elements": "custom_elements_field"},
			ProviderFields: []string{"hull_distance"},
		},
	})
	s.Require().NoError(err)
	s.Mappers = mappers
}

// TearDownTest releases the backend created for the test.
func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		s.NoError(s.Storage.Close())
		s.Storage = nil
	}
}

// structures returns the backend's structures collection.
func (s *Suite) structures() strata.Collection {
	c, err := s.Storage.Collection(strata.StructuresType)
	s.Require().NoError(err)
	return c
}

// fixtureDocs returns the standard structure records, in backend
// form: the deployment's own field names, including its private _id.
func fixtureDocs() []strata.Document {
	return []strata.Document{
		{
			"_id":                   "m1",
			"id":                    "alpha",
			"custom_elements_field": []interface{}{"Cl", "Na"},
			"nelements":             2,
			"nsites":                2,
			"hull_distance":         0.05,
			"structure_features":    []interface{}{},
		},
		{
			"_id":                   "m2",
			"id":                    "beta",
			"custom_elements_field": []interface{}{"O", "Si"},
			"nelements":             2,
			"nsites":                6,
			"structure_features":    []interface{}{"disorder"},
		},
		{
			"_id":                   "m3",
			"id":                    "gamma",
			"custom_elements_field": []interface{}{"Fe"},
			"nelements":             1,
			"nsites":                1,
			"structure_features":    []interface{}{},
		},
	}
}

// insertFixtures loads the standard structure records and returns the
// structures collection.
func (s *Suite) insertFixtures() strata.Collection {
	c := s.structures()
	s.Require().NoError(c.Insert(context.Background(), fixtureDocs()))
	return c
}

// find runs a query, failing the test on error.
func (s *Suite) find(c strata.Collection, q strata.Query) *strata.Results {
	results, err := c.Find(context.Background(), q)
	s.Require().NoError(err)
	return results
}

// ids extracts the canonical IDs from a page of resources, in page
// order.
func (s *Suite) ids(results *strata.Results) []string {
	ids := make([]string, 0, len(results.Documents))
	for _, resource := range results.Documents {
		id, ok := resource.ID()
		if !ok {
			s.Require().FailNow("resource has no id", spew.Sdump(resource))
		}
		ids = append(ids, id)
	}
	return ids
}

// attributes unwraps a resource's attributes member.
func (s *Suite) attributes(resource strata.Document) strata.Document {
	attrs, ok := resource.Attributes()
	if !ok {
		s.Require().FailNow("resource has no attributes", spew.Sdump(resource))
	}
	return attrs
}

// byID is a sort key on the canonical ID, for tests that do not care
// about backend-native ordering.
func byID() []strata.Sort {
	return []strata.Sort{{Field: "id"}}
}
