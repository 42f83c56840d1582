// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mongo_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diffeo/go-strata/mongo"
	"github.com/diffeo/go-strata/strata/stratatest"
)

// testDatabase is the MongoDB database live tests run in.  Its
// contents are destroyed.
const testDatabase = "strata_test"

// Suite runs the generic storage tests over a live MongoDB server.
type Suite struct {
	stratatest.Suite
	uri string
}

// SetupTest drops the test database so each test starts empty.
func (s *Suite) SetupTest() {
	ctx := context.Background()
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(s.uri))
	s.Require().NoError(err)
	s.Require().NoError(client.Database(testDatabase).Drop(ctx))
	s.Require().NoError(client.Disconnect(ctx))

	storage, err := mongo.New(ctx, s.uri, testDatabase, s.Mappers)
	s.Require().NoError(err)
	s.Storage = storage
}

// TestStorage runs the storage generic tests against the server named
// by STRATA_TEST_MONGODB, for example "mongodb://localhost:27017".
// It is skipped when that variable is unset.
func TestStorage(t *testing.T) {
	uri := os.Getenv("STRATA_TEST_MONGODB")
	if uri == "" {
		t.Skip("set STRATA_TEST_MONGODB to a server URI to run live tests")
	}
	suite.Run(t, &Suite{uri: uri})
}
