// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/config"
	"github.com/diffeo/go-strata/strata"
)

func TestSet(t *testing.T) {
	var b Backend

	require.NoError(t, b.Set("memory"))
	assert.Equal(t, "memory", b.Implementation)
	assert.Equal(t, "", b.Address)
	assert.Equal(t, "memory", b.String())

	require.NoError(t, b.Set("postgres://pg@localhost/strata"))
	assert.Equal(t, "postgres", b.Implementation)
	assert.Equal(t, "//pg@localhost/strata", b.Address)
	assert.Equal(t, "postgres://pg@localhost/strata", b.String())

	assert.Error(t, b.Set("cassandra:whatever"))
}

func TestMemoryStorage(t *testing.T) {
	b := Backend{Implementation: "memory"}
	s, err := b.Storage(config.Default())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, strata.EntryTypes(), s.EntryTypes())
	for _, entryType := range s.EntryTypes() {
		c, err := s.Collection(entryType)
		require.NoError(t, err)
		assert.Equal(t, entryType, c.Mapper().EntryType())
	}
}

func TestUnknownStorage(t *testing.T) {
	b := Backend{Implementation: "cassandra"}
	_, err := b.Storage(config.Default())
	assert.Error(t, err)
}
