// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/schema"
	"github.com/diffeo/go-strata/strata"
)

func testMapper(t *testing.T) *mapper.Mapper {
	def := mapper.Definition{
		EntryType: "structures",
		Schema: schema.Description{
			"elements":  {Type: schema.List},
			"nelements": {Type: schema.Integer},
			"species":   {Type: schema.List},
		},
		LengthAliases: []mapper.LengthPair{{Countable: "elements", Length: "nelements"}},
	}
	dep := mapper.Deployment{
		Prefix:  "exmpl",
		Aliases: map[string]string{"elements": "custom_elements_field"},
	}
	m, err := mapper.New(def, dep)
	require.NoError(t, err)
	return m
}

func testStorage(t *testing.T) (strata.Collection, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewWithDB(db, map[string]*mapper.Mapper{"structures": testMapper(t)})
	c, err := s.Collection("structures")
	require.NoError(t, err)
	return c, mock
}

func TestSQLConditionEq(t *testing.T) {
	m := testMapper(t)
	params := queryParams{}
	clause, err := sqlCondition(strata.Condition{
		Field: "nelements", Op: strata.Eq, Value: 2,
	}, m, &params)
	require.NoError(t, err)
	assert.Equal(t, "(doc #>> $1)::numeric = $2", clause)
	require.Len(t, params, 2)
	assert.Equal(t, 2, params[1])
}

func TestSQLConditionTranslatesAlias(t *testing.T) {
	m := testMapper(t)
	params := queryParams{}
	clause, err := sqlCondition(strata.Condition{
		Field: "elements", Op: strata.Has, Value: "Na",
	}, m, &params)
	require.NoError(t, err)
	// The canonical "elements" is stored as custom_elements_field;
	// the path parameter carries the backend spelling.
	assert.Equal(t, "doc #> $1 @> $2::jsonb", clause)
	assert.Equal(t, `"Na"`, params[1])
}

func TestSQLConditionNotEq(t *testing.T) {
	m := testMapper(t)
	params := queryParams{}
	clause, err := sqlCondition(strata.Condition{
		Field: "species", Op: strata.NotEq, Value: "Na",
	}, m, &params)
	require.NoError(t, err)
	assert.Equal(t, "doc #>> $1 IS DISTINCT FROM $2", clause)
}

func TestSQLConditionLength(t *testing.T) {
	m := testMapper(t)

	// With a length alias the precomputed counter answers the query.
	params := queryParams{}
	clause, err := sqlCondition(strata.Condition{
		Field: "elements", Op: strata.Length, Value: 2,
	}, m, &params)
	require.NoError(t, err)
	assert.Equal(t, "(doc #>> $1)::numeric = $2", clause)

	// Without one the array itself is counted.
	params = queryParams{}
	clause, err = sqlCondition(strata.Condition{
		Field: "species", Op: strata.Length, Value: 3,
	}, m, &params)
	require.NoError(t, err)
	assert.Equal(t, "jsonb_array_length(doc #> $1) = $2", clause)
}

func TestSQLSort(t *testing.T) {
	m := testMapper(t)
	exprs := sqlSort([]strata.Sort{
		{Field: "elements"},
		{Field: "nelements", Descending: true},
	}, m)
	assert.Equal(t, []string{
		"doc #>> '{custom_elements_field}'",
		"(doc #>> '{nelements}')::numeric DESC",
	}, exprs)
}

func TestInsert(t *testing.T) {
	c, mock := testStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("^SET TRANSACTION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^INSERT INTO entries\(entry_type, doc\)`).
		WithArgs("structures", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := c.Insert(context.Background(), []strata.Document{
		{"id": "x1", "custom_elements_field": []interface{}{"Na", "Cl"}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNilDocument(t *testing.T) {
	c, mock := testStorage(t)
	err := c.Insert(context.Background(), []strata.Document{nil})
	assert.Equal(t, strata.ErrBadDocument, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	c, mock := testStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("^SET TRANSACTION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM entries WHERE entry_type=\$1$`).
		WithArgs("structures").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("^SET TRANSACTION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT doc FROM entries WHERE entry_type=\$1 ORDER BY entry_id LIMIT \$2$`).
		WithArgs("structures", 2).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"id": "x1", "custom_elements_field": ["Na", "Cl"]}`)).
			AddRow([]byte(`{"id": "x2", "nelements": 1}`)))
	mock.ExpectCommit()

	results, err := c.Find(context.Background(), strata.Query{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, results.Available)
	assert.True(t, results.More)
	require.Len(t, results.Documents, 2)

	// Documents come back reshaped into canonical form.
	assert.Equal(t, strata.Document{
		"id":   "x1",
		"type": "structures",
		"attributes": map[string]interface{}{
			"elements": []interface{}{"Na", "Cl"},
		},
	}, results.Documents[0])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	c, mock := testStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("^SET TRANSACTION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM entries`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("^SET TRANSACTION").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT doc FROM entries`).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))
	mock.ExpectCommit()

	_, err := c.Get(context.Background(), "nope")
	assert.Equal(t, strata.ErrNoSuchEntry{EntryType: "structures", ID: "nope"}, err)
}

func TestEntryTypes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewWithDB(db, map[string]*mapper.Mapper{"structures": testMapper(t)})
	assert.Equal(t, []string{"structures"}, s.EntryTypes())

	_, err = s.Collection("bogus")
	assert.Equal(t, strata.ErrNoSuchEntryType{Name: "bogus"}, err)
}
