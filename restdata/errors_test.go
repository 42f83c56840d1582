// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

func TestErrorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"bad document", strata.ErrBadDocument, "ErrBadDocument"},
		{"no entry type", strata.ErrNoSuchEntryType{Name: "molecules"}, "ErrNoSuchEntryType"},
		{"no entry", strata.ErrNoSuchEntry{EntryType: "structures", ID: "abc"}, "ErrNoSuchEntry"},
		{"unknown field", strata.ErrUnknownField{EntryType: "structures", Field: "banana"}, "ErrUnknownField"},
		{"unsortable", strata.ErrUnsortableField{EntryType: "structures", Field: "species"}, "ErrUnsortableField"},
		{"conflict", &mapper.ConflictError{EntryType: "structures"}, "ErrAttributesConflict"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var resp ErrorResponse
			resp.FromError(test.err)
			if assert.Len(t, resp.Errors, 1) {
				assert.Equal(t, test.code, resp.Errors[0].Code)
			}
			assert.Equal(t, test.err, resp.ToError())
		})
	}
}

func TestErrorStatuses(t *testing.T) {
	var resp ErrorResponse

	resp.FromError(strata.ErrNoSuchEntry{EntryType: "structures", ID: "abc"})
	assert.Equal(t, "404", resp.Errors[0].Status)

	resp.FromError(strata.ErrUnknownField{EntryType: "structures", Field: "banana"})
	assert.Equal(t, "400", resp.Errors[0].Status)

	resp.FromError(&mapper.ConflictError{EntryType: "structures"})
	assert.Equal(t, "500", resp.Errors[0].Status)

	resp.FromError(errors.New("mystery"))
	assert.Equal(t, "500", resp.Errors[0].Status)
	assert.Equal(t, "error", resp.Errors[0].Code)
	assert.Equal(t, "mystery", resp.ToError().Error())
}

func TestErrorWrappers(t *testing.T) {
	inner := strata.ErrNoSuchEntry{EntryType: "structures", ID: "abc"}

	var resp ErrorResponse
	resp.FromError(ErrNotFound{Err: inner})
	assert.Equal(t, "ErrNoSuchEntry", resp.Errors[0].Code)
	assert.Equal(t, inner, resp.ToError())

	resp.FromError(ErrBadRequest{Err: errors.New("bad page_offset")})
	assert.Equal(t, "400", resp.Errors[0].Status)

	resp.FromError(ErrInternal{Err: &mapper.ConflictError{EntryType: "links"}})
	assert.Equal(t, "500", resp.Errors[0].Status)
	assert.Equal(t, "ErrAttributesConflict", resp.Errors[0].Code)
}

func TestHTTPStatusHelper(t *testing.T) {
	assert.Equal(t, http.StatusUnsupportedMediaType, HTTPStatus(ErrUnsupportedMediaType{Type: "x"}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound{Err: errors.New("gone")}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrBadRequest{Err: errors.New("nope")}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("other")))
}

func TestFromPanic(t *testing.T) {
	var resp ErrorResponse
	resp.FromPanic(errors.New("boom"))
	assert.Equal(t, "panic", resp.Errors[0].Code)
	assert.Equal(t, "boom", resp.Errors[0].Title)
	assert.NotEmpty(t, resp.Stack)

	resp.FromPanic(42)
	assert.Equal(t, "42", resp.Errors[0].Title)
}
