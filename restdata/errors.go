// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/diffeo/go-strata/mapper"
	"github.com/diffeo/go-strata/strata"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers, query parameters, or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrInternal is a wrapper error for faults the caller cannot fix,
// such as a backend record that cannot be reshaped.  Servers log the
// embedded error before responding.
type ErrInternal struct {
	Err error
}

func (e ErrInternal) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 500 Internal Server Error status code.
func (e ErrInternal) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatus returns the status code an error should be reported
// with: its own, if it carries one, or 500.
func HTTPStatus(err error) int {
	var statused ErrorStatus
	if errors.As(err, &statused) {
		return statused.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// joinValue and splitValue pack the two identifying parameters some
// strata errors carry into the single Value field.
func joinValue(a, b string) string {
	return a + "/" + b
}

func splitValue(value string) (string, string) {
	a, b, _ := strings.Cut(value, "/")
	return a, b
}

// FromError populates an ErrorResponse based on an error value.  This
// remaps the well-known strata errors to specific error codes so that
// clients can reconstruct them.
func (e *ErrorResponse) FromError(err error) {
	one := Error{
		Code:   "error",
		Title:  err.Error(),
		Status: strconv.Itoa(HTTPStatus(err)),
	}
	switch err {
	case strata.ErrBadDocument:
		one.Code = "ErrBadDocument"
		one.Status = strconv.Itoa(http.StatusBadRequest)
	}
	switch et := err.(type) {
	case strata.ErrNoSuchEntryType:
		one.Code = "ErrNoSuchEntryType"
		one.Value = et.Name
		one.Status = strconv.Itoa(http.StatusNotFound)
	case strata.ErrNoSuchEntry:
		one.Code = "ErrNoSuchEntry"
		one.Value = joinValue(et.EntryType, et.ID)
		one.Status = strconv.Itoa(http.StatusNotFound)
	case strata.ErrUnknownField:
		one.Code = "ErrUnknownField"
		one.Value = joinValue(et.EntryType, et.Field)
		one.Status = strconv.Itoa(http.StatusBadRequest)
	case strata.ErrUnsortableField:
		one.Code = "ErrUnsortableField"
		one.Value = joinValue(et.EntryType, et.Field)
		one.Status = strconv.Itoa(http.StatusBadRequest)
	case *mapper.ConflictError:
		one.Code = "ErrAttributesConflict"
		one.Value = et.EntryType
		one.Status = strconv.Itoa(http.StatusInternalServerError)
	case ErrNotFound:
		// Discard the wrapper and report the embedded error,
		// keeping the wrapper's status.
		e.FromError(et.Err)
		e.Errors[0].Status = strconv.Itoa(et.HTTPStatus())
		return
	case ErrBadRequest:
		e.FromError(et.Err)
		e.Errors[0].Status = strconv.Itoa(et.HTTPStatus())
		return
	case ErrInternal:
		e.FromError(et.Err)
		e.Errors[0].Status = strconv.Itoa(et.HTTPStatus())
		return
	}
	e.Errors = []Error{one}
}

// ToError converts e back to a strata error, if that is possible.  If
// not, returns a plain error with the first error's title.
func (e *ErrorResponse) ToError() error {
	if len(e.Errors) == 0 {
		return errors.New("unspecified error")
	}
	one := e.Errors[0]
	switch one.Code {
	case "ErrBadDocument":
		return strata.ErrBadDocument
	case "ErrNoSuchEntryType":
		return strata.ErrNoSuchEntryType{Name: one.Value}
	case "ErrNoSuchEntry":
		entryType, id := splitValue(one.Value)
		return strata.ErrNoSuchEntry{EntryType: entryType, ID: id}
	case "ErrUnknownField":
		entryType, field := splitValue(one.Value)
		return strata.ErrUnknownField{EntryType: entryType, Field: field}
	case "ErrUnsortableField":
		entryType, field := splitValue(one.Value)
		return strata.ErrUnsortableField{EntryType: entryType, Field: field}
	case "ErrAttributesConflict":
		return &mapper.ConflictError{EntryType: one.Value}
	default:
		return errors.New(one.Title)
	}
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//	defer func() {
//	    if obj := recover(); obj != nil {
//	        resp := restdata.ErrorResponse{}
//	        resp.FromPanic(obj)
//	        // write resp out as makes sense
//	    }
//	}
func (e *ErrorResponse) FromPanic(obj interface{}) {
	one := Error{
		Code:   "panic",
		Status: strconv.Itoa(http.StatusInternalServerError),
	}
	if recoveredError, isError := obj.(error); isError {
		one.Title = recoveredError.Error()
	} else {
		one.Title = fmt.Sprintf("%+v", obj)
	}
	e.Errors = []Error{one}
	var stack [4096]byte
	n := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:n])
}
