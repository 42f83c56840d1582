// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package strata

import (
	"errors"
	"fmt"
)

// ErrBadDocument is returned by Collection.Insert when handed
// something that cannot be stored as a record, such as a nil
// document.
var ErrBadDocument = errors.New("Cannot store an empty document")

// ErrNoSuchEntryType is returned by Storage.Collection() and similar
// functions that look up an entry type that does not exist.
type ErrNoSuchEntryType struct {
	Name string
}

func (err ErrNoSuchEntryType) Error() string {
	return fmt.Sprintf("No such entry type %v", err.Name)
}

// ErrNoSuchEntry is returned by Collection.Get() when no record has
// the requested ID.
type ErrNoSuchEntry struct {
	EntryType string
	ID        string
}

func (err ErrNoSuchEntry) Error() string {
	return fmt.Sprintf("No such %v entry %v", err.EntryType, err.ID)
}

// ErrUnknownField is returned when a query or projection names a
// canonical field the entry type does not serve.  Lookups through the
// mapper never fail on their own; this error comes from callers that
// explicitly validate names against the mapper's attribute set.
type ErrUnknownField struct {
	EntryType string
	Field     string
}

func (err ErrUnknownField) Error() string {
	return fmt.Sprintf("No field %v in entry type %v", err.Field, err.EntryType)
}

// ErrUnsortableField is returned when a query asks to sort on a field
// the entry type's schema does not mark sortable.
type ErrUnsortableField struct {
	EntryType string
	Field     string
}

func (err ErrUnsortableField) Error() string {
	return fmt.Sprintf("Cannot sort entry type %v by field %v", err.EntryType, err.Field)
}
