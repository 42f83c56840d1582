// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mapper

import "fmt"

// backendIDKey is the backend-internal identifier key.  It never
// appears in canonical resources.
const backendIDKey = "_id"

// ConflictError reports that a backend record carried, or aliased a
// field onto, the reserved "attributes" key.  Such a record cannot be
// reshaped; the error is internal and callers surface it as a server
// fault, with logging, rather than dropping it.
type ConflictError struct {
	// EntryType is the entry type whose record was malformed.
	EntryType string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("backend record for %q already carries an attributes field", e.EntryType)
}

// Reshape converts a backend record into canonical resource form.
// The input map is never modified.
//
// The backend "_id" key is dropped.  Keys that are not the backend
// side of any alias pair copy through verbatim; alias pairs then apply
// in priority order, each setting its canonical name from the backend
// value, so a later pair for the same canonical name overwrites an
// earlier one and an aliased value overwrites a verbatim copy.  Of the
// result, "id", "relationships", and "links" move to the top level
// when present and non-nil, "type" is forced to the mapper's entry
// type, and everything else lands under "attributes".
//
// If the input record contains a literal "attributes" key, or the
// aliased result would, Reshape returns a *ConflictError.
func (m *Mapper) Reshape(doc map[string]interface{}) (map[string]interface{}, error) {
	if _, ok := doc["attributes"]; ok {
		return nil, &ConflictError{EntryType: m.def.EntryType}
	}

	table := m.table()
	working := make(map[string]interface{}, len(doc))
	for key, value := range doc {
		if key == backendIDKey || table.hasBackend(key) {
			continue
		}
		working[key] = value
	}
	for _, pair := range table.pairs {
		if value, ok := doc[pair.Backend]; ok {
			working[pair.Canonical] = value
		}
	}
	if _, ok := working["attributes"]; ok {
		return nil, &ConflictError{EntryType: m.def.EntryType}
	}

	resource := make(map[string]interface{}, len(topLevelFields)+1)
	for _, field := range topLevelFields {
		value, ok := working[field]
		if !ok {
			continue
		}
		delete(working, field)
		if value != nil {
			resource[field] = value
		}
	}
	resource["type"] = m.def.EntryType
	resource["attributes"] = working
	return resource, nil
}
