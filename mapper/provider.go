// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package mapper

import (
	"errors"
	"fmt"
)

// separator joins the pieces of a namespaced provider field name,
// "_" + prefix + "_" + field.  The prefix itself must never contain
// it; field names may.
const separator = "_"

// ErrNoPrefix is returned by New when provider fields are declared but
// the deployment has no provider prefix to namespace them under.
var ErrNoPrefix = errors.New("provider fields declared without a provider prefix")

// BadPrefixError is returned by New and ValidatePrefix when a provider
// prefix is not a lowercase alphanumeric token.
type BadPrefixError struct {
	// Prefix is the rejected prefix.
	Prefix string
}

func (e *BadPrefixError) Error() string {
	return fmt.Sprintf("invalid provider prefix %q", e.Prefix)
}

// ValidatePrefix checks that a provider prefix is usable: a non-empty
// run of lowercase letters and digits, starting with a letter.  In
// particular it must not contain "_", which would make the namespaced
// form ambiguous.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return &BadPrefixError{Prefix: prefix}
	}
	for i, c := range prefix {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return &BadPrefixError{Prefix: prefix}
			}
		default:
			return &BadPrefixError{Prefix: prefix}
		}
	}
	return nil
}

// NamespaceField returns the canonical form of a provider-specific
// field: "_" + prefix + "_" + field.
func NamespaceField(prefix, field string) string {
	return separator + prefix + separator + field
}

// providerPairs synthesizes alias pairs for provider fields: the
// canonical side is the namespaced form, the backend side is the bare
// field name.
func providerPairs(prefix string, fields []string) []Pair {
	if len(fields) == 0 {
		return nil
	}
	pairs := make([]Pair, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, Pair{
			Canonical: NamespaceField(prefix, field),
			Backend:   field,
		})
	}
	return pairs
}
