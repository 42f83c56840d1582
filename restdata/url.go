// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"encoding/base64"
)

// urlSafe reports whether a byte can appear in a URL path segment
// without escaping.  These characters are "unreserved" in RFC 3986
// section 2.3, plus ":" which is legal inside a path segment.
func urlSafe(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == ':':
		return true
	}
	return false
}

// MaybeEncodeID examines an entry ID, and if it cannot be directly
// inserted into a URL as-is, base64 encodes it.  More specifically,
// the encoded ID begins with - and uses the URL-safe base64 alphabet
// with no padding.  An empty ID and an ID that begins with - are also
// encoded, since they would otherwise be ambiguous.
func MaybeEncodeID(id string) string {
	safe := len(id) > 0 && id[0] != '-'
	if safe {
		for _, c := range id {
			if !urlSafe(c) {
				safe = false
				break
			}
		}
	}
	if safe {
		return id
	}
	return "-" + base64.RawURLEncoding.EncodeToString([]byte(id))
}

// MaybeDecodeID examines an entry ID, and if it appears to be base64
// encoded, decodes it.  base64 encoded IDs begin with a - sign.  This
// function is the dual of MaybeEncodeID().  Returns an error if the
// ID begins with - and the remainder isn't actually base64 encoded.
func MaybeDecodeID(id string) (string, error) {
	if len(id) == 0 || id[0] != '-' {
		return id, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(id[1:])
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
