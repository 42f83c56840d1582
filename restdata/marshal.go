// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"mime"
	"reflect"

	"github.com/ugorji/go/codec"
)

// NewJSONHandle returns a codec handle for the JSON representation.
// Untyped JSON objects decode as map[string]interface{}, matching the
// strata.Document shape, rather than the codec default.
func NewJSONHandle() *codec.JsonHandle {
	handle := &codec.JsonHandle{}
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return handle
}

// NormalizeMediaType parses a Content-Type or Accept value and
// promotes the JSON synonyms to the specific V1 type.  It returns
// ErrUnsupportedMediaType for anything it does not recognize.
func NormalizeMediaType(contentType string) (string, error) {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrBadRequest{Err: err}
	}
	switch mediaType {
	case "text/json", "application/json", JSONAPIMediaType, JSONMediaType, V1JSONMediaType:
		return V1JSONMediaType, nil
	case CIFMediaType, XLSXMediaType:
		return mediaType, nil
	default:
		return "", ErrUnsupportedMediaType{Type: mediaType}
	}
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response body.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	mediaType, err := NormalizeMediaType(contentType)
	if err != nil {
		return err
	}
	switch mediaType {
	case V1JSONMediaType:
		decoder := codec.NewDecoder(r, NewJSONHandle())
		return decoder.Decode(out)
	default:
		// CIF and spreadsheet representations are render-only.
		return ErrUnsupportedMediaType{Type: mediaType}
	}
}

// Encode writes a restdata object to a writer in the JSON
// representation.  Renderings other than JSON (CIF, spreadsheets) are
// produced by their own packages, not here.
func Encode(contentType string, w io.Writer, obj interface{}) error {
	mediaType, err := NormalizeMediaType(contentType)
	if err != nil {
		return err
	}
	switch mediaType {
	case V1JSONMediaType:
		encoder := codec.NewEncoder(w, NewJSONHandle())
		return encoder.Encode(obj)
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}
}
