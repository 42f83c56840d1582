// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes strata storage as a REST service.
// The restclient package is a matching client.
//
// The complete REST API is defined in the restdata package.  In
// particular, note that the URLs described here are not actually part
// of the API; clients should start from the root document and follow
// its URI templates.
//
// # HTTP Considerations
//
// Responses are negotiated through the standard HTTP Accept: header.
// Every resource has a JSON representation; single structure entries
// can additionally be retrieved as chemical/x-cif, and entry listings
// as a spreadsheet.  See the restdata package for the media types.
//
// This interface does not (currently) support HTTP caching or
// authentication headers.
//
// # URL Scheme
//
// Entry resources follow their natural hierarchy and are addressed by
// entry type and ID.  If an ID is not URL-safe printable ASCII, it
// must be base64 encoded using the URL-safe alphabet (RFC 4648
// section 5), with no padding, and adding an additional - at the
// front: /v1/structures/-aGFzIHNwYWNl is the structure whose ID is
// "has space".
//
// The following URLs are defined:
//
//	/
//	/v1/info
//	/v1/info/{entry}
//	/v1/{entry}
//	/v1/{entry}/{id}
//
// Entry listings accept the query parameters page_offset, page_limit,
// sort, response_fields, and one filter[name] pair per filtered
// field.  Filter values compare for equality, except that a filter on
// a list-valued field tests membership.  Single entries accept
// response_fields.  All field names in query parameters are canonical
// names; translation to the storage backend's own field names happens
// through the entry type's mapper.
package restserver
