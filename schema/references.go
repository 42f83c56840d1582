// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package schema

// References returns the attribute description for the "references"
// entry type: bibliographic records that structures may cite.
func References() Description {
	return Description{
		"title": {
			Description: "Title of the referenced work",
			Type:        String,
			Sortable:    true,
		},
		"authors": {
			Description: "Authors of the referenced work, each with given and family names",
			Type:        List,
		},
		"year": {
			Description: "Year of publication",
			Type:        String,
			Sortable:    true,
		},
		"journal": {
			Description: "Journal or publication venue",
			Type:        String,
			Sortable:    true,
		},
		"volume": {
			Description: "Volume of the publication",
			Type:        String,
		},
		"pages": {
			Description: "Page range of the referenced work",
			Type:        String,
		},
		"doi": {
			Description: "Digital object identifier",
			Type:        String,
			Sortable:    true,
		},
		"url": {
			Description: "Location of the referenced work on the web",
			Type:        String,
		},
		"bib_type": {
			Description: "BibTeX entry type of the reference",
			Type:        String,
		},
		"note": {
			Description: "Free-form note attached to the reference",
			Type:        String,
		},
		"last_modified": {
			Description: "Time of the last modification of this record",
			Type:        Timestamp,
			Sortable:    true,
		},
	}
}

// Links returns the attribute description for the "links" entry type:
// pointers to related API deployments and provider sites.
func Links() Description {
	return Description{
		"name": {
			Description: "Human-readable name of the linked deployment",
			Type:        String,
			Sortable:    true,
		},
		"description": {
			Description: "Human-readable description of the linked deployment",
			Type:        String,
		},
		"base_url": {
			Description: "Base URL of the linked deployment",
			Type:        String,
		},
		"homepage": {
			Description: "Homepage of the provider behind the linked deployment",
			Type:        String,
		},
		"link_type": {
			Description: "Relationship of the link to this deployment: child, root, external, or providers",
			Type:        String,
			Sortable:    true,
		},
		"aggregate": {
			Description: "Whether clients should aggregate the linked deployment: ok, test, staging, or no",
			Type:        String,
		},
		"no_aggregate_reason": {
			Description: "Why the linked deployment should not be aggregated",
			Type:        String,
		},
	}
}
