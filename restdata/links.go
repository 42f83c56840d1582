// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// LinkType describes how a linked deployment relates to this one.
type LinkType string

// Valid link types.
const (
	LinkChild     LinkType = "child"
	LinkRoot      LinkType = "root"
	LinkExternal  LinkType = "external"
	LinkProviders LinkType = "providers"
)

// Valid reports whether t is one of the defined link types.
func (t LinkType) Valid() bool {
	switch t {
	case LinkChild, LinkRoot, LinkExternal, LinkProviders:
		return true
	}
	return false
}

// Aggregate describes whether clients should aggregate a linked
// deployment.
type Aggregate string

// Valid aggregate values.
const (
	AggregateOK      Aggregate = "ok"
	AggregateTest    Aggregate = "test"
	AggregateStaging Aggregate = "staging"
	AggregateNo      Aggregate = "no"
)

// Valid reports whether a is one of the defined aggregate values.
func (a Aggregate) Valid() bool {
	switch a {
	case AggregateOK, AggregateTest, AggregateStaging, AggregateNo:
		return true
	}
	return false
}

// ErrNoLinkName is returned when a links entry has no name.
var ErrNoLinkName = errors.New("links entry must have a 'name'")

// LinksAttributes is the typed form of a links entry's attributes.
type LinksAttributes struct {
	Name              string    `mapstructure:"name" json:"name"`
	Description       string    `mapstructure:"description" json:"description"`
	BaseURL           string    `mapstructure:"base_url" json:"base_url"`
	Homepage          string    `mapstructure:"homepage" json:"homepage,omitempty"`
	LinkType          LinkType  `mapstructure:"link_type" json:"link_type"`
	Aggregate         Aggregate `mapstructure:"aggregate" json:"aggregate"`
	NoAggregateReason string    `mapstructure:"no_aggregate_reason" json:"no_aggregate_reason,omitempty"`
}

// DecodeLinksAttributes converts the attributes of a canonical links
// resource into typed form, validating the enumerated fields.  An
// absent aggregate defaults to "ok".  Provider-specific fields and
// other extras are ignored.
func DecodeLinksAttributes(attrs map[string]interface{}) (*LinksAttributes, error) {
	var result LinksAttributes
	config := mapstructure.DecoderConfig{
		Result: &result,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(attrs); err != nil {
		return nil, err
	}
	if result.Name == "" {
		return nil, ErrNoLinkName
	}
	if !result.LinkType.Valid() {
		return nil, fmt.Errorf("invalid link_type %q", string(result.LinkType))
	}
	if result.Aggregate == "" {
		result.Aggregate = AggregateOK
	}
	if !result.Aggregate.Valid() {
		return nil, fmt.Errorf("invalid aggregate %q", string(result.Aggregate))
	}
	return &result, nil
}
