// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package strata

import "github.com/diffeo/go-strata/mapper"

// NewMappers builds one mapper per entry type definition, applying
// the matching deployment where one exists.  Entry types absent from
// deps get a zero deployment, which is valid as long as the
// definition declares no provider fields.
func NewMappers(defs map[string]mapper.Definition, deps map[string]mapper.Deployment) (map[string]*mapper.Mapper, error) {
	mappers := make(map[string]*mapper.Mapper, len(defs))
	for name, def := range defs {
		m, err := mapper.New(def, deps[name])
		if err != nil {
			return nil, err
		}
		mappers[name] = m
	}
	return mappers, nil
}

// Project trims a canonical resource's attributes to the requested
// fields plus the mapper's required response fields.  An empty field
// list means the whole resource.  The resource is modified in place
// and returned; collections call this on maps they own.
func Project(resource Document, fields []string, m *mapper.Mapper) Document {
	if len(fields) == 0 {
		return resource
	}
	keep := make(map[string]bool, len(fields))
	for _, field := range fields {
		keep[field] = true
	}
	for field := range m.RequiredFields() {
		keep[field] = true
	}
	attrs, ok := resource.Attributes()
	if !ok {
		return resource
	}
	trimmed := make(map[string]interface{}, len(keep))
	for name, value := range attrs {
		if keep[name] {
			trimmed[name] = value
		}
	}
	resource["attributes"] = trimmed
	return resource
}
