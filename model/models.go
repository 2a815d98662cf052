/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PropertyType is the declared type of a model property. It selects the codec used
// to write the value into a hash field and to read it back.
type PropertyType string

const (
	String  PropertyType = "String"
	Number  PropertyType = "Number"
	Boolean PropertyType = "Boolean"
	Date    PropertyType = "Date"
	JSON    PropertyType = "JSON"
)

// IDField is the record field holding the auto-incremented identifier.
const IDField = "id"

// Property describes one field of a model.
type Property struct {
	// Name is the record field name.
	Name string `yaml:"name" json:"name"`
	// Type is the declared type; empty means String.
	Type PropertyType `yaml:"type" json:"type"`
	// Index maintains a secondary index set for every value of this field.
	Index bool `yaml:"index" json:"index"`
}

// Descriptor is the adapter's view of a model definition.
type Descriptor struct {
	Name       string     `yaml:"name" json:"name"`
	Properties []Property `yaml:"properties" json:"properties"`
}

// Property returns the named property definition, if any.
func (d Descriptor) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Record is a flat mapping from field name to scalar value.
type Record map[string]any

// ID returns the record's identifier as an int64.
func (r Record) ID() (int64, bool) {
	v, ok := r[IDField]
	if !ok || v == nil {
		return 0, false
	}
	id, err := ParseID(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ParseID converts an identifier of any integer-like type into an int64.
func ParseID(v any) (int64, error) {
	switch id := v.(type) {
	case int:
		return int64(id), nil
	case int32:
		return int64(id), nil
	case int64:
		return id, nil
	case uint:
		return int64(id), nil
	case uint32:
		return int64(id), nil
	case uint64:
		return int64(id), nil
	case float64:
		if id != float64(int64(id)) {
			return 0, fmt.Errorf("id %v is not an integer", id)
		}
		return int64(id), nil
	case json.Number:
		return id.Int64()
	case string:
		return strconv.ParseInt(id, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}
