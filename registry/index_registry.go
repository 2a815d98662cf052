/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sync"

	"github.com/suparena/kvbridge/model"
)

// IndexRegistry records, per model, which properties are indexed and the declared
// type of every property. It is populated when models are defined and only read
// afterwards. Each adapter owns its own registry.
type IndexRegistry struct {
	mu      sync.RWMutex
	indexes map[string]map[string]model.PropertyType
	fields  map[string]map[string]model.PropertyType
}

// NewIndexRegistry returns an empty registry.
func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		indexes: make(map[string]map[string]model.PropertyType),
		fields:  make(map[string]map[string]model.PropertyType),
	}
}

// Register replaces the definition of modelName with props.
func (r *IndexRegistry) Register(modelName string, props []model.Property) {
	idx := make(map[string]model.PropertyType)
	fields := make(map[string]model.PropertyType, len(props))
	for _, p := range props {
		typ := p.Type
		if typ == "" {
			typ = model.String
		}
		fields[p.Name] = typ
		if p.Index {
			idx[p.Name] = typ
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes[modelName] = idx
	r.fields[modelName] = fields
}

// RegisterForeignKey indexes a relation key as a Number. It always succeeds and
// creates the model entry when the model was not defined yet.
func (r *IndexRegistry) RegisterForeignKey(modelName, prop string) model.PropertyType {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexes[modelName] == nil {
		r.indexes[modelName] = make(map[string]model.PropertyType)
	}
	if r.fields[modelName] == nil {
		r.fields[modelName] = make(map[string]model.PropertyType)
	}
	r.indexes[modelName][prop] = model.Number
	r.fields[modelName][prop] = model.Number
	return model.Number
}

// Lookup returns the declared type of an indexed property.
func (r *IndexRegistry) Lookup(modelName, prop string) (model.PropertyType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.indexes[modelName][prop]
	return t, ok
}

// FieldType returns the declared type of any property, indexed or not.
func (r *IndexRegistry) FieldType(modelName, prop string) (model.PropertyType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.fields[modelName][prop]
	return t, ok
}

// Known reports whether modelName has been defined.
func (r *IndexRegistry) Known(modelName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.indexes[modelName]
	return ok
}

// Indexed returns a copy of the indexed properties of modelName.
func (r *IndexRegistry) Indexed(modelName string) map[string]model.PropertyType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make(map[string]model.PropertyType, len(r.indexes[modelName]))
	for k, v := range r.indexes[modelName] {
		res[k] = v
	}
	return res
}
