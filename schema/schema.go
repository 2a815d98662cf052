/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"os"
	"sort"

	"github.com/suparena/kvbridge/model"
	"gopkg.in/yaml.v3"
)

// Vendor extensions read from the document.
const (
	ExtIndex       = "x-kv-index"
	ExtForeignKeys = "x-kv-foreign-keys"
)

type document struct {
	Components struct {
		Schemas map[string]objectSchema `yaml:"schemas"`
	} `yaml:"components"`
}

type objectSchema struct {
	Type        string     `yaml:"type"`
	Properties  properties `yaml:"properties"`
	ForeignKeys []string   `yaml:"x-kv-foreign-keys"`
}

type propertySchema struct {
	Type   string `yaml:"type"`
	Format string `yaml:"format"`
	Index  bool   `yaml:"x-kv-index"`
}

type namedProperty struct {
	name string
	propertySchema
}

// properties keeps the order in which the document lists them.
type properties []namedProperty

func (p *properties) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var ps propertySchema
		if err := n.Content[i+1].Decode(&ps); err != nil {
			return err
		}
		*p = append(*p, namedProperty{name: n.Content[i].Value, propertySchema: ps})
	}
	return nil
}

// Definition is one model read from a schema document.
type Definition struct {
	Descriptor  model.Descriptor
	ForeignKeys []string
}

// Definer is the part of the adapter a Definition is applied to.
type Definer interface {
	Define(desc model.Descriptor)
	DefineForeignKey(modelName, key string) (model.PropertyType, error)
}

// Apply defines the model, then its foreign keys.
func (d Definition) Apply(a Definer) error {
	a.Define(d.Descriptor)
	for _, fk := range d.ForeignKeys {
		if _, err := a.DefineForeignKey(d.Descriptor.Name, fk); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a schema file.
func Load(path string) ([]Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defs, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse reads the models under components.schemas, sorted by name.
func Parse(data []byte) ([]Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		s := doc.Components.Schemas[name]
		if s.Type != "" && s.Type != "object" {
			return nil, fmt.Errorf("schema %q: type %q is not an object", name, s.Type)
		}
		desc := model.Descriptor{Name: name, Properties: make([]model.Property, 0, len(s.Properties))}
		for _, p := range s.Properties {
			typ, err := propertyType(p.propertySchema)
			if err != nil {
				return nil, fmt.Errorf("schema %q property %q: %w", name, p.name, err)
			}
			desc.Properties = append(desc.Properties, model.Property{Name: p.name, Type: typ, Index: p.Index})
		}
		defs = append(defs, Definition{Descriptor: desc, ForeignKeys: s.ForeignKeys})
	}
	return defs, nil
}

func propertyType(p propertySchema) (model.PropertyType, error) {
	switch p.Type {
	case "", "string":
		if p.Format == "date-time" || p.Format == "date" {
			return model.Date, nil
		}
		return model.String, nil
	case "integer", "number":
		return model.Number, nil
	case "boolean":
		return model.Boolean, nil
	case "object", "array":
		return model.JSON, nil
	default:
		return "", fmt.Errorf("unsupported type %q", p.Type)
	}
}
