package relay

import (
	"fmt"
	"path"
	"reflect"
	"strings"
)

// Schema is a JSON Schema object, the subset OpenAPI 3.1 uses
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Description string             `json:"description,omitempty"`
	Ref         string             `json:"$ref,omitempty"`

	// AdditionalProperties describes map value schemas
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
}

const componentRefPrefix = "#/components/schemas/"

// SchemaRenderer renders reflect types into JSON Schema documents. Named
// struct types are hoisted once into a shared component table and referenced,
// so schemas used by several operations are not inlined repeatedly. A
// renderer accumulates components across calls; one renderer backs one
// document generation.
type SchemaRenderer struct {
	components map[string]*Schema
	byName     map[string]reflect.Type
	named      map[reflect.Type]string
}

// NewSchemaRenderer creates an empty renderer
func NewSchemaRenderer() *SchemaRenderer {
	return &SchemaRenderer{
		components: make(map[string]*Schema),
		byName:     make(map[string]reflect.Type),
		named:      make(map[reflect.Type]string),
	}
}

// Components returns the accumulated shared component table
func (r *SchemaRenderer) Components() map[string]*Schema {
	return r.components
}

// Render converts a type into its schema, hoisting named structs into the
// component table. A nil type renders as the empty (any) schema.
func (r *SchemaRenderer) Render(t reflect.Type) (*Schema, error) {
	if t == nil {
		return &Schema{}, nil
	}

	if t.Kind() == reflect.Pointer {
		return r.Render(t.Elem())
	}

	// Well-known types with fixed wire formats.
	switch t {
	case typeTime:
		return &Schema{Type: "string", Format: "date-time"}, nil
	case typeDuration:
		return &Schema{Type: "string", Format: "duration"}, nil
	case typeUUID:
		return &Schema{Type: "string", Format: "uuid"}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}, nil
		}
		items, err := r.Render(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}, nil
		}
		values, err := r.Render(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		if t.Name() == "" {
			return r.structSchema(t)
		}
		return r.hoist(t)
	case reflect.Interface:
		return &Schema{}, nil
	default:
		return nil, fmt.Errorf("cannot render %s into a schema", t)
	}
}

// hoist registers a named struct in the component table and returns a
// reference to it. The placeholder-first registration keeps self-referential
// types from recursing forever.
func (r *SchemaRenderer) hoist(t reflect.Type) (*Schema, error) {
	if name, ok := r.named[t]; ok {
		return &Schema{Ref: componentRefPrefix + name}, nil
	}

	name, err := r.componentName(t)
	if err != nil {
		return nil, err
	}
	r.named[t] = name
	r.byName[name] = t

	placeholder := &Schema{}
	r.components[name] = placeholder

	built, err := r.structSchema(t)
	if err != nil {
		return nil, err
	}
	*placeholder = *built

	return &Schema{Ref: componentRefPrefix + name}, nil
}

// componentName picks a unique component table key for a named struct.
// Unrelated types sharing a bare name are disambiguated by qualifying with
// the Go package name; a collision surviving qualification is an error
// rather than a silent overwrite.
func (r *SchemaRenderer) componentName(t reflect.Type) (string, error) {
	name := t.Name()
	if existing, taken := r.byName[name]; !taken || existing == t {
		return name, nil
	}

	qualified := path.Base(t.PkgPath()) + "_" + name
	if existing, taken := r.byName[qualified]; taken && existing != t {
		return "", fmt.Errorf("schema component name collision: %s and %s both render as %q", existing, t, qualified)
	}
	return qualified, nil
}

func (r *SchemaRenderer) structSchema(t reflect.Type) (*Schema, error) {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous {
			// Embedded structs flatten into the parent.
			embedded, err := r.structSchema(derefType(f.Type))
			if err != nil {
				return nil, err
			}
			for name, prop := range embedded.Properties {
				schema.Properties[name] = prop
			}
			schema.Required = append(schema.Required, embedded.Required...)
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop, err := r.Render(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
		}
		if doc := f.Tag.Get("doc"); doc != "" && prop.Ref == "" {
			prop.Description = doc
		}
		schema.Properties[name] = prop

		// Pointer fields are optional; everything else is required.
		if f.Type.Kind() != reflect.Pointer {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema, nil
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// jsonFieldName returns the JSON field name for a struct field
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
