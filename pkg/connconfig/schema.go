// pkg/connconfig/schema.go
//
// Declarative connection-configuration schemas for connector settings
// forms. A schema is pure field metadata: labels, ordering, types,
// defaults, sensitivity, display hints and conditional visibility. The
// settings UI that renders it lives elsewhere; this package loads,
// validates and presents the document.

package connconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	cerr "github.com/cockroachdb/errors"
)

// FieldType is the value type of a configuration field.
type FieldType string

const (
	TypeString  FieldType = "str"
	TypeInteger FieldType = "int"
	TypeList    FieldType = "list"
	TypeBool    FieldType = "bool"
)

// Display hints how a field is rendered.
type Display string

const (
	DisplayText     Display = "text"
	DisplayNumeric  Display = "numeric"
	DisplayDropdown Display = "dropdown"
	DisplayTextarea Display = "textarea"
	DisplayToggle   Display = "toggle"
)

// SensitiveMask replaces sensitive values in redacted views.
const SensitiveMask = "********"

// Dependency is a conditional-visibility rule: the owning field is shown
// only while the referenced field currently equals Value.
type Dependency struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// Option is one dropdown choice.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field is a single configuration field descriptor.
type Field struct {
	Label          string       `json:"label"`
	Order          int          `json:"order,omitempty"`
	Type           FieldType    `json:"type"`
	Value          interface{}  `json:"value"`
	DefaultValue   interface{}  `json:"default_value,omitempty"`
	Sensitive      bool         `json:"sensitive,omitempty"`
	Display        Display      `json:"display,omitempty"`
	Options        []Option     `json:"options,omitempty"`
	UIRestrictions []string     `json:"ui_restrictions,omitempty"`
	DependsOn      []Dependency `json:"depends_on,omitempty"`
	Required       *bool        `json:"required,omitempty"`
	Tooltip        string       `json:"tooltip,omitempty"`
}

// NamedField pairs a field with its schema key.
type NamedField struct {
	Name string
	*Field
}

// Schema is a loaded connection-configuration document.
type Schema struct {
	Configuration map[string]*Field `json:"configuration"`
}

// Load reads and parses a schema document from disk.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "read schema file %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, cerr.Wrapf(err, "parse schema file %s", path)
	}
	return s, nil
}

// Parse decodes a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, cerr.Wrap(err, "decode configuration schema")
	}
	if s.Configuration == nil {
		return nil, cerr.New(`configuration schema has no "configuration" key`)
	}
	return &s, nil
}

// Field looks up a descriptor by name.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.Configuration[name]
	return f, ok
}

// Fields returns all descriptors sorted by order, ties broken by name so
// the rendering is stable.
func (s *Schema) Fields() []NamedField {
	out := make([]NamedField, 0, len(s.Configuration))
	for name, f := range s.Configuration {
		out = append(out, NamedField{Name: name, Field: f})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Redacted returns a copy of the schema with sensitive values masked.
func (s *Schema) Redacted() *Schema {
	out := &Schema{Configuration: make(map[string]*Field, len(s.Configuration))}
	for name, f := range s.Configuration {
		cp := *f
		if cp.Sensitive {
			if cp.Value != nil && cp.Value != "" {
				cp.Value = SensitiveMask
			}
			if cp.DefaultValue != nil && cp.DefaultValue != "" {
				cp.DefaultValue = SensitiveMask
			}
		}
		out.Configuration[name] = &cp
	}
	return out
}

// EffectiveValue is the field's current value, falling back to its default.
func (f *Field) EffectiveValue() interface{} {
	if f.Value == nil || f.Value == "" {
		return f.DefaultValue
	}
	return f.Value
}

// IsRequired reports whether the field must be filled in. Fields are
// required unless the descriptor says otherwise.
func (f *Field) IsRequired() bool {
	if f.Required == nil {
		return true
	}
	return *f.Required
}

// IsVisible resolves the field's depends_on rules against the current
// values in the schema. A field with no rules is always visible; a rule
// referencing a missing field hides it (Validate reports that as a
// violation).
func (f *Field) IsVisible(s *Schema) bool {
	for _, dep := range f.DependsOn {
		ref, ok := s.Configuration[dep.Field]
		if !ok {
			return false
		}
		if !looselyEqual(ref.EffectiveValue(), dep.Value) {
			return false
		}
	}
	return true
}

// looselyEqual compares a current value with a dependency value. JSON
// decoding yields float64 for numbers, so comparison goes through the
// printed form.
func looselyEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
