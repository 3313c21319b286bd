package config

import (
	"fmt"
	"math"
	"slices"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// FieldSchema is the resolved form of one configured header field.
type FieldSchema struct {
	Key string
	// Kind is the expected value kind; KindNull accepts any kind.
	Kind       fragment.Kind
	Required   bool
	Default    fragment.Value
	HasDefault bool
}

// HeaderSchema describes the header fields fragments are expected to carry.
// The zero value and a nil *HeaderSchema accept every header.
type HeaderSchema struct {
	fields map[string]FieldSchema
}

// NewHeaderSchema resolves configured header fields. Defaults must match
// their field's declared type.
func NewHeaderSchema(fields map[string]HeaderField) (*HeaderSchema, error) {
	s := &HeaderSchema{fields: make(map[string]FieldSchema, len(fields))}
	for _, key := range sortedKeys(fields) {
		field := fields[key]
		fs := FieldSchema{Key: key, Required: field.Required}

		if field.Type != "" {
			kind, err := fragment.ParseKind(field.Type)
			if err != nil {
				return nil, fmt.Errorf("header field %q: %w", key, err)
			}
			fs.Kind = kind
		}

		if field.Default != nil {
			v, err := fragment.ValueOf(normalizeNumber(field.Default))
			if err != nil {
				return nil, fmt.Errorf("header field %q default: %w", key, err)
			}
			if fs.Kind != fragment.KindNull && v.Kind() != fs.Kind {
				return nil, fmt.Errorf("header field %q default: %w", key,
					&fragment.DataTypeError{Key: key, Expected: fs.Kind, Received: v.Kind()})
			}
			fs.Default = v
			fs.HasDefault = true
		}

		s.fields[key] = fs
	}
	return s, nil
}

// HeaderSchema resolves the configured header fields.
func (c *Configuration) HeaderSchema() (*HeaderSchema, error) {
	return NewHeaderSchema(c.Header)
}

// Keys returns the configured header keys in sorted order.
func (s *HeaderSchema) Keys() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.fields)
}

// Field returns the schema for key.
func (s *HeaderSchema) Field(key string) (FieldSchema, bool) {
	if s == nil {
		return FieldSchema{}, false
	}
	fs, ok := s.fields[key]
	return fs, ok
}

// Coerce converts command line input into a header value. Declared fields
// are parsed as their kind; undeclared keys become an int or bool when the
// text reads as one, and text otherwise.
func (s *HeaderSchema) Coerce(key, raw string) (fragment.Value, error) {
	if fs, ok := s.Field(key); ok && fs.Kind != fragment.KindNull {
		return fragment.ParseAs(key, raw, fs.Kind)
	}
	for _, kind := range []fragment.Kind{fragment.KindInt, fragment.KindBool} {
		if v, err := fragment.ParseAs(key, raw, kind); err == nil {
			return v, nil
		}
	}
	return fragment.TextValue(raw), nil
}

// ApplyDefaults returns a copy of header with every missing defaulted field
// filled in.
func (s *HeaderSchema) ApplyDefaults(header map[string]fragment.Value) map[string]fragment.Value {
	out := make(map[string]fragment.Value, len(header))
	for k, v := range header {
		out[k] = v
	}
	for _, key := range s.Keys() {
		fs := s.fields[key]
		if _, ok := out[key]; !ok && fs.HasDefault {
			out[key] = fs.Default
		}
	}
	return out
}

// Check reports every required field missing from f and every declared
// field holding a value of the wrong kind. Null values match any kind.
func (s *HeaderSchema) Check(f fragment.Fragment) []error {
	var errs []error
	for _, key := range s.Keys() {
		fs := s.fields[key]
		v, ok := f.Get(key)
		switch {
		case !ok:
			if fs.Required {
				errs = append(errs, &fragment.MissingFieldError{Key: key})
			}
		case v.IsNull() || fs.Kind == fragment.KindNull:
		case v.Kind() != fs.Kind:
			errs = append(errs, &fragment.DataTypeError{Key: key, Expected: fs.Kind, Received: v.Kind()})
		}
	}
	return errs
}

// normalizeNumber turns whole float64 values (as produced by the JSON
// parser) into int64.
func normalizeNumber(x any) any {
	if f, ok := x.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return x
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
