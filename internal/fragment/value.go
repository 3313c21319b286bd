package fragment

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindText
	KindBool
)

// String returns the lowercase kind name used in configuration files.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration type name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int", "integer":
		return KindInt, nil
	case "text", "string":
		return KindText, nil
	case "bool", "boolean":
		return KindBool, nil
	case "null":
		return KindNull, nil
	default:
		return KindNull, fmt.Errorf("unknown header type %q (valid: int, text, bool)", s)
	}
}

// Value is a single header value. The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	s    string
	b    bool
}

func IntValue(i int64) Value   { return Value{kind: KindInt, i: i} }
func TextValue(s string) Value { return Value{kind: KindText, s: s} }
func BoolValue(b bool) Value   { return Value{kind: KindBool, b: b} }
func NullValue() Value         { return Value{} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer and true if v holds an integer.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Text returns the string and true if v holds text.
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Bool returns the boolean and true if v holds a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns v as a plain Go value: int64, string, bool or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindText:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// ValueOf converts a decoded Go value into a Value. It accepts the integer,
// string, bool and nil types produced by the TOML and YAML decoders.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case int64:
		return IntValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case string:
		return TextValue(t), nil
	case bool:
		return BoolValue(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T (allowed: integer, string, boolean, null)", x)
	}
}

// ParseAs converts raw text into a Value of the requested kind.
func ParseAs(key, raw string, kind Kind) (Value, error) {
	switch kind {
	case KindText:
		return TextValue(raw), nil
	case KindInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, &DataTypeError{Key: key, Expected: KindInt, Received: guessKind(raw)}
		}
		return IntValue(i), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, &DataTypeError{Key: key, Expected: KindBool, Received: guessKind(raw)}
		}
		return BoolValue(b), nil
	default:
		return NullValue(), nil
	}
}

func guessKind(raw string) Kind {
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return KindInt
	}
	if _, err := strconv.ParseBool(raw); err == nil {
		return KindBool
	}
	return KindText
}
