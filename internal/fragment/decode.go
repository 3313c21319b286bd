package fragment

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DecodeHeader decodes header text in the given syntax into a metadata map.
// Keys are not checked against any schema.
func DecodeHeader(header string, format Format) (map[string]Value, error) {
	switch format {
	case FormatTOML:
		return decodeTOML(header)
	case FormatYAML:
		return decodeYAML(header)
	default:
		return nil, fmt.Errorf("unsupported header format %s", format)
	}
}

func decodeTOML(header string) (map[string]Value, error) {
	var raw map[string]any
	if _, err := toml.Decode(header, &raw); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, &TOMLError{Line: perr.Position.Line, Column: perr.Position.Col, Err: err}
		}
		return nil, &TOMLError{Err: err}
	}

	out := make(map[string]Value, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		v, err := ValueOf(raw[key])
		if err != nil {
			return nil, &TOMLError{Err: fmt.Errorf("key %q: %w", key, err)}
		}
		out[key] = v
	}
	return out, nil
}

func decodeYAML(header string) (map[string]Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		line, column := extractLineColumn(err.Error())
		return nil, &YAMLError{Line: line, Column: column, Err: err}
	}

	out := make(map[string]Value)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return out, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &YAMLError{Line: root.Line, Column: root.Column, Err: errors.New("header must be a mapping of keys to values")}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, &YAMLError{Line: k.Line, Column: k.Column, Err: errors.New("header keys must be scalars")}
		}
		if _, dup := out[k.Value]; dup {
			return nil, &YAMLError{Line: k.Line, Column: k.Column, Err: fmt.Errorf("key %q defined more than once", k.Value)}
		}
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if v.Kind != yaml.ScalarNode {
			return nil, &YAMLError{Line: v.Line, Column: v.Column, Err: fmt.Errorf("key %q: unsupported value (allowed: integer, string, boolean, null)", k.Value)}
		}

		// Dates stay text; the value model has no time kind.
		if v.Tag == "!!timestamp" {
			out[k.Value] = TextValue(v.Value)
			continue
		}

		var x any
		if err := v.Decode(&x); err != nil {
			return nil, &YAMLError{Line: v.Line, Column: v.Column, Err: fmt.Errorf("key %q: %w", k.Value, err)}
		}
		val, err := ValueOf(x)
		if err != nil {
			return nil, &YAMLError{Line: v.Line, Column: v.Column, Err: fmt.Errorf("key %q: %w", k.Value, err)}
		}
		out[k.Value] = val
	}
	return out, nil
}

// EncodeHeader writes header in the given syntax, without delimiters.
// Null values are dropped for TOML, which has no null.
func EncodeHeader(w io.Writer, header map[string]Value, format Format) error {
	plain := make(map[string]any, len(header))
	for k, v := range header {
		if v.IsNull() && format == FormatTOML {
			continue
		}
		plain[k] = v.Interface()
	}

	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(plain); err != nil {
			return fmt.Errorf("encoding TOML header: %w", err)
		}
		return nil
	case FormatYAML:
		if len(plain) == 0 {
			return nil
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return fmt.Errorf("encoding YAML header: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported header format %s", format)
	}
}

// extractLineColumn pulls line and column numbers out of a yaml.v3 error
// message. Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 0
	}
	if i := strings.Index(errMsg, "line "); i >= 0 {
		if n, _ := fmt.Sscanf(errMsg[i:], "line %d:", &l); n == 1 {
			return l, 0
		}
	}
	return 0, 0
}
