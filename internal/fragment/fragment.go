package fragment

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"unicode/utf8"
)

// Fragment is one decoded changelog fragment: header metadata plus body
// text. A Fragment is immutable; accessors return copies.
type Fragment struct {
	header map[string]Value
	text   string
}

// New builds a Fragment from a header map and body text. The map is copied.
func New(header map[string]Value, text string) Fragment {
	h := make(map[string]Value, len(header))
	maps.Copy(h, header)
	return Fragment{header: h, text: text}
}

// FromReader reads a complete fragment file from r and decodes it.
func FromReader(r io.Reader) (Fragment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Fragment{}, fmt.Errorf("reading fragment: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fragment from its raw bytes.
func Parse(data []byte) (Fragment, error) {
	if !utf8.Valid(data) {
		return Fragment{}, ErrInvalidUTF8
	}

	parts, err := Split(string(data))
	if err != nil {
		return Fragment{}, err
	}

	header, err := DecodeHeader(parts.Header, parts.Format)
	if err != nil {
		return Fragment{}, shiftLine(err, parts.HeaderLine)
	}

	return Fragment{header: header, text: parts.Body}, nil
}

// Header returns a copy of the header metadata.
func (f Fragment) Header() map[string]Value {
	h := make(map[string]Value, len(f.header))
	maps.Copy(h, f.header)
	return h
}

// Get returns the header value for key.
func (f Fragment) Get(key string) (Value, bool) {
	v, ok := f.header[key]
	return v, ok
}

// Meta returns the header as plain Go values (int64, string, bool, nil),
// the form templates work with.
func (f Fragment) Meta() map[string]any {
	m := make(map[string]any, len(f.header))
	for k, v := range f.header {
		m[k] = v.Interface()
	}
	return m
}

// Text returns the body text exactly as it appeared in the file.
func (f Fragment) Text() string { return f.text }

// Encode writes f as a fragment file using the delimiters and header
// syntax of format.
func Encode(w io.Writer, f Fragment, format Format) error {
	var buf bytes.Buffer
	delim := format.Delimiter() + "\n"

	buf.WriteString(delim)
	if err := EncodeHeader(&buf, f.header, format); err != nil {
		return err
	}
	buf.WriteString(delim)
	buf.WriteString("\n")
	buf.WriteString(f.text)

	_, err := w.Write(buf.Bytes())
	return err
}
