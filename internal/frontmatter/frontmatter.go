// Package frontmatter splits and parses the YAML header of a source template.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the content opened a `---` block
// that never closes.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Style records the newline convention of the input so Join can reproduce it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Document is a source template with its front matter parsed.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
	Style  Style
	raw    []byte
}

// Parse splits content and decodes the YAML header. Content without a header
// yields an empty field map and the full input as body.
func Parse(content []byte) (Document, error) {
	raw, body, had, style, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Document{Fields: fields, Body: body, Had: had, Style: style, raw: raw}, nil
}

// String returns the string value of key, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Layout returns the layout named by the header.
func (d Document) Layout() string { return d.String("layout") }

// Bytes reassembles the document from its original header bytes.
func (d Document) Bytes() []byte {
	return Join(d.raw, d.Body, d.Had, d.Style)
}

// Split separates a `---` delimited header from the body. When content does
// not start with a delimiter, had is false and body is content.
func Split(content []byte) (header []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline
	delim := []byte("---" + nl)

	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, style, nil
	}

	start := len(delim)
	if bytes.HasPrefix(content[start:], delim) {
		return []byte{}, content[start+len(delim):], true, style, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, style, nil
}

// Join is the inverse of Split.
func Join(header []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	out := make([]byte, 0, len(header)+len(body)+2*(3+len(nl)))
	out = append(out, "---"+nl...)
	out = append(out, header...)
	out = append(out, "---"+nl...)
	return append(out, body...)
}

// ParseYAML decodes a header (without delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(header)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	style := Style{
		Newline:            "\n",
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		style.Newline = "\r\n"
	}
	return style
}
