package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when text is not a well-formed JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// ParseOrdered parses a JSON document. Objects come back as *Object so key
// order is preserved; numbers are float64.
func ParseOrdered(text string) (any, error) {
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("parse %q: %w", abbreviate(text), ErrInvalidJSON)
	}
	return fromResult(gjson.Parse(text)), nil
}

// Parse parses a JSON document into plain canonical values.
func Parse(text string) (any, error) {
	v, err := ParseOrdered(text)
	if err != nil {
		return nil, err
	}
	return Plain(v), nil
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		items := []any{}
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return items
	}

	obj := NewObject()
	r.ForEach(func(key, item gjson.Result) bool {
		obj.Set(key.Str, fromResult(item))
		return true
	})
	return obj
}

// Marshal encodes v as compact JSON without HTML escaping, the way
// JSON.stringify does.
func Marshal(v any) (string, error) {
	data, err := marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalIndent encodes v with two-space indentation.
func MarshalIndent(v any) (string, error) {
	data, err := marshal(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("indent json: %w", err)
	}
	return buf.String(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func abbreviate(s string) string {
	const max = 40
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
