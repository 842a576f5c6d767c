// Package models defines the persisted entities of the pipeline: projects,
// business profiles, generated outputs, and the request shapes that create them.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Text is an optional scalar profile field. The zero value is null.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a valid Text holding s.
func NewText(s string) Text {
	return Text{Value: s, Valid: true}
}

// IsBlank reports whether the field is null or only whitespace.
func (t Text) IsBlank() bool {
	return !t.Valid || strings.TrimSpace(t.Value) == ""
}

// Or returns the trimmed value, or def when the field is blank.
func (t Text) Or(def string) string {
	if t.IsBlank() {
		return def
	}
	return strings.TrimSpace(t.Value)
}

// MarshalJSON encodes null for an invalid Text.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// UnmarshalJSON accepts strings, lists (joined with ", "), numbers and booleans.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NewText(s)
	case '[':
		var l List
		if err := l.UnmarshalJSON(data); err != nil {
			return err
		}
		if len(l) == 0 {
			*t = Text{}
			return nil
		}
		*t = NewText(strings.Join(l, ", "))
	case '{':
		// Objects (e.g. {"phone": "...", "email": "..."}) are flattened to "k: v" pairs.
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*t = NewText(flattenObject(m))
	default:
		*t = NewText(string(data))
	}
	return nil
}

// List is an optional list-of-strings profile field. A nil List is null.
type List []string

// IsBlank reports whether the list has no non-blank entries.
func (l List) IsBlank() bool {
	for _, s := range l {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// Join returns the non-blank entries joined by sep, or def when the list is blank.
func (l List) Join(sep, def string) string {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return def
	}
	return strings.Join(parts, sep)
}

// UnmarshalJSON accepts an array of scalars, a single string, or null.
func (l *List) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(List, 0, len(raw))
		for _, item := range raw {
			var t Text
			if err := t.UnmarshalJSON(item); err != nil {
				return err
			}
			if t.Valid {
				out = append(out, t.Value)
			}
		}
		*l = out
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = List{s}
	default:
		var t Text
		if err := t.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = List{t.Value}
	}
	return nil
}

func flattenObject(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if m[k] == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
