// Package chat provides domain types for AI-assistant chat history.
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is an opaque JSON object that keeps its keys in source order.
// Values stay undecoded until a typed accessor asks for them, so records
// whose shape varies between assistant versions survive a round trip intact.
// The zero value is an empty document.
type Document struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewDocument creates an empty Document.
func NewDocument() Document {
	return Document{fields: orderedmap.New[string, json.RawMessage]()}
}

// ParseDocument decodes a JSON object into a Document.
func ParseDocument(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, fmt.Errorf("parse document: expected JSON object")
	}
	d := NewDocument()
	if err := d.fields.UnmarshalJSON(trimmed); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	return d, nil
}

// Len returns the number of keys.
func (d Document) Len() int {
	if d.fields == nil {
		return 0
	}
	return d.fields.Len()
}

// Keys returns the keys in source order.
func (d Document) Keys() []string {
	if d.fields == nil {
		return nil
	}
	keys := make([]string, 0, d.fields.Len())
	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Has reports whether key is present, even with a null value.
func (d Document) Has(key string) bool {
	_, ok := d.Raw(key)
	return ok
}

// Raw returns the undecoded JSON value for key.
func (d Document) Raw(key string) (json.RawMessage, bool) {
	if d.fields == nil {
		return nil, false
	}
	v, ok := d.fields.Get(key)
	if !ok {
		return nil, false
	}
	cp := make(json.RawMessage, len(v))
	copy(cp, v)
	return cp, true
}

// String returns the value for key when it is a JSON string.
func (d Document) String(key string) (string, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Int64 returns the value for key when it is a JSON number. Fractional
// values are truncated.
func (d Document) Int64(key string) (int64, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// Bool returns the value for key when it is a JSON boolean.
func (d Document) Bool(key string) (bool, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// Document returns the value for key when it is a JSON object.
func (d Document) Document(key string) (Document, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return Document{}, false
	}
	sub, err := ParseDocument(raw)
	if err != nil {
		return Document{}, false
	}
	return sub, true
}

// Array returns the undecoded elements for key when it is a JSON array.
func (d Document) Array(key string) ([]json.RawMessage, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// With returns a copy of the document with key set to value, appended at
// the end when key is new.
func (d Document) With(key string, value any) (Document, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s: %w", key, err)
	}
	cp := NewDocument()
	if d.fields != nil {
		for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
			cp.fields.Set(pair.Key, pair.Value)
		}
	}
	cp.fields.Set(key, encoded)
	return cp, nil
}

// MarshalJSON encodes the document with keys in source order.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.fields == nil {
		return []byte("{}"), nil
	}
	return d.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object into the document.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
