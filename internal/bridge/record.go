package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one result row as sent by the remote service. Field order is the
// order in which keys first appeared in the JSON object; a repeated key keeps
// its first position and its last value.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// Keys returns the field names in first-seen order.
func (r Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Value returns the decoded value stored under key. Numbers come back as
// json.Number so integers survive without float rounding.
func (r Record) Value(key string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	raw, ok := r.fields.Get(key)
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw), true
	}
	return v, true
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("record must be a JSON object: %w", err)
	}
	r.fields = fields
	return nil
}
