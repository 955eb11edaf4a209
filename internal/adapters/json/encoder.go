// Package json adapts github.com/goccy/go-json to ports.Encoder.
package json

import (
	gojson "github.com/goccy/go-json"
)

// Encoder implements ports.Encoder with goccy/go-json.
// Map keys are emitted in sorted order, matching encoding/json.
type Encoder struct{}

// NewEncoder creates a new JSON encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Marshal returns the JSON encoding of v.
func (Encoder) Marshal(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal parses JSON-encoded data into v.
func (Encoder) Unmarshal(data []byte, v any) error {
	return gojson.Unmarshal(data, v)
}
