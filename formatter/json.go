package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type responseBuilder struct {
	indent string
}

// NewResponseBuilder creates a builder. A non-empty indent pretty-prints the
// output with that indent per level.
func NewResponseBuilder(indent string) *responseBuilder {
	return &responseBuilder{indent: indent}
}

// BuildJSON serializes responses as a JSON array. A nil slice is written as
// an empty array.
func (rb *responseBuilder) BuildJSON(responses []any) ([]byte, error) {
	var buf bytes.Buffer
	if err := rb.WriteJSON(&buf, responses); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes responses to w as a JSON array followed by a newline.
func (rb *responseBuilder) WriteJSON(w io.Writer, responses []any) error {
	if responses == nil {
		responses = []any{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if rb.indent != "" {
		enc.SetIndent("", rb.indent)
	}
	if err := enc.Encode(responses); err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	return nil
}
