package taxreform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned by DecodePayload for valid JSON that is not an object.
var ErrNotObject = errors.New("payload must be a JSON object")

// DecodePayload decodes a JSON object into an untyped payload ready for
// Sanitize. An empty body or a JSON null is an empty payload.
func DecodePayload(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read payload: %w", err)
	}
	payload := make(map[string]any)
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	switch x := v.(type) {
	case nil:
		return payload, nil
	case map[string]any:
		return x, nil
	default:
		return nil, ErrNotObject
	}
}
