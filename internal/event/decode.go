package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. In-process publishers hand over the
// struct itself (or a pointer to it); payloads read back from the dead-letter
// file or another serialized source arrive as generic maps and take a JSON
// round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var out T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
		return out, fmt.Errorf("decoding %T: nil payload", out)
	case nil:
		return out, fmt.Errorf("decoding %T: nil payload", out)
	}

	raw, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("decoding %T: %w", out, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding %T: %w", out, err)
	}
	return out, nil
}
