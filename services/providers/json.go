package providers

import (
	"encoding/json"
	"fmt"
)

// ParseJSON interprets text as a JSON document. It never panics on
// malformed input; failures come back as errors carrying the underlying
// decoder's message.
func ParseJSON(text string) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return value, nil
}
