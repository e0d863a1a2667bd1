package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON strips any code fences from an LLM response and unmarshals the
// remainder into T.
func ParseJSON[T any](response string) (T, error) {
	var out T
	clean := StripFences(response)
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return out, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return out, nil
}
