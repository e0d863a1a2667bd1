package index

import (
	"errors"
	"fmt"
)

var ErrNotInitialized = errors.New("similarity index not initialized: call Rebuild first")

// EmbeddingError wraps a failure of the embedding provider. Index state is
// never mutated when one occurs.
type EmbeddingError struct {
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed during %s: %v", e.Op, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
