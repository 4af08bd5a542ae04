package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Embedder maps text to fixed-dimension vectors. EmbedBatch preserves
// input order and length; batching is an efficiency concern only and
// never changes results.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Error is an embedding backend failure. It is surfaced to the caller
// of ingest/search, never swallowed: without vectors the operation
// cannot produce a meaningful result.
type Error struct {
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedding failed (%s): %v", e.Backend, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Truncate caps text at maxWords whole words. Oversized inputs are cut
// silently rather than rejected; every backend applies this before the
// model call so the policy is uniform.
func Truncate(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ")
}
