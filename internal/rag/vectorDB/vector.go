package vectorDB

import (
	"context"
	"fmt"
	"sort"
)

// Metadata is the logical schema stored alongside every vector.
type Metadata struct {
	Symbol      string `json:"symbol"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	ChunkIndex  int    `json:"chunk_index"`
}

// Document is the persisted unit: deterministic id, vector, chunk text
// and metadata. Writing an existing id overwrites the whole record.
type Document struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata Metadata
}

// Hit is one search match. Score is cosine similarity clamped to [0,1].
type Hit struct {
	ID       string
	Text     string
	Metadata Metadata
	Score    float32
}

// Filter is an exact-match conjunction; zero-value fields are ignored.
type Filter struct {
	Symbol string
	Source string
}

func (f *Filter) Matches(m Metadata) bool {
	if f == nil {
		return true
	}
	if f.Symbol != "" && m.Symbol != f.Symbol {
		return false
	}
	if f.Source != "" && m.Source != f.Source {
		return false
	}
	return true
}

// DataProcessor is the store contract shared by the Qdrant adapter and
// the in-memory fallback.
type DataProcessor interface {
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, vector []float32, topK uint64, filter *Filter) ([]Hit, error)
	Count(ctx context.Context, filter *Filter) (uint64, error)

	// Reset wipes the collection. Administrative only; nothing in the
	// ingestion or query paths deletes documents.
	Reset(ctx context.Context) error
	Close() error
}

// DimensionMismatchError means a vector does not match the collection's
// configured width. Misconfiguration, not a runtime condition.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: collection expects %d, got %d", e.Want, e.Got)
}

// StoreUnavailableError wraps a failed store call. No retry at this
// layer; callers decide.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("vector store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// CheckDimensions validates every vector before a write reaches the
// backend, so a partial batch never lands.
func CheckDimensions(docs []Document, want int) error {
	for _, doc := range docs {
		if len(doc.Vector) != want {
			return &DimensionMismatchError{Want: want, Got: len(doc.Vector)}
		}
	}
	return nil
}

// ClampScore maps raw cosine similarity onto [0,1]. Negative similarity
// carries no retrieval signal here, so it pins to zero instead of being
// rescaled; this keeps the 0.3 default threshold meaningful.
func ClampScore(cos float32) float32 {
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}

// SortHits orders by descending score; equal scores break ascending by
// id so result order is stable regardless of backend.
func SortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}
