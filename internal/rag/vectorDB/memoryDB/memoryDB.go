package memoryDB

import (
	"context"
	"math"
	"sync"

	"github.com/rkandala/newsrag/internal/rag/vectorDB"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Store is the in-memory vector store. It backs tests and keeps the
// service limping along when Qdrant is offline; contents do not survive
// a restart.
type Store struct {
	mu        sync.RWMutex
	docs      map[string]vectorDB.Document
	dimension int
	logger    *logger_i.Logger
}

func New(dimension int) *Store {
	return &Store{
		docs:      make(map[string]vectorDB.Document),
		dimension: dimension,
		logger:    logger_i.NewLogger("InMem VectorDB"),
	}
}

func (s *Store) Upsert(ctx context.Context, docs []vectorDB.Document) error {
	if err := vectorDB.CheckDimensions(docs, s.dimension); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	s.logger.Debug("Upserted documents", "count", len(docs), "total", len(s.docs))
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, topK uint64, filter *vectorDB.Filter) ([]vectorDB.Hit, error) {
	if len(vector) != s.dimension {
		return nil, &vectorDB.DimensionMismatchError{Want: s.dimension, Got: len(vector)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []vectorDB.Hit
	for _, doc := range s.docs {
		if !filter.Matches(doc.Metadata) {
			continue
		}
		hits = append(hits, vectorDB.Hit{
			ID:       doc.ID,
			Text:     doc.Text,
			Metadata: doc.Metadata,
			Score:    vectorDB.ClampScore(cosine(vector, doc.Vector)),
		})
	}

	vectorDB.SortHits(hits)
	if uint64(len(hits)) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *Store) Count(ctx context.Context, filter *vectorDB.Filter) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n uint64
	for _, doc := range s.docs {
		if filter.Matches(doc.Metadata) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]vectorDB.Document)
	return nil
}

func (s *Store) Close() error {
	return nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
