package fetch

import (
	"context"
	"fmt"

	"github.com/rkandala/newsrag/internal/domain/newsModel"
)

// Fetcher is one news source. Failures are source-specific; ingestion
// treats any of them uniformly as "this source/symbol failed this run".
type Fetcher interface {
	Name() newsModel.Source
	FetchLatest(ctx context.Context, limit int) ([]newsModel.Article, error)
	FetchForSymbol(ctx context.Context, symbol string, limit int) ([]newsModel.Article, error)
}

// FetchError is a per-source/per-symbol failure. Ingestion records it
// and moves on; it never aborts a run.
type FetchError struct {
	Source newsModel.Source
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Source, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
