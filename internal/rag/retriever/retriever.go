package retriever

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/internal/rag/vectorDB"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Ingester triggers an ingestion run. Satisfied by ingest.Pipeline;
// declared here so EnsureIndexed does not import the write side.
type Ingester interface {
	Ingest(ctx context.Context, symbols []string, limit int) (newsModel.IngestionStats, error)
}

// Retriever is the read side: embed the query, search the store, drop
// weak matches, hand back formatted results.
type Retriever struct {
	vectorDB vectorDB.DataProcessor
	embedder embedding.Embedder
	minScore float32
	logger   *logger_i.Logger
}

func New(db vectorDB.DataProcessor, em embedding.Embedder, minScore float32) *Retriever {
	return &Retriever{
		vectorDB: db,
		embedder: em,
		minScore: minScore,
		logger:   logger_i.NewLogger("Retriever"),
	}
}

// Search returns at most topK results scoring at least the configured
// threshold, descending by score. An empty result is a valid answer,
// not an error.
func (r *Retriever) Search(ctx context.Context, query string, topK int, symbol string) ([]newsModel.SearchResult, error) {
	loggr := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if topK <= 0 {
		topK = config.DefaultTopK
	}

	embedStart := time.Now()
	vector, err := r.embedder.Embed(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		return nil, err
	}

	var filter *vectorDB.Filter
	if symbol != "" {
		filter = &vectorDB.Filter{Symbol: strings.ToUpper(symbol)}
	}

	searchStart := time.Now()
	hits, err := r.vectorDB.Search(ctx, vector, uint64(topK), filter)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(searchStart))
	if err != nil {
		return nil, err
	}

	results := make([]newsModel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < r.minScore {
			continue
		}
		results = append(results, newsModel.SearchResult{
			Content: hit.Text,
			Title:   hit.Metadata.Title,
			Source:  hit.Metadata.Source,
			URL:     hit.Metadata.URL,
			Symbol:  hit.Metadata.Symbol,
			Score:   hit.Score,
			Metadata: map[string]string{
				"published_at": hit.Metadata.PublishedAt,
				"chunk_index":  fmt.Sprintf("%d", hit.Metadata.ChunkIndex),
			},
		})
	}

	loggr.Debug("Search complete", "query", query, "hits", len(hits), "aboveThreshold", len(results))
	return results, nil
}

// DocumentCount reports the total stored documents.
func (r *Retriever) DocumentCount(ctx context.Context) (uint64, error) {
	return r.vectorDB.Count(ctx, nil)
}

// EnsureIndexed lazily populates the store: any symbol with fewer than
// config.MinIndexedDocs documents gets an ingestion run before this
// returns. Not a scheduled job.
func (r *Retriever) EnsureIndexed(ctx context.Context, ingester Ingester, symbols []string, limit int) (newsModel.IngestionStats, error) {
	var missing []string
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		count, err := r.vectorDB.Count(ctx, &vectorDB.Filter{Symbol: symbol})
		if err != nil {
			return newsModel.IngestionStats{}, err
		}
		if count < config.MinIndexedDocs {
			missing = append(missing, symbol)
		}
	}

	if len(missing) == 0 {
		return newsModel.IngestionStats{}, nil
	}
	r.logger.Info("Lazily ingesting symbols", "symbols", missing)
	return ingester.Ingest(ctx, missing, limit)
}

// ContextBlock formats search results as a citation-bearing block for
// the synthesis layer, capped at maxLen characters.
func (r *Retriever) ContextBlock(ctx context.Context, query string, topK int, symbol string, maxLen int) (string, error) {
	results, err := r.Search(ctx, query, topK, symbol)
	if err != nil {
		return "", err
	}

	var parts []string
	total := 0
	for _, res := range results {
		header := "[" + res.Source + "]"
		if res.Symbol != "" {
			header += " [" + res.Symbol + "]"
		}
		if res.Title != "" {
			header += " " + res.Title
		}
		part := header + "\n" + res.Content
		if res.URL != "" {
			part += "\nSource: " + res.URL
		}

		if maxLen > 0 && total+len(part) > maxLen {
			break
		}
		parts = append(parts, part)
		total += len(part)
	}
	return strings.Join(parts, "\n\n---\n\n"), nil
}
