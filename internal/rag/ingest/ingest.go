package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/fetch"
	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/internal/rag/chunker"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/internal/rag/vectorDB"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Pipeline runs fetch -> filter -> chunk -> embed -> upsert.
type Pipeline struct {
	fetchers     []fetch.Fetcher
	embedder     embedding.Embedder
	vectorDB     vectorDB.DataProcessor
	chunker      *chunker.Chunker
	minBodyChars int
	batchSize    int
	logger       *logger_i.Logger
}

func NewPipeline(fetchers []fetch.Fetcher, em embedding.Embedder, db vectorDB.DataProcessor, ch *chunker.Chunker) *Pipeline {
	return &Pipeline{
		fetchers:     fetchers,
		embedder:     em,
		vectorDB:     db,
		chunker:      ch,
		minBodyChars: config.MinArticleBodyChars,
		batchSize:    config.EmbedBatchSize,
		logger:       logger_i.NewLogger("Ingestion Pipeline"),
	}
}

type fetchTask struct {
	fetcher fetch.Fetcher
	symbol  string // empty means "latest"
}

type fetchOutcome struct {
	articles []newsModel.Article
	err      error
}

// Ingest fetches up to limit articles per source (per symbol when
// symbols are given), then chunks, embeds and upserts them.
//
// A failed source/symbol becomes one entry in Stats.Errors and never
// aborts the run. Embedding and store failures do abort: they mean the
// run cannot produce meaningful vectors, and they propagate typed.
func (p *Pipeline) Ingest(ctx context.Context, symbols []string, limit int) (newsModel.IngestionStats, error) {
	loggr := p.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	stats := newsModel.IngestionStats{}

	outcomes := p.fetchAll(ctx, p.buildTasks(symbols), limit)

	var articles []newsModel.Article
	for _, outcome := range outcomes {
		if outcome.err != nil {
			stats.Errors = append(stats.Errors, outcome.err.Error())
			metrics.IncrementFetchErrors()
			continue
		}
		articles = append(articles, outcome.articles...)
	}
	articles = dedupe(articles)

	for _, article := range articles {
		if len(article.Body) < p.minBodyChars {
			continue // scrape noise, silently dropped
		}

		chunks := p.chunker.Split(article.Body)
		if len(chunks) == 0 {
			continue
		}
		stats.ArticlesFetched++
		stats.ChunksCreated += len(chunks)

		stored, err := p.storeChunks(ctx, article, chunks)
		stats.ChunksStored += stored
		if err != nil {
			loggr.Error("Ingestion aborted", "error", err)
			return stats, err
		}
	}

	metrics.AddArticlesIngested(stats.ArticlesFetched)
	metrics.AddChunksStored(stats.ChunksStored)
	loggr.Info("Ingestion run complete",
		"articles", stats.ArticlesFetched,
		"chunksStored", stats.ChunksStored,
		"errors", len(stats.Errors))
	return stats, nil
}

func (p *Pipeline) buildTasks(symbols []string) []fetchTask {
	var tasks []fetchTask
	for _, f := range p.fetchers {
		if len(symbols) == 0 {
			tasks = append(tasks, fetchTask{fetcher: f})
			continue
		}
		for _, symbol := range symbols {
			tasks = append(tasks, fetchTask{fetcher: f, symbol: strings.ToUpper(symbol)})
		}
	}
	return tasks
}

// fetchAll fans out one goroutine per source/symbol task. Outcomes are
// indexed by task so error ordering is deterministic, and one task's
// failure never cancels its siblings.
func (p *Pipeline) fetchAll(ctx context.Context, tasks []fetchTask, limit int) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task fetchTask) {
			defer wg.Done()
			start := time.Now()
			defer func() { metrics.CaptureExecutionMetrics("fetch", time.Since(start)) }()

			var articles []newsModel.Article
			var err error
			if task.symbol == "" {
				articles, err = task.fetcher.FetchLatest(ctx, limit)
			} else {
				articles, err = task.fetcher.FetchForSymbol(ctx, task.symbol, limit)
			}

			if err == nil && task.symbol != "" {
				for j := range articles {
					if articles[j].Symbol == "" {
						articles[j].Symbol = task.symbol
					}
				}
			}
			outcomes[i] = fetchOutcome{articles: articles, err: err}
		}(i, task)
	}
	wg.Wait()
	return outcomes
}

func (p *Pipeline) storeChunks(ctx context.Context, article newsModel.Article, chunks []string) (int, error) {
	docs := make([]vectorDB.Document, len(chunks))
	for i, text := range chunks {
		docs[i] = vectorDB.Document{
			ID:   DocumentID(article, i),
			Text: text,
			Metadata: vectorDB.Metadata{
				Symbol:      article.Symbol,
				Source:      string(article.Source),
				Title:       article.Title,
				URL:         article.URL,
				PublishedAt: formatPublished(article.PublishedAt),
				ChunkIndex:  i,
			},
		}
	}

	stored := 0
	for start := 0; start < len(docs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Text
		}

		embedStart := time.Now()
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
		if err != nil {
			return stored, err
		}
		if len(vectors) != len(batch) {
			return stored, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		upsertStart := time.Now()
		err = p.vectorDB.Upsert(ctx, batch)
		metrics.CaptureExecutionMetrics("upsert", time.Since(upsertStart))
		if err != nil {
			return stored, err
		}
		stored += len(batch)
	}
	return stored, nil
}

// DocumentID derives the stored id from source, url and chunk position,
// so re-ingesting the same article overwrites instead of duplicating.
// The title stands in when a synthesized article has no url.
func DocumentID(article newsModel.Article, chunkIndex int) string {
	ref := article.URL
	if ref == "" {
		ref = article.Title
	}
	key := fmt.Sprintf("%s|%s|%d", article.Source, ref, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// dedupe drops articles already seen in this run; two sources can both
// surface the same story. First occurrence wins.
func dedupe(articles []newsModel.Article) []newsModel.Article {
	seen := make(map[string]bool, len(articles))
	out := articles[:0]
	for _, article := range articles {
		key := article.URL
		if key == "" {
			key = string(article.Source) + "|" + article.Title
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, article)
	}
	return out
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
