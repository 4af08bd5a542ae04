package rag

import (
	"context"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/internal/rag/ingest"
	"github.com/rkandala/newsrag/internal/rag/retriever"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Service is what the worker and handlers call. It hides the pipeline
// and the retriever so those layers never touch the store or the
// embedder directly; swapping either for a mock needs no caller change.
type Service interface {
	RunIngestJob(ctx context.Context, job jobModel.Job) jobModel.Job
	Search(ctx context.Context, query string, topK int, symbol string) ([]newsModel.SearchResult, error)
	SearchIndexed(ctx context.Context, query string, topK int, symbol string, limit int) ([]newsModel.SearchResult, error)
	DocumentCount(ctx context.Context) (uint64, error)
}

type service struct {
	pipeline  *ingest.Pipeline
	retriever *retriever.Retriever
	logger    *logger_i.Logger
}

func NewService(pipeline *ingest.Pipeline, retr *retriever.Retriever) Service {
	return &service{
		pipeline:  pipeline,
		retriever: retr,
		logger:    logger_i.NewLogger("RAG Service"),
	}
}

// RunIngestJob executes one queued ingestion run and returns the job
// with its final status and stats filled in. Refresh jobs carry no
// symbols and pull each source's latest feed.
func (s *service) RunIngestJob(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("news_ingestion", time.Since(start)) }()

	job.CurrentStep = jobModel.FetchCall

	limit := job.JobPayload.Limit
	if limit <= 0 {
		limit = config.DefaultIngestLimit
	}

	stats, err := s.pipeline.Ingest(ctx, job.JobPayload.Symbols, limit)
	job.JobPayload.Stats = &stats
	if err != nil {
		return s.jobError(job, err, "INGESTION_FAILURE", true)
	}

	job.CurrentStep = jobModel.Complete
	return job
}

// Search answers a query against whatever is currently indexed.
func (s *service) Search(ctx context.Context, query string, topK int, symbol string) ([]newsModel.SearchResult, error) {
	return s.retriever.Search(ctx, query, topK, symbol)
}

// SearchIndexed ensures the requested symbol has documents before
// searching, ingesting synchronously if it does not.
func (s *service) SearchIndexed(ctx context.Context, query string, topK int, symbol string, limit int) ([]newsModel.SearchResult, error) {
	if symbol != "" {
		if _, err := s.retriever.EnsureIndexed(ctx, s.pipeline, []string{symbol}, limit); err != nil {
			return nil, err
		}
	}
	return s.retriever.Search(ctx, query, topK, symbol)
}

func (s *service) DocumentCount(ctx context.Context) (uint64, error) {
	return s.retriever.DocumentCount(ctx)
}
