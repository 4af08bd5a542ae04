package mcpserver

import (
	"errors"
	"time"

	"github.com/rkandala/newsrag/internal/adapter/utils"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
)

var errQueryRequired = errors.New("query is required")

// SearchInput is the input schema for the search_news tool.
type SearchInput struct {
	Query         string `json:"query" jsonschema:"the search query to run over indexed news"`
	Symbol        string `json:"symbol,omitempty" jsonschema:"optional stock symbol to filter results by"`
	TopK          int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	EnsureIndexed bool   `json:"ensure_indexed,omitempty" jsonschema:"ingest the symbol first when it has no indexed documents"`
}

// SearchOutput is the output schema for the search_news tool.
type SearchOutput struct {
	Results []newsResult `json:"results"`
	Count   int          `json:"count"`
}

type newsResult struct {
	Content string  `json:"content"`
	Title   string  `json:"title,omitempty"`
	Source  string  `json:"source"`
	URL     string  `json:"url,omitempty"`
	Symbol  string  `json:"symbol,omitempty"`
	Score   float32 `json:"score"`
}

// IngestInput is the input schema for the ingest_news tool.
type IngestInput struct {
	Symbols []string `json:"symbols,omitempty" jsonschema:"stock symbols to fetch news for; empty ingests each source's latest"`
	Limit   int      `json:"limit,omitempty" jsonschema:"maximum articles per source (default 10)"`
}

// IngestOutput is the output schema for the ingest_news tool.
type IngestOutput struct {
	Status          string   `json:"status"`
	ArticlesFetched int      `json:"articles_fetched"`
	ChunksCreated   int      `json:"chunks_created"`
	ChunksStored    int      `json:"chunks_stored"`
	Errors          []string `json:"errors,omitempty"`
}

func toNewsResults(results []newsModel.SearchResult) []newsResult {
	out := make([]newsResult, len(results))
	for i, res := range results {
		out[i] = newsResult{
			Content: res.Content,
			Title:   res.Title,
			Source:  res.Source,
			URL:     res.URL,
			Symbol:  res.Symbol,
			Score:   res.Score,
		}
	}
	return out
}

func newIngestJob(symbols []string, limit int) jobModel.Job {
	job := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     utils.GetNewUUID(),
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusRunning,
		CurrentStep: jobModel.IngestInit,
		JobType:     jobModel.JobTypeIngest,
		JobPayload:  jobModel.JobPayload{Symbols: symbols, Limit: limit},
	}
	if len(symbols) == 0 {
		job.JobType = jobModel.JobTypeRefresh
	}
	return job
}

func toIngestOutput(job jobModel.Job) IngestOutput {
	out := IngestOutput{Status: string(jobModel.JobStatusComplete)}
	if job.Status == jobModel.JobStatusError {
		out.Status = string(jobModel.JobStatusError)
	}
	if job.JobPayload.Stats != nil {
		out.ArticlesFetched = job.JobPayload.Stats.ArticlesFetched
		out.ChunksCreated = job.JobPayload.Stats.ChunksCreated
		out.ChunksStored = job.JobPayload.Stats.ChunksStored
		out.Errors = job.JobPayload.Stats.Errors
	}
	return out
}
