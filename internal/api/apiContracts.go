package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status      string               `json:"status"`
	CurrentStep string               `json:"current_step,omitempty"`
	IngestStats *IngestStatsResponse `json:"ingest_stats,omitempty"`
}

type IngestStatsResponse struct {
	ArticlesFetched int      `json:"articles_fetched"`
	ChunksCreated   int      `json:"chunks_created"`
	ChunksStored    int      `json:"chunks_stored"`
	Errors          []string `json:"errors,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type SearchResponse struct {
	Query   string                 `json:"query"`
	Symbol  string                 `json:"symbol,omitempty"`
	Results []SearchResultResponse `json:"results"`
}

type SearchResultResponse struct {
	Content  string            `json:"content"`
	Title    string            `json:"title,omitempty"`
	Source   string            `json:"source"`
	URL      string            `json:"url,omitempty"`
	Symbol   string            `json:"symbol,omitempty"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type CountResponse struct {
	Documents uint64 `json:"documents"`
}

// requests---------------------

type IngestRequest struct {
	Symbols []string `json:"symbols,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}
