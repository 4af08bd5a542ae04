package adapter

import (
	"fmt"
	"time"

	"github.com/rkandala/newsrag/internal/api"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		IngestStats: ToIngestStats(job.JobPayload.Stats),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIngestStats(stats *newsModel.IngestionStats) *api.IngestStatsResponse {
	if stats == nil {
		return nil
	}
	return &api.IngestStatsResponse{
		ArticlesFetched: stats.ArticlesFetched,
		ChunksCreated:   stats.ChunksCreated,
		ChunksStored:    stats.ChunksStored,
		Errors:          stats.Errors,
	}
}

func ToSearchResponse(query string, symbol string, results []newsModel.SearchResult) api.SearchResponse {
	out := make([]api.SearchResultResponse, len(results))
	for i, res := range results {
		out[i] = api.SearchResultResponse{
			Content:  res.Content,
			Title:    res.Title,
			Source:   res.Source,
			URL:      res.URL,
			Symbol:   res.Symbol,
			Score:    res.Score,
			Metadata: res.Metadata,
		}
	}
	return api.SearchResponse{Query: query, Symbol: symbol, Results: out}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
