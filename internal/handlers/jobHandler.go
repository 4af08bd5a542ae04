package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/job"
	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/internal/rag"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Handler owns the HTTP endpoints. Job creation goes through the job
// channel; reads go straight to the RAG service.
type Handler struct {
	jobService *job.Service
	ragService rag.Service
	logger     *logger_i.Logger
}

func NewHandler(jobService *job.Service, ragService rag.Service) *Handler {
	return &Handler{
		jobService: jobService,
		ragService: ragService,
		logger:     logger_i.NewLogger("JobHandler"),
	}
}

type newJobData struct {
	id      string
	symbols []string
	limit   int
	traceId string
}

func (h *Handler) createNewJob(data newJobData) {
	log := h.logger.With("traceId", data.traceId, "jobId", data.id)
	log.Info("Queueing new ingestion job")

	newJob := jobModel.Job{
		Id:          data.id,
		TraceId:     data.traceId,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
		JobType:     jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			Symbols: data.symbols,
			Limit:   data.limit,
		},
	}
	if len(data.symbols) == 0 {
		newJob.JobType = jobModel.JobTypeRefresh
	}

	metrics.IncrementJobsInQueue()

	// blocking send; backpressure instead of unbounded queueing
	h.jobService.JobChannel <- newJob
	log.Info("Job queued")

	// every ingestion job gets a dispatcher signal: runs are slow and
	// batch-heavy, and idle workers retire on their own anyway
	accurateCount := atomic.AddInt64(&h.jobService.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || newJob.JobType == jobModel.JobTypeIngest || newJob.JobType == jobModel.JobTypeRefresh {
		metrics.StartDispatcherSignalCount()
		h.jobService.DispatcherChannel <- true
	}
}

func (h *Handler) getJobStatus(id string, traceId string) (jobModel.Job, bool) {
	if id == "" {
		h.logger.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	return h.jobService.JobStore.GetJob(ctx, id)
}
