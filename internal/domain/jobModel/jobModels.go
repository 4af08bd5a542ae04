package jobModel

import (
	"context"
	"time"

	"github.com/rkandala/newsrag/internal/domain/newsModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	FetchCall        InternalStatus = "Fetch"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VectorDBCall     InternalStatus = "VectorDB"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"

	JobTypeIngest  JobType = "Ingest"
	JobTypeRefresh JobType = "Refresh"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Symbols []string `json:"symbols,omitempty"`
	Limit   int      `json:"limit,omitempty"`

	// filled in once the run finishes
	Stats *newsModel.IngestionStats `json:"stats,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
