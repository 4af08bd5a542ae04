package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/metrics"
)

func (p *Pool) executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()

	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.IngestJobTimeout)
	defer cancel()

	log := p.logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job")

	p.saveJobState(ctx, job, jobModel.JobStatusRunning)

	job = p.ragService.RunIngestJob(ctx, job)

	job.EndTime = time.Now()
	if job.Status == jobModel.JobStatusError {
		p.saveJobState(ctx, job, jobModel.JobStatusError)
		return
	}
	p.saveJobState(ctx, job, jobModel.JobStatusComplete)
}

func (p *Pool) removeWorker(reason string) {
	p.waitGroup.Done()
	atomic.AddInt64(&p.currentWorkerCount, -1)
	p.logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&p.currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func (p *Pool) saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) {
	job.Status = jobStatus
	if err := p.jobService.JobStore.SaveJob(ctx, job); err != nil {
		p.logger.Error("Failed to update job status", "err", err)
	}
}
