package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingestion jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var articlesIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "articles_ingested_total",
	Help: "Articles that survived filtering and were chunked",
})

var chunksStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chunks_stored_total",
	Help: "Chunks upserted into the vector store",
})

var fetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fetch_errors_total",
	Help: "Per-source/per-symbol fetch failures absorbed by ingestion",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingest_job_duration_seconds",
	Help:    "Total time spent executing an ingestion job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() { countJobsInQueue.Inc() }
func DecrementJobsInQueue() { countJobsInQueue.Dec() }

func StartDispatcherSignalCount() { dispatcherSignalCount.Inc() }

func IncrementActiveWorkerCount() { activeWorkerCount.Inc() }
func DecrementActiveWorkerCount() { activeWorkerCount.Dec() }

func AddArticlesIngested(n int) { articlesIngestedTotal.Add(float64(n)) }
func AddChunksStored(n int)     { chunksStoredTotal.Add(float64(n)) }
func IncrementFetchErrors()     { fetchErrorsTotal.Inc() }

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
