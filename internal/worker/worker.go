package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/job"
	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/internal/rag"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Pool is an elastic worker pool: one worker always runs, the
// dispatcher adds more on signal up to the cap, and idle workers
// retire themselves down to the minimum.
type Pool struct {
	jobService *job.Service
	ragService rag.Service

	stopChannel chan bool
	waitGroup   *sync.WaitGroup

	currentWorkerCount int64
	minWorkerCount     int64
	idleTimeout        time.Duration
	logger             *logger_i.Logger
}

func NewPool(jobService *job.Service, ragService rag.Service) *Pool {
	return &Pool{
		jobService:     jobService,
		ragService:     ragService,
		minWorkerCount: config.MinWorkerCount,
		idleTimeout:    config.IdleWorkerTimeout,
		logger:         logger_i.NewLogger("WorkerPool"),
	}
}

func (p *Pool) Start(stopChan chan bool, waitGroup *sync.WaitGroup) {
	p.stopChannel = stopChan
	p.waitGroup = waitGroup
	p.logger.Info("Initializing worker pool")
	go p.dispatcher()
}

func (p *Pool) dispatcher() {
	p.createWorker()
	p.logger.Info("Dispatcher started")
	for range p.jobService.DispatcherChannel {
		if atomic.LoadInt64(&p.currentWorkerCount) < config.MaxWorkerCount {
			p.logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&p.currentWorkerCount))
			p.createWorker()
		}
	}
}

func (p *Pool) createWorker() {
	p.waitGroup.Add(1)
	go p.worker()
	atomic.AddInt64(&p.currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	p.logger.Info("Created new worker")
}

func (p *Pool) worker() {
	for {
		select {
		case currentJob := <-p.jobService.JobChannel:
			p.executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-p.stopChannel:
			p.removeWorker("Stop worker signal received")
			return

		case <-time.After(p.idleTimeout):
			// retire idle workers, but never below the floor
			if atomic.LoadInt64(&p.currentWorkerCount) > atomic.LoadInt64(&p.minWorkerCount) {
				p.removeWorker("Idle worker timeout")
				return
			}
		}
	}
}
