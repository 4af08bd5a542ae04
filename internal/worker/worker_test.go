package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/job"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

// MockRagService tracks executed jobs.
type MockRagService struct {
	ProcessedCount int32
	FailJobs       bool
}

func (m *MockRagService) RunIngestJob(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.FailJobs {
		j.Status = jobModel.JobStatusError
		return j
	}
	j.CurrentStep = jobModel.Complete
	return j
}

func (m *MockRagService) Search(ctx context.Context, query string, topK int, symbol string) ([]newsModel.SearchResult, error) {
	return nil, nil
}

func (m *MockRagService) SearchIndexed(ctx context.Context, query string, topK int, symbol string, limit int) ([]newsModel.SearchResult, error) {
	return nil, nil
}

func (m *MockRagService) DocumentCount(ctx context.Context) (uint64, error) { return 0, nil }

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
	saved     sync.Map
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	val, found := m.saved.Load(jobId)
	if !found {
		return jobModel.Job{}, false
	}
	return val.(jobModel.Job), true
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	m.saved.Delete(jobID)
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.saved.Store(j.Id, j)
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	pool := NewPool(jobSvc, mockRag)
	pool.Start(stopChan, wg)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&pool.currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "test-1", JobType: jobModel.JobTypeIngest}
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
		JobStore:   &MockJobStore{},
	}
	pool := NewPool(jobSvc, &MockRagService{})
	pool.idleTimeout = 20 * time.Millisecond
	atomic.StoreInt64(&pool.minWorkerCount, 0)
	pool.waitGroup = &sync.WaitGroup{}
	pool.stopChannel = make(chan bool)

	pool.createWorker()
	time.Sleep(150 * time.Millisecond)

	count := atomic.LoadInt64(&pool.currentWorkerCount)
	if count != 0 {
		t.Errorf("Worker should have timed out and retired, but count is %d", count)
	}
}

func TestWorker_RecordsFinalJobState(t *testing.T) {
	store := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store,
	}
	pool := NewPool(jobSvc, &MockRagService{})
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}
	pool.Start(stopChan, wg)
	defer close(stopChan)

	jobSvc.JobChannel <- jobModel.Job{Id: "job-final", JobType: jobModel.JobTypeIngest, TraceId: "t1"}
	time.Sleep(100 * time.Millisecond)

	saved, found := store.GetJob(context.Background(), "job-final")
	if !found {
		t.Fatal("job state never persisted")
	}
	if saved.Status != jobModel.JobStatusComplete {
		t.Errorf("final status = %s, want COMPLETE", saved.Status)
	}
	if saved.EndTime.IsZero() {
		t.Error("EndTime not recorded")
	}
}
