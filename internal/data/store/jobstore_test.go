package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/data/redisStore"
	"github.com/rkandala/newsrag/internal/data/store"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

func newTestJobStore(t *testing.T) (*store.RedisJobStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisJobStore(redisStore.NewTestStore(client)), mr
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	jobStore, mr := newTestJobStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeIngest,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Symbols: []string{"TCS", "INFY"},
			Limit:   5,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrieved, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if len(retrieved.JobPayload.Symbols) != 2 || retrieved.JobPayload.Symbols[0] != "TCS" {
			t.Errorf("Payload mismatch! Got %v, want [TCS INFY]", retrieved.JobPayload.Symbols)
		}
		if retrieved.Status != jobModel.JobStatusRunning {
			t.Errorf("Status mismatch! Got %s", retrieved.Status)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	jobStore, _ := newTestJobStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestInMemoryJobStore_Lifecycle(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-1", Status: jobModel.JobStatusQueued}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, found := jobStore.GetJob(ctx, "mem-1")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Errorf("GetJob = %+v, found=%v", got, found)
	}

	jobStore.DeleteJob(ctx, "mem-1")
	if _, found := jobStore.GetJob(ctx, "mem-1"); found {
		t.Error("job still present after delete")
	}
}
