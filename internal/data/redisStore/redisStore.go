package redisStore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Store is a thin wrapper over one Redis logical database. Callers hold
// their own instance; there is no shared registry.
type Store struct {
	client *redis.Client
	logger *logger_i.Logger
}

// New dials Redis and verifies it with a short ping. An unreachable
// Redis returns an error so the caller can fall back to in-memory.
func New(ctx context.Context, addr string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DB:                    db,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	store := &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Store"),
	}
	store.logger.Info("Redis store connected", "addr", addr, "db", db)
	return store, nil
}

func (s *Store) Close() error {
	s.logger.Info("Closing Redis store")
	return s.client.Close()
}

// NewTestStore wires a pre-built client, for tests against miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Store: test"),
	}
}
