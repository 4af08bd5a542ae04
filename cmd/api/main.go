package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/customHttpClient"
	"github.com/rkandala/newsrag/internal/data/redisStore"
	"github.com/rkandala/newsrag/internal/data/store"
	"github.com/rkandala/newsrag/internal/domain/jobModel"
	"github.com/rkandala/newsrag/internal/fetch"
	"github.com/rkandala/newsrag/internal/fetch/rssFetch"
	"github.com/rkandala/newsrag/internal/handlers"
	"github.com/rkandala/newsrag/internal/job"
	"github.com/rkandala/newsrag/internal/mcpserver"
	"github.com/rkandala/newsrag/internal/rag"
	"github.com/rkandala/newsrag/internal/rag/chunker"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/internal/rag/embedding/googleEmbedding"
	"github.com/rkandala/newsrag/internal/rag/embedding/openaiEmbedding"
	"github.com/rkandala/newsrag/internal/rag/ingest"
	"github.com/rkandala/newsrag/internal/rag/retriever"
	"github.com/rkandala/newsrag/internal/rag/vectorDB"
	"github.com/rkandala/newsrag/internal/rag/vectorDB/memoryDB"
	"github.com/rkandala/newsrag/internal/rag/vectorDB/qdrantDB"
	"github.com/rkandala/newsrag/internal/server"
	"github.com/rkandala/newsrag/internal/worker"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

const version = "1.0.0"

func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("main")

	cfg := config.FromEnv()
	var mcpMode bool
	flag.StringVar(&cfg.ListenAddr, "listen-addr", cfg.ListenAddr, "server listen address")
	flag.BoolVar(&mcpMode, "mcp", false, "serve MCP tools over stdio instead of HTTP")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	ragService := buildRagService(serviceContext, cfg, logger)
	mcpSrv := mcpserver.New(ragService, version)

	if mcpMode {
		if err := mcpSrv.Run(serviceContext); err != nil {
			logger.Error("MCP server stopped", "error", err)
		}
		return
	}

	// job plumbing
	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel := make(chan bool, 1)
	var workerWaitGroup sync.WaitGroup

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          buildJobStore(serviceContext, cfg, logger),
	}
	jobService := job.InitJobService(serviceConfig)

	handler := handlers.NewHandler(jobService, ragService)

	pool := worker.NewPool(jobService, ragService)
	pool.Start(stopWorkerChannel, &workerWaitGroup)

	// server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	srv := server.New(cfg.ListenAddr, handler, mcpSrv.HTTPHandler())
	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go srv.ShutDownHandler(shutdownParams)
	go srv.Run()

	<-stopExecution
	logger.Info("Server stopped")
}

// buildRagService wires fetchers, chunker, embedder, store, pipeline
// and retriever. Qdrant being offline degrades to the in-memory store;
// a missing embedding key is fatal since nothing works without vectors.
func buildRagService(ctx context.Context, cfg config.Config, logger *logger_i.Logger) rag.Service {
	db := buildVectorStore(ctx, cfg, logger)
	embedder := buildEmbedder(ctx, cfg, logger)

	strategy, err := chunker.ParseStrategy(cfg.ChunkStrategy)
	if err != nil {
		logger.Error("Invalid chunk strategy", "strategy", cfg.ChunkStrategy, "error", err)
		os.Exit(1)
	}
	chunk, err := chunker.New(strategy, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		logger.Error("Invalid chunker settings", "error", err)
		os.Exit(1)
	}

	httpClient := customHttpClient.New()
	fetchers := make([]fetch.Fetcher, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		fetchers = append(fetchers, rssFetch.New(feed, httpClient))
	}

	pipeline := ingest.NewPipeline(fetchers, embedder, db, chunk)
	retr := retriever.New(db, embedder, cfg.MinScore)
	return rag.NewService(pipeline, retr)
}

func buildVectorStore(ctx context.Context, cfg config.Config, logger *logger_i.Logger) vectorDB.DataProcessor {
	db, err := qdrantDB.New(ctx, cfg)
	if err != nil {
		logger.Error("Qdrant is offline, falling back to in-memory vector store", "error", err)
		return memoryDB.New(int(config.EmbeddingDimension))
	}
	return db
}

func buildEmbedder(ctx context.Context, cfg config.Config, logger *logger_i.Logger) embedding.Embedder {
	switch cfg.EmbeddingProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Error("OPENAI_API_KEY is not set")
			os.Exit(1)
		}
		return openaiEmbedding.New(cfg.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	default:
		if cfg.GoogleAPIKey == "" {
			logger.Error("GOOGLE_API_KEY is not set")
			os.Exit(1)
		}
		client, err := googleEmbedding.New(ctx, config.GoogleEmbeddingModel, cfg.GoogleAPIKey)
		if err != nil {
			logger.Error("Embedding client failed to initialize", "error", err)
			os.Exit(1)
		}
		return client
	}
}

func buildJobStore(ctx context.Context, cfg config.Config, logger *logger_i.Logger) jobModel.JobStore {
	redis, err := redisStore.New(ctx, cfg.RedisAddr, config.RedisJobStore)
	if err != nil {
		logger.Error("Redis is offline, job state will not survive restarts", "error", err)
		return store.InitInMemoryJobStore()
	}
	return store.NewRedisJobStore(redis)
}
