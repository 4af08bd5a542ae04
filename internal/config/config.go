package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	// embedding vectors are 384-wide (all backends are pinned to this)
	EmbeddingDimension int32 = 384

	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	// inputs longer than this many words are truncated before embedding
	EmbeddingMaxInputWords = 6000

	NewsCollectionName = "news_articles"

	DefaultChunkStrategy = "sentences"
	DefaultChunkSize     = 512
	DefaultChunkOverlap  = 50

	MinArticleBodyChars = 50
	EmbedBatchSize      = 100
	DefaultIngestLimit  = 10
	MinIndexedDocs      = 1

	DefaultMinScore float32 = 0.3
	DefaultTopK             = 5

	RequestsPerNewWorkerCount int64 = 10
	IngestJobTimeout                = 2 * time.Minute
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//fetchers
	FetchTimeout          = 30 * time.Second
	FetchRequestsPerSec   = 1
	FetchBurst            = 2
	MaxIdleConns          = 50
	MaxIdleConnsPerHost   = 25
	IdleConnTimeout       = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour

	NoAuthBypass = true
	AuthToken    = ""
)

// Feed is one configured news source: a "latest" feed URL and a
// symbol-search URL with a %s placeholder.
type Feed struct {
	Source    string
	LatestURL string
	SymbolURL string
}

// Config is built once in main and handed to every constructor.
// Nothing reads the environment after startup.
type Config struct {
	ListenAddr string

	EmbeddingProvider string // "google" or "openai"
	GoogleAPIKey      string
	OpenAIAPIKey      string

	ChunkStrategy string
	ChunkSize     int
	ChunkOverlap  int

	MinScore float32

	QdrantHost string
	QdrantPort int

	RedisAddr string

	Feeds []Feed
}

func Default() Config {
	return Config{
		ListenAddr:        ServerListenAddr,
		EmbeddingProvider: "google",
		ChunkStrategy:     DefaultChunkStrategy,
		ChunkSize:         DefaultChunkSize,
		ChunkOverlap:      DefaultChunkOverlap,
		MinScore:          DefaultMinScore,
		QdrantHost:        QdrantHost,
		QdrantPort:        QdrantGrpcPort,
		RedisAddr:         RedisAddr,
		Feeds: []Feed{
			{
				Source:    "moneycontrol",
				LatestURL: "https://www.moneycontrol.com/rss/buzzingstocks.xml",
				SymbolURL: "https://www.moneycontrol.com/rss/tags/%s.xml",
			},
			{
				Source:    "economictimes",
				LatestURL: "https://economictimes.indiatimes.com/markets/stocks/rssfeeds/2146842.cms",
				SymbolURL: "https://economictimes.indiatimes.com/topic/%s/rssfeeds.cms",
			},
		},
	}
}

// FromEnv layers environment overrides on top of the defaults.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		cfg.EmbeddingProvider = v
	}
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("CHUNK_STRATEGY"); v != "" {
		cfg.ChunkStrategy = v
	}
	if v, err := strconv.Atoi(os.Getenv("CHUNK_SIZE")); err == nil && v > 0 {
		cfg.ChunkSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("CHUNK_OVERLAP")); err == nil && v >= 0 {
		cfg.ChunkOverlap = v
	}

	if v := os.Getenv("QDRANT_HOST"); v != "" {
		cfg.QdrantHost = v
	}
	if v, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		cfg.QdrantPort = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	return cfg
}
