package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/rag"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

// Server exposes news search and ingestion as MCP tools, so an agent
// can pull indexed market news without going through the REST API.
type Server struct {
	ragService rag.Service
	server     *mcp.Server
	logger     *logger_i.Logger
}

func New(ragService rag.Service, version string) *Server {
	s := &Server{
		ragService: ragService,
		logger:     logger_i.NewLogger("MCP Server"),
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "newsrag",
		Title:   "News RAG",
		Version: version,
	}, nil)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_news",
		Description: "Semantic search over indexed market news. Optionally filter by stock symbol; set ensure_indexed to ingest the symbol first if it has no documents yet.",
	}, s.searchTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_news",
		Description: "Fetch, chunk and index fresh news for the given stock symbols (or each source's latest headlines when no symbols are given). Runs synchronously and reports ingestion stats.",
	}, s.ingestTool)

	return s
}

// Run serves the tools over stdio and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server starting on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the same tools over streamable HTTP, for mounting
// under the REST server.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) searchTool(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, errQueryRequired
	}

	topK := input.TopK
	if topK <= 0 {
		topK = config.DefaultTopK
	}

	var raw []newsModel.SearchResult
	var err error
	if input.EnsureIndexed && input.Symbol != "" {
		raw, err = s.ragService.SearchIndexed(ctx, input.Query, topK, input.Symbol, config.DefaultIngestLimit)
	} else {
		raw, err = s.ragService.Search(ctx, input.Query, topK, input.Symbol)
	}
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results := toNewsResults(raw)
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

func (s *Server) ingestTool(ctx context.Context, _ *mcp.CallToolRequest, input IngestInput) (*mcp.CallToolResult, IngestOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = config.DefaultIngestLimit
	}

	job := newIngestJob(input.Symbols, limit)
	job = s.ragService.RunIngestJob(ctx, job)
	return nil, toIngestOutput(job), nil
}
