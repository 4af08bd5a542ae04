package googleEmbedding

import (
	"context"
	"time"

	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/pkg/logger_i"
	"google.golang.org/genai"
)

var dimension int32 = config.EmbeddingDimension

type Client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// New builds a Google embedding client. The caller owns the lifetime;
// there is no process-wide instance.
func New(ctx context.Context, modelName string, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, &embedding.Error{Backend: "google", Err: err}
	}
	logger := logger_i.NewLogger("google_embedding")
	logger.Info("Google embedding client created", "model", modelName)
	return &Client{
		genAi:  c,
		model:  modelName,
		logger: logger,
	}, nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	content := genai.Text(embedding.Truncate(text, config.EmbeddingMaxInputWords))

	result, err := c.doCall(ctx, content)
	if err != nil {
		c.logger.Error("Error getting embedding from Google", "error", err.Error())
		return nil, &embedding.Error{Backend: "google", Err: err}
	}
	return result.Embeddings[0].Values, nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := c.doCall(ctx, getContent(texts))
	if err != nil && doRetry(err, c.logger) {
		c.logger.Debug("Retrying in 5 seconds")
		time.Sleep(5 * time.Second)
		res, err = c.doCall(ctx, getContent(texts))
	}
	if err != nil {
		c.logger.Error("Error getting batch embeddings from Google", "error", err.Error())
		return nil, &embedding.Error{Backend: "google", Err: err}
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *Client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}
