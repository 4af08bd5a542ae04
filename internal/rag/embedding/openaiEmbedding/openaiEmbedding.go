package openaiEmbedding

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

type Client struct {
	oai    openai.Client
	model  string
	logger *logger_i.Logger
}

// New builds an OpenAI embedding client pinned to the shared 384-wide
// output so vectors stay interchangeable with the Google backend.
func New(apiKey string, modelName string) *Client {
	return &Client{
		oai:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = embedding.Truncate(text, config.EmbeddingMaxInputWords)
	}

	res, err := c.oai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingDimension)),
	})
	if err != nil {
		c.logger.Error("Error getting embeddings from OpenAI", "error", err.Error())
		return nil, &embedding.Error{Backend: "openai", Err: err}
	}

	vectors := make([][]float32, len(inputs))
	for _, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
