package googleEmbedding

import (
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/rag/embedding"
	"github.com/rkandala/newsrag/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))

	for _, text := range texts {
		text = embedding.Truncate(text, config.EmbeddingMaxInputWords)
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

// doRetry reports whether the failure was a rate limit and is worth one
// retry after a pause.
func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			log.Warn("Rate limit hit", "error", err)
			return true
		}
	}
	return false
}
