package chunker

import (
	"fmt"
	"strings"
	"unicode"
)

// Strategy selects how article bodies are split. The set is closed;
// there is no dynamic registration.
type Strategy string

const (
	StrategyTokens     Strategy = "tokens"
	StrategySentences  Strategy = "sentences"
	StrategyParagraphs Strategy = "paragraphs"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTokens, StrategySentences, StrategyParagraphs:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown chunking strategy: %q", s)
}

// Chunker splits text into embedding-sized segments. Size and overlap
// are measured in whitespace-delimited words (a rough 1:1 token proxy
// for English). Overlap only applies to the tokens strategy.
type Chunker struct {
	strategy Strategy
	size     int
	overlap  int
}

func New(strategy Strategy, size int, overlap int) (*Chunker, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if strategy == StrategyTokens && overlap >= size {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, size)
	}
	return &Chunker{strategy: strategy, size: size, overlap: overlap}, nil
}

// Split returns the chunks of text in order of appearance. Empty or
// whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	switch c.strategy {
	case StrategyTokens:
		return c.splitByTokens(text)
	case StrategyParagraphs:
		return c.splitByParagraphs(text)
	default:
		return c.splitBySentences(text)
	}
}

func (c *Chunker) splitByTokens(text string) []string {
	words := strings.Fields(text)
	if len(words) <= c.size {
		return []string{strings.Join(words, " ")}
	}

	stride := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(words); start += stride {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func (c *Chunker) splitBySentences(text string) []string {
	return c.chunkSentences(splitSentences(text))
}

// chunkSentences greedily packs whole sentences; a single sentence
// longer than the chunk size becomes its own oversized chunk.
func (c *Chunker) chunkSentences(sentences []string) []string {
	var chunks []string
	var current []string
	currentWords := 0

	for _, sentence := range sentences {
		n := len(strings.Fields(sentence))
		if currentWords > 0 && currentWords+n > c.size {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentWords = 0
		}
		current = append(current, sentence)
		currentWords += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func (c *Chunker) splitByParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var chunks []string
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = current[:0]
			currentWords = 0
		}
	}

	for _, para := range paragraphs {
		n := len(strings.Fields(para))

		// an oversized paragraph falls back to sentence chunking,
		// for that paragraph only
		if n > c.size {
			flush()
			chunks = append(chunks, c.chunkSentences(splitSentences(para))...)
			continue
		}

		if currentWords > 0 && currentWords+n > c.size {
			flush()
		}
		current = append(current, para)
		currentWords += n
	}
	flush()
	return chunks
}

// splitSentences cuts text after a run of sentence terminators that is
// followed by whitespace. Go's RE2 has no lookbehind, so this is a
// plain scan instead of the usual (?<=[.!?])\s+ pattern.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if isTerminator(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			flush()
		}
	}
	flush()
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
