package newsModel

import "time"

// Source identifies the site an article was fetched from.
type Source string

const (
	SourceMoneyControl  Source = "moneycontrol"
	SourceEconomicTimes Source = "economictimes"
)

// Article is one fetched news item. It lives only until it has been
// chunked; it is never persisted itself.
type Article struct {
	Source      Source
	Title       string
	URL         string // may be empty for synthesized content
	Body        string
	Symbol      string // optional ticker association
	PublishedAt time.Time
}

// SearchResult is one retrieval hit, ready for the synthesis layer.
type SearchResult struct {
	Content  string            `json:"content"`
	Title    string            `json:"title"`
	Source   string            `json:"source"`
	URL      string            `json:"url"`
	Symbol   string            `json:"symbol,omitempty"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IngestionStats summarizes a single ingestion run. Errors holds one
// entry per failed source/symbol; those failures never abort the run.
type IngestionStats struct {
	ArticlesFetched int      `json:"articles_fetched"`
	ChunksCreated   int      `json:"chunks_created"`
	ChunksStored    int      `json:"chunks_stored"`
	Errors          []string `json:"errors,omitempty"`
}
