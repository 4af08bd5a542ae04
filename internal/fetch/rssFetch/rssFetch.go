package rssFetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rkandala/newsrag/internal/config"
	"github.com/rkandala/newsrag/internal/domain/newsModel"
	"github.com/rkandala/newsrag/internal/fetch"
	"github.com/rkandala/newsrag/pkg/logger_i"
	"golang.org/x/time/rate"
)

// Fetcher pulls articles from one site's RSS feeds. Calls are rate
// limited per source to stay polite with the news sites.
type Fetcher struct {
	source    newsModel.Source
	latestURL string
	symbolURL string // %s is the lowercased symbol
	parser    *gofeed.Parser
	limiter   *rate.Limiter
	logger    *logger_i.Logger
}

func New(feed config.Feed, client *http.Client) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = client

	return &Fetcher{
		source:    newsModel.Source(feed.Source),
		latestURL: feed.LatestURL,
		symbolURL: feed.SymbolURL,
		parser:    parser,
		limiter:   rate.NewLimiter(rate.Limit(config.FetchRequestsPerSec), config.FetchBurst),
		logger:    logger_i.NewLogger("RSS Fetcher: " + feed.Source),
	}
}

func (f *Fetcher) Name() newsModel.Source {
	return f.source
}

func (f *Fetcher) FetchLatest(ctx context.Context, limit int) ([]newsModel.Article, error) {
	return f.fetch(ctx, f.latestURL, "", limit)
}

func (f *Fetcher) FetchForSymbol(ctx context.Context, symbol string, limit int) ([]newsModel.Article, error) {
	feedURL := fmt.Sprintf(f.symbolURL, url.PathEscape(strings.ToLower(symbol)))
	return f.fetch(ctx, feedURL, strings.ToUpper(symbol), limit)
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string, symbol string, limit int) ([]newsModel.Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &fetch.FetchError{Source: f.source, Symbol: symbol, Err: err}
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		f.logger.Error("Feed fetch failed", "url", feedURL, "error", err)
		return nil, &fetch.FetchError{Source: f.source, Symbol: symbol, Err: err}
	}

	var articles []newsModel.Article
	for _, item := range feed.Items {
		if limit > 0 && len(articles) >= limit {
			break
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		articles = append(articles, newsModel.Article{
			Source:      f.source,
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			Body:        strings.TrimSpace(body),
			Symbol:      symbol,
			PublishedAt: published,
		})
	}

	f.logger.Debug("Fetched feed", "url", feedURL, "articles", len(articles))
	return articles, nil
}
