package customHttpClient

import (
	"net/http"

	"github.com/rkandala/newsrag/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// New returns a client on the shared pooled transport. All feed
// fetchers reuse it so connections to the news sites stay warm.
func New() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.FetchTimeout,
	}
}
