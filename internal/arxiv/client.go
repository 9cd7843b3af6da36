// Package arxiv searches the arXiv Atom API.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/at-ishikawa/paperpilot/internal/cache"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
	"resty.dev/v3"
)

const (
	DefaultBaseURL    = "https://export.arxiv.org"
	DefaultMaxResults = 10
	serviceName       = "arXiv"
	queryPath         = "/api/query"
	searchPageURL     = "https://arxiv.org/search/"
)

var ErrEmptyQuery = errors.New("empty search query")

type Config struct {
	BaseURL string
	Retry   lookup.RetryConfig
}

type Client struct {
	httpClient *resty.Client
	cache      *cache.Cache[[]Entry]
	retry      lookup.RetryConfig
}

func NewClient(config Config, results *cache.Cache[[]Entry]) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if results == nil {
		results = cache.New[[]Entry](cache.DefaultTTL)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetHeader("Accept", "application/atom+xml")

	return &Client{
		httpClient: httpClient,
		cache:      results,
		retry:      config.Retry,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// Search returns up to maxResults papers matching query. The bound is passed
// to the upstream as is; callers are responsible for keeping it sane.
func (client *Client) Search(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	key := cache.NormalizeKey(query)
	if key == "" {
		return nil, ErrEmptyQuery
	}
	if results, ok := client.cache.Get(key); ok {
		slog.Default().Debug("arxiv cache hit", "key", key)
		return results, nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var feed string
	err := lookup.Do(ctx, client.retry, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			SetQueryParams(QueryParams(key, maxResults)).
			Get(queryPath)
		if err != nil {
			return fmt.Errorf("httpClient.Get > %w", err)
		}
		if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
			return &lookup.UpstreamError{Service: serviceName, StatusCode: response.StatusCode()}
		}
		feed = response.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	results, err := ParseAtom([]byte(feed))
	if err != nil {
		return nil, fmt.Errorf("ParseAtom > %w", err)
	}
	client.cache.Put(key, results)
	return results, nil
}

// QueryParams are the query string parameters of an all-fields search.
func QueryParams(query string, maxResults int) map[string]string {
	return map[string]string{
		"search_query": "all:" + query,
		"start":        "0",
		"max_results":  strconv.Itoa(maxResults),
	}
}

// SearchPageURL is the human-facing search page for query on arxiv.org.
func SearchPageURL(query string) string {
	values := url.Values{}
	values.Set("query", query)
	values.Set("searchtype", "all")
	return searchPageURL + "?" + values.Encode()
}
