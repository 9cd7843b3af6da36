// Package dictionary looks up English words against the free dictionary API.
package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/at-ishikawa/paperpilot/internal/cache"
	"github.com/at-ishikawa/paperpilot/internal/dictionary/freedictionary"
	"github.com/at-ishikawa/paperpilot/internal/lookup"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.dictionaryapi.dev"
	serviceName    = "Dictionary"
	entriesPath    = "/api/v2/entries/en/{word}"
)

type Config struct {
	BaseURL string
	Retry   lookup.RetryConfig
}

type Client struct {
	httpClient *resty.Client
	cache      *cache.Cache[[]Entry]
	retry      lookup.RetryConfig
}

// NewClient builds a client that memoizes successful lookups in entries.
func NewClient(config Config, entries *cache.Cache[[]Entry]) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if entries == nil {
		entries = cache.New[[]Entry](cache.DefaultTTL)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		cache:      entries,
		retry:      config.Retry,
	}
}

// Define returns the entries for term. A phrase that is not found is retried
// with its first word, and that word's entries are returned instead.
func (c *Client) Define(ctx context.Context, term string) ([]Entry, error) {
	key := cache.NormalizeKey(term)
	if key == "" {
		return nil, &lookup.NotFoundError{Term: term}
	}
	if entries, ok := c.cache.Get(key); ok {
		slog.Default().Debug("dictionary cache hit", "key", key)
		return entries, nil
	}

	entries, err := c.fetch(ctx, key)
	if err == nil {
		c.cache.Put(key, entries)
		return entries, nil
	}
	if !lookup.IsNotFound(err) {
		return nil, fmt.Errorf("c.fetch(%s) > %w", key, err)
	}
	if !strings.ContainsFunc(key, unicode.IsSpace) {
		return nil, &lookup.NotFoundError{Term: term}
	}

	firstWord := strings.Fields(key)[0]
	slog.Default().Debug("phrase not found, falling back to first word",
		"phrase", key,
		"word", firstWord)
	if entries, ok := c.cache.Get(firstWord); ok {
		return entries, nil
	}
	entries, err = c.fetch(ctx, firstWord)
	if err != nil {
		if lookup.IsNotFound(err) {
			return nil, &lookup.NotFoundError{Term: term}
		}
		return nil, fmt.Errorf("c.fetch(%s) > %w", firstWord, err)
	}
	c.cache.Put(firstWord, entries)
	return entries, nil
}

func (c *Client) fetch(ctx context.Context, word string) ([]Entry, error) {
	var body []byte
	err := lookup.Do(ctx, c.retry, func() error {
		res, err := c.httpClient.R().
			SetContext(ctx).
			SetPathParam("word", word).
			Get(entriesPath)
		if err != nil {
			return fmt.Errorf("client.R.Get > %w", err)
		}
		if res.StatusCode() == http.StatusNotFound {
			if notFound, err := freedictionary.ParseNotFound(res.Body()); err == nil {
				slog.Default().Debug("dictionary has no entry",
					"word", word,
					"title", notFound.Title,
					"resolution", notFound.Resolution)
			}
			return &lookup.NotFoundError{Term: word}
		}
		if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
			return &lookup.UpstreamError{Service: serviceName, StatusCode: res.StatusCode()}
		}
		body = res.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses, err := freedictionary.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("freedictionary.Parse > %w", err)
	}
	if len(responses) == 0 {
		return nil, &lookup.NotFoundError{Term: word}
	}
	return fromResponses(responses), nil
}
