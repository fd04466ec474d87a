package search

import (
	"context"
	"errors"
	"strings"

	"github.com/Adda-Baaj/photo-scout/pkg/httpclient"
)

// Logger defines the logging surface the search client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}

// Searcher runs one photo search against a fully built endpoint URL.
type Searcher interface {
	Search(ctx context.Context, endpointURL string) (*Response, error)
}

// Client issues a single GET per Search call. It never retries.
type Client struct {
	http    httpclient.Client
	headers map[string]string
	log     Logger
}

// NewClient wires a search client over the shared HTTP client.
func NewClient(client httpclient.Client, log Logger) *Client {
	if log == nil {
		log = noopLogger{}
	}
	return &Client{
		http:    client,
		headers: map[string]string{"Accept": "application/json"},
		log:     log,
	}
}

// Search fetches endpointURL, drains the body and decodes it. The status code
// is not inspected: an error page that is not JSON fails as a *ParseError.
func (c *Client) Search(ctx context.Context, endpointURL string) (*Response, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("search client is not initialized")
	}
	if strings.TrimSpace(endpointURL) == "" {
		return nil, errors.New("search endpoint url is empty")
	}

	resp, err := c.http.Get(ctx, endpointURL, c.headers)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	body := resp.Body()
	c.log.DebugObj("search response received", "search_response", map[string]any{
		"url":         endpointURL,
		"status_code": resp.StatusCode(),
		"body_bytes":  len(body),
	})

	return Decode(body)
}
