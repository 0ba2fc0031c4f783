// Package tracklist wires the fetcher and the parser into the single
// fetch-then-extract call consumed by front-ends.
package tracklist

import (
	"context"

	"github.com/dtnitsch/tracklist-parser/models"
	"github.com/dtnitsch/tracklist-parser/pkg/fetcher"
	"github.com/dtnitsch/tracklist-parser/pkg/parser"
)

// Client runs the tracklist pipeline. The zero value is not usable; use NewClient.
type Client struct {
	fetcher *fetcher.Fetcher
	parser  *parser.Parser
}

// NewClient returns a Client fetching from baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	return NewClientWithFetcher(fetcher.NewFetcher(baseURL))
}

// NewClientWithFetcher returns a Client using f for all requests.
func NewClientWithFetcher(f *fetcher.Fetcher) *Client {
	return &Client{
		fetcher: f,
		parser:  &parser.Parser{},
	}
}

// Fetcher exposes the underlying fetcher.
func (c *Client) Fetcher() *fetcher.Fetcher {
	return c.fetcher
}

// GetTracklist fetches <base>tracklist/<path> and extracts it.
func (c *Client) GetTracklist(ctx context.Context, path string) (*models.Tracklist, error) {
	result, _, err := c.GetTracklistWithHTML(ctx, path)
	return result, err
}

// GetTracklistWithHTML is GetTracklist that also returns the fetched markup,
// which is set whenever the fetch itself succeeded.
func (c *Client) GetTracklistWithHTML(ctx context.Context, path string) (*models.Tracklist, string, error) {
	html, err := c.fetcher.GetTracklistHTML(ctx, path)
	if err != nil {
		return nil, "", err
	}
	result, err := c.parser.ParseTracklist(html)
	if err != nil {
		return nil, html, err
	}
	return result, html, nil
}

// ParseTracklist runs only the extraction step on already-fetched markup.
func (c *Client) ParseTracklist(html string) (*models.Tracklist, error) {
	return c.parser.ParseTracklist(html)
}
