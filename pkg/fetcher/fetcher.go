package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dtnitsch/tracklist-parser/models"
)

// DefaultBaseURL is the root of the source site.
const DefaultBaseURL = models.DefaultBaseURL

const tracklistSegment = "tracklist/"

// Fetcher retrieves tracklist pages. It holds no per-request state.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher returns a Fetcher rooted at baseURL, or DefaultBaseURL when empty.
func NewFetcher(baseURL string) *Fetcher {
	return NewFetcherWithClient(baseURL, &http.Client{})
}

// NewFetcherWithClient is NewFetcher with a caller-supplied client.
func NewFetcherWithClient(baseURL string, client *http.Client) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:  client,
		baseURL: baseURL,
	}
}

// BaseURL returns the configured site root.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// TracklistURL builds <base>tracklist/<path>.
func (f *Fetcher) TracklistURL(path string) string {
	return f.baseURL + tracklistSegment + path
}

// GetTracklistHTML fetches the tracklist page at path and returns its body verbatim.
func (f *Fetcher) GetTracklistHTML(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", models.ErrEmptyPath
	}
	bodyBytes, err := f.GetHtmlBytes(ctx, f.TracklistURL(path))
	if err != nil {
		return "", err
	}
	return string(bodyBytes), nil
}

// GetHtmlBytes issues a single GET and returns the body of a 200 response.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid tracklist URL %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &models.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &models.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{URL: url, Err: err}
	}
	return bodyBytes, nil
}
