package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dtnitsch/tracklist-parser/models"
)

func newTestServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/tracklist/72910_essential-mix.html" {
			t.Errorf("path = %s, want /tracklist/72910_essential-mix.html", r.URL.Path)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetTracklistHTML_Success(t *testing.T) {
	var hits int32
	body := "<html><body>tracklist</body></html>"
	srv := newTestServer(t, http.StatusOK, body, &hits)

	f := NewFetcher(srv.URL + "/")
	got, err := f.GetTracklistHTML(context.Background(), "72910_essential-mix.html")
	if err != nil {
		t.Fatalf("GetTracklistHTML() failed: %v", err)
	}
	if got != body {
		t.Errorf("body = %q, want %q", got, body)
	}
	if hits != 1 {
		t.Errorf("requests = %d, want 1", hits)
	}
}

func TestGetTracklistHTML_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"no content", http.StatusNoContent},
		{"redirect not followed to 200", http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := newTestServer(t, tt.status, "", &hits)

			f := NewFetcher(srv.URL + "/")
			_, err := f.GetTracklistHTML(context.Background(), "72910_essential-mix.html")

			var statusErr *models.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("error = %v, want *models.StatusError", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
			if hits != 1 {
				t.Errorf("requests = %d, want exactly 1 (no retry)", hits)
			}
		})
	}
}

func TestGetTracklistHTML_EmptyPath(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, "", &hits)

	f := NewFetcher(srv.URL + "/")
	_, err := f.GetTracklistHTML(context.Background(), "")
	if !errors.Is(err, models.ErrEmptyPath) {
		t.Fatalf("error = %v, want ErrEmptyPath", err)
	}
	if hits != 0 {
		t.Errorf("requests = %d, want 0", hits)
	}
}

func TestGetTracklistHTML_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL + "/"
	srv.Close() // nothing listens any more

	f := NewFetcher(baseURL)
	_, err := f.GetTracklistHTML(context.Background(), "72910_essential-mix.html")

	var transportErr *models.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want *models.TransportError", err)
	}
	var statusErr *models.StatusError
	if errors.As(err, &statusErr) {
		t.Error("transport failure must not be reported as a status error")
	}
}

func TestGetTracklistHTML_InvalidBaseURL(t *testing.T) {
	f := NewFetcher("://no-scheme/")
	_, err := f.GetTracklistHTML(context.Background(), "72910_essential-mix.html")
	if err == nil {
		t.Fatal("expected an error for a malformed base URL")
	}

	var transportErr *models.TransportError
	if errors.As(err, &transportErr) {
		t.Errorf("error = %v, a bad URL must not be reported as a transport failure", err)
	}
	if got := models.ErrorType(err); got == models.ErrorTypeTransport {
		t.Errorf("ErrorType() = %q, want anything but transport_error", got)
	}
}

func TestGetTracklistHTML_CanceledContext(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, "ok", &hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(srv.URL + "/")
	_, err := f.GetTracklistHTML(ctx, "72910_essential-mix.html")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
}

func TestNewFetcher_DefaultBaseURL(t *testing.T) {
	f := NewFetcher("")
	if f.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", f.BaseURL(), DefaultBaseURL)
	}

	want := "http://www.1001tracklists.com/tracklist/72910_x.html"
	if got := f.TracklistURL("72910_x.html"); got != want {
		t.Errorf("TracklistURL() = %q, want %q", got, want)
	}
}
