package impl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakkerme/rssaizer/internal/transport"
)

func testOpener() *Opener {
	return NewOpener(Options{
		UserAgent:      "rssaizer-test/1.0",
		RetryAttempts:  3,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestOpenerHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rssaizer-test/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<rss version="2.0"/>`))
	}))
	defer server.Close()

	body, err := testOpener().Open(context.Background(), server.URL+"/feed.xml")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `<rss version="2.0"/>`, string(data))
}

func TestOpenerRetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := testOpener().Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, int32(3), hits.Load())
}

func TestOpenerDoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testOpener().Open(context.Background(), server.URL)
	require.Error(t, err)

	var statusErr *transport.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenerBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	opener := NewOpener(Options{MaxBodyBytes: 16})
	body, err := opener.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer body.Close()

	_, err = io.ReadAll(body)
	assert.ErrorIs(t, err, transport.ErrBodyTooLarge)
}

func TestOpenerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(path, []byte("<feed/>"), 0o600))

	body, err := testOpener().Open(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "<feed/>", string(data))
}

func TestOpenerUnsupportedScheme(t *testing.T) {
	_, err := testOpener().Open(context.Background(), "ftp://example.com/feed.xml")
	assert.ErrorIs(t, err, transport.ErrUnsupportedScheme)
}

func TestOpenerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testOpener().Open(ctx, "http://127.0.0.1:1/feed.xml")
	assert.ErrorIs(t, err, context.Canceled)
}
