package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bakkerme/rssaizer/internal/config"
	"github.com/bakkerme/rssaizer/internal/core"
	"github.com/bakkerme/rssaizer/internal/feed"
	"github.com/bakkerme/rssaizer/internal/feed/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testLogger = slog.New(slog.DiscardHandler)

func TestRunWritesReport(t *testing.T) {
	good := core.MustParseFeedURL("https://example.com/good.xml")
	bad := core.MustParseFeedURL("https://example.com/bad.xml")
	published := time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)

	reader := &mock.Reader{
		PostsByFeed: map[string][]core.ReadPost{
			good.String(): {{HTMLContent: "<p>hi</p>", URL: "https://example.com/p/1", PublishedAt: published}},
		},
		InfoByFeed: map[string]core.FeedModel{
			good.String(): {FeedURL: good, Title: "Good", Description: "desc", ImageURL: feed.PlaceholderImageURL},
		},
		ErrByFeed: map[string]error{
			bad.String(): fmt.Errorf("%w: feed %s: boom", feed.ErrFetch, bad),
		},
	}
	doc := &config.FeedsDocument{
		Feeds:  []config.FeedEntry{{Name: "good", URL: good}, {URL: bad}},
		Window: "1d",
		Info:   true,
	}
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	err := run(context.Background(), testLogger, reader, doc, now, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 feeds failed")

	var report struct {
		RunID string `yaml:"run_id"`
		From  string `yaml:"from"`
		To    string `yaml:"to"`
		Feeds []struct {
			Name string `yaml:"name"`
			URL  string `yaml:"url"`
			Info struct {
				Title    string `yaml:"title"`
				ImageURL string `yaml:"image_url"`
			} `yaml:"info"`
			Posts []struct {
				URL string `yaml:"url"`
			} `yaml:"posts"`
			Error string `yaml:"error"`
		} `yaml:"feeds"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "2024-06-09", report.From)
	assert.Equal(t, "2024-06-10", report.To)
	require.Len(t, report.Feeds, 2)
	assert.Equal(t, "good", report.Feeds[0].Name)
	assert.Equal(t, "Good", report.Feeds[0].Info.Title)
	require.Len(t, report.Feeds[0].Posts, 1)
	assert.Equal(t, "https://example.com/p/1", report.Feeds[0].Posts[0].URL)
	assert.Empty(t, report.Feeds[0].Error)
	assert.Equal(t, bad.String(), report.Feeds[1].URL)
	assert.Contains(t, report.Feeds[1].Error, "boom")

	require.Len(t, reader.Calls, 3)
	assert.Equal(t, "FetchFeedInfo", reader.Calls[0].Op)
	assert.Equal(t, "FetchPosts", reader.Calls[1].Op)
	assert.Equal(t, "2024-06-09", reader.Calls[1].From.String())
}

func TestRunSucceedsWithoutInfo(t *testing.T) {
	u := core.MustParseFeedURL("https://example.com/rss")
	reader := &mock.Reader{}
	doc := &config.FeedsDocument{Feeds: []config.FeedEntry{{URL: u}}, From: "2024-01-01", To: "2024-01-31"}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), testLogger, reader, doc, time.Now(), &out))
	require.Len(t, reader.Calls, 1)
	assert.Equal(t, "FetchPosts", reader.Calls[0].Op)
	assert.Equal(t, "2024-01-31", reader.Calls[0].To.String())
}

func TestRunStopsOnCancellation(t *testing.T) {
	u := core.MustParseFeedURL("https://example.com/rss")
	reader := &mock.Reader{}
	doc := &config.FeedsDocument{Feeds: []config.FeedEntry{{URL: u}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, testLogger, reader, doc, time.Now(), &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.Calls)
	assert.Zero(t, out.Len())
}

func TestBuildDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feeds:\n  - url: https://example.com/rss\nwindow: 7d\n"), 0o600))

	doc, err := buildDocument(path, nil, "2024-01-01", "2024-01-02", "", true)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", doc.From)
	assert.Empty(t, doc.Window)
	assert.True(t, doc.Info)

	doc, err = buildDocument(filepath.Join(t.TempDir(), "missing.yaml"), []string{"https://a.example/feed"}, "", "", "3d", false)
	require.NoError(t, err)
	require.Len(t, doc.Feeds, 1)
	assert.Equal(t, "3d", doc.Window)

	_, err = buildDocument(path, []string{"not a url"}, "", "", "", false)
	require.Error(t, err)

	_, err = buildDocument(path, nil, "2024-01-01", "", "", false)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}
