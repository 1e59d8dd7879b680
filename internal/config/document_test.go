package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseFeedsDocument(t *testing.T) {
	doc, err := ParseFeedsDocument([]byte(`
feeds:
  - name: go blog
    url: https://go.dev/blog/feed.atom
  - url: https://example.com/rss.xml
window: 7d
info: true
`))
	if err != nil {
		t.Fatalf("ParseFeedsDocument() error = %v", err)
	}
	if len(doc.Feeds) != 2 || doc.Feeds[0].Name != "go blog" {
		t.Fatalf("unexpected feeds: %+v", doc.Feeds)
	}
	if doc.Feeds[1].URL.String() != "https://example.com/rss.xml" {
		t.Fatalf("url = %q", doc.Feeds[1].URL)
	}
	if !doc.Info {
		t.Fatalf("expected info to be set")
	}

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	from, to, err := doc.Period(now)
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if from.String() != "2024-06-03" || to.String() != "2024-06-10" {
		t.Fatalf("Period() = %s..%s", from, to)
	}
}

func TestParseFeedsDocumentExplicitPeriod(t *testing.T) {
	doc, err := ParseFeedsDocument([]byte("feeds:\n  - url: https://example.com/rss\nfrom: 2024-01-01\nto: 2024-01-31\n"))
	if err != nil {
		t.Fatalf("ParseFeedsDocument() error = %v", err)
	}
	from, to, err := doc.Period(time.Now())
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if from.String() != "2024-01-01" || to.String() != "2024-01-31" {
		t.Fatalf("Period() = %s..%s", from, to)
	}
}

func TestParseFeedsDocumentErrors(t *testing.T) {
	cases := map[string]string{
		"no feeds":      "window: 1d\n",
		"relative url":  "feeds:\n  - url: /rss.xml\n",
		"missing url":   "feeds:\n  - name: nothing\n",
		"half a period": "feeds:\n  - url: https://example.com/rss\nfrom: 2024-01-01\n",
		"bad window":    "feeds:\n  - url: https://example.com/rss\nwindow: soon\n",
		"bad date":      "feeds:\n  - url: https://example.com/rss\nfrom: 01/01/2024\nto: 2024-01-31\n",
	}
	for name, raw := range cases {
		if _, err := ParseFeedsDocument([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFeedsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("feeds:\n  - url: https://example.com/rss\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := LoadFeedsDocument(path)
	if err != nil {
		t.Fatalf("LoadFeedsDocument() error = %v", err)
	}
	if len(doc.Feeds) != 1 {
		t.Fatalf("feeds = %d", len(doc.Feeds))
	}

	if _, err := LoadFeedsDocument(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWindowPeriod(t *testing.T) {
	now := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	from, to, err := WindowPeriod("", now)
	if err != nil || from != to {
		t.Fatalf("empty window = %s..%s, %v", from, to, err)
	}
	from, _, err = WindowPeriod("36h", now)
	if err != nil || from.String() != "2024-02-28" {
		t.Fatalf("WindowPeriod(36h) from = %s, %v", from, err)
	}
	if _, _, err := WindowPeriod("-1d", now); err == nil || !strings.Contains(err.Error(), "negative") {
		t.Fatalf("expected negative window error, got %v", err)
	}
}
