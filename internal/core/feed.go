package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FeedURL is the location of a feed document. A non-zero FeedURL is always absolute.
type FeedURL struct {
	u *url.URL
}

// ParseFeedURL parses raw and rejects anything that is not an absolute URI.
func ParseFeedURL(raw string) (FeedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FeedURL{}, fmt.Errorf("feed url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return FeedURL{}, fmt.Errorf("parse feed url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return FeedURL{}, fmt.Errorf("feed url %q is not absolute", raw)
	}
	return FeedURL{u: u}, nil
}

// MustParseFeedURL is ParseFeedURL for literals; it panics on invalid input.
func MustParseFeedURL(raw string) FeedURL {
	u, err := ParseFeedURL(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// URL returns a copy of the underlying URL, or nil for the zero value.
func (f FeedURL) URL() *url.URL {
	if f.u == nil {
		return nil
	}
	copied := *f.u
	return &copied
}

func (f FeedURL) IsZero() bool {
	return f.u == nil
}

func (f FeedURL) String() string {
	if f.u == nil {
		return ""
	}
	return f.u.String()
}

func (f FeedURL) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FeedURL) UnmarshalText(text []byte) error {
	parsed, err := ParseFeedURL(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// HTML is raw markup taken from a feed. It is carried opaquely and never sanitized.
type HTML string

func (h HTML) String() string {
	return string(h)
}

// FeedModel describes a feed for display and subscription.
type FeedModel struct {
	FeedURL     FeedURL `json:"feed_url" yaml:"feed_url"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	ImageURL    string  `json:"image_url" yaml:"image_url"`
}

// ReadPost is a single validated feed item, ready for summarization and storage.
type ReadPost struct {
	HTMLContent HTML      `json:"html_content" yaml:"html_content"`
	URL         string    `json:"url" yaml:"url"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}
