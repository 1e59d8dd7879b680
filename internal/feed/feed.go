// Package feed defines the feed-ingestion contract: fetching validated posts
// and feed descriptors from Atom and RSS 2.0 feeds.
package feed

import (
	"context"

	"github.com/bakkerme/rssaizer/internal/core"
)

const (
	// MissingDescription replaces a blank or absent feed description.
	MissingDescription = "[missing-in-rss-feed]"
	// PlaceholderImageURL is used when a feed declares no usable image.
	PlaceholderImageURL = "https://placehold.co/150x150?text=F"
)

// Reader fetches feeds. Implementations are safe for concurrent use and keep
// no state between calls.
type Reader interface {
	// FetchPosts returns the items published on a day in [from, to], in
	// document order. Any invalid item in that range fails the whole call
	// with an *ItemsError.
	FetchPosts(ctx context.Context, feedURL core.FeedURL, from, to core.Date) ([]core.ReadPost, error)
	// FetchFeedInfo returns the feed's title, description and image.
	FetchFeedInfo(ctx context.Context, feedURL core.FeedURL) (core.FeedModel, error)
}
