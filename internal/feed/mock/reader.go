package mock

import (
	"context"
	"sync"

	"github.com/bakkerme/rssaizer/internal/core"
)

// Reader is an in-memory feed.Reader keyed by feed URL.
type Reader struct {
	PostsByFeed map[string][]core.ReadPost
	InfoByFeed  map[string]core.FeedModel
	ErrByFeed   map[string]error

	mu    sync.Mutex
	Calls []Call
}

// Call records one invocation.
type Call struct {
	Op      string
	FeedURL string
	From    core.Date
	To      core.Date
}

func (r *Reader) FetchPosts(ctx context.Context, feedURL core.FeedURL, from, to core.Date) ([]core.ReadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := feedURL.String()
	r.record(Call{Op: "FetchPosts", FeedURL: key, From: from, To: to})
	if err, ok := r.ErrByFeed[key]; ok {
		return nil, err
	}
	return r.PostsByFeed[key], nil
}

func (r *Reader) FetchFeedInfo(ctx context.Context, feedURL core.FeedURL) (core.FeedModel, error) {
	if err := ctx.Err(); err != nil {
		return core.FeedModel{}, err
	}
	key := feedURL.String()
	r.record(Call{Op: "FetchFeedInfo", FeedURL: key})
	if err, ok := r.ErrByFeed[key]; ok {
		return core.FeedModel{}, err
	}
	info, ok := r.InfoByFeed[key]
	if !ok {
		info = core.FeedModel{FeedURL: feedURL}
	}
	return info, nil
}

func (r *Reader) record(call Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, call)
}
