package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bakkerme/rssaizer/internal/core"
	"github.com/bakkerme/rssaizer/internal/feed"
	"github.com/bakkerme/rssaizer/internal/syndication"
	"github.com/bakkerme/rssaizer/internal/transport"
	"github.com/bakkerme/rssaizer/internal/validation"
)

const tracerName = "rssaizer/feed"

// Reader is the feed.Reader backed by a transport.Opener. It holds no
// per-call state and may be shared between goroutines.
type Reader struct {
	opener transport.Opener
	logger *slog.Logger
	now    func() time.Time
}

var _ feed.Reader = (*Reader)(nil)

func NewReader(opener transport.Opener, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{opener: opener, logger: logger, now: time.Now}
}

func (r *Reader) FetchPosts(ctx context.Context, feedURL core.FeedURL, from, to core.Date) ([]core.ReadPost, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "feed.fetch_posts", trace.WithAttributes(
		attribute.String("feed.url", feedURL.String()),
		attribute.String("feed.from", from.String()),
		attribute.String("feed.to", to.String()),
		attribute.String("run.id", core.RunIDFromContext(ctx)),
	))
	defer span.End()

	posts, err := offload(ctx, r.loggerFor(ctx, feedURL), "fetch posts", func(ctx context.Context) ([]core.ReadPost, error) {
		return r.fetchPosts(ctx, span, feedURL, from, to)
	})
	endSpan(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("feed.posts", len(posts)))
	}
	return posts, err
}

func (r *Reader) FetchFeedInfo(ctx context.Context, feedURL core.FeedURL) (core.FeedModel, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "feed.fetch_info", trace.WithAttributes(
		attribute.String("feed.url", feedURL.String()),
		attribute.String("run.id", core.RunIDFromContext(ctx)),
	))
	defer span.End()

	info, err := offload(ctx, r.loggerFor(ctx, feedURL), "fetch feed info", func(ctx context.Context) (core.FeedModel, error) {
		return r.fetchFeedInfo(ctx, span, feedURL)
	})
	endSpan(span, err)
	return info, err
}

func (r *Reader) fetchPosts(ctx context.Context, span trace.Span, feedURL core.FeedURL, from, to core.Date) ([]core.ReadPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: can't fetch posts, invalid period requested, from: [%s] to [%s]", feed.ErrInvalidPeriod, from, to)
	}

	logger := r.loggerFor(ctx, feedURL)
	doc, err := r.open(ctx, span, logger, feedURL)
	if err != nil {
		return nil, err
	}

	validate, err := validation.ItemValidatorFor(doc.Format)
	if err != nil {
		return nil, fmt.Errorf("%w for %s", feed.ErrUnsupportedFormat, feedURL)
	}
	inPeriod := filterByPeriod(doc.Items, from, to)
	span.SetAttributes(
		attribute.Int("feed.items", len(doc.Items)),
		attribute.Int("feed.items_in_period", len(inPeriod)),
	)

	now := r.now()
	posts := make([]core.ReadPost, 0, len(inPeriod))
	var itemErrs []*feed.ItemError
	for _, item := range inPeriod {
		if violations := validate(item, now); len(violations) > 0 {
			itemErr := &feed.ItemError{ItemID: item.ID, Messages: violations}
			logger.Warn("feed item failed validation", slog.String("item_id", item.ID), slog.String("error", itemErr.Error()))
			itemErrs = append(itemErrs, itemErr)
			continue
		}
		post, err := mapPost(doc.Format, item)
		if err != nil {
			itemErr := &feed.ItemError{ItemID: item.ID, Err: err}
			logger.Warn("invalid feed item", slog.String("item_id", item.ID), slog.String("error", err.Error()))
			itemErrs = append(itemErrs, itemErr)
			continue
		}
		posts = append(posts, post)
	}

	if len(itemErrs) > 0 {
		// Posts that mapped cleanly are dropped along with the failures.
		return nil, &feed.ItemsError{FeedURL: feedURL.String(), Items: itemErrs}
	}
	return posts, nil
}

func (r *Reader) fetchFeedInfo(ctx context.Context, span trace.Span, feedURL core.FeedURL) (core.FeedModel, error) {
	if err := ctx.Err(); err != nil {
		return core.FeedModel{}, err
	}

	logger := r.loggerFor(ctx, feedURL)
	doc, err := r.open(ctx, span, logger, feedURL)
	if err != nil {
		return core.FeedModel{}, err
	}

	if violations := validation.ValidateFeed(doc); len(violations) > 0 {
		validationErr := &feed.ValidationError{FeedURL: feedURL.String(), Messages: violations}
		logger.Warn("feed failed validation", slog.String("error", validationErr.Error()))
		return core.FeedModel{}, validationErr
	}

	return core.FeedModel{
		FeedURL:     feedURL,
		Title:       doc.Title,
		Description: describe(logger, doc),
		ImageURL:    resolveImage(doc),
	}, nil
}

// open detects the document format with a root-only read, then loads it in full.
// Cancellation is checked after each stage.
func (r *Reader) open(ctx context.Context, span trace.Span, logger *slog.Logger, feedURL core.FeedURL) (*syndication.Document, error) {
	format := r.detect(ctx, logger, feedURL)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("feed.format", format.String()))
	if format == syndication.FormatUnknown {
		return nil, fmt.Errorf("%w for %s", feed.ErrUnsupportedFormat, feedURL)
	}

	doc, err := r.load(ctx, feedURL, format)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		logger.Error("failed to load feed", slog.String("format", format.String()), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: feed %s: %w", feed.ErrFetch, feedURL, err)
	}
	return doc, nil
}

func (r *Reader) detect(ctx context.Context, logger *slog.Logger, feedURL core.FeedURL) syndication.Format {
	body, err := r.opener.Open(ctx, feedURL.String())
	if err != nil {
		logger.Debug("format detection could not open feed", slog.String("error", err.Error()))
		return syndication.FormatUnknown
	}
	defer body.Close()
	return syndication.DetectFormat(body)
}

func (r *Reader) load(ctx context.Context, feedURL core.FeedURL, format syndication.Format) (*syndication.Document, error) {
	body, err := r.opener.Open(ctx, feedURL.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return syndication.Load(body, format)
}

func (r *Reader) loggerFor(ctx context.Context, feedURL core.FeedURL) *slog.Logger {
	logger := core.LoggerFromContext(ctx, r.logger).With(slog.String("feed_url", feedURL.String()))
	if runID := core.RunIDFromContext(ctx); runID != "" {
		logger = logger.With(slog.String("run_id", runID))
	}
	return logger
}

// offload runs fn on its own goroutine. Panics become ErrFetch; cancellation
// is returned as ctx.Err() without waiting for fn to notice.
func offload[T any](ctx context.Context, logger *slog.Logger, op string, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("unexpected failure", slog.String("op", op), slog.Any("panic", rec))
				var zero T
				done <- result{value: zero, err: fmt.Errorf("%w: %s: unexpected failure: %v", feed.ErrFetch, op, rec)}
			}
		}()
		value, err := fn(ctx)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func endSpan(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		span.SetStatus(codes.Error, "cancelled")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
