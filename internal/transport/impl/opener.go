package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bakkerme/rssaizer/internal/retry"
	"github.com/bakkerme/rssaizer/internal/transport"
)

const (
	defaultUserAgent    = "rssaizer/0.1"
	defaultMaxBodyBytes = 10 << 20 // 10 MiB
	acceptHeader        = "application/atom+xml, application/rss+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8"
)

type Options struct {
	// Timeout bounds a single request. Zero leaves timing to the caller's context.
	Timeout        time.Duration
	UserAgent      string
	MaxBodyBytes   int64
	RetryAttempts  int
	RetryBaseDelay time.Duration
	Logger         *slog.Logger
}

// Opener retrieves http(s) and file URLs.
type Opener struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	retry        retry.Config
	logger       *slog.Logger
}

func NewOpener(opts Options) *Opener {
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	o := &Opener{
		client:       &http.Client{Timeout: opts.Timeout},
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
	o.retry = retry.Config{
		Attempts:  opts.RetryAttempts,
		BaseDelay: opts.RetryBaseDelay,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			o.logger.Debug("retrying feed request", slog.Int("attempt", attempt), slog.Duration("wait", wait), slog.String("error", err.Error()))
		},
	}
	return o
}

func (o *Opener) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return o.openHTTP(ctx, u.String())
	case "file":
		return o.openFile(ctx, u)
	default:
		return nil, fmt.Errorf("open %s: %w %q", rawURL, transport.ErrUnsupportedScheme, u.Scheme)
	}
}

func (o *Opener) openHTTP(ctx context.Context, target string) (io.ReadCloser, error) {
	var body io.ReadCloser
	err := retry.Do(ctx, o.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("User-Agent", o.userAgent)
		req.Header.Set("Accept", acceptHeader)

		resp, err := o.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain a little so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			statusErr := &transport.StatusError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
			if statusErr.Transient() {
				return statusErr
			}
			return retry.Permanent(statusErr)
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newLimitedBody(body, o.maxBodyBytes), nil
}

func (o *Opener) openFile(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.Host != "" && u.Host != "localhost" {
		return nil, fmt.Errorf("open %s: %w: remote file host %q", u, transport.ErrUnsupportedScheme, u.Host)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", u, err)
	}
	return newLimitedBody(f, o.maxBodyBytes), nil
}

// limitedBody fails reads once more than max bytes have been produced.
type limitedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func newLimitedBody(rc io.ReadCloser, max int64) io.ReadCloser {
	return &limitedBody{rc: rc, remaining: max}
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.remaining < 0 {
		return 0, transport.ErrBodyTooLarge
	}
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.rc.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n, transport.ErrBodyTooLarge
	}
	return n, err
}

func (b *limitedBody) Close() error {
	return b.rc.Close()
}
