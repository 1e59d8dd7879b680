package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bakkerme/rssaizer/internal/config"
	"github.com/bakkerme/rssaizer/internal/core"
	"github.com/bakkerme/rssaizer/internal/feed"
	feedimpl "github.com/bakkerme/rssaizer/internal/feed/impl"
	"github.com/bakkerme/rssaizer/internal/observability/otelx"
	transportimpl "github.com/bakkerme/rssaizer/internal/transport/impl"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type urlList []string

func (l *urlList) String() string { return strings.Join(*l, ",") }

func (l *urlList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	env := config.LoadEnv()

	var urls urlList
	feedsPath := flag.String("feeds", env.FeedsPath, "path to feeds document")
	flag.Var(&urls, "url", "feed url to read (repeatable, overrides -feeds)")
	from := flag.String("from", "", "first day to collect, YYYY-MM-DD")
	to := flag.String("to", "", "last day to collect, YYYY-MM-DD")
	window := flag.String("window", "", "lookback ending today, e.g. 7d")
	info := flag.Bool("info", false, "also fetch feed title, description and image")
	flag.Parse()

	logger := newLogger(os.Stderr, env.LogLevel, env.LogFormat)
	slog.SetDefault(logger)

	doc, err := buildDocument(*feedsPath, urls, *from, *to, *window, *info)
	if err != nil {
		log.Fatalf("failed to load feeds: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := otelx.Init(ctx, logger, env.OTel)
	if err != nil {
		log.Fatalf("failed to init otel: %v", err)
	}

	opener := transportimpl.NewOpener(transportimpl.Options{
		Timeout:        env.Transport.HTTPTimeout,
		UserAgent:      env.Transport.UserAgent,
		MaxBodyBytes:   env.Transport.MaxBodyBytes,
		RetryAttempts:  env.Transport.RetryAttempts,
		RetryBaseDelay: env.Transport.RetryBaseDelay,
		Logger:         logger,
	})
	reader := feedimpl.NewReader(opener, logger)

	runErr := run(ctx, logger, reader, doc, time.Now(), os.Stdout)

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(flushCtx); err != nil {
		logger.Warn("otel shutdown failed", "error", err)
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}

// buildDocument prefers -url flags over the feeds file; period flags override
// whatever the file declares.
func buildDocument(path string, urls []string, from, to, window string, info bool) (*config.FeedsDocument, error) {
	var doc *config.FeedsDocument
	if len(urls) > 0 {
		doc = &config.FeedsDocument{}
		for _, raw := range urls {
			u, err := core.ParseFeedURL(raw)
			if err != nil {
				return nil, err
			}
			doc.Feeds = append(doc.Feeds, config.FeedEntry{URL: u})
		}
	} else {
		loaded, err := config.LoadFeedsDocument(path)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}

	if from != "" || to != "" {
		doc.From, doc.To, doc.Window = from, to, ""
	} else if window != "" {
		doc.From, doc.To, doc.Window = "", "", window
	}
	if info {
		doc.Info = true
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

type feedResult struct {
	Name  string          `yaml:"name,omitempty"`
	URL   core.FeedURL    `yaml:"url"`
	Info  *core.FeedModel `yaml:"info,omitempty"`
	Posts []core.ReadPost `yaml:"posts,omitempty"`
	Error string          `yaml:"error,omitempty"`
}

type runReport struct {
	RunID string       `yaml:"run_id"`
	From  core.Date    `yaml:"from"`
	To    core.Date    `yaml:"to"`
	Feeds []feedResult `yaml:"feeds"`
}

// run reads every feed in doc in order and writes one YAML report to out.
// A failing feed is recorded in the report and does not stop the others.
func run(ctx context.Context, logger *slog.Logger, reader feed.Reader, doc *config.FeedsDocument, now time.Time, out io.Writer) error {
	from, to, err := doc.Period(now)
	if err != nil {
		return err
	}

	report := runReport{RunID: uuid.NewString(), From: from, To: to}
	ctx = core.WithRunID(ctx, report.RunID)
	logger = logger.With("run_id", report.RunID)

	failed := 0
	for _, entry := range doc.Feeds {
		if err := ctx.Err(); err != nil {
			return err
		}
		result := feedResult{Name: entry.Name, URL: entry.URL}
		if err := readFeed(ctx, reader, doc.Info, entry.URL, from, to, &result); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			failed++
			result.Error = err.Error()
			logger.Warn("feed failed", "feed_url", entry.URL.String(), "error", err)
		} else {
			logger.Info("feed read", "feed_url", entry.URL.String(), "posts", len(result.Posts))
		}
		report.Feeds = append(report.Feeds, result)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d feeds failed", failed, len(doc.Feeds))
	}
	return nil
}

func readFeed(ctx context.Context, reader feed.Reader, withInfo bool, feedURL core.FeedURL, from, to core.Date, result *feedResult) error {
	if withInfo {
		info, err := reader.FetchFeedInfo(ctx, feedURL)
		if err != nil {
			return err
		}
		result.Info = &info
	}
	posts, err := reader.FetchPosts(ctx, feedURL, from, to)
	if err != nil {
		return err
	}
	result.Posts = posts
	return nil
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
