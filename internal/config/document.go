package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bakkerme/rssaizer/internal/core"
	"gopkg.in/yaml.v3"
)

// FeedsDocument represents a feeds.yaml file: which feeds to read and which
// days to collect posts for.
type FeedsDocument struct {
	Feeds []FeedEntry `yaml:"feeds"`
	// Window is a lookback ending today, e.g. "7d". Ignored when From/To are set.
	Window string `yaml:"window,omitempty"`
	From   string `yaml:"from,omitempty"`
	To     string `yaml:"to,omitempty"`
	// Info also fetches each feed's title, description and image.
	Info bool `yaml:"info,omitempty"`
}

type FeedEntry struct {
	Name string       `yaml:"name,omitempty"`
	URL  core.FeedURL `yaml:"url"`
}

func LoadFeedsDocument(path string) (*FeedsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFeedsDocument(data)
}

func ParseFeedsDocument(data []byte) (*FeedsDocument, error) {
	var doc FeedsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse feeds document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *FeedsDocument) Validate() error {
	if len(d.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for i, entry := range d.Feeds {
		if entry.URL.IsZero() {
			return fmt.Errorf("feeds[%d]: url is required", i)
		}
	}
	if (d.From == "") != (d.To == "") {
		return fmt.Errorf("from and to must be set together")
	}
	_, _, err := d.Period(time.Now())
	return err
}

// Period resolves the inclusive day range relative to now. With nothing set
// it covers today only.
func (d *FeedsDocument) Period(now time.Time) (core.Date, core.Date, error) {
	if d.From != "" || d.To != "" {
		from, err := core.ParseDate(d.From)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("from: %w", err)
		}
		to, err := core.ParseDate(d.To)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("to: %w", err)
		}
		return from, to, nil
	}
	return WindowPeriod(d.Window, now)
}

// WindowPeriod converts a lookback such as "7d" into the days it spans, ending today.
func WindowPeriod(window string, now time.Time) (core.Date, core.Date, error) {
	to := core.DateOf(now)
	if strings.TrimSpace(window) == "" {
		return to, to, nil
	}
	lookback, err := ParseDuration(window)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("window: %w", err)
	}
	if lookback < 0 {
		return core.Date{}, core.Date{}, fmt.Errorf("window %q must not be negative", window)
	}
	return core.DateOf(now.Add(-lookback)), to, nil
}
