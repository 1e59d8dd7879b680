// Package validation holds the feed- and item-level rules a document must pass
// before it is mapped into posts. Every rule is a pure function of its input.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/bakkerme/rssaizer/internal/syndication"
)

const (
	MsgFeedTitle = "Feed title cannot be null or empty"

	MsgAtomContentMissing = "Atom feed item content cannot be null"
	MsgAtomContentBlank   = "Atom feed item content text cannot be null or empty"
	MsgRSSSummaryMissing  = "RSS feed item summary cannot be null"
	MsgRSSSummaryBlank    = "RSS feed item summary text cannot be null or empty"

	MsgNoAlternateLink      = "Feed item must have at least one alternate link"
	MsgAlternateNotAbsolute = "Feed item alternate link must be a valid absolute URI"
	MsgPublishedInFuture    = "Feed item published date cannot be more than 1 day in the future"
	MsgPublishedTooLongAgo  = "Feed item published date cannot be more than 50 years in the past"
)

// Publish dates outside [now-MaxPastYears, now+MaxFutureSkew] are rejected.
const (
	MaxPastYears  = 50
	MaxFutureSkew = 24 * time.Hour
)

// ValidateFeed checks the feed-level rules and returns every violation message.
func ValidateFeed(doc *syndication.Document) []string {
	if doc == nil || strings.TrimSpace(doc.Title) == "" {
		return []string{MsgFeedTitle}
	}
	return nil
}

// ItemValidator checks one item against a format's rules, relative to now.
type ItemValidator func(item syndication.Item, now time.Time) []string

// ItemValidatorFor selects the rule set for a format. It is chosen once per
// document and applied to every item.
func ItemValidatorFor(format syndication.Format) (ItemValidator, error) {
	switch format {
	case syndication.FormatAtom:
		return ValidateAtomItem, nil
	case syndication.FormatRSS20:
		return ValidateRSSItem, nil
	default:
		return nil, fmt.Errorf("no item rules for format %s", format)
	}
}

// ValidateAtomItem requires non-blank content when the content is text.
// Out-of-line and non-text content passes uninspected. Missing content also
// fails the blank check.
func ValidateAtomItem(item syndication.Item, now time.Time) []string {
	var violations []string
	switch {
	case item.Content == nil:
		violations = append(violations, MsgAtomContentMissing, MsgAtomContentBlank)
	case item.Content.Kind == syndication.ContentText && strings.TrimSpace(item.Content.Text) == "":
		violations = append(violations, MsgAtomContentBlank)
	}
	return append(violations, commonRules(item, now)...)
}

// ValidateRSSItem requires a non-blank summary (the RSS <description>).
func ValidateRSSItem(item syndication.Item, now time.Time) []string {
	var violations []string
	switch {
	case !item.HasSummary:
		violations = append(violations, MsgRSSSummaryMissing, MsgRSSSummaryBlank)
	case strings.TrimSpace(item.Summary) == "":
		violations = append(violations, MsgRSSSummaryBlank)
	}
	return append(violations, commonRules(item, now)...)
}

func commonRules(item syndication.Item, now time.Time) []string {
	var violations []string

	alternate, ok := syndication.FirstLink(item.Links, syndication.RelAlternate)
	if !ok {
		violations = append(violations, MsgNoAlternateLink, MsgAlternateNotAbsolute)
	} else if _, abs := alternate.AbsoluteURL(); !abs {
		violations = append(violations, MsgAlternateNotAbsolute)
	}

	if item.PublishedAt.After(now.Add(MaxFutureSkew)) {
		violations = append(violations, MsgPublishedInFuture)
	}
	if item.PublishedAt.Before(now.AddDate(-MaxPastYears, 0, 0)) {
		violations = append(violations, MsgPublishedTooLongAgo)
	}
	return violations
}
