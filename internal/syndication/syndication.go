// Package syndication reads Atom and RSS 2.0 documents into one structural model.
package syndication

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Format identifies the syndication format of a document.
type Format int

const (
	FormatUnknown Format = iota
	FormatAtom
	FormatRSS20
)

func (f Format) String() string {
	switch f {
	case FormatAtom:
		return "atom"
	case FormatRSS20:
		return "rss2.0"
	default:
		return "unknown"
	}
}

// Link relation types the engine cares about.
const (
	RelAlternate = "alternate"
	RelLogo      = "logo"
	RelIcon      = "icon"
)

// Link is a relation-typed reference from a feed or an item.
type Link struct {
	Rel string
	URI string
}

// AbsoluteURL parses the link target and reports whether it is an absolute URI.
func (l Link) AbsoluteURL() (*url.URL, bool) {
	raw := strings.TrimSpace(l.URI)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	return u, true
}

func (l Link) String() string {
	return fmt.Sprintf("%s (%s)", l.URI, l.Rel)
}

// ContentKind is the shape of an item's content.
type ContentKind int

const (
	// ContentText is inline text, HTML or XHTML.
	ContentText ContentKind = iota + 1
	// ContentOther is anything else: out-of-line (src) content or a non-text media type.
	ContentOther
)

// Content is an item body as declared by the feed.
type Content struct {
	Kind ContentKind
	Type string
	Text string
	Src  string
}

// Item is one entry of a Document.
type Item struct {
	// ID identifies the item in diagnostics. It is never empty.
	ID      string
	Links   []Link
	Content *Content
	Summary string
	// HasSummary is false when the item declares no summary element at all.
	HasSummary  bool
	PublishedAt time.Time
}

// Document is the parsed, format-agnostic form of a feed.
type Document struct {
	Format      Format
	Title       string
	Description string
	// ImageURL is the image the feed itself declares (RSS <image><url>, Atom <logo>).
	ImageURL string
	Links    []Link
	Items    []Item
}

// FirstLink returns the first link with the given relation type.
func FirstLink(links []Link, rel string) (Link, bool) {
	for _, link := range links {
		if link.Rel == rel {
			return link, true
		}
	}
	return Link{}, false
}

// LinksWithRel returns every link with the given relation type, in order.
func LinksWithRel(links []Link, rel string) []Link {
	out := []Link{}
	for _, link := range links {
		if link.Rel == rel {
			out = append(out, link)
		}
	}
	return out
}
