package syndication

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// Load fully parses r as a document of the given format.
func Load(r io.Reader, format Format) (*Document, error) {
	if format != FormatAtom && format != FormatRSS20 {
		return nil, fmt.Errorf("load feed: unsupported format %s", format)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	if format == FormatAtom {
		parsed, err := (&atom.Parser{}).Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse atom feed: %w", err)
		}
		return fromAtom(parsed), nil
	}

	parsed, err := (&rss.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse rss feed: %w", err)
	}
	markup, err := scanRSSItems(data)
	if err != nil || len(markup) != len(parsed.Items) {
		markup = nil
	}
	return fromRSS(parsed, markup), nil
}

func fromAtom(feed *atom.Feed) *Document {
	// <icon> is not consulted; only rel="icon" links join the image chain.
	doc := &Document{
		Format:      FormatAtom,
		Title:       feed.Title,
		Description: feed.Subtitle,
		ImageURL:    strings.TrimSpace(feed.Logo),
		Links:       atomLinks(feed.Links),
		Items:       make([]Item, 0, len(feed.Entries)),
	}
	for i, entry := range feed.Entries {
		if entry == nil {
			continue
		}
		item := Item{
			ID:         itemID(entry.ID, i),
			Links:      atomLinks(entry.Links),
			Content:    atomContent(entry.Content),
			Summary:    entry.Summary,
			HasSummary: entry.Summary != "",
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = declaredTime(*entry.PublishedParsed, entry.Published)
		}
		doc.Items = append(doc.Items, item)
	}
	return doc
}

func atomLinks(links []*atom.Link) []Link {
	out := make([]Link, 0, len(links))
	for _, link := range links {
		if link == nil {
			continue
		}
		rel := strings.TrimSpace(link.Rel)
		if rel == "" {
			// RFC 4287 4.2.7.2: a link without rel is an alternate link.
			rel = RelAlternate
		}
		out = append(out, Link{Rel: rel, URI: strings.TrimSpace(link.Href)})
	}
	return out
}

func atomContent(content *atom.Content) *Content {
	if content == nil {
		return nil
	}
	contentType := strings.ToLower(strings.TrimSpace(content.Type))
	src := strings.TrimSpace(content.Src)
	kind := ContentOther
	if src == "" {
		switch contentType {
		case "", "text", "html", "xhtml":
			kind = ContentText
		}
	}
	return &Content{
		Kind: kind,
		Type: contentType,
		Text: content.Value,
		Src:  src,
	}
}

// fromRSS maps a parsed channel. markup is nil when the item markup could not
// be lined up with the parsed items; guids then never stand in for links.
func fromRSS(feed *rss.Feed, markup []rssItemMarkup) *Document {
	doc := &Document{
		Format:      FormatRSS20,
		Title:       feed.Title,
		Description: feed.Description,
		Links:       rssLinks(feed.Link, feed.Links),
		Items:       make([]Item, 0, len(feed.Items)),
	}
	if feed.Image != nil {
		doc.ImageURL = strings.TrimSpace(feed.Image.URL)
	}
	for i, entry := range feed.Items {
		if entry == nil {
			continue
		}
		guid := ""
		if entry.GUID != nil {
			guid = strings.TrimSpace(entry.GUID.Value)
		}
		var mk *rssItemMarkup
		if markup != nil {
			mk = &markup[i]
		}
		item := Item{
			ID:         itemID(guid, i),
			Links:      rssLinks(entry.Link, entry.Links),
			Summary:    entry.Description,
			HasSummary: entry.Description != "" || (mk != nil && mk.hasDescription),
		}
		if len(item.Links) == 0 && isPermaLink(guid, mk) {
			item.Links = []Link{{Rel: RelAlternate, URI: guid}}
		}
		if entry.PubDateParsed != nil {
			item.PublishedAt = declaredTime(*entry.PubDateParsed, entry.PubDate)
		}
		doc.Items = append(doc.Items, item)
	}
	return doc
}

// rssLinks treats every RSS <link> as an alternate link.
func rssLinks(first string, all []string) []Link {
	if len(all) == 0 && strings.TrimSpace(first) != "" {
		all = []string{first}
	}
	out := make([]Link, 0, len(all))
	for _, href := range all {
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		out = append(out, Link{Rel: RelAlternate, URI: href})
	}
	return out
}

// isPermaLink reports whether an RSS guid may stand in for the item link.
// isPermaLink defaults to true when the attribute is absent. Without the
// item's markup the attribute is unknown and the guid is not used.
func isPermaLink(guid string, mk *rssItemMarkup) bool {
	if guid == "" || mk == nil {
		return false
	}
	if !(Link{URI: guid}).hasAbsoluteURI() {
		return false
	}
	if !mk.hasPermaLink {
		return true
	}
	ok, err := strconv.ParseBool(mk.permaLink)
	return err == nil && ok
}

func (l Link) hasAbsoluteURI() bool {
	_, ok := l.AbsoluteURL()
	return ok
}

func itemID(id string, index int) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return "#" + strconv.Itoa(index+1)
}
