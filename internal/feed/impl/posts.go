package impl

import (
	"fmt"
	"strings"

	"github.com/bakkerme/rssaizer/internal/core"
	"github.com/bakkerme/rssaizer/internal/syndication"
)

// filterByPeriod keeps items whose declared publish day lies in [from, to].
func filterByPeriod(items []syndication.Item, from, to core.Date) []syndication.Item {
	out := make([]syndication.Item, 0, len(items))
	for _, item := range items {
		day := core.DateOf(item.PublishedAt)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// mapPost turns a validated item into a post. Body text comes from the
// content for Atom and from the summary for RSS.
func mapPost(format syndication.Format, item syndication.Item) (core.ReadPost, error) {
	body, err := postBody(format, item)
	if err != nil {
		return core.ReadPost{}, err
	}

	alternates := syndication.LinksWithRel(item.Links, syndication.RelAlternate)
	if len(alternates) != 1 {
		return core.ReadPost{}, fmt.Errorf("feed item [%s] has invalid URLs [%s]", item.ID, joinLinks(item.Links))
	}
	u, ok := alternates[0].AbsoluteURL()
	if !ok {
		return core.ReadPost{}, fmt.Errorf("feed item [%s] has invalid URLs [%s]", item.ID, joinLinks(item.Links))
	}

	return core.ReadPost{
		HTMLContent: core.HTML(body),
		URL:         u.String(),
		PublishedAt: item.PublishedAt,
	}, nil
}

func postBody(format syndication.Format, item syndication.Item) (string, error) {
	switch format {
	case syndication.FormatAtom:
		if item.Content == nil {
			return "", fmt.Errorf("atom feed item [%s] has no content", item.ID)
		}
		if item.Content.Kind != syndication.ContentText {
			kind := item.Content.Type
			if item.Content.Src != "" {
				kind = "src:" + item.Content.Src
			}
			return "", fmt.Errorf("atom feed item [%s] has unsupported content type: %s", item.ID, kind)
		}
		return item.Content.Text, nil
	case syndication.FormatRSS20:
		if item.Summary == "" {
			return "", fmt.Errorf("rss feed item [%s] has no summary", item.ID)
		}
		return item.Summary, nil
	default:
		return "", fmt.Errorf("unsupported feed format for item [%s]", item.ID)
	}
}

func joinLinks(links []syndication.Link) string {
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, link.String())
	}
	return strings.Join(parts, ", ")
}
