package impl

import (
	"log/slog"
	"strings"

	"github.com/bakkerme/rssaizer/internal/feed"
	"github.com/bakkerme/rssaizer/internal/syndication"
)

func describe(logger *slog.Logger, doc *syndication.Document) string {
	if strings.TrimSpace(doc.Description) == "" {
		logger.Debug("feed has missing description, using fallback")
		return feed.MissingDescription
	}
	return doc.Description
}

// resolveImage picks the feed image. Atom falls back through the first logo
// and icon links; both formats end at the placeholder.
func resolveImage(doc *syndication.Document) string {
	candidates := []syndication.Link{{URI: doc.ImageURL}}
	if doc.Format == syndication.FormatAtom {
		if logo, ok := syndication.FirstLink(doc.Links, syndication.RelLogo); ok {
			candidates = append(candidates, logo)
		}
		if icon, ok := syndication.FirstLink(doc.Links, syndication.RelIcon); ok {
			candidates = append(candidates, icon)
		}
	}
	for _, candidate := range candidates {
		if u, ok := candidate.AbsoluteURL(); ok {
			return u.String()
		}
	}
	return feed.PlaceholderImageURL
}
