package syndication

import (
	"bytes"
	"strings"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

// rssItemMarkup is what the rss parser does not keep about an <item>.
type rssItemMarkup struct {
	// permaLink is the raw isPermaLink attribute of <guid>, matched case-insensitively.
	permaLink      string
	hasPermaLink   bool
	hasDescription bool
}

// scanRSSItems walks data once and returns one entry per <item>, in document
// order. Items are matched as children of the root or of <channel>, in the
// root's namespace; extension elements inside an item are skipped.
func scanRSSItems(data []byte) ([]rssItemMarkup, error) {
	p := xpp.NewXMLPullParser(bytes.NewReader(data), false, charset.NewReaderLabel)

	var (
		items     []rssItemMarkup
		depth     int
		rootSpace string
		itemDepth int
		itemSpace string
	)
	for {
		event, err := p.Next()
		if err != nil {
			return nil, err
		}
		switch event {
		case xpp.EndDocument:
			return items, nil
		case xpp.StartTag:
			depth++
			switch {
			case depth == 1:
				rootSpace = p.Space
			case itemDepth == 0 && (depth == 2 || depth == 3) && p.Name == "item" && p.Space == rootSpace:
				itemDepth = depth
				itemSpace = p.Space
				items = append(items, rssItemMarkup{})
			case itemDepth > 0 && depth == itemDepth+1 && p.Space == itemSpace:
				current := &items[len(items)-1]
				switch p.Name {
				case "guid":
					for _, attr := range p.Attrs {
						if strings.EqualFold(attr.Name.Local, "isPermaLink") {
							current.permaLink = strings.TrimSpace(attr.Value)
							current.hasPermaLink = true
						}
					}
				case "description":
					current.hasDescription = true
				}
			}
		case xpp.EndTag:
			if depth == itemDepth {
				itemDepth = 0
			}
			depth--
		}
	}
}
