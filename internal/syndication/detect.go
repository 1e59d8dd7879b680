package syndication

import (
	"io"

	xpp "github.com/mmcdole/goxpp"
	"golang.org/x/net/html/charset"
)

// AtomNamespace is the XML namespace of Atom 1.0 documents.
const AtomNamespace = "http://www.w3.org/2005/Atom"

// DetectFormat reads r only as far as the root element and classifies it.
// Any read or parse error yields FormatUnknown.
func DetectFormat(r io.Reader) Format {
	if r == nil {
		return FormatUnknown
	}
	p := xpp.NewXMLPullParser(r, false, charset.NewReaderLabel)
	for {
		event, err := p.Next()
		if err != nil {
			return FormatUnknown
		}
		switch event {
		case xpp.StartTag:
			return classifyRoot(p.Name, p.Space)
		case xpp.EndDocument:
			return FormatUnknown
		}
	}
}

func classifyRoot(local, space string) Format {
	switch {
	case local == "feed" && space == AtomNamespace:
		return FormatAtom
	case local == "rss":
		return FormatRSS20
	default:
		return FormatUnknown
	}
}
