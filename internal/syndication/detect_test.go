package syndication

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Format
	}{
		{
			name: "atom",
			doc:  `<?xml version="1.0" encoding="utf-8"?><feed xmlns="http://www.w3.org/2005/Atom"><title>t</title></feed>`,
			want: FormatAtom,
		},
		{
			name: "atom with prefix",
			doc:  `<a:feed xmlns:a="http://www.w3.org/2005/Atom"><a:title>t</a:title></a:feed>`,
			want: FormatAtom,
		},
		{
			name: "feed without atom namespace",
			doc:  `<feed><title>t</title></feed>`,
			want: FormatUnknown,
		},
		{
			name: "feed with the wrong namespace",
			doc:  `<feed xmlns="http://purl.org/atom/ns#"><title>t</title></feed>`,
			want: FormatUnknown,
		},
		{
			name: "rss",
			doc:  "<?xml version=\"1.0\"?>\n<!-- comment -->\n<rss version=\"2.0\"><channel></channel></rss>",
			want: FormatRSS20,
		},
		{
			name: "rss in a namespace",
			doc:  `<rss xmlns="http://example.com/ns" version="2.0"><channel></channel></rss>`,
			want: FormatRSS20,
		},
		{
			name: "rdf",
			doc:  `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"></rdf:RDF>`,
			want: FormatUnknown,
		},
		{
			name: "html page",
			doc:  `<html><body>not a feed</body></html>`,
			want: FormatUnknown,
		},
		{
			name: "json",
			doc:  `{"version":"https://jsonfeed.org/version/1.1"}`,
			want: FormatUnknown,
		},
		{
			name: "empty",
			doc:  ``,
			want: FormatUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectFormat(strings.NewReader(tc.doc)))
		})
	}
}

func TestDetectFormatReadsOnlyTheRoot(t *testing.T) {
	// Everything after the root start tag is broken; detection must not care.
	r := io.MultiReader(strings.NewReader(`<rss version="2.0">`), failingReader{})
	assert.Equal(t, FormatRSS20, DetectFormat(r))
}

func TestDetectFormatReadErrorIsUnknown(t *testing.T) {
	assert.Equal(t, FormatUnknown, DetectFormat(failingReader{}))
	assert.Equal(t, FormatUnknown, DetectFormat(nil))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "atom", FormatAtom.String())
	assert.Equal(t, "rss2.0", FormatRSS20.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
