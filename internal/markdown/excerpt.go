package markdown

import (
	"bytes"
	"strings"
)

// ExcerptMarker separates the lead of a post from the rest of the body. Text
// above the marker becomes the excerpt, the marker itself never reaches the
// rendered output.
const ExcerptMarker = "<!--more-->"

// SplitExcerpt looks for the excerpt marker in body and returns the Markdown
// above it, the full body with the marker line removed, and whether a marker
// was found. Bodies without a marker are returned unchanged with an empty
// excerpt.
func SplitExcerpt(body []byte) (excerpt []byte, full []byte, found bool) {
	idx := bytes.Index(body, []byte(ExcerptMarker))
	if idx < 0 {
		return nil, body, false
	}

	excerpt = bytes.TrimSpace(body[:idx])

	before := bytes.TrimRight(body[:idx], " \t")
	after := bytes.TrimLeft(body[idx+len(ExcerptMarker):], " \t")

	var joined strings.Builder
	joined.Write(before)
	// An inline marker collapses to a single space so the words around it
	// stay separated. A marker on its own line keeps its newlines and needs
	// no separator.
	if len(before) > 0 && len(after) > 0 &&
		before[len(before)-1] != '\n' && after[0] != '\n' {
		joined.WriteByte(' ')
	}
	joined.Write(after)
	full = []byte(joined.String())

	return excerpt, full, true
}
