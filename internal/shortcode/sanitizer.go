package shortcode

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// ErrScriptNotAllowed is returned when rendered output carries a script tag.
var ErrScriptNotAllowed = errors.New("shortcode: script tags are not allowed")

// Sanitizer is a conservative output gate: it rejects inline script tags and
// restricts URL parameters to a scheme allowlist.
type Sanitizer struct {
	schemes map[string]struct{}
}

// NewSanitizer returns a sanitizer that permits http, https, and
// scheme-relative URLs.
func NewSanitizer() *Sanitizer {
	s := &Sanitizer{schemes: map[string]struct{}{}}
	for _, scheme := range []string{"http", "https", ""} {
		s.schemes[scheme] = struct{}{}
	}
	return s
}

// Sanitize rejects obvious script injections while preserving safe markup.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	if strings.Contains(strings.ToLower(html), "<script") {
		return "", ErrScriptNotAllowed
	}
	return html, nil
}

// ValidateURL ensures the URL parses and uses an allowed scheme. Blank values
// pass so optional URL parameters stay optional.
func (s *Sanitizer) ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if _, ok := s.schemes[strings.ToLower(parsed.Scheme)]; !ok {
		return fmt.Errorf("shortcode: url scheme %q not permitted", parsed.Scheme)
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
