package markdown

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	htmlPolicy *bluemonday.Policy
)

// sanitizeHTML scrubs rendered HTML through a shared bluemonday policy. The
// policy starts from the UGC baseline and additionally admits the elements
// produced by the built-in shortcodes (figures, captions, embedded iframes
// from trusted hosts).
func sanitizeHTML(rendered []byte) []byte {
	policyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("figure", "figcaption", "video", "source")
		policy.AllowAttrs("class").Globally()
		policy.AllowAttrs("src", "alt", "title", "width", "height", "loading").OnElements("img")
		policy.AllowAttrs("src", "title", "width", "height", "allow", "allowfullscreen", "frameborder").OnElements("iframe")
		policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
		htmlPolicy = policy
	})

	return htmlPolicy.SanitizeBytes(rendered)
}
