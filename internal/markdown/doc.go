// Package markdown loads Markdown documents from disk, splits front matter
// from body content, and renders bodies to HTML through goldmark. Loading and
// rendering are separate steps so callers can run shortcode extraction against
// the raw source before HTML conversion.
package markdown
