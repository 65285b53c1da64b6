package interfaces

import "io"

// TemplateRenderer renders named theme templates and inline template strings.
// When a writer is supplied, output is streamed instead of returned.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
