package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// FenceIssue describes a problem with a fenced code block in a Markdown body.
type FenceIssue struct {
	Line     int
	Language string
	Message  string
}

func (i FenceIssue) String() string {
	if i.Language != "" {
		return fmt.Sprintf("line %d: %s (%q)", i.Line, i.Message, i.Language)
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// recognisedFenceLanguages lists the info strings accepted on opening fences.
// Bare fences (no info string) are always allowed.
var recognisedFenceLanguages = map[string]struct{}{
	"bash":       {},
	"c":          {},
	"cpp":        {},
	"css":        {},
	"diff":       {},
	"dockerfile": {},
	"go":         {},
	"html":       {},
	"ini":        {},
	"java":       {},
	"javascript": {},
	"js":         {},
	"json":       {},
	"makefile":   {},
	"markdown":   {},
	"plain":      {},
	"plaintext":  {},
	"python":     {},
	"ruby":       {},
	"rust":       {},
	"sh":         {},
	"shell":      {},
	"sql":        {},
	"text":       {},
	"toml":       {},
	"ts":         {},
	"typescript": {},
	"xml":        {},
	"yaml":       {},
	"yml":        {},
}

// LintFences scans a Markdown body for fenced code blocks and reports fences
// with unrecognised language identifiers as well as blocks left unclosed at
// end of input. Only the info string's first word is checked, so attribute
// suffixes like "go {linenos=true}" validate against "go".
func LintFences(body []byte) []FenceIssue {
	var issues []FenceIssue

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	openLine := 0
	var openDelim string

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		delim := fenceDelimiter(text)
		if delim == "" {
			continue
		}

		if openDelim != "" {
			// A closing fence must use the opener's character, run at least
			// as long, and carry no info string. Anything shorter is block
			// content.
			if delim[0] == openDelim[0] && len(delim) >= len(openDelim) &&
				strings.TrimPrefix(text, delim) == "" {
				openDelim = ""
			}
			continue
		}

		openDelim = delim
		openLine = line

		info := strings.TrimSpace(strings.TrimPrefix(text, delim))
		if info == "" {
			continue
		}

		lang := strings.ToLower(strings.Fields(info)[0])
		if _, ok := recognisedFenceLanguages[lang]; !ok {
			issues = append(issues, FenceIssue{
				Line:     line,
				Language: lang,
				Message:  "unrecognised fence language",
			})
		}
	}

	if openDelim != "" {
		issues = append(issues, FenceIssue{
			Line:    openLine,
			Message: "unclosed code fence",
		})
	}

	return issues
}

// fenceDelimiter returns the leading run of backticks or tildes when the line
// opens or closes a fence, or an empty string otherwise.
func fenceDelimiter(line string) string {
	for _, marker := range []byte{'`', '~'} {
		count := 0
		for count < len(line) && line[count] == marker {
			count++
		}
		if count >= 3 {
			return line[:count]
		}
	}
	return ""
}
