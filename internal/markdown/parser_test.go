package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestGoldmarkParser_Defaults(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nSome **bold** text with https://example.com autolinks.\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "<h1 id=\"heading\">Heading</h1>") {
		t.Fatalf("expected heading with auto id, got %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("expected bold rendering, got %s", out)
	}
	if !strings.Contains(out, "<a href=\"https://example.com\"") {
		t.Fatalf("expected linkify extension, got %s", out)
	}
}

func TestGoldmarkParser_RawHTMLPassthrough(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("before\n\n<!-- shortcode:0 -->\n\nafter\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !strings.Contains(string(html), "<!-- shortcode:0 -->") {
		t.Fatalf("expected HTML comment placeholder to survive, got %s", html)
	}
}

func TestGoldmarkParser_Sanitize(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions(
		[]byte("hello\n\n<script>alert(1)</script>\n\n<figure><img src=\"/a.png\" alt=\"a\"><figcaption>cap</figcaption></figure>\n"),
		interfaces.ParseOptions{Sanitize: true},
	)
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	out := string(html)
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", out)
	}
	if !strings.Contains(out, "<figcaption>cap</figcaption>") {
		t.Fatalf("expected figure markup to survive sanitising, got %s", out)
	}
}

func TestGoldmarkParser_SafeMode(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("<em>raw</em>\n"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if strings.Contains(string(html), "<em>raw</em>") {
		t.Fatalf("expected raw HTML to be dropped in safe mode, got %s", html)
	}
}

func TestGoldmarkParser_ExtensionSelection(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{Extensions: []string{"table"}})

	html, err := parser.Parse([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("expected table extension, got %s", html)
	}
}

func TestLintFences(t *testing.T) {
	body := []byte("intro\n\n```go\nfmt.Println()\n```\n\n```klingon\nqapla\n```\n")

	issues := LintFences(body)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if issues[0].Language != "klingon" {
		t.Fatalf("expected klingon flagged, got %#v", issues[0])
	}
	if issues[0].Line != 7 {
		t.Fatalf("expected issue on line 7, got %d", issues[0].Line)
	}
}

func TestLintFences_Unclosed(t *testing.T) {
	body := []byte("```go\nfmt.Println()\n")

	issues := LintFences(body)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %v", len(issues), issues)
	}
	if issues[0].Message != "unclosed code fence" {
		t.Fatalf("unexpected issue %#v", issues[0])
	}
}

func TestLintFences_AttributesAndBareFences(t *testing.T) {
	body := []byte("```\nplain block\n```\n\n```go {linenos=true}\ncode\n```\n")

	if issues := LintFences(body); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLintFences_PlainAndTextAccepted(t *testing.T) {
	body := []byte("```plain\noutput\n```\n\n```text\nmore output\n```\n")

	if issues := LintFences(body); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLintFences_ShortRunInsideBlockIsContent(t *testing.T) {
	// A four-backtick fence can quote a three-backtick fence verbatim; the
	// inner run must not close the block.
	body := []byte("````markdown\n```go\ncode\n```\n````\n")

	if issues := LintFences(body); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestLintFences_ShortRunDoesNotClose(t *testing.T) {
	body := []byte("````go\ncode\n```\n")

	issues := LintFences(body)
	if len(issues) != 1 || issues[0].Message != "unclosed code fence" {
		t.Fatalf("expected unclosed fence, got %v", issues)
	}
}
