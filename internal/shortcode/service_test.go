package shortcode

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-press/pkg/interfaces"
)

func TestServiceExtractAndSubstitute(t *testing.T) {
	svc := newBuiltInService(t)

	content := "before\n\n{{< figure src=\"/a.png\" alt=\"a\" >}}\n\nafter\n"

	placeheld, parsed, err := svc.Extract(content)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(placeheld, "<!-- shortcode:0 -->") {
		t.Fatalf("expected placeholder in content, got %q", placeheld)
	}
	if len(parsed) != 1 || parsed[0].Name != "figure" {
		t.Fatalf("unexpected parse result %#v", parsed)
	}

	final, err := svc.Substitute(interfaces.ShortcodeContext{Context: context.Background()}, placeheld, parsed)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if strings.Contains(final, "shortcode:0") {
		t.Fatalf("expected placeholder replaced, got %q", final)
	}
	if !strings.Contains(final, `<img src="/a.png"`) {
		t.Fatalf("expected figure markup, got %q", final)
	}
}

func TestServiceProcess(t *testing.T) {
	svc := newBuiltInService(t)

	out, err := svc.Process(context.Background(), "{{< youtube id=\"abc\" >}}", interfaces.ShortcodeContext{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out, "youtube.com/embed/abc") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestServiceProcess_PositionalRef(t *testing.T) {
	svc := newBuiltInService(t)

	sctx := interfaces.ShortcodeContext{
		ResolveRef: func(slug string) (string, error) {
			if slug != "release-notes" {
				t.Fatalf("unexpected slug %q", slug)
			}
			return "/posts/release-notes/", nil
		},
	}

	out, err := svc.Process(context.Background(), `{{< ref "release-notes" >}}`, sctx)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(out, `href="/posts/release-notes/"`) {
		t.Fatalf("expected resolved link, got %q", out)
	}
}

func TestServiceProcess_EmptyContent(t *testing.T) {
	svc := newBuiltInService(t)

	out, err := svc.Process(context.Background(), "   ", interfaces.ShortcodeContext{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != "   " {
		t.Fatalf("expected content untouched, got %q", out)
	}
}

func TestServiceSubstitute_RenderError(t *testing.T) {
	svc := newBuiltInService(t)

	placeheld, parsed, err := svc.Extract("{{< ref slug=\"nowhere\" >}}")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// No resolver configured, so the ref shortcode must fail.
	if _, err := svc.Substitute(interfaces.ShortcodeContext{Context: context.Background()}, placeheld, parsed); err == nil {
		t.Fatalf("expected substitution failure for unresolved ref")
	}
}
