package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	pages := map[string]string{
		"index.html":             "<html><body><h1>Home</h1></body></html>",
		"posts/hello/index.html": "<html><body><p>Hello</p></body></html>",
		"css/site.css":           "body { font-family: sans-serif; }",
	}
	for rel, body := range pages {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestServerServesPagesAndAssets(t *testing.T) {
	root := writeSite(t)
	srv := New(Config{Root: root, LiveReload: true}, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, body := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<h1>Home</h1>") {
		t.Fatalf("index body:\n%s", body)
	}
	if !strings.Contains(body, reloadPath) {
		t.Fatal("expected live-reload client in HTML response")
	}
	if idx := strings.Index(body, "WebSocket"); idx > strings.Index(body, "</body>") {
		t.Fatal("reload script should be injected before </body>")
	}

	_, post := get(t, ts, "/posts/hello/")
	if !strings.Contains(post, "<p>Hello</p>") {
		t.Fatalf("post body:\n%s", post)
	}

	resp, css := get(t, ts, "/css/site.css")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("css status = %d", resp.StatusCode)
	}
	if strings.Contains(css, reloadPath) {
		t.Fatal("reload client must not be injected into assets")
	}

	resp, _ = get(t, ts, "/missing/")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing page status = %d", resp.StatusCode)
	}
}

func TestServerWithoutLiveReloadServesPlainHTML(t *testing.T) {
	root := writeSite(t)
	srv := New(Config{Root: root}, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, body := get(t, ts, "/")
	if strings.Contains(body, reloadPath) {
		t.Fatal("reload client injected with live reload disabled")
	}
}

func TestServerRejectsTraversal(t *testing.T) {
	root := writeSite(t)
	srv := New(Config{Root: root}, nil)

	if _, err := srv.resolve("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal to miss")
	}
}

func TestNotifyReloadReachesClients(t *testing.T) {
	root := writeSite(t)
	srv := New(Config{Root: root, LiveReload: true}, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + reloadPath
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for srv.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.ClientCount() != 1 {
		t.Fatalf("clients = %d, want 1", srv.ClientCount())
	}

	srv.NotifyReload(ctx)

	kind, payload, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.MessageText || string(payload) != "reload" {
		t.Fatalf("message = %v %q", kind, payload)
	}
}

func TestInjectReloadScriptWithoutBodyTag(t *testing.T) {
	out := injectReloadScript([]byte("<p>fragment</p>"))
	if !strings.Contains(string(out), reloadPath) {
		t.Fatal("script missing from fragment output")
	}
}
