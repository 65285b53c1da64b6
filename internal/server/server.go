// Package server hosts the built site during development. It serves the
// output tree over HTTP and pushes reload events to connected browsers when
// the watcher triggers a rebuild.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	// reloadPath is the websocket endpoint the injected client script dials.
	reloadPath = "/__press/reload"

	shutdownGrace = 5 * time.Second
)

// Config controls the development server.
type Config struct {
	Host string
	Port int
	// Root is the output directory to serve.
	Root string
	// LiveReload injects the reload client into HTML responses.
	LiveReload bool
}

// Server serves the built site and brokers live-reload notifications.
type Server struct {
	cfg    Config
	logger interfaces.Logger
	hub    *hub
}

// New constructs a development server for the given output root.
func New(cfg Config, logger interfaces.Logger) *Server {
	if logger == nil {
		logger = logging.NoOp()
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		hub:    newHub(logger),
	}
}

// Addr returns the host:port the server binds.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
}

// Handler builds the HTTP handler: the reload endpoint plus the static tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(reloadPath, s.hub.handleWebSocket)
	mux.HandleFunc("/", s.serveFile)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving site", "addr", srv.Addr, "root", s.cfg.Root)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.closeAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errCh
}

// NotifyReload tells every connected browser to refresh.
func (s *Server) NotifyReload(ctx context.Context) {
	s.hub.broadcast(ctx, "reload")
}

// ClientCount reports connected reload clients.
func (s *Server) ClientCount() int {
	return s.hub.count()
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target, err := s.resolve(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if s.cfg.LiveReload && strings.HasSuffix(target, ".html") {
		data, err := os.ReadFile(target)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(injectReloadScript(data))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, target)
}

// resolve maps a request path to a file under the output root. Directory
// requests resolve to their index.html.
func (s *Server) resolve(requestPath string) (string, error) {
	clean := path.Clean("/" + requestPath)
	target := filepath.Join(s.cfg.Root, filepath.FromSlash(clean))

	info, err := os.Stat(target)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		target = filepath.Join(target, "index.html")
		if _, err := os.Stat(target); err != nil {
			return "", err
		}
	}
	return target, nil
}

// injectReloadScript appends the reload client before </body>, or at the end
// when the page has no body close tag.
func injectReloadScript(page []byte) []byte {
	script := []byte(reloadScript)
	idx := strings.LastIndex(strings.ToLower(string(page)), "</body>")
	if idx < 0 {
		return append(page, script...)
	}
	out := make([]byte, 0, len(page)+len(script))
	out = append(out, page[:idx]...)
	out = append(out, script...)
	out = append(out, page[idx:]...)
	return out
}

const reloadScript = `<script>
(function () {
	var proto = location.protocol === "https:" ? "wss" : "ws";
	var socket = new WebSocket(proto + "://" + location.host + "` + reloadPath + `");
	socket.onmessage = function (event) {
		if (event.data === "reload") {
			location.reload();
		}
	};
})();
</script>
`
