package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const writeTimeout = 10 * time.Second

// hub tracks connected live-reload clients and fans reload messages out to
// all of them.
type hub struct {
	logger interfaces.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub(logger interfaces.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: map[*websocket.Conn]struct{}{},
	}
}

func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Reads drain control frames and detect disconnects. Clients never send
	// application messages.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.remove(conn)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast writes message to every client, dropping connections that fail.
func (h *hub) broadcast(ctx context.Context, message string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := conn.Write(writeCtx, websocket.MessageText, []byte(message))
		cancel()
		if err != nil {
			h.logger.Debug("dropping reload client", "error", err)
			h.remove(conn)
			conn.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = map[*websocket.Conn]struct{}{}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
