package inspect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vcommit/pkg/protocol"
	"github.com/vango-dev/vcommit/pkg/scenario"
)

const writeWait = 5 * time.Second

// Hub keeps the passes of a run and streams their frames to websocket
// clients. A client joining late first receives every earlier pass with
// FlagReplay set, then live passes as they are published.
type Hub struct {
	mu      sync.RWMutex
	passes  []*scenario.PassResult
	clients map[*websocket.Conn]bool

	logger  *slog.Logger
	metrics *metrics
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// Publish records pr and sends its frames to every client. It has the
// signature of a scenario runner observer.
func (h *Hub) Publish(pr *scenario.PassResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.passes = append(h.passes, pr)
	frames := pr.Frames(0)
	for conn := range h.clients {
		if err := h.send(conn, frames); err != nil {
			h.logger.Debug("dropping inspect client", "remote", conn.RemoteAddr().String(), "error", err)
			h.drop(conn)
		}
	}
}

// Passes returns the published passes in order.
func (h *Hub) Passes() []*scenario.PassResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*scenario.PassResult(nil), h.passes...)
}

// Pass returns the nth published pass, counting from 1.
func (h *Hub) Pass(n int) (*scenario.PassResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n < 1 || n > len(h.passes) {
		return nil, false
	}
	return h.passes[n-1], true
}

// Latest returns the last published pass.
func (h *Hub) Latest() (*scenario.PassResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.passes) == 0 {
		return nil, false
	}
	return h.passes[len(h.passes)-1], true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		h.drop(conn)
	}
}

// join replays earlier passes to conn and registers it for live ones.
func (h *Hub) join(conn *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.metrics.setClients(len(h.clients))
	for _, pr := range h.passes {
		if err := h.send(conn, pr.Frames(protocol.FlagReplay)); err != nil {
			h.drop(conn)
			return err
		}
	}
	return nil
}

func (h *Hub) leave(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(conn)
}

// drop must be called with h.mu held.
func (h *Hub) drop(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
	h.metrics.setClients(len(h.clients))
}

func (h *Hub) send(conn *websocket.Conn, frames []*protocol.Frame) error {
	for _, f := range frames {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
			return err
		}
		h.metrics.frameSent()
	}
	return nil
}
