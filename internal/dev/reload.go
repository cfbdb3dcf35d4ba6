package dev

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ReloadKind classifies a reload message.
type ReloadKind string

const (
	// ReloadFull tells the browser to reload the page.
	ReloadFull ReloadKind = "reload"

	// ReloadCSS tells the browser to re-fetch stylesheets in place.
	ReloadCSS ReloadKind = "css"

	// ReloadContent tells the router to re-render the current route,
	// used when a page fragment or layout changes.
	ReloadContent ReloadKind = "content"
)

// ReloadMessage is pushed to browsers over the reload socket.
type ReloadMessage struct {
	Kind ReloadKind `json:"kind"`
	File string     `json:"file,omitempty"`
}

// ReloadHub fans reload messages out to connected browsers.
type ReloadHub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewReloadHub creates a hub. Origin checks are disabled; the hub only
// ever runs on the local development server.
func NewReloadHub(log *slog.Logger) *ReloadHub {
	return &ReloadHub{
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and holds it until the browser
// disconnects.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.log.Debug("reload socket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("browser connected", "clients", n)

	// Drain reads so pings and close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

// Broadcast sends msg to every connected browser. Dead connections are
// dropped.
func (h *ReloadHub) Broadcast(msg ReloadMessage) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			h.log.Debug("dropping stale reload client", "error", err)
			h.drop(c)
		}
	}
}

// ClientCount returns the number of connected browsers.
func (h *ReloadHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all browsers.
func (h *ReloadHub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

func (h *ReloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ReloadScript is the client snippet injected into the app shell in
// development. It reconnects with backoff so browsers survive server
// restarts.
const ReloadScript = `<script>
(() => {
  let delay = 250;
  const connect = () => {
    const ws = new WebSocket("ws://" + location.host + "/_lumen/reload");
    ws.onmessage = (e) => {
      const msg = JSON.parse(e.data);
      if (msg.kind === "css") {
        document.querySelectorAll('link[rel="stylesheet"]').forEach((l) => {
          l.href = l.href.split("?")[0] + "?t=" + Date.now();
        });
        return;
      }
      location.reload();
    };
    ws.onopen = () => { delay = 250; };
    ws.onclose = () => { setTimeout(connect, delay); delay = Math.min(delay * 2, 5000); };
  };
  connect();
})();
</script>`
