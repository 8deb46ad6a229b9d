package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
	"github.com/vovakirdan/rocket-lander/internal/lander/session"
)

const (
	sendBuffer      = 64
	broadcastBuffer = 64
	writeWait       = 5 * time.Second
)

// Options configures a Hub.
type Options struct {
	// Every sends one frame message per Every frames. Phase changes are
	// always sent. Values below 1 send every frame.
	Every  int
	Logger *log.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected WebSocket clients. It implements
// session.Observer; OnFrame never blocks the frame loop, and clients that
// fall behind are dropped.
type Hub struct {
	every  int
	logger *log.Logger

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int32

	// frame-loop state, touched only by OnFrame
	lastPhase flight.Phase
	seen      bool

	upgrader websocket.Upgrader
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		every:      max(opts.Every, 1),
		logger:     logger,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			h.logger.Info("telemetry client connected", "remote", c.conn.RemoteAddr().String())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("telemetry client too slow, dropping", "remote", c.conn.RemoteAddr().String())
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// OnFrame publishes a snapshot. A frame message is sent every Every frames
// or on a phase change; an outcome message follows when a flight ends.
func (h *Hub) OnFrame(s session.Snapshot) {
	changed := !h.seen || s.Phase != h.lastPhase
	h.seen = true
	h.lastPhase = s.Phase

	if changed || s.Frame%uint64(h.every) == 0 {
		h.publish(Message{Type: TypeFrame, Payload: NewFrame(s)})
	}
	if changed && s.Phase.Terminal() {
		h.publish(Message{Type: TypeOutcome, Payload: NewOutcome(s)})
	}
}

func (h *Hub) publish(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Warn("telemetry encode failed", "type", m.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// hub loop is behind; drop rather than stall the simulation
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams messages to it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("telemetry upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("telemetry read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		//nolint:errcheck // a failed deadline surfaces as a write error
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	//nolint:errcheck // best-effort close frame
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ListenAndServe serves the hub at /ws on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // shutting down anyway
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("telemetry listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}
