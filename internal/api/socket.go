package api

import (
	"context"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/example/veyara-realtime/internal/api/middleware"
	"github.com/example/veyara-realtime/internal/realtime"
	"github.com/gorilla/websocket"
)

// SocketConfig tunes the per-connection pumps
type SocketConfig struct {
	AllowedOrigins  []string
	SendBuffer      int
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	MaxMessageBytes int64
}

// SocketHandler upgrades authenticated requests to WebSocket connections and
// attaches them to the hub
type SocketHandler struct {
	hub      *realtime.Hub
	cfg      SocketConfig
	upgrader websocket.Upgrader
}

func NewSocketHandler(hub *realtime.Hub, cfg SocketConfig) *SocketHandler {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 4096
	}
	h := &SocketHandler{hub: hub, cfg: cfg}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits requests without an Origin header (native clients) and
// browser requests from the configured origins
func (h *SocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, "*") || slices.Contains(h.cfg.AllowedOrigins, origin)
}

// ServeHTTP expects AuthMiddleware to have resolved the actor
func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		log.Printf("[API] WebSocket upgrade failed for %s: %v", actor.ID, err)
		return
	}

	// Writes that are in flight must finish even if the peer goes away
	ctx := context.WithoutCancel(r.Context())

	session := realtime.NewSession(actor, h.cfg.SendBuffer)
	if err := h.hub.Connect(ctx, session); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(h.cfg.WriteTimeout))
		conn.Close()
		return
	}
	go h.writePump(conn, session)
	h.readPump(ctx, conn, session)
}

// readPump dispatches inbound frames one at a time until the connection fails
func (h *SocketHandler) readPump(ctx context.Context, conn *websocket.Conn, s *realtime.Session) {
	defer func() {
		h.hub.Disconnect(s)
		conn.Close()
	}()

	conn.SetReadLimit(h.cfg.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[API] Read error for session %s: %v", s.ID(), err)
			}
			return
		}
		h.hub.Dispatch(ctx, s, frame)
	}
}

// writePump is the only writer on conn. It stops when the session's outbound
// queue closes or a write fails.
func (h *SocketHandler) writePump(conn *websocket.Conn, s *realtime.Session) {
	ticker := time.NewTicker(h.cfg.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
