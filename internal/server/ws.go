package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/gesture"
)

// writeWait bounds a single WebSocket write.
const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FrameSubmitter applies one frame of externally tracked hands.
type FrameSubmitter interface {
	Submit(hands []detector.HandLandmarks) gesture.Effects
}

// effectsMessage is sent to clients after every processed frame.
type effectsMessage struct {
	gesture.Effects
	Timestamp int64 `json:"timestamp"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// LandmarksHandler accepts landmark frames from browser-side hand tracking
// and broadcasts the effects of every processed frame to all clients.
type LandmarksHandler struct {
	submitter FrameSubmitter
	clients   map[*wsClient]struct{}
	mu        sync.RWMutex
}

// NewLandmarksHandler creates a new LandmarksHandler.
func NewLandmarksHandler(s FrameSubmitter) *LandmarksHandler {
	return &LandmarksHandler{
		submitter: s,
		clients:   make(map[*wsClient]struct{}),
	}
}

// ServeHTTP upgrades the connection and processes each incoming message as
// one frame. A message that does not decode is a frame without a hand.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	c := &wsClient{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		hands, err := detector.DecodeFrame(msg)
		if err != nil {
			slog.Debug("malformed landmark frame", "error", err)
			hands = nil
		}
		h.submitter.Submit(hands)
	}
}

// Publish sends fx to every connected client. Clients that fail to accept
// the write are dropped.
func (h *LandmarksHandler) Publish(fx gesture.Effects) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(effectsMessage{Effects: fx, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		slog.Warn("failed to encode effects", "error", err)
		return
	}

	for _, c := range clients {
		if err := c.write(msg); err != nil {
			slog.Debug("dropping websocket client", "error", err)
			c.conn.Close()
		}
	}
}

// Clients returns the number of connected clients.
func (h *LandmarksHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *LandmarksHandler) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
}
