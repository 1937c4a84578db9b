package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sreevidya/handrom/internal/capture"
	"github.com/sreevidya/handrom/internal/tracker"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts real-time landmark observations via WebSocket so
// the dashboard can render the tracked hand while an assessment records.
type LiveHandler struct {
	tracker tracker.Tracker
	camera  capture.Camera
	log     *zap.Logger
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler with the given tracker and camera.
func NewLiveHandler(tr tracker.Tracker, c capture.Camera, log *zap.Logger) *LiveHandler {
	h := &LiveHandler{
		tracker: tr,
		camera:  c,
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends landmark observations to all connected clients.
func (h *LiveHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		frame, err := h.camera.ReadFrame()
		if err != nil {
			continue
		}

		observation, err := h.tracker.Detect(frame, time.Now().UnixMilli())
		frame.Close()
		if err != nil {
			h.log.Debug("live detection failed", zap.Error(err))
			continue
		}

		msg, _ := json.Marshal(observation)

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
