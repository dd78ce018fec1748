package handler

import (
	"net/http"
	"time"

	"github.com/expensio/internal/middleware"
	"github.com/expensio/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler pushes live expense change events over a websocket
type StreamHandler struct {
	hub *stream.Hub
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream upgrades the connection and forwards the caller's expense
// events until the client disconnects. Runs behind the auth middleware,
// so events for other users can never reach this connection.
// GET /api/v1/expenses/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.LogError("websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	sub := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(sub)
	defer conn.Close()

	// Reader goroutine: the client sends nothing meaningful, but the
	// read loop is what detects a closed connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// RegisterRoutes registers the stream route behind the auth middleware
func (h *StreamHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/expenses/stream", authMiddleware, h.Stream)
}
