package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/BCschwifty/sys-API/internal/stream"
)

// WebSocketController upgrades connections and attaches them to the hub.
type WebSocketController struct {
	Hub *stream.Hub

	upgrader websocket.Upgrader
}

// NewWebSocketController creates a controller for the given hub.
func NewWebSocketController(hub *stream.Hub) *WebSocketController {
	return &WebSocketController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Authentication happens in middleware before the upgrade.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and streams until the client disconnects.
func (wc *WebSocketController) Serve(c *gin.Context) {
	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	detach := wc.Hub.Attach(conn)
	defer detach()

	// Drain reads so close/ping frames are processed; any read error means
	// the client went away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
