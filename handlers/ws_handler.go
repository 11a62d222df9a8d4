package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/talent-platform/events"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the staff console origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub *events.Hub
}

func NewWebSocketHandler(hub *events.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ConsentFeed upgrades the connection and streams consent-request activity.
func (h *WebSocketHandler) ConsentFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("failed to upgrade consent feed connection", slog.Any("error", err))
		return
	}
	h.hub.Subscribe(conn)
}
