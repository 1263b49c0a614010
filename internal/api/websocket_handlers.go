package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is handled by the CORS middleware for the REST
	// endpoints; the ws endpoint mirrors its allow-all stance.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsChatRequest struct {
	Message string `json:"message"`
}

type wsChatError struct {
	Error string `json:"error"`
}

// HandleChatWebSocket runs the same chat pipeline over a persistent
// connection: one question per frame, one answer per frame. Chat is
// stateless across turns, so there is no per-session memory to manage.
func (h *Handler) HandleChatWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️  WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := ksuid.New().String()
	log.Printf("[ws %s] chat session opened", sessionID)

	for {
		var req wsChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws %s] read error: %v", sessionID, err)
			}
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			if err := conn.WriteJSON(wsChatError{Error: "message is required"}); err != nil {
				return
			}
			continue
		}

		answer := h.chat.Chat(r.Context(), req.Message)
		if err := conn.WriteJSON(answer); err != nil {
			log.Printf("[ws %s] write error: %v", sessionID, err)
			return
		}
	}
}
