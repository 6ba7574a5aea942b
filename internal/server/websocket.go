package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // token middleware gates the route
	},
}

// wsIncoming carries one full conversation per frame; the assistant itself
// keeps no state between frames.
type wsIncoming struct {
	Messages []llm.Message `json:"messages"`
}

// wsOutgoing is a frame to the client.
type wsOutgoing struct {
	Type    string `json:"type"` // text_delta, done, error
	Content string `json:"content,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()

	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Printf("[ws %s] read error: %v", connID, err)
			return
		}

		// Serialize writes: deltas stream from the assistant turn while the
		// read loop sits idle, but a slow client must not interleave frames.
		var writeMu sync.Mutex
		send := func(out wsOutgoing) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(out); err != nil {
				log.Printf("[ws %s] write error: %v", connID, err)
			}
		}

		err := s.assistant.Respond(r.Context(), msg.Messages, func(fragment string) {
			send(wsOutgoing{Type: "text_delta", Content: fragment})
		})
		if err != nil {
			log.Printf("[ws %s] assistant turn failed: %v", connID, err)
			send(wsOutgoing{Type: "error", Content: "inference service unavailable"})
			continue
		}
		send(wsOutgoing{Type: "done"})
	}
}
