package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

// invokeRequest accepts both inbound body formats: the deployment wrapper
// {"input":{"messages":[...]}} and the direct {"messages":[...]}.
type invokeRequest struct {
	Input    *invokeInput  `json:"input"`
	Messages []llm.Message `json:"messages"`
}

type invokeInput struct {
	Messages []llm.Message `json:"messages"`
}

func (r invokeRequest) messages() []llm.Message {
	if r.Input != nil {
		return r.Input.Messages
	}
	return r.Messages
}

// handleInvoke runs one stateless assistant turn, streaming the answer as
// chunked plain text. Concatenation of the chunks is the full answer.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	r.Body.Close()

	flusher, _ := w.(http.Flusher)
	emitted := false
	emit := func(fragment string) {
		if !emitted {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			emitted = true
		}
		w.Write([]byte(fragment))
		if flusher != nil {
			flusher.Flush()
		}
	}

	if err := s.assistant.Respond(r.Context(), req.messages(), emit); err != nil {
		reqID := middleware.GetReqID(r.Context())
		log.Printf("[%s] assistant turn failed: %v", reqID, err)
		if !emitted {
			// No grounded answer exists yet; surface the upstream failure.
			writeError(w, http.StatusBadGateway, "inference service unavailable")
		}
		return
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
