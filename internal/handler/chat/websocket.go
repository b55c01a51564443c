package chat

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/solacelabs/solace/backend/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type wsInbound struct {
	Text string `json:"text"`
}

type wsError struct {
	Error string `json:"error"`
}

// RegisterWebsocket mounts the duplex chat endpoint: the client sends one
// JSON message per turn and receives the full turn result back on the same
// connection.
func (h *Handler) RegisterWebsocket(r chi.Router) {
	r.Get("/chat/{sessionID}", h.handleWebsocket)
}

func (h *Handler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	log := logrus.WithFields(logrus.Fields{"component": "ws", "session": sessionID})

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info("websocket chat opened")

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		if strings.TrimSpace(inbound.Text) == "" {
			if err := conn.WriteJSON(wsError{Error: "text is required"}); err != nil {
				return
			}
			continue
		}

		result, err := h.orchestrator.ProcessTurn(r.Context(), sessionID, inbound.Text)
		if err != nil {
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(result); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}
