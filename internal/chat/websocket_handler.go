package chat

import (
	"context"
	"log"
	"net/http"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: validate origin once the frontend host is fixed
		return true
	},
}

// Responder answers one chat message against the conversation so far.
type Responder interface {
	Chat(ctx context.Context, message string, history []models.Turn) string
}

// WebSocketHandler serves interactive chat over a WebSocket. Each
// connection gets its own session; history lives in memory for the life of
// the session only.
type WebSocketHandler struct {
	sessions  *SessionManager
	responder Responder
}

func NewWebSocketHandler(sessions *SessionManager, responder Responder) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions, responder: responder}
}

type inboundMessage struct {
	Message string `json:"message"`
}

type outboundMessage struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// HandleConnection upgrades the request and runs the read loop until the
// client disconnects.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ctx, span := middleware.StartSpan(ctx, "WebSocket.Chat")
	defer span.End()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		middleware.AddSpanError(ctx, err)
		return
	}
	defer conn.Close()

	session := h.sessions.Create()
	defer h.sessions.Close(session.ID)
	span.SetAttributes(attribute.String("session.id", session.ID))

	log.Printf("✓ WebSocket chat connection established (session: %s)", session.ID)

	for {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  WebSocket read error on session %s: %v", session.ID, err)
			}
			return
		}
		if in.Message == "" {
			continue
		}

		history := h.sessions.HistoryOf(session.ID)
		h.sessions.Append(session.ID, models.NewTurn(models.RoleUser, in.Message))

		response := h.responder.Chat(ctx, in.Message, history)
		h.sessions.Append(session.ID, models.NewTurn(models.RoleAgent, response))

		if err := conn.WriteJSON(outboundMessage{SessionID: session.ID, Response: response}); err != nil {
			log.Printf("⚠️  WebSocket write error on session %s: %v", session.ID, err)
			return
		}
	}
}
