package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/moodchat/internal/chat"
	"github.com/ashureev/moodchat/internal/identity"
	"github.com/ashureev/moodchat/internal/session"
)

// wsTurnTimeout bounds a single turn over the socket, covering both
// collaborator calls.
const wsTurnTimeout = 2 * time.Minute

// WebSocketHandler serves the streaming chat channel. Each message carries
// one turn; responses mirror the POST /api/chat bundle.
type WebSocketHandler struct {
	sessions      *session.Store
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(sessions *session.Store, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		sessions:      sessions,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

type wsRequest struct {
	Message string `json:"message"`
}

type wsResponse struct {
	Type  string                `json:"type"`
	Turn  *chat.SmartTurnResult `json:"turn,omitempty"`
	Error string                `json:"error,omitempty"`
}

// ServeHTTP upgrades the connection and processes chat turns until the
// client disconnects.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())
	if sessionID == "" {
		http.Error(w, `{"error": "no session"}`, http.StatusUnauthorized)
		return
	}

	opts := &websocket.AcceptOptions{}
	if h.isDev {
		opts.InsecureSkipVerify = true
	} else if h.allowedOrigin != "" {
		opts.OriginPatterns = []string{strings.TrimPrefix(strings.TrimPrefix(h.allowedOrigin, "https://"), "http://")}
	}

	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Warn("websocket accept failed", "session_id", sessionID, "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("websocket close", "error", closeErr)
		}
	}()

	slog.Info("websocket chat connected", "session_id", sessionID)

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to load session for websocket", "session_id", sessionID, "error", err)
		return
	}

	for {
		_, data, err := ws.Read(r.Context())
		if err != nil {
			if websocket.CloseStatus(err) == -1 && r.Context().Err() == nil {
				slog.Debug("websocket read error", "session_id", sessionID, "error", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.write(r.Context(), ws, wsResponse{Type: "error", Error: "invalid message"})
			continue
		}
		message := strings.TrimSpace(req.Message)
		if message == "" {
			h.write(r.Context(), ws, wsResponse{Type: "error", Error: "message cannot be empty"})
			continue
		}

		turnCtx, cancel := context.WithTimeout(r.Context(), wsTurnTimeout)
		var result chat.SmartTurnResult
		var turnErr error
		sess.Do(func(bot *chat.SmartBot) {
			result, turnErr = bot.Chat(turnCtx, message)
		})
		cancel()

		if turnErr != nil {
			slog.Error("websocket chat turn aborted", "session_id", sessionID, "error", turnErr)
			h.write(r.Context(), ws, wsResponse{Type: "error", Error: "chat turn aborted"})
			continue
		}

		if err := h.sessions.Save(r.Context(), sess); err != nil {
			slog.Warn("failed to persist session snapshot", "session_id", sessionID, "error", err)
		}
		h.write(r.Context(), ws, wsResponse{Type: "turn", Turn: &result})
	}
}

func (h *WebSocketHandler) write(ctx context.Context, ws *websocket.Conn, resp wsResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Warn("failed to marshal websocket response", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("websocket write error", "error", err)
	}
}
