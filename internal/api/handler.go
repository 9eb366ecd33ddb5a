// Package api provides HTTP handlers for the MoodChat API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/moodchat/internal/analytics"
	"github.com/ashureev/moodchat/internal/chat"
	"github.com/ashureev/moodchat/internal/domain"
	"github.com/ashureev/moodchat/internal/identity"
	"github.com/ashureev/moodchat/internal/session"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Handler serves the conversation and analytics endpoints.
type Handler struct {
	sessions  *session.Store
	analytics *analytics.Analytics
	reports   *analytics.Generator
}

// NewHandler creates a new Handler.
func NewHandler(sessions *session.Store, an *analytics.Analytics) *Handler {
	return &Handler{
		sessions:  sessions,
		analytics: an,
		reports:   analytics.NewGenerator(an),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Post("/reset", h.HandleReset)
		r.Post("/personality", h.HandlePersonality)
		r.Get("/history", h.HandleHistory)
		r.Get("/stats", h.HandleStats)
		r.Get("/summary", h.HandleSummary)
		r.Get("/keywords", h.HandleKeywords)
		r.Get("/trends", h.HandleTrends)
		r.Get("/graph", h.HandleGraph)
		r.Get("/profile", h.HandleProfile)
		r.Get("/report", h.HandleReport)
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sessionID := identity.SessionIDFromContext(r.Context())
	if sessionID == "" {
		Error(w, http.StatusUnauthorized, "no session")
		return nil
	}
	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to load session", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load session")
		return nil
	}
	return sess
}

// save persists the session snapshot. A completed turn is not failed over a
// persistence error; it only costs restart durability.
func (h *Handler) save(r *http.Request, sess *session.Session) {
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		slog.Warn("failed to persist session snapshot", "session_id", sess.ID, "error", err)
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat handles POST /api/chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var result chat.SmartTurnResult
	var turnErr error
	sess.Do(func(bot *chat.SmartBot) {
		result, turnErr = bot.Chat(r.Context(), message)
	})
	if turnErr != nil {
		slog.Error("chat turn aborted", "session_id", sess.ID, "error", turnErr)
		Error(w, http.StatusServiceUnavailable, "chat turn aborted")
		return
	}

	slog.Info("chat turn completed",
		"session_id", sess.ID,
		"sentiment", result.Sentiment.Sentiment,
		"emotion", result.Sentiment.Emotion,
		"message_length", len(message),
	)

	h.save(r, sess)
	JSON(w, http.StatusOK, result)
}

// HandleReset handles POST /api/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	sess.Do(func(bot *chat.SmartBot) {
		bot.Reset()
	})
	h.save(r, sess)

	JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Conversation reset",
	})
}

type personalityRequest struct {
	Personality string `json:"personality"`
}

// HandlePersonality handles POST /api/personality.
func (h *Handler) HandlePersonality(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req personalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	personality := strings.TrimSpace(req.Personality)
	if personality == "" {
		Error(w, http.StatusBadRequest, "personality cannot be empty")
		return
	}

	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	sess.Do(func(bot *chat.SmartBot) {
		bot.SetPersonality(personality)
	})
	h.save(r, sess)

	JSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleHistory handles GET /api/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var history []domain.Message
	sess.Do(func(bot *chat.SmartBot) {
		history = append(history, bot.History()...)
	})
	JSON(w, http.StatusOK, map[string][]domain.Message{"history": history})
}

// HandleStats handles GET /api/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var stats chat.Statistics
	sess.Do(func(bot *chat.SmartBot) {
		stats = bot.Statistics()
	})
	JSON(w, http.StatusOK, stats)
}

// HandleSummary handles GET /api/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var conversation []domain.ContextEntry
	sess.Do(func(bot *chat.SmartBot) {
		conversation = domain.StripSystem(bot.History())
	})
	JSON(w, http.StatusOK, h.analytics.Summary(r.Context(), conversation))
}

// HandleKeywords handles GET /api/keywords.
func (h *Handler) HandleKeywords(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var conversation []domain.ContextEntry
	sess.Do(func(bot *chat.SmartBot) {
		conversation = domain.StripSystem(bot.History())
	})
	JSON(w, http.StatusOK, h.analytics.Keywords(r.Context(), conversation))
}

// HandleTrends handles GET /api/trends.
func (h *Handler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var history []domain.SentimentResult
	sess.Do(func(bot *chat.SmartBot) {
		history = append(history, bot.SentimentHistory()...)
	})
	JSON(w, http.StatusOK, h.analytics.Trends(r.Context(), history))
}

// HandleGraph handles GET /api/graph.
func (h *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var history []domain.SentimentResult
	sess.Do(func(bot *chat.SmartBot) {
		history = append(history, bot.SentimentHistory()...)
	})
	JSON(w, http.StatusOK, map[string]string{"graph": h.analytics.MoodGraph(r.Context(), history)})
}

// HandleProfile handles GET /api/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var history []domain.SentimentResult
	sess.Do(func(bot *chat.SmartBot) {
		history = append(history, bot.SentimentHistory()...)
	})
	JSON(w, http.StatusOK, map[string]string{"profile": h.analytics.EmotionProfile(r.Context(), history)})
}

// HandleReport handles GET /api/report. The optional format query parameter
// selects `text` or the default `json`.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	sess := h.getSession(w, r)
	if sess == nil {
		return
	}

	var conversation []domain.ContextEntry
	var history []domain.SentimentResult
	sess.Do(func(bot *chat.SmartBot) {
		conversation = domain.StripSystem(bot.History())
		history = append(history, bot.SentimentHistory()...)
	})

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(h.reports.TextReport(r.Context(), conversation, history))); err != nil {
			slog.Warn("failed to write text report", "error", err)
		}
		return
	}

	JSON(w, http.StatusOK, h.reports.JSONReport(r.Context(), conversation, history))
}
