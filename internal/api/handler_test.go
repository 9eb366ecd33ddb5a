package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/analytics"
	"github.com/ashureev/moodchat/internal/chat"
	"github.com/ashureev/moodchat/internal/domain"
	"github.com/ashureev/moodchat/internal/identity"
	"github.com/ashureev/moodchat/internal/session"
)

func newTestRouter(client ai.Client) http.Handler {
	sessions := session.NewStore(func() *chat.SmartBot {
		return chat.NewSmartBot(client, chat.Options{})
	}, nil, time.Hour)

	an := analytics.New(client)
	handler := NewHandler(sessions, an)

	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	handler.RegisterRoutes(r)
	return r
}

// doJSON performs a request, carrying over session cookies between calls.
func doJSON(t *testing.T, router http.Handler, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	next := cookies
	if set := w.Result().Cookies(); len(set) > 0 {
		next = set
	}
	return w, next
}

func TestHandleChat(t *testing.T) {
	client := &ai.FakeClient{
		Sentiments: []domain.SentimentResult{
			{Sentiment: domain.SentimentPositive, Emotion: "happy", EmotionIntensity: domain.IntensityHigh, Confidence: 0.9},
		},
		Reply: "That's wonderful!",
	}
	router := newTestRouter(client)

	w, _ := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "I got the job!"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result chat.SmartTurnResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Response != "That's wonderful!" {
		t.Errorf("Expected reply, got %q", result.Response)
	}
	if result.Sentiment.Sentiment != domain.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %q", result.Sentiment.Sentiment)
	}
	if result.UIHints.SuggestedColor != "#4CAF50" {
		t.Errorf("Expected happy color hint, got %q", result.UIHints.SuggestedColor)
	}
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	w, _ := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "   "}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleChat_InvalidBody(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	w, _ := doJSON(t, router, http.MethodPost, "/api/chat", `{not json`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleChat_BodyTooLarge(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	huge := `{"message": "` + strings.Repeat("a", 2<<20) + `"}`
	w, _ := doJSON(t, router, http.MethodPost, "/api/chat", huge, nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}
}

func TestSessionContinuity(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	_, cookies := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "first"}`, nil)
	_, cookies = doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "second"}`, cookies)

	w, _ := doJSON(t, router, http.MethodGet, "/api/history", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string][]domain.Message
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// System message plus two turns.
	if got := len(resp["history"]); got != 5 {
		t.Errorf("Expected 5 history entries, got %d", got)
	}
}

func TestHandleReset(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	_, cookies := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "hello"}`, nil)
	w, cookies := doJSON(t, router, http.MethodPost, "/api/reset", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	hw, _ := doJSON(t, router, http.MethodGet, "/api/history", "", cookies)
	var resp map[string][]domain.Message
	if err := json.NewDecoder(hw.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got := len(resp["history"]); got != 1 {
		t.Errorf("Expected only the system message after reset, got %d entries", got)
	}
}

func TestHandlePersonality(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	w, cookies := doJSON(t, router, http.MethodPost, "/api/personality", `{"personality": "You are a pirate."}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	hw, _ := doJSON(t, router, http.MethodGet, "/api/history", "", cookies)
	var resp map[string][]domain.Message
	if err := json.NewDecoder(hw.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	history := resp["history"]
	if len(history) != 1 || history[0].Content != "You are a pirate." {
		t.Errorf("Expected replaced system message, got %+v", history)
	}

	empty, _ := doJSON(t, router, http.MethodPost, "/api/personality", `{"personality": ""}`, cookies)
	if empty.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty personality, got %d", empty.Code)
	}
}

func TestHandleStats(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	_, cookies := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "hello"}`, nil)
	w, _ := doJSON(t, router, http.MethodGet, "/api/stats", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats chat.Statistics
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.TotalMessages != 2 || stats.UserMessages != 1 {
		t.Errorf("Expected 2 total and 1 user message, got %+v", stats)
	}
}

func TestHandleReport_TextFormat(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	_, cookies := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "hello"}`, nil)
	w, _ := doJSON(t, router, http.MethodGet, "/api/report?format=text", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "CONVERSATION ANALYTICS REPORT") {
		t.Error("Expected report header in text output")
	}
}

func TestHandleReport_JSON(t *testing.T) {
	client := &ai.FakeClient{
		Summary: ai.ConversationSummary{Summary: "Friendly small talk."},
	}
	router := newTestRouter(client)

	_, cookies := doJSON(t, router, http.MethodPost, "/api/chat", `{"message": "hello"}`, nil)
	w, _ := doJSON(t, router, http.MethodGet, "/api/report", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report analytics.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if report.Summary.Summary != "Friendly small talk." {
		t.Errorf("Expected summary in report, got %+v", report.Summary)
	}
	if report.Statistics.TotalMessages != 1 {
		t.Errorf("Expected 1 analyzed message, got %d", report.Statistics.TotalMessages)
	}
}

func TestHandleGraph_EmptyConversation(t *testing.T) {
	router := newTestRouter(&ai.FakeClient{})

	w, _ := doJSON(t, router, http.MethodGet, "/api/graph", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp["graph"], "No conversation data yet.") {
		t.Errorf("Expected placeholder graph, got %q", resp["graph"])
	}
}
