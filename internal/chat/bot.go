// Package chat implements the per-session conversation turn pipeline.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
	"github.com/ashureev/moodchat/internal/sentiment"
)

// DefaultSystemPrompt seeds new sessions unless overridden.
const DefaultSystemPrompt = "You are a friendly, intelligent AI assistant. " +
	"You are empathetic, helpful, and adapt your communication style " +
	"based on the user's emotional state."

// fallbackReply keeps the turn well-formed when reply generation fails.
const fallbackReply = "I'm having trouble reaching my language service right now. " +
	"Could you try that again in a moment?"

const defaultHistoryWindow = 10

// Options configures a bot.
type Options struct {
	// SystemPrompt overrides DefaultSystemPrompt when non-empty.
	SystemPrompt string
	// HistoryWindow bounds the prompt context, default 10.
	HistoryWindow int
	// ShiftWindow is the mood-shift detection window (SmartBot), default 2.
	ShiftWindow int
}

// Bot owns one session's message history, conversation state, and sentiment
// analyzer, and orchestrates chat turns. It is not safe for concurrent use;
// callers must serialize turns per session.
type Bot struct {
	client       ai.Client
	analyzer     *sentiment.Analyzer
	history      []domain.Message
	state        *domain.ConversationState
	systemPrompt string
	window       int
}

// NewBot creates a bot and seeds the system message.
func NewBot(client ai.Client, opts Options) *Bot {
	prompt := opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	window := opts.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}

	b := &Bot{
		client:       client,
		analyzer:     sentiment.NewAnalyzer(client),
		state:        domain.NewConversationState(),
		systemPrompt: prompt,
		window:       window,
	}
	b.history = append(b.history, domain.NewMessage(domain.RoleSystem, prompt, nil))
	return b
}

// TurnResult is the bundle returned for one completed chat turn.
type TurnResult struct {
	Response    string                   `json:"response"`
	Sentiment   domain.SentimentResult   `json:"sentiment"`
	State       domain.ConversationState `json:"state"`
	MoodContext string                   `json:"mood_context"`
}

// Chat processes one user message: analyze, update state, record, generate a
// reply, record. Collaborator failures degrade (defaulted sentiment, fallback
// reply) so a started turn always completes with a valid bundle. The only
// abort path is a context already cancelled before anything is recorded.
func (b *Bot) Chat(ctx context.Context, userMessage string) (TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return TurnResult{}, fmt.Errorf("chat turn aborted: %w", err)
	}

	result := b.analyzer.Analyze(ctx, userMessage)
	b.state.Update(result)
	b.history = append(b.history, domain.NewMessage(domain.RoleUser, userMessage, &result))

	sentimentContext := fmt.Sprintf("User sentiment: %s | Emotion: %s (%s) | Reason: %s",
		result.Sentiment, result.Emotion, result.EmotionIntensity, result.Reasoning)

	reply, err := b.client.GenerateReply(ctx, ai.ReplyRequest{
		UserMessage:      userMessage,
		History:          domain.ContextWindow(b.history, b.window),
		CurrentMood:      b.state.Mood,
		SentimentContext: sentimentContext,
	})
	if err != nil {
		slog.Warn("reply generation failed, using fallback", "error", err)
		reply = fallbackReply
	}
	reply = strings.TrimSpace(reply)
	b.history = append(b.history, domain.NewMessage(domain.RoleAssistant, reply, nil))

	return TurnResult{
		Response:    reply,
		Sentiment:   result,
		State:       b.StateSnapshot(),
		MoodContext: b.moodContext(),
	}, nil
}

// moodContext renders the presentational one-line state summary. It is
// recomputed per call and never stored.
func (b *Bot) moodContext() string {
	stats := b.analyzer.SummaryStats()
	return fmt.Sprintf("Current mood: %s | Emotion: %s | Engagement: %s | Messages: %d",
		b.state.Mood, b.state.LastEmotion, b.state.EngagementLevel, stats.TotalMessages)
}

// History returns the full message history including the system message.
func (b *Bot) History() []domain.Message {
	return b.history
}

// UserMessages returns the content of all user messages in order.
func (b *Bot) UserMessages() []string {
	var msgs []string
	for _, m := range b.history {
		if m.Role == domain.RoleUser {
			msgs = append(msgs, m.Content)
		}
	}
	return msgs
}

// SentimentHistory returns the per-turn sentiment results in order.
func (b *Bot) SentimentHistory() []domain.SentimentResult {
	return b.analyzer.History()
}

// StateSnapshot returns a copy of the conversation state.
func (b *Bot) StateSnapshot() domain.ConversationState {
	snap := *b.state
	snap.TopicsDiscussed = append([]string{}, b.state.TopicsDiscussed...)
	return snap
}

// Statistics are simple tallies over the session.
type Statistics struct {
	TotalMessages     int                      `json:"total_messages"`
	UserMessages      int                      `json:"user_messages"`
	AssistantMessages int                      `json:"assistant_messages"`
	SentimentStats    sentiment.Stats          `json:"sentiment_stats"`
	ConversationState domain.ConversationState `json:"conversation_state"`
}

// Statistics counts messages by role, excluding the system message from the
// total.
func (b *Bot) Statistics() Statistics {
	stats := Statistics{
		SentimentStats:    b.analyzer.SummaryStats(),
		ConversationState: b.StateSnapshot(),
	}
	for _, m := range b.history {
		switch m.Role {
		case domain.RoleUser:
			stats.UserMessages++
		case domain.RoleAssistant:
			stats.AssistantMessages++
		}
	}
	if n := len(b.history); n > 0 {
		stats.TotalMessages = n - 1
	}
	return stats
}

// Reset clears history and sentiment history, reinitializes state, and
// re-seeds the system message. The bot is reusable indefinitely.
func (b *Bot) Reset() {
	b.history = nil
	b.state = domain.NewConversationState()
	b.analyzer.Clear()
	b.history = append(b.history, domain.NewMessage(domain.RoleSystem, b.systemPrompt, nil))
}

// SetPersonality replaces the stored system prompt. If the first history
// entry is the system message it is replaced in place, not appended.
func (b *Bot) SetPersonality(personality string) {
	b.systemPrompt = personality
	if len(b.history) > 0 && b.history[0].Role == domain.RoleSystem {
		b.history[0] = domain.NewMessage(domain.RoleSystem, personality, nil)
	}
}

// SystemPrompt returns the current personality prompt.
func (b *Bot) SystemPrompt() string {
	return b.systemPrompt
}
