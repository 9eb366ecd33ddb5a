package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
)

func positiveResult() domain.SentimentResult {
	return domain.SentimentResult{
		Sentiment:        domain.SentimentPositive,
		Emotion:          "happy",
		EmotionIntensity: domain.IntensityHigh,
		Confidence:       0.9,
		Reasoning:        "upbeat phrasing",
	}
}

func TestBot_ChatTurn(t *testing.T) {
	client := &ai.FakeClient{
		Sentiments: []domain.SentimentResult{positiveResult()},
		Reply:      "Glad to hear it!",
	}
	bot := NewBot(client, Options{})

	result, err := bot.Chat(context.Background(), "I love this")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if result.Response != "Glad to hear it!" {
		t.Errorf("Expected reply, got %q", result.Response)
	}
	if result.Sentiment.Sentiment != domain.SentimentPositive {
		t.Errorf("Expected positive sentiment, got %q", result.Sentiment.Sentiment)
	}
	if result.State.Mood != domain.SentimentPositive {
		t.Errorf("Expected positive mood, got %q", result.State.Mood)
	}
	if result.State.EngagementLevel != "high" {
		t.Errorf("Expected high engagement, got %q", result.State.EngagementLevel)
	}
	if !strings.Contains(result.MoodContext, "Current mood: positive") {
		t.Errorf("Expected mood context to carry the mood, got %q", result.MoodContext)
	}
}

func TestBot_HistoryGrowsTwoPerTurn(t *testing.T) {
	bot := NewBot(&ai.FakeClient{}, Options{})

	turns := 5
	for i := 0; i < turns; i++ {
		if _, err := bot.Chat(context.Background(), "hello"); err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
	}

	if got, want := len(bot.History()), 1+2*turns; got != want {
		t.Errorf("Expected %d history entries, got %d", want, got)
	}
	if got := len(bot.SentimentHistory()); got != turns {
		t.Errorf("Expected %d sentiment entries, got %d", turns, got)
	}
	if got := len(bot.UserMessages()); got != turns {
		t.Errorf("Expected %d user messages, got %d", turns, got)
	}
}

func TestBot_UserMessageCarriesSentiment(t *testing.T) {
	client := &ai.FakeClient{Sentiments: []domain.SentimentResult{positiveResult()}}
	bot := NewBot(client, Options{})

	if _, err := bot.Chat(context.Background(), "great"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	history := bot.History()
	userMsg := history[1]
	if userMsg.Role != domain.RoleUser {
		t.Fatalf("Expected user message at index 1, got %s", userMsg.Role)
	}
	if userMsg.Sentiment == nil || userMsg.Sentiment.Sentiment != domain.SentimentPositive {
		t.Errorf("Expected user message annotated with sentiment, got %+v", userMsg.Sentiment)
	}
	if history[2].Sentiment != nil {
		t.Error("Expected assistant message without sentiment annotation")
	}
}

func TestBot_ReplyRequestCarriesContext(t *testing.T) {
	client := &ai.FakeClient{
		Sentiments: []domain.SentimentResult{positiveResult()},
		Reply:      "ok",
	}
	bot := NewBot(client, Options{HistoryWindow: 4})

	for i := 0; i < 6; i++ {
		if _, err := bot.Chat(context.Background(), "message"); err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
	}

	last := client.ReplyRequests[len(client.ReplyRequests)-1]
	if len(last.History) != 4 {
		t.Errorf("Expected context window of 4, got %d", len(last.History))
	}
	// The newest user message is the final context entry.
	if tail := last.History[len(last.History)-1]; tail.Role != string(domain.RoleUser) {
		t.Errorf("Expected window to end with the user message, got %s", tail.Role)
	}
	if last.CurrentMood != domain.SentimentPositive {
		t.Errorf("Expected current mood positive, got %q", last.CurrentMood)
	}
	if !strings.Contains(last.SentimentContext, "User sentiment: positive") {
		t.Errorf("Expected sentiment context line, got %q", last.SentimentContext)
	}
	if !strings.Contains(last.SentimentContext, "happy (high)") {
		t.Errorf("Expected emotion and intensity in context, got %q", last.SentimentContext)
	}
}

func TestBot_FallbackReplyOnGenerationFailure(t *testing.T) {
	client := &ai.FakeClient{ReplyErr: errors.New("upstream 500")}
	bot := NewBot(client, Options{})

	result, err := bot.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Expected degraded turn, got error: %v", err)
	}
	if result.Response != fallbackReply {
		t.Errorf("Expected fallback reply, got %q", result.Response)
	}
	// The degraded turn is still recorded in full.
	if got := len(bot.History()); got != 3 {
		t.Errorf("Expected 3 history entries, got %d", got)
	}
}

func TestBot_CancelledContextAbortsBeforeRecording(t *testing.T) {
	bot := NewBot(&ai.FakeClient{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := bot.Chat(ctx, "hello"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if got := len(bot.History()); got != 1 {
		t.Errorf("Expected history untouched (1 entry), got %d", got)
	}
}

func TestBot_Reset(t *testing.T) {
	client := &ai.FakeClient{Sentiments: []domain.SentimentResult{positiveResult()}}
	bot := NewBot(client, Options{SystemPrompt: "custom prompt"})

	for i := 0; i < 3; i++ {
		if _, err := bot.Chat(context.Background(), "hi"); err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
	}

	bot.Reset()

	if got := len(bot.History()); got != 1 {
		t.Fatalf("Expected only the system message after reset, got %d entries", got)
	}
	if bot.History()[0].Content != "custom prompt" {
		t.Errorf("Expected reset to re-seed the custom prompt, got %q", bot.History()[0].Content)
	}
	if len(bot.SentimentHistory()) != 0 {
		t.Errorf("Expected empty sentiment history after reset, got %d", len(bot.SentimentHistory()))
	}
	if state := bot.StateSnapshot(); state.Mood != domain.SentimentNeutral || state.EngagementLevel != "normal" {
		t.Errorf("Expected fresh state after reset, got %+v", state)
	}
}

func TestBot_SetPersonalityReplacesInPlace(t *testing.T) {
	bot := NewBot(&ai.FakeClient{}, Options{})

	if _, err := bot.Chat(context.Background(), "hi"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	before := len(bot.History())

	bot.SetPersonality("You are a pirate.")

	if got := len(bot.History()); got != before {
		t.Errorf("Expected history length unchanged (%d), got %d", before, got)
	}
	if bot.History()[0].Content != "You are a pirate." {
		t.Errorf("Expected system message replaced, got %q", bot.History()[0].Content)
	}
	if bot.SystemPrompt() != "You are a pirate." {
		t.Errorf("Expected stored prompt updated, got %q", bot.SystemPrompt())
	}
}

func TestBot_Statistics(t *testing.T) {
	client := &ai.FakeClient{
		Sentiments: []domain.SentimentResult{
			positiveResult(),
			{Sentiment: domain.SentimentNegative, Emotion: "sad", EmotionIntensity: domain.IntensityLow},
		},
	}
	bot := NewBot(client, Options{})

	for _, msg := range []string{"good", "bad"} {
		if _, err := bot.Chat(context.Background(), msg); err != nil {
			t.Fatalf("Chat failed: %v", err)
		}
	}

	stats := bot.Statistics()
	if stats.TotalMessages != 4 {
		t.Errorf("Expected 4 total messages (system excluded), got %d", stats.TotalMessages)
	}
	if stats.UserMessages != 2 || stats.AssistantMessages != 2 {
		t.Errorf("Expected 2 user and 2 assistant messages, got %d/%d", stats.UserMessages, stats.AssistantMessages)
	}
	if stats.SentimentStats.Positive != 1 || stats.SentimentStats.Negative != 1 {
		t.Errorf("Expected 1 positive and 1 negative, got %+v", stats.SentimentStats)
	}
	if stats.ConversationState.Mood != domain.SentimentNegative {
		t.Errorf("Expected latest mood negative, got %q", stats.ConversationState.Mood)
	}
}
