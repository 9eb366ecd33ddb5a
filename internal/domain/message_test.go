package domain

import (
	"strconv"
	"testing"
)

func makeHistory(n int) []Message {
	history := []Message{NewMessage(RoleSystem, "prompt", nil)}
	for i := 0; i < n; i++ {
		history = append(history, NewMessage(RoleUser, "u"+strconv.Itoa(i), nil))
		history = append(history, NewMessage(RoleAssistant, "a"+strconv.Itoa(i), nil))
	}
	return history
}

func TestContextWindow_BoundsHistory(t *testing.T) {
	history := makeHistory(10) // 21 messages including system

	window := ContextWindow(history, 10)
	if len(window) != 10 {
		t.Fatalf("Expected window of 10, got %d", len(window))
	}

	// The window holds the most recent messages in order.
	last := window[len(window)-1]
	if last.Role != string(RoleAssistant) || last.Content != "a9" {
		t.Errorf("Expected last entry assistant/a9, got %s/%s", last.Role, last.Content)
	}
}

func TestContextWindow_ShortHistory(t *testing.T) {
	history := makeHistory(2) // 5 messages

	window := ContextWindow(history, 10)
	if len(window) != 5 {
		t.Fatalf("Expected full history of 5, got %d", len(window))
	}
	if window[0].Role != string(RoleSystem) {
		t.Errorf("Expected first entry system, got %s", window[0].Role)
	}
}

func TestStripSystem(t *testing.T) {
	history := makeHistory(3)

	entries := StripSystem(history)
	if len(entries) != 6 {
		t.Fatalf("Expected 6 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Role == string(RoleSystem) {
			t.Errorf("Expected no system entries, got %v", e)
		}
	}
}

func TestSentimentResult_Normalize(t *testing.T) {
	got := SentimentResult{Sentiment: "ecstatic", Confidence: 1.5}.Normalize()

	if got.Sentiment != SentimentNeutral {
		t.Errorf("Expected unknown sentiment to normalize to neutral, got %q", got.Sentiment)
	}
	if got.Emotion != "neutral" {
		t.Errorf("Expected empty emotion to normalize to neutral, got %q", got.Emotion)
	}
	if got.EmotionIntensity != IntensityMedium {
		t.Errorf("Expected empty intensity to normalize to medium, got %q", got.EmotionIntensity)
	}
	if got.Confidence != 0.5 {
		t.Errorf("Expected out-of-range confidence to normalize to 0.5, got %v", got.Confidence)
	}

	valid := SentimentResult{Sentiment: SentimentPositive, Emotion: "happy", EmotionIntensity: IntensityHigh, Confidence: 0.9}
	if norm := valid.Normalize(); norm != valid {
		t.Errorf("Expected valid result unchanged, got %+v", norm)
	}
}
