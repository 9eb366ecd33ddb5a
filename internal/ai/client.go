// Package ai defines the capability contract for the external language-model
// collaborator and its OpenAI-backed implementation.
package ai

import (
	"context"

	"github.com/ashureev/moodchat/internal/domain"
)

// Client is the collaborator contract consumed by the core. Every call may
// fail or return a partially populated payload; callers degrade to the
// defaults below rather than surfacing collaborator failures as broken turns.
type Client interface {
	// ClassifySentiment classifies one user message.
	ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error)

	// GenerateReply produces the assistant reply for the current turn.
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)

	// AnalyzeTrend analyzes sentiment trends over the session.
	AnalyzeTrend(ctx context.Context, history []domain.SentimentResult) (TrendAnalysis, error)

	// ExtractKeywords extracts keywords and themes from the conversation.
	ExtractKeywords(ctx context.Context, conversation []domain.ContextEntry) (KeywordSet, error)

	// Summarize produces a conversation summary with tone and mood journey.
	Summarize(ctx context.Context, conversation []domain.ContextEntry) (ConversationSummary, error)

	// RenderMoodGraph renders an ASCII mood visualization.
	RenderMoodGraph(ctx context.Context, history []domain.SentimentResult) (string, error)

	// RenderEmotionProfile renders a textual emotion profile.
	RenderEmotionProfile(ctx context.Context, history []domain.SentimentResult) (string, error)
}

// ReplyRequest carries everything the generation call needs: the new user
// message, the bounded context window, the running mood, and the synthesized
// one-line sentiment context.
type ReplyRequest struct {
	UserMessage      string
	History          []domain.ContextEntry
	CurrentMood      string
	SentimentContext string
}

// TrendAnalysis is the collaborator's trend payload.
type TrendAnalysis struct {
	Trend          string   `json:"trend"`
	Direction      string   `json:"direction"`
	MoodShifts     []string `json:"mood_shifts"`
	EmotionalPeaks []string `json:"emotional_peaks"`
	Analysis       string   `json:"analysis"`
	Prediction     string   `json:"prediction"`
}

// DefaultTrendAnalysis is the degradation value for failed trend calls.
func DefaultTrendAnalysis() TrendAnalysis {
	return TrendAnalysis{
		Trend:          "stable",
		Direction:      "neutral",
		MoodShifts:     []string{},
		EmotionalPeaks: []string{},
		Analysis:       "No analysis available.",
		Prediction:     "Unable to predict.",
	}
}

// Normalize fills defaulted values into any field the collaborator left empty.
func (t TrendAnalysis) Normalize() TrendAnalysis {
	def := DefaultTrendAnalysis()
	if t.Trend == "" {
		t.Trend = def.Trend
	}
	if t.Direction == "" {
		t.Direction = def.Direction
	}
	if t.MoodShifts == nil {
		t.MoodShifts = []string{}
	}
	if t.EmotionalPeaks == nil {
		t.EmotionalPeaks = []string{}
	}
	if t.Analysis == "" {
		t.Analysis = def.Analysis
	}
	if t.Prediction == "" {
		t.Prediction = def.Prediction
	}
	return t
}

// KeywordSet is the collaborator's keyword extraction payload.
type KeywordSet struct {
	Keywords         []string `json:"keywords"`
	Themes           []string `json:"themes"`
	TopicsOfInterest []string `json:"topics_of_interest"`
}

// DefaultKeywordSet is the degradation value for failed keyword calls.
func DefaultKeywordSet() KeywordSet {
	return KeywordSet{
		Keywords:         []string{},
		Themes:           []string{},
		TopicsOfInterest: []string{},
	}
}

// Normalize replaces nil slices with empty ones.
func (k KeywordSet) Normalize() KeywordSet {
	if k.Keywords == nil {
		k.Keywords = []string{}
	}
	if k.Themes == nil {
		k.Themes = []string{}
	}
	if k.TopicsOfInterest == nil {
		k.TopicsOfInterest = []string{}
	}
	return k
}

// ConversationSummary is the collaborator's summarization payload.
type ConversationSummary struct {
	Summary         string   `json:"summary"`
	OverallTone     string   `json:"overall_tone"`
	UserMoodJourney string   `json:"user_mood_journey"`
	KeyPoints       []string `json:"key_points"`
}

// DefaultConversationSummary is the degradation value for failed summary calls.
func DefaultConversationSummary() ConversationSummary {
	return ConversationSummary{
		Summary:         "No summary available.",
		OverallTone:     "neutral",
		UserMoodJourney: "stable",
		KeyPoints:       []string{},
	}
}

// Normalize fills defaulted values into any field the collaborator left empty.
func (s ConversationSummary) Normalize() ConversationSummary {
	def := DefaultConversationSummary()
	if s.Summary == "" {
		s.Summary = def.Summary
	}
	if s.OverallTone == "" {
		s.OverallTone = def.OverallTone
	}
	if s.UserMoodJourney == "" {
		s.UserMoodJourney = def.UserMoodJourney
	}
	if s.KeyPoints == nil {
		s.KeyPoints = []string{}
	}
	return s
}
