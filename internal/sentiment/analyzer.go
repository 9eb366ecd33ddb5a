// Package sentiment provides the AI-backed per-session sentiment analyzer.
package sentiment

import (
	"context"
	"log/slog"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
)

// Analyzer classifies user messages through the AI collaborator and keeps an
// ordered, append-only history of results for the session. It is not safe for
// concurrent use; each session serializes its turns.
type Analyzer struct {
	client  ai.Client
	history []domain.SentimentResult
}

// NewAnalyzer creates an analyzer backed by the given collaborator client.
func NewAnalyzer(client ai.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze classifies text and appends the result to history. Classification
// failures degrade to safe defaults; a turn is never blocked on sentiment.
func (a *Analyzer) Analyze(ctx context.Context, text string) domain.SentimentResult {
	result, err := a.client.ClassifySentiment(ctx, text)
	if err != nil {
		slog.Warn("sentiment classification failed, using defaults", "error", err)
		result = domain.DefaultSentimentResult()
	}
	a.history = append(a.history, result)
	return result
}

// History returns the accumulated sentiment results in turn order.
func (a *Analyzer) History() []domain.SentimentResult {
	return a.history
}

// Stats summarizes the analyzer's history.
type Stats struct {
	TotalMessages int                     `json:"total_messages"`
	Positive      int                     `json:"positive"`
	Negative      int                     `json:"negative"`
	Neutral       int                     `json:"neutral"`
	LastResult    *domain.SentimentResult `json:"last_result,omitempty"`
}

// SummaryStats returns counts over the accumulated history.
func (a *Analyzer) SummaryStats() Stats {
	stats := Stats{TotalMessages: len(a.history)}
	for _, r := range a.history {
		switch r.Sentiment {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}
	if n := len(a.history); n > 0 {
		last := a.history[n-1]
		stats.LastResult = &last
	}
	return stats
}

// Clear empties the history.
func (a *Analyzer) Clear() {
	a.history = nil
}

// Restore replaces the history, used when rehydrating a persisted session.
func (a *Analyzer) Restore(history []domain.SentimentResult) {
	a.history = history
}
