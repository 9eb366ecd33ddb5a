// Package analytics aggregates conversation insights: thin delegations to the
// AI collaborator plus locally computed descriptive statistics and report
// formatting.
package analytics

import (
	"context"
	"log/slog"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
)

// Analytics is a stateless façade over the collaborator's analysis calls.
// Every delegated call degrades to documented defaults on failure, so the
// aggregate report never partially fails.
type Analytics struct {
	client ai.Client
}

// New creates an analytics façade.
func New(client ai.Client) *Analytics {
	return &Analytics{client: client}
}

// Trends analyzes sentiment trends over the session.
func (a *Analytics) Trends(ctx context.Context, history []domain.SentimentResult) ai.TrendAnalysis {
	trends, err := a.client.AnalyzeTrend(ctx, history)
	if err != nil {
		slog.Warn("trend analysis failed, using defaults", "error", err)
		return ai.DefaultTrendAnalysis()
	}
	return trends
}

// Keywords extracts keywords and themes from the conversation.
func (a *Analytics) Keywords(ctx context.Context, conversation []domain.ContextEntry) ai.KeywordSet {
	keywords, err := a.client.ExtractKeywords(ctx, conversation)
	if err != nil {
		slog.Warn("keyword extraction failed, using defaults", "error", err)
		return ai.DefaultKeywordSet()
	}
	return keywords
}

// Summary produces the conversation summary.
func (a *Analytics) Summary(ctx context.Context, conversation []domain.ContextEntry) ai.ConversationSummary {
	summary, err := a.client.Summarize(ctx, conversation)
	if err != nil {
		slog.Warn("summarization failed, using defaults", "error", err)
		return ai.DefaultConversationSummary()
	}
	return summary
}

// MoodGraph renders the session's mood visualization. Before any turn it
// returns a placeholder; when the collaborator fails it falls back to a
// locally rendered graph over the sentiment labels.
func (a *Analytics) MoodGraph(ctx context.Context, history []domain.SentimentResult) string {
	if len(history) == 0 {
		return emptyGraphPlaceholder
	}
	graph, err := a.client.RenderMoodGraph(ctx, history)
	if err != nil {
		slog.Warn("mood graph rendering failed, using local fallback", "error", err)
		values := make([]float64, len(history))
		for i, r := range history {
			values[i] = moodValue(r.Sentiment)
		}
		return asciiGraph(values, 10)
	}
	return graph
}

// EmotionProfile renders the session's emotion profile.
func (a *Analytics) EmotionProfile(ctx context.Context, history []domain.SentimentResult) string {
	profile, err := a.client.RenderEmotionProfile(ctx, history)
	if err != nil {
		slog.Warn("emotion profile rendering failed, using default", "error", err)
		return "No profile available."
	}
	return profile
}

// Report is the complete analytics record. No field is optional; delegated
// sections carry their defaults when the collaborator was unavailable.
type Report struct {
	Summary        ai.ConversationSummary `json:"summary"`
	Trends         ai.TrendAnalysis       `json:"trends"`
	Keywords       ai.KeywordSet          `json:"keywords"`
	Statistics     Statistics             `json:"statistics"`
	MoodGraph      string                 `json:"mood_graph"`
	EmotionProfile string                 `json:"emotion_profile"`
}

// FullReport composes all delegated analyses with local statistics.
func (a *Analytics) FullReport(ctx context.Context, conversation []domain.ContextEntry, history []domain.SentimentResult) Report {
	return Report{
		Summary:        a.Summary(ctx, conversation),
		Trends:         a.Trends(ctx, history),
		Keywords:       a.Keywords(ctx, conversation),
		Statistics:     CalculateStatistics(history),
		MoodGraph:      a.MoodGraph(ctx, history),
		EmotionProfile: a.EmotionProfile(ctx, history),
	}
}
