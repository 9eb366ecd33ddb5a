package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
)

var errUpstream = errors.New("upstream unavailable")

func TestAnalytics_DegradeToDefaults(t *testing.T) {
	client := &ai.FakeClient{
		TrendErr:    errUpstream,
		KeywordsErr: errUpstream,
		SummaryErr:  errUpstream,
		ProfileErr:  errUpstream,
	}
	a := New(client)
	ctx := context.Background()

	if trends := a.Trends(ctx, nil); trends.Trend != "stable" || trends.Analysis != "No analysis available." {
		t.Errorf("Expected default trends, got %+v", trends)
	}
	if keywords := a.Keywords(ctx, nil); keywords.Keywords == nil || len(keywords.Keywords) != 0 {
		t.Errorf("Expected empty keyword set, got %+v", keywords)
	}
	if summary := a.Summary(ctx, nil); summary.Summary != "No summary available." {
		t.Errorf("Expected default summary, got %+v", summary)
	}
	if profile := a.EmotionProfile(ctx, nil); profile != "No profile available." {
		t.Errorf("Expected default profile, got %q", profile)
	}
}

func TestAnalytics_MoodGraphEmptyHistory(t *testing.T) {
	a := New(&ai.FakeClient{})

	graph := a.MoodGraph(context.Background(), nil)
	if !strings.Contains(graph, "No conversation data yet.") {
		t.Errorf("Expected placeholder graph, got %q", graph)
	}
}

func TestAnalytics_MoodGraphLocalFallback(t *testing.T) {
	a := New(&ai.FakeClient{MoodGraphErr: errUpstream})
	history := []domain.SentimentResult{
		{Sentiment: domain.SentimentNegative},
		{Sentiment: domain.SentimentPositive},
	}

	graph := a.MoodGraph(context.Background(), history)
	if !strings.Contains(graph, "█") {
		t.Errorf("Expected locally rendered bars, got %q", graph)
	}
	if !strings.Contains(graph, "└──") {
		t.Errorf("Expected axis of width 2, got %q", graph)
	}
}

func TestAnalytics_FullReport(t *testing.T) {
	client := &ai.FakeClient{
		Summary:   ai.ConversationSummary{Summary: "Short chat.", OverallTone: "neutral"},
		Trend:     ai.TrendAnalysis{Trend: "stable"},
		MoodGraph: "│█\n└─",
		Profile:   "Calm throughout.",
	}
	a := New(client)
	history := []domain.SentimentResult{{Sentiment: domain.SentimentNeutral, Emotion: "neutral", Confidence: 0.6}}

	report := a.FullReport(context.Background(), nil, history)

	if report.Summary.Summary != "Short chat." {
		t.Errorf("Expected summary, got %+v", report.Summary)
	}
	if report.Statistics.TotalMessages != 1 {
		t.Errorf("Expected 1 analyzed message, got %d", report.Statistics.TotalMessages)
	}
	if report.MoodGraph != "│█\n└─" {
		t.Errorf("Expected collaborator graph, got %q", report.MoodGraph)
	}
	if report.EmotionProfile != "Calm throughout." {
		t.Errorf("Expected profile, got %q", report.EmotionProfile)
	}
}

func TestMoodValue(t *testing.T) {
	if moodValue(domain.SentimentPositive) != 1.0 {
		t.Error("Expected positive to map to 1.0")
	}
	if moodValue(domain.SentimentNegative) != 0.0 {
		t.Error("Expected negative to map to 0.0")
	}
	if moodValue("anything else") != 0.5 {
		t.Error("Expected unknown labels to map to 0.5")
	}
}

func TestAsciiGraph(t *testing.T) {
	graph := asciiGraph([]float64{0.0, 1.0, 0.5}, 4)

	lines := strings.Split(graph, "\n")
	// height+1 rows plus the axis.
	if len(lines) != 6 {
		t.Fatalf("Expected 6 lines, got %d", len(lines))
	}
	for _, line := range lines[:5] {
		if !strings.HasPrefix(line, "│") {
			t.Errorf("Expected row prefix │, got %q", line)
		}
	}
	if lines[5] != "└───" {
		t.Errorf("Expected axis └───, got %q", lines[5])
	}
	// The top row only shows the maximum value's bar.
	if lines[0] != "│ █ " {
		t.Errorf("Expected top row │ █ , got %q", lines[0])
	}

	if asciiGraph(nil, 4) != "No data to display." {
		t.Error("Expected placeholder for empty values")
	}
}
