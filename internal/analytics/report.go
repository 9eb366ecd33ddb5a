package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ashureev/moodchat/internal/domain"
)

// Generator renders analytics reports. Formatting is pure: any absent field
// renders as a placeholder, never an error.
type Generator struct {
	analytics *Analytics
}

// NewGenerator creates a report generator over an analytics façade.
func NewGenerator(analytics *Analytics) *Generator {
	return &Generator{analytics: analytics}
}

// JSONReport returns the raw structured report for machine consumption.
func (g *Generator) JSONReport(ctx context.Context, conversation []domain.ContextEntry, history []domain.SentimentResult) Report {
	return g.analytics.FullReport(ctx, conversation, history)
}

// TextReport renders the full report as a fixed-section text document.
func (g *Generator) TextReport(ctx context.Context, conversation []domain.ContextEntry, history []domain.SentimentResult) string {
	return FormatReport(g.analytics.FullReport(ctx, conversation, history))
}

const reportRule = "============================================================"
const sectionRule = "----------------------------------------"

// FormatReport renders a report record as text. It tolerates zero-valued
// fields by substituting placeholders.
func FormatReport(report Report) string {
	var lines []string
	add := func(s string) { lines = append(lines, s) }

	add(reportRule)
	add("           CONVERSATION ANALYTICS REPORT")
	add(reportRule)
	add("")

	add("📊 CONVERSATION SUMMARY")
	add(sectionRule)
	add("Summary: " + orNA(report.Summary.Summary))
	add("Overall Tone: " + orNA(report.Summary.OverallTone))
	add("Mood Journey: " + orNA(report.Summary.UserMoodJourney))
	if len(report.Summary.KeyPoints) > 0 {
		add("")
		add("Key Points:")
		for _, point := range report.Summary.KeyPoints {
			add("  • " + point)
		}
	}
	add("")

	add("📈 SENTIMENT TRENDS")
	add(sectionRule)
	add("Trend: " + orNA(report.Trends.Trend))
	add("Direction: " + orNA(report.Trends.Direction))
	add("Analysis: " + orNA(report.Trends.Analysis))
	add("Prediction: " + orNA(report.Trends.Prediction))
	if len(report.Trends.MoodShifts) > 0 {
		add("")
		add("Mood Shifts:")
		for _, shift := range report.Trends.MoodShifts {
			add("  ↔ " + shift)
		}
	}
	add("")

	add("🔑 KEYWORDS & THEMES")
	add(sectionRule)
	if len(report.Keywords.Keywords) > 0 {
		add("Keywords: " + strings.Join(report.Keywords.Keywords, ", "))
	}
	if len(report.Keywords.Themes) > 0 {
		add("Themes: " + strings.Join(report.Keywords.Themes, ", "))
	}
	if len(report.Keywords.TopicsOfInterest) > 0 {
		add("Topics of Interest: " + strings.Join(report.Keywords.TopicsOfInterest, ", "))
	}
	add("")

	add("📉 STATISTICS")
	add(sectionRule)
	add(fmt.Sprintf("Total Messages Analyzed: %d", report.Statistics.TotalMessages))
	add(fmt.Sprintf("Average Confidence: %.1f%%", report.Statistics.AverageConfidence*100))
	add("Dominant Sentiment: " + orNA(report.Statistics.DominantSentiment))
	add("Dominant Emotion: " + orNA(report.Statistics.DominantEmotion))
	if len(report.Statistics.SentimentDistribution) > 0 {
		add("")
		add("Sentiment Distribution:")
		for _, label := range sortedByCount(report.Statistics.SentimentDistribution, 0) {
			add(fmt.Sprintf("  %s: %d", capitalize(label), report.Statistics.SentimentDistribution[label]))
		}
	}
	if len(report.Statistics.EmotionDistribution) > 0 {
		add("")
		add("Emotion Distribution:")
		for _, label := range sortedByCount(report.Statistics.EmotionDistribution, 5) {
			add(fmt.Sprintf("  %s: %d", capitalize(label), report.Statistics.EmotionDistribution[label]))
		}
	}
	add("")

	add("📊 MOOD VISUALIZATION")
	add(sectionRule)
	if report.MoodGraph != "" {
		add(report.MoodGraph)
	} else {
		add("No visualization available.")
	}
	add("")

	add("🎭 EMOTION PROFILE")
	add(sectionRule)
	if report.EmotionProfile != "" {
		add(report.EmotionProfile)
	} else {
		add("No profile available.")
	}
	add("")

	add(reportRule)
	add("           END OF REPORT")
	add(reportRule)

	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sortedByCount returns labels in descending count order, ties broken
// alphabetically for stable output. A positive limit truncates the list.
func sortedByCount(dist map[string]int, limit int) []string {
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if dist[labels[i]] != dist[labels[j]] {
			return dist[labels[i]] > dist[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if limit > 0 && len(labels) > limit {
		labels = labels[:limit]
	}
	return labels
}
