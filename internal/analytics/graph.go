package analytics

import (
	"strings"

	"github.com/ashureev/moodchat/internal/domain"
)

// emptyGraphPlaceholder is shown before any turn has been processed.
const emptyGraphPlaceholder = "📊 No conversation data yet.\n\n" +
	"Start chatting to see your mood graph!\n\n" +
	"The graph will show:\n" +
	"• Your emotional journey over time\n" +
	"• Sentiment trends (positive/neutral/negative)\n" +
	"• Visual representation of mood shifts"

// moodValue projects a sentiment label onto the 0..1 graph scale.
func moodValue(sentiment string) float64 {
	switch sentiment {
	case domain.SentimentPositive:
		return 1.0
	case domain.SentimentNegative:
		return 0.0
	default:
		return 0.5
	}
}

// asciiGraph renders a bar column per value on a 0..1 scale. It is the local
// fallback when the collaborator's mood graph is unavailable.
func asciiGraph(values []float64, height int) string {
	if len(values) == 0 {
		return "No data to display."
	}
	if height <= 0 {
		height = 10
	}

	maxVal, minVal := values[0], values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
		if v < minVal {
			minVal = v
		}
	}
	rangeVal := maxVal - minVal
	if rangeVal == 0 {
		rangeVal = 1
	}

	normalized := make([]float64, len(values))
	for i, v := range values {
		normalized[i] = (v - minVal) / rangeVal
	}

	var lines []string
	for row := height; row >= 0; row-- {
		threshold := float64(row) / float64(height)
		var line strings.Builder
		line.WriteString("│")
		for _, v := range normalized {
			if v >= threshold {
				line.WriteString("█")
			} else {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	lines = append(lines, "└"+strings.Repeat("─", len(values)))

	return strings.Join(lines, "\n")
}
