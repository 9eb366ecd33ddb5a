package analytics

import (
	"github.com/ashureev/moodchat/internal/domain"
)

// Statistics are local, deterministic aggregates over a sentiment-history
// sequence. No collaborator call is involved.
type Statistics struct {
	TotalMessages         int            `json:"total_messages"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	EmotionDistribution   map[string]int `json:"emotion_distribution"`
	AverageConfidence     float64        `json:"average_confidence"`
	DominantSentiment     string         `json:"dominant_sentiment,omitempty"`
	DominantEmotion       string         `json:"dominant_emotion,omitempty"`
}

// counter tallies labels while preserving first-seen order, so dominant-label
// ties resolve deterministically to the earliest label encountered.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if label == "" {
		label = "neutral"
	}
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *counter) dominant() string {
	best := ""
	bestCount := 0
	for _, label := range c.order {
		if c.counts[label] > bestCount {
			best = label
			bestCount = c.counts[label]
		}
	}
	return best
}

// CalculateStatistics computes descriptive statistics over sentiment history.
// An empty history yields zeroed fields with empty (non-nil) distributions.
// A zero confidence is treated as absent and defaults to 0.5.
func CalculateStatistics(history []domain.SentimentResult) Statistics {
	stats := Statistics{
		SentimentDistribution: map[string]int{},
		EmotionDistribution:   map[string]int{},
	}
	if len(history) == 0 {
		return stats
	}

	sentiments := newCounter()
	emotions := newCounter()
	total := 0.0
	for _, item := range history {
		sentiments.add(item.Sentiment)
		emotions.add(item.Emotion)

		confidence := item.Confidence
		if confidence == 0 {
			confidence = 0.5
		}
		total += confidence
	}

	stats.TotalMessages = len(history)
	stats.SentimentDistribution = sentiments.counts
	stats.EmotionDistribution = emotions.counts
	stats.AverageConfidence = total / float64(len(history))
	stats.DominantSentiment = sentiments.dominant()
	stats.DominantEmotion = emotions.dominant()
	return stats
}
