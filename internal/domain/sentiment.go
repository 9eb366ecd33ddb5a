package domain

// Sentiment labels produced by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Emotion intensity labels.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// SentimentResult is one classification of a user message. The shape is owned
// by the AI collaborator contract; this layer only consumes it.
type SentimentResult struct {
	Sentiment        string  `json:"sentiment"`
	Emotion          string  `json:"emotion"`
	EmotionIntensity string  `json:"emotion_intensity"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
}

// DefaultSentimentResult returns the safe fallback used when classification
// fails or returns a malformed payload. Sentiment analysis must never block a
// conversation turn.
func DefaultSentimentResult() SentimentResult {
	return SentimentResult{
		Sentiment:        SentimentNeutral,
		Emotion:          "neutral",
		EmotionIntensity: IntensityMedium,
		Confidence:       0.5,
		Reasoning:        "Sentiment analysis unavailable",
	}
}

// Normalize fills in defaults for any field the collaborator left empty or
// out of range, so downstream code always sees a well-formed result.
func (r SentimentResult) Normalize() SentimentResult {
	switch r.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		r.Sentiment = SentimentNeutral
	}
	if r.Emotion == "" {
		r.Emotion = "neutral"
	}
	switch r.EmotionIntensity {
	case IntensityLow, IntensityMedium, IntensityHigh:
	default:
		r.EmotionIntensity = IntensityMedium
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		r.Confidence = 0.5
	}
	return r
}
