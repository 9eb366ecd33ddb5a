package domain

// ConversationState is the running mood/engagement summary for one session.
// It always reflects the most recently processed sentiment result; it is
// advanced incrementally by Update and never recomputed from full history.
type ConversationState struct {
	Mood            string   `json:"mood"`
	EngagementLevel string   `json:"engagement_level"`
	TopicsDiscussed []string `json:"topics_discussed"`
	SentimentTrend  string   `json:"sentiment_trend"`
	LastEmotion     string   `json:"last_emotion"`
}

// NewConversationState returns a state with neutral defaults.
func NewConversationState() *ConversationState {
	return &ConversationState{
		Mood:            SentimentNeutral,
		EngagementLevel: "normal",
		TopicsDiscussed: []string{},
		SentimentTrend:  "stable",
		LastEmotion:     "neutral",
	}
}

// Update is the sole mutator. It unconditionally overwrites mood and last
// emotion from the result and derives engagement from the latest intensity
// alone, with no hysteresis or smoothing.
func (s *ConversationState) Update(result SentimentResult) {
	s.Mood = result.Sentiment
	s.LastEmotion = result.Emotion

	switch result.EmotionIntensity {
	case IntensityHigh:
		s.EngagementLevel = "high"
	case IntensityLow:
		s.EngagementLevel = "low"
	default:
		s.EngagementLevel = "normal"
	}
}
