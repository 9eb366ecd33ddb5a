package chat

import (
	"context"

	"github.com/ashureev/moodchat/internal/ai"
	"github.com/ashureev/moodchat/internal/domain"
)

const defaultShiftWindow = 2

// MoodShift describes a directional sentiment change between consecutive
// turns.
type MoodShift struct {
	Direction string `json:"direction"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// UIHints is presentation metadata derived from the turn's sentiment. The
// tables are fixed for compatibility with existing clients.
type UIHints struct {
	SuggestedColor string `json:"suggested_color"`
	EmotionIcon    string `json:"emotion_icon"`
	IntensityLevel int    `json:"intensity_level"`
}

// SmartTurnResult extends a turn result with mood-shift detection and UI
// hints.
type SmartTurnResult struct {
	TurnResult
	MoodShift *MoodShift `json:"mood_shift_detected"`
	UIHints   UIHints    `json:"ui_hints"`
}

// SmartBot layers mood-shift detection and UI-hint derivation over a Bot.
// Composition rather than embedding keeps the base turn pipeline independent
// of the decoration.
type SmartBot struct {
	bot           *Bot
	shiftWindow   int
	previousMoods []string
}

// NewSmartBot creates a decorated bot.
func NewSmartBot(client ai.Client, opts Options) *SmartBot {
	window := opts.ShiftWindow
	if window <= 0 {
		window = defaultShiftWindow
	}
	return &SmartBot{
		bot:         NewBot(client, opts),
		shiftWindow: window,
	}
}

// Chat runs the base turn, records the sentiment label in the mood window,
// and decorates the result.
func (s *SmartBot) Chat(ctx context.Context, userMessage string) (SmartTurnResult, error) {
	result, err := s.bot.Chat(ctx, userMessage)
	if err != nil {
		return SmartTurnResult{}, err
	}

	s.previousMoods = append(s.previousMoods, result.Sentiment.Sentiment)

	return SmartTurnResult{
		TurnResult: result,
		MoodShift:  detectMoodShift(s.previousMoods, s.shiftWindow),
		UIHints:    deriveUIHints(result.Sentiment),
	}, nil
}

// moodOrdinal maps sentiment labels for shift direction comparison. Unknown
// labels map to 0.
var moodOrdinal = map[string]int{
	domain.SentimentPositive: 1,
	domain.SentimentNeutral:  0,
	domain.SentimentNegative: -1,
}

// detectMoodShift inspects the trailing window of sentiment labels. No shift
// is reported until the window is full, when all labels agree, or on ties.
func detectMoodShift(moods []string, window int) *MoodShift {
	if len(moods) < window {
		return nil
	}
	recent := moods[len(moods)-window:]

	consistent := true
	for _, m := range recent[1:] {
		if m != recent[0] {
			consistent = false
			break
		}
	}
	if consistent {
		return nil
	}

	if len(recent) < 2 {
		return nil
	}
	from := recent[len(recent)-2]
	to := recent[len(recent)-1]
	prev := moodOrdinal[from]
	curr := moodOrdinal[to]

	switch {
	case curr > prev:
		return &MoodShift{Direction: "improving", From: from, To: to}
	case curr < prev:
		return &MoodShift{Direction: "declining", From: from, To: to}
	default:
		return nil
	}
}

var emotionColors = map[string]string{
	"happy":      "#4CAF50",
	"excited":    "#FF9800",
	"sad":        "#2196F3",
	"angry":      "#F44336",
	"confused":   "#9C27B0",
	"anxious":    "#607D8B",
	"neutral":    "#9E9E9E",
	"frustrated": "#E91E63",
	"hopeful":    "#00BCD4",
	"surprised":  "#FFEB3B",
}

var emotionIcons = map[string]string{
	"happy":      "😊",
	"excited":    "🎉",
	"sad":        "😢",
	"angry":      "😠",
	"confused":   "😕",
	"anxious":    "😰",
	"neutral":    "😐",
	"frustrated": "😤",
	"hopeful":    "🌟",
	"surprised":  "😮",
}

var intensityLevels = map[string]int{
	domain.IntensityLow:    1,
	domain.IntensityMedium: 2,
	domain.IntensityHigh:   3,
}

// deriveUIHints is a pure lookup from emotion and intensity labels.
func deriveUIHints(result domain.SentimentResult) UIHints {
	hints := UIHints{
		SuggestedColor: "#9E9E9E",
		EmotionIcon:    "😐",
		IntensityLevel: 2,
	}
	if c, ok := emotionColors[result.Emotion]; ok {
		hints.SuggestedColor = c
	}
	if i, ok := emotionIcons[result.Emotion]; ok {
		hints.EmotionIcon = i
	}
	if l, ok := intensityLevels[result.EmotionIntensity]; ok {
		hints.IntensityLevel = l
	}
	return hints
}

// History returns the full message history.
func (s *SmartBot) History() []domain.Message {
	return s.bot.History()
}

// UserMessages returns the content of all user messages.
func (s *SmartBot) UserMessages() []string {
	return s.bot.UserMessages()
}

// SentimentHistory returns the per-turn sentiment results.
func (s *SmartBot) SentimentHistory() []domain.SentimentResult {
	return s.bot.SentimentHistory()
}

// Statistics returns session tallies.
func (s *SmartBot) Statistics() Statistics {
	return s.bot.Statistics()
}

// StateSnapshot returns a copy of the conversation state.
func (s *SmartBot) StateSnapshot() domain.ConversationState {
	return s.bot.StateSnapshot()
}

// Reset clears the session, including the mood window, so analytics after a
// reset behave identically to a freshly constructed bot.
func (s *SmartBot) Reset() {
	s.bot.Reset()
	s.previousMoods = nil
}

// SetPersonality replaces the system prompt.
func (s *SmartBot) SetPersonality(personality string) {
	s.bot.SetPersonality(personality)
}
