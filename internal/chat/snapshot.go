package chat

import (
	"github.com/ashureev/moodchat/internal/domain"
)

// Snapshot is the serializable session state persisted between process
// restarts. It captures everything needed to rehydrate a SmartBot.
type Snapshot struct {
	SystemPrompt     string                   `json:"system_prompt"`
	History          []domain.Message         `json:"history"`
	SentimentHistory []domain.SentimentResult `json:"sentiment_history"`
	PreviousMoods    []string                 `json:"previous_moods"`
	State            domain.ConversationState `json:"state"`
}

// Snapshot captures the current session state.
func (s *SmartBot) Snapshot() Snapshot {
	return Snapshot{
		SystemPrompt:     s.bot.systemPrompt,
		History:          append([]domain.Message{}, s.bot.history...),
		SentimentHistory: append([]domain.SentimentResult{}, s.bot.SentimentHistory()...),
		PreviousMoods:    append([]string{}, s.previousMoods...),
		State:            s.bot.StateSnapshot(),
	}
}

// RestoreSnapshot replaces the session state with a persisted snapshot. An
// empty snapshot history keeps the freshly seeded system message.
func (s *SmartBot) RestoreSnapshot(snap Snapshot) {
	if snap.SystemPrompt != "" {
		s.bot.systemPrompt = snap.SystemPrompt
	}
	if len(snap.History) > 0 {
		s.bot.history = snap.History
	}
	s.bot.analyzer.Restore(snap.SentimentHistory)
	s.previousMoods = snap.PreviousMoods

	state := snap.State
	if state.Mood == "" {
		state = *domain.NewConversationState()
	}
	if state.TopicsDiscussed == nil {
		state.TopicsDiscussed = []string{}
	}
	s.bot.state = &state
}
