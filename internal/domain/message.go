// Package domain holds the conversation entity model shared across the service.
package domain

import (
	"time"
)

// Role identifies a conversation participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a session's conversation history. Messages are
// immutable once created; history is append-only except for the in-place
// system-message replacement performed by personality changes.
type Message struct {
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Sentiment *SentimentResult `json:"sentiment,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string, sentiment *SentimentResult) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Sentiment: sentiment,
	}
}

// ContextEntry is the reduced {role, content} form of a message used when
// building the bounded prompt context for reply generation.
type ContextEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContextWindow reduces the last n messages to context entries. It bounds the
// prompt sent to the generation collaborator as a cost control.
func ContextWindow(history []Message, n int) []ContextEntry {
	start := 0
	if len(history) > n {
		start = len(history) - n
	}
	window := make([]ContextEntry, 0, len(history)-start)
	for _, msg := range history[start:] {
		window = append(window, ContextEntry{Role: string(msg.Role), Content: msg.Content})
	}
	return window
}

// StripSystem returns the history reduced to context entries with system
// messages removed, the form handed to summarization and keyword extraction.
func StripSystem(history []Message) []ContextEntry {
	entries := make([]ContextEntry, 0, len(history))
	for _, msg := range history {
		if msg.Role == RoleSystem {
			continue
		}
		entries = append(entries, ContextEntry{Role: string(msg.Role), Content: msg.Content})
	}
	return entries
}
