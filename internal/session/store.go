// Package session maps session IDs to chat agents, with snapshot persistence
// and TTL eviction. It replaces an unbounded global registry with an explicit
// store so idle sessions cannot grow memory forever.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/moodchat/internal/chat"
	"github.com/ashureev/moodchat/internal/domain"
	"github.com/ashureev/moodchat/internal/store"
)

const sweepInterval = 5 * time.Minute

// Factory builds a fresh agent for a new session.
type Factory func() *chat.SmartBot

// Session pairs one agent with its serialization lock. Agents are not safe
// for concurrent use; all access goes through Do.
type Session struct {
	ID string

	mu       sync.Mutex
	bot      *chat.SmartBot
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's agent. Turns for the
// same session are serialized here; distinct sessions run independently.
func (s *Session) Do(fn func(bot *chat.SmartBot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.bot)
}

func (s *Session) snapshotJSON() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.bot.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal session snapshot: %w", err)
	}
	return string(data), nil
}

// Store is the session registry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  Factory
	repo     store.Repository
	ttl      time.Duration
}

// NewStore creates a registry. repo may be nil to disable persistence.
func NewStore(factory Factory, repo store.Repository, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		factory:  factory,
		repo:     repo,
		ttl:      ttl,
	}
}

// Get returns the session for id, creating it if needed. A new session is
// rehydrated from its persisted snapshot when one exists.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	bot := s.factory()
	if s.repo != nil {
		record, err := s.repo.GetSession(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}
		if record != nil {
			var snap chat.Snapshot
			if err := json.Unmarshal([]byte(record.SnapshotJSON), &snap); err != nil {
				slog.Warn("discarding corrupt session snapshot", "session_id", id, "error", err)
			} else {
				bot.RestoreSnapshot(snap)
			}
		}
	}

	sess := &Session{ID: id, bot: bot, lastSeen: time.Now()}
	s.sessions[id] = sess
	return sess, nil
}

// Save persists the session's current snapshot. Handlers call this after
// every mutating operation.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if s.repo == nil {
		return nil
	}
	snapshot, err := sess.snapshotJSON()
	if err != nil {
		return err
	}
	now := time.Now()
	return s.repo.UpsertSession(ctx, &domain.SessionRecord{
		SessionID:    sess.ID,
		SnapshotJSON: snapshot,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Len reports the number of in-memory sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartEvictionWorker runs a background goroutine that periodically sweeps
// idle sessions out of memory and deletes their persisted snapshots.
func (s *Store) StartEvictionWorker(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("session eviction worker started", "interval", sweepInterval, "ttl", s.ttl)

		for {
			select {
			case <-ticker.C:
				s.sweep(ctx)
			case <-ctx.Done():
				slog.Info("session eviction worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (s *Store) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		slog.Info("evicting idle session", "session_id", id)
		if s.repo != nil {
			if err := s.repo.DeleteSession(ctx, id); err != nil {
				slog.Warn("failed to delete expired session snapshot", "session_id", id, "error", err)
			}
		}
	}

	// Rows for sessions never reloaded into memory expire on the same TTL.
	if s.repo != nil {
		if deleted, err := s.repo.CleanupExpiredSessions(ctx, s.ttl); err != nil {
			slog.Error("failed to cleanup expired session snapshots", "error", err)
		} else if deleted > 0 {
			slog.Info("cleaned up expired session snapshots", "count", deleted)
		}
	}

	if len(expired) > 0 {
		slog.Info("session sweep completed", "evicted", len(expired))
	}
}
