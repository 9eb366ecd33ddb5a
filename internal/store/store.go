// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/moodchat/internal/domain"
)

// Repository persists per-session chat snapshots so sessions survive process
// restarts within their TTL.
type Repository interface {
	// GetSession retrieves a session snapshot, or nil if none exists.
	GetSession(ctx context.Context, sessionID string) (*domain.SessionRecord, error)

	// UpsertSession creates or updates a session snapshot.
	UpsertSession(ctx context.Context, record *domain.SessionRecord) error

	// DeleteSession removes a session snapshot.
	DeleteSession(ctx context.Context, sessionID string) error

	// CleanupExpiredSessions removes snapshots idle for longer than ttl and
	// returns how many were deleted.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
