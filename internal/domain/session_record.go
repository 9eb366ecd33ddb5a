package domain

import (
	"time"
)

// SessionRecord is the persisted snapshot row for one chat session. The
// snapshot payload is an opaque JSON blob owned by the chat package.
type SessionRecord struct {
	SessionID    string
	SnapshotJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
