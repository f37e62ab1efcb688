package domain

import "time"

// SyncState is the remote sync status shown to the user.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncSyncing SyncState = "syncing"
	SyncSynced  SyncState = "synced"
	SyncError   SyncState = "error"
)

type SyncDirection string

const (
	SyncPush SyncDirection = "push"
	SyncPull SyncDirection = "pull"
)

// SyncRecord is one finished remote sync attempt.
type SyncRecord struct {
	ID         int64
	Direction  SyncDirection
	State      SyncState
	Message    string
	Revision   string
	StartedAt  time.Time
	FinishedAt time.Time
}
