package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
)

// KVEntry is a stored value with its last write time.
type KVEntry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// KVRepo persists opaque values under string keys.
type KVRepo interface {
	Get(ctx context.Context, key string) (*KVEntry, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}

// SyncLogRepo records finished remote sync attempts.
type SyncLogRepo interface {
	Append(ctx context.Context, r *domain.SyncRecord) error
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRecord, error)
	LastSuccess(ctx context.Context, direction domain.SyncDirection) (*domain.SyncRecord, error)
	Clear(ctx context.Context) error
}
