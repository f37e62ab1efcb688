package service

import (
	"context"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/store"
)

// StateStore persists the working state and preferences.
type StateStore interface {
	LoadState(ctx context.Context) (*store.State, error)
	SaveState(ctx context.Context, st store.State) error
	Theme(ctx context.Context) (domain.Theme, error)
	SetTheme(ctx context.Context, t domain.Theme) error
	View(ctx context.Context) (domain.View, error)
	SetView(ctx context.Context, v domain.View) error
	SyncCache(ctx context.Context) (store.SyncCache, error)
	SetSyncPushed(ctx context.Context, modified time.Time) error
}

// Authenticator is the Auth Gate as the tracker sees it.
type Authenticator interface {
	LocalOnly() bool
	Owner() string
	State() auth.State
	Token() string
	Username() string
	SetCredential(ctx context.Context, token string) error
	Validate(ctx context.Context) (bool, error)
	IsOwner(ctx context.Context) bool
	ViewMode(ctx context.Context) domain.ViewMode
	Logout(ctx context.Context) error
}

// Syncer is the Remote Sync Engine as the tracker sees it.
type Syncer interface {
	FetchRemote(ctx context.Context) (*exchange.Document, error)
	FetchPublic(ctx context.Context) (*exchange.Document, error)
	PushRemote(ctx context.Context, doc *exchange.Document) error
	StartAutoSync(ctx context.Context, interval time.Duration, snapshot remotesync.Snapshot)
	StopAutoSync()
	AutoSyncRunning() bool
	Status() remotesync.Status
	OnPush(fn func(doc *exchange.Document, err error))
}
