// Package store is the Local Store: JSON documents persisted under fixed
// keys in the kv_store table. A missing key means "use the default".
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/polymath/internal/db"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/repository"
)

// Fixed keys of the Local Store.
const (
	KeySubjects       = "subjects"
	KeyProgress       = "subjectProgress"
	KeyTheme          = "theme"
	KeyCurrentView    = "currentView"
	KeyToken          = "github_token"
	KeyUsername       = "github_username"
	KeySyncRevision   = "sync_revision"
	KeySyncLastFetch  = "sync_last_fetch"
	KeySyncPushed     = "sync_pushed"
	KeyCatalogVersion = "catalog_version"
	KeyLastModified   = "lastModified"
)

// ErrCorrupt is returned when a stored value cannot be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// State is the persisted working state.
type State struct {
	Tiers          domain.TierMap
	Progress       domain.ProgressMap
	CatalogVersion string
	LastModified   time.Time
}

// Store reads and writes Local Store keys.
type Store struct {
	conn db.DBTX
	uow  db.UnitOfWork
	kv   repository.KVRepo
}

// New creates a Store. Writes spanning several keys run inside uow.
func New(conn db.DBTX, uow db.UnitOfWork) *Store {
	return &Store{conn: conn, uow: uow, kv: repository.NewSQLiteKVRepo(conn)}
}

func getJSON[T any](ctx context.Context, kv repository.KVRepo, key string) (T, bool, error) {
	var v T
	e, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return v, false, nil
		}
		return v, false, err
	}
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return v, false, fmt.Errorf("key %q: %w: %v", key, ErrCorrupt, err)
	}
	return v, true, nil
}

func setJSON(ctx context.Context, kv repository.KVRepo, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding key %q: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}

// LoadState returns the stored working state. Tiers is nil when nothing
// has been saved yet; Progress is never nil.
// The keys are read from one snapshot, so a concurrent SaveState is seen
// whole or not at all.
func (s *Store) LoadState(ctx context.Context) (*State, error) {
	st := &State{}
	err := s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := repository.NewSQLiteKVRepo(tx)
		var err error
		if st.Tiers, _, err = getJSON[domain.TierMap](ctx, kv, KeySubjects); err != nil {
			return err
		}
		if st.Progress, _, err = getJSON[domain.ProgressMap](ctx, kv, KeyProgress); err != nil {
			return err
		}
		if st.CatalogVersion, _, err = getJSON[string](ctx, kv, KeyCatalogVersion); err != nil {
			return err
		}
		st.LastModified, _, err = getJSON[time.Time](ctx, kv, KeyLastModified)
		return err
	})
	if err != nil {
		return nil, err
	}
	if st.Progress == nil {
		st.Progress = domain.ProgressMap{}
	}
	return st, nil
}

// SaveState writes tiers and progress in one transaction.
func (s *Store) SaveState(ctx context.Context, st State) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := repository.NewSQLiteKVRepo(tx)
		if err := setJSON(ctx, kv, KeySubjects, st.Tiers); err != nil {
			return err
		}
		if err := setJSON(ctx, kv, KeyProgress, st.Progress); err != nil {
			return err
		}
		if !st.LastModified.IsZero() {
			if err := setJSON(ctx, kv, KeyLastModified, st.LastModified.UTC()); err != nil {
				return err
			}
		}
		if st.CatalogVersion != "" {
			return setJSON(ctx, kv, KeyCatalogVersion, st.CatalogVersion)
		}
		return nil
	})
}

// ClearState removes the stored working state so the next load falls
// back to the catalog.
func (s *Store) ClearState(ctx context.Context) error {
	return s.kv.Delete(ctx, KeySubjects, KeyProgress, KeyCatalogVersion, KeyLastModified)
}

func (s *Store) Theme(ctx context.Context) (domain.Theme, error) {
	v, ok, err := getJSON[domain.Theme](ctx, s.kv, KeyTheme)
	if err != nil || !ok {
		return domain.ThemeLight, err
	}
	return v, nil
}

func (s *Store) SetTheme(ctx context.Context, t domain.Theme) error {
	return setJSON(ctx, s.kv, KeyTheme, t)
}

func (s *Store) View(ctx context.Context) (domain.View, error) {
	v, ok, err := getJSON[domain.View](ctx, s.kv, KeyCurrentView)
	if err != nil || !ok {
		return domain.ViewDashboard, err
	}
	return v, nil
}

func (s *Store) SetView(ctx context.Context, v domain.View) error {
	return setJSON(ctx, s.kv, KeyCurrentView, v)
}

// Credential returns the stored token and cached username. Both are
// empty when the user never logged in.
func (s *Store) Credential(ctx context.Context) (token, username string, err error) {
	if token, _, err = getJSON[string](ctx, s.kv, KeyToken); err != nil {
		return "", "", err
	}
	if username, _, err = getJSON[string](ctx, s.kv, KeyUsername); err != nil {
		return "", "", err
	}
	return token, username, nil
}

// SetToken stores a new token and forgets any username cached for the
// previous one.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := repository.NewSQLiteKVRepo(tx)
		if err := setJSON(ctx, kv, KeyToken, token); err != nil {
			return err
		}
		return kv.Delete(ctx, KeyUsername)
	})
}

func (s *Store) SetUsername(ctx context.Context, username string) error {
	return setJSON(ctx, s.kv, KeyUsername, username)
}

func (s *Store) ClearCredential(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyToken, KeyUsername)
}

// SyncCache is the remote revision bookkeeping kept between runs. Pushed
// is the LastModified of the newest state known to match the remote copy.
type SyncCache struct {
	Revision  string
	LastFetch time.Time
	Pushed    time.Time
}

func (s *Store) SyncCache(ctx context.Context) (SyncCache, error) {
	var c SyncCache
	err := s.uow.WithinSnapshot(ctx, func(ctx context.Context, tx db.DBTX) error {
		kv := repository.NewSQLiteKVRepo(tx)
		var err error
		if c.Revision, _, err = getJSON[string](ctx, kv, KeySyncRevision); err != nil {
			return err
		}
		if c.LastFetch, _, err = getJSON[time.Time](ctx, kv, KeySyncLastFetch); err != nil {
			return err
		}
		c.Pushed, _, err = getJSON[time.Time](ctx, kv, KeySyncPushed)
		return err
	})
	if err != nil {
		return SyncCache{}, err
	}
	return c, nil
}

func (s *Store) SetSyncRevision(ctx context.Context, revision string) error {
	return setJSON(ctx, s.kv, KeySyncRevision, revision)
}

func (s *Store) SetLastFetch(ctx context.Context, at time.Time) error {
	return setJSON(ctx, s.kv, KeySyncLastFetch, at.UTC())
}

// SetSyncPushed records that the state last modified at modified now
// matches the remote copy.
func (s *Store) SetSyncPushed(ctx context.Context, modified time.Time) error {
	return setJSON(ctx, s.kv, KeySyncPushed, modified.UTC())
}

func (s *Store) ClearSyncCache(ctx context.Context) error {
	return s.kv.Delete(ctx, KeySyncRevision, KeySyncLastFetch, KeySyncPushed)
}

// SyncLog returns the sync history repository sharing this store's
// connection.
func (s *Store) SyncLog() repository.SyncLogRepo {
	return repository.NewSQLiteSyncLogRepo(s.conn)
}
