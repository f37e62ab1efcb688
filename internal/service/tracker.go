package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/catalog"
	"github.com/alexanderramin/polymath/internal/config"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/merge"
	"github.com/alexanderramin/polymath/internal/migrator"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/repository"
	"github.com/alexanderramin/polymath/internal/store"
)

// Deps are the collaborators of a Tracker. Sync may be nil, in which case
// remote operations return ErrRemoteDisabled.
type Deps struct {
	Catalog catalog.Source
	Store   StateStore
	Gate    Authenticator
	Sync    Syncer
	History repository.SyncLogRepo
	Config  config.Config
	Logger  *slog.Logger
	Now     func() time.Time
}

// Tracker owns the working state: the merged tier map and the progress
// map. Every mutation goes through its methods, is persisted to the Local
// Store and, for the repository owner, pushed to the remote copy.
type Tracker struct {
	base     *catalog.Catalog
	store    StateStore
	gate     Authenticator
	sync     Syncer
	history  repository.SyncLogRepo
	cfg      config.Config
	logger   *slog.Logger
	now      func() time.Time
	observer UseCaseObserver

	mu       sync.RWMutex
	tiers    domain.TierMap
	progress domain.ProgressMap
	theme    domain.Theme
	modified time.Time
	pushed   time.Time
}

type workingState struct {
	tiers    domain.TierMap
	progress domain.ProgressMap
}

// Open loads the catalog and the stored working state. Stored state built
// from an older catalog version is rebuilt against the current one.
func Open(ctx context.Context, deps Deps, observers ...UseCaseObserver) (*Tracker, error) {
	if deps.Catalog == nil || deps.Store == nil || deps.Gate == nil {
		return nil, errors.New("tracker needs a catalog, a store and an auth gate")
	}
	t := &Tracker{
		store:    deps.Store,
		gate:     deps.Gate,
		sync:     deps.Sync,
		history:  deps.History,
		cfg:      deps.Config,
		logger:   deps.Logger,
		now:      deps.Now,
		observer: useCaseObserverOrNoop(observers),
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	if t.now == nil {
		t.now = time.Now
	}

	base, err := deps.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	t.base = base

	st, err := t.store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	theme, err := t.store.Theme(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	cache, err := t.store.SyncCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sync cache: %w", err)
	}
	t.theme = theme
	t.progress = st.Progress
	t.modified = st.LastModified
	t.pushed = cache.Pushed

	switch {
	case st.Tiers == nil:
		t.tiers = merge.Merge(base.Tiers, nil)
	case st.CatalogVersion != "" && st.CatalogVersion != base.Version:
		if err := t.rebase(ctx, st); err != nil {
			return nil, err
		}
	default:
		t.tiers = st.Tiers
	}

	if t.sync != nil {
		t.sync.OnPush(t.recordPush)
	}
	return t, nil
}

// rebase carries the user's customizations over to a new catalog version
// by exporting against the new baseline and merging back.
func (t *Tracker) rebase(ctx context.Context, st *store.State) error {
	doc := migrator.Export(migrator.State{Tiers: st.Tiers, Progress: st.Progress, Theme: t.theme}, t.base.Tiers, t.now())
	next, err := migrator.Import(doc, t.base.Tiers, migrator.ImportOptions{AcceptSchemaMismatch: true})
	if err != nil {
		return fmt.Errorf("rebasing state onto catalog %s: %w", t.base.Version, err)
	}
	t.tiers, t.progress = next.Tiers, next.Progress
	if err := t.store.SaveState(ctx, t.persisted(next.Tiers, next.Progress, st.LastModified)); err != nil {
		return fmt.Errorf("saving rebased state: %w", err)
	}
	t.logger.Info("catalog updated", "from", st.CatalogVersion, "to", t.base.Version)
	return nil
}

func (t *Tracker) persisted(tiers domain.TierMap, progress domain.ProgressMap, modified time.Time) store.State {
	return store.State{
		Tiers:          tiers,
		Progress:       progress,
		CatalogVersion: t.base.Version,
		LastModified:   modified,
	}
}

// CatalogVersion is the version tag of the loaded base catalog.
func (t *Tracker) CatalogVersion() string {
	return t.base.Version
}

// RemoteEnabled reports whether a remote repository is configured.
func (t *Tracker) RemoteEnabled() bool {
	return t.sync != nil && !t.gate.LocalOnly()
}

func (t *Tracker) Subjects() SubjectService       { return &subjectService{t: t} }
func (t *Tracker) Projects() ProjectService       { return &projectService{t: t} }
func (t *Tracker) Progress() ProgressService      { return &progressService{t: t} }
func (t *Tracker) Transfer() TransferService      { return &transferService{t: t} }
func (t *Tracker) Session() SessionService        { return &sessionService{t: t} }
func (t *Tracker) Preferences() PreferenceService { return &preferenceService{t: t} }

// requireEditor rejects edits from anyone but the owner. It looks only at
// cached credentials and never calls the network.
func (t *Tracker) requireEditor() error {
	if t.gate.LocalOnly() || t.gate.State() == auth.StateOwner {
		return nil
	}
	return ErrReadOnly
}

// read runs fn against the current state under the read lock. fn must not
// retain or modify what it is given.
func (t *Tracker) read(fn func(tiers domain.TierMap, progress domain.ProgressMap)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.tiers, t.progress)
}

// mutate applies fn to a copy of the working state, persists the copy and
// swaps it in. Nothing changes if fn or the save fails.
func (t *Tracker) mutate(ctx context.Context, fn func(ws *workingState) error) error {
	if err := t.requireEditor(); err != nil {
		return err
	}

	t.mu.Lock()
	next := &workingState{tiers: t.tiers.Clone(), progress: t.progress.Clone()}
	if err := fn(next); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.replaceLocked(ctx, next, t.now().UTC()); err != nil {
		t.mu.Unlock()
		return err
	}
	t.mu.Unlock()

	t.afterWrite(ctx)
	return nil
}

func (t *Tracker) replaceLocked(ctx context.Context, next *workingState, modified time.Time) error {
	if next.progress == nil {
		next.progress = domain.ProgressMap{}
	}
	if err := t.store.SaveState(ctx, t.persisted(next.tiers, next.progress, modified)); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	t.tiers, t.progress, t.modified = next.tiers, next.progress, modified
	return nil
}

// afterWrite pushes the new state when the owner is signed in and
// sync-on-write is enabled. Push failures are logged and show up in the
// sync status; the local write already succeeded.
func (t *Tracker) afterWrite(ctx context.Context) {
	if !t.cfg.SyncOnWrite || t.sync == nil || t.gate.State() != auth.StateOwner {
		return
	}
	err := t.sync.PushRemote(ctx, t.export())
	switch {
	case err == nil, errors.Is(err, remotesync.ErrSyncInFlight):
	default:
		t.logger.WarnContext(ctx, "push after edit failed", "error", err)
	}
}

// export builds the Export Document for the current state.
func (t *Tracker) export() *exchange.Document {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.exportLocked()
}

func (t *Tracker) exportLocked() *exchange.Document {
	state := migrator.State{Tiers: t.tiers, Progress: t.progress, Theme: t.theme}
	doc := migrator.Export(state, t.base.Tiers, t.now())
	if !t.modified.IsZero() {
		doc.LastModified = t.modified.UTC()
	}
	return doc
}

// refresh adopts state and push markers that another process saved to
// the same Local Store since this tracker last read or wrote it. Failures
// are logged and leave the in-memory state as it was.
func (t *Tracker) refresh(ctx context.Context) {
	st, err := t.store.LoadState(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "reloading state", "error", err)
		return
	}
	cache, err := t.store.SyncCache(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "reloading sync cache", "error", err)
		return
	}
	theme, err := t.store.Theme(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "reloading theme", "error", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if cache.Pushed.After(t.pushed) {
		t.pushed = cache.Pushed
	}
	if st.Tiers == nil || !st.LastModified.After(t.modified) {
		return
	}
	if st.CatalogVersion != "" && st.CatalogVersion != t.base.Version {
		return
	}
	t.tiers, t.progress, t.modified, t.theme = st.Tiers, st.Progress, st.LastModified, theme
	t.logger.DebugContext(ctx, "reloaded state saved elsewhere", "modified", st.LastModified)
}

// snapshot feeds auto-sync: it skips the tick unless the stored state
// changed since the last successful push.
func (t *Tracker) snapshot(ctx context.Context) (*exchange.Document, bool) {
	t.refresh(ctx)
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.modified.After(t.pushed) {
		return nil, false
	}
	return t.exportLocked(), true
}

func (t *Tracker) recordPush(doc *exchange.Document, err error) {
	if err != nil || doc == nil {
		return
	}
	t.markPushed(context.Background(), doc.LastModified)
}

// markPushed records that the state last modified at modified matches the
// remote copy, here and in the Local Store.
func (t *Tracker) markPushed(ctx context.Context, modified time.Time) {
	t.mu.Lock()
	if !modified.After(t.pushed) {
		t.mu.Unlock()
		return
	}
	t.pushed = modified
	t.mu.Unlock()
	if err := t.store.SetSyncPushed(ctx, modified); err != nil {
		t.logger.WarnContext(ctx, "saving push marker", "error", err)
	}
}

// dirty reports whether edits in the Local Store have not been pushed yet.
func (t *Tracker) dirty(ctx context.Context) bool {
	t.refresh(ctx)
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modified.After(t.pushed)
}

func (t *Tracker) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	t.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
