// Package remotesync keeps one Export Document in a GitHub repository file
// in step with local state, using the file's blob SHA as the revision for
// optimistic concurrency.
package remotesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/github"
	"github.com/alexanderramin/polymath/internal/repository"
	"github.com/alexanderramin/polymath/internal/store"
)

// ContentClient reads and writes the synced file.
type ContentClient interface {
	GetContent(ctx context.Context, token string) (*github.File, error)
	PutContent(ctx context.Context, token string, req github.PutRequest) (string, error)
}

// TokenSource supplies the current credential.
type TokenSource interface {
	Token() string
}

// Cache persists the revision and last fetch time between runs.
type Cache interface {
	SyncCache(ctx context.Context) (store.SyncCache, error)
	SetSyncRevision(ctx context.Context, revision string) error
	SetLastFetch(ctx context.Context, at time.Time) error
	ClearSyncCache(ctx context.Context) error
}

// Status is the sync state shown to the user.
type Status struct {
	State     domain.SyncState
	Message   string
	LastFetch time.Time
	LastPush  time.Time
}

// Snapshot returns the document to push, or false to skip this tick.
type Snapshot func(ctx context.Context) (*exchange.Document, bool)

// Engine is the Remote Sync Engine. Safe for concurrent use.
type Engine struct {
	client  ContentClient
	tokens  TokenSource
	cache   Cache
	history repository.SyncLogRepo
	logger  *slog.Logger
	now     func() time.Time

	inFlight atomic.Bool

	mu       sync.Mutex
	revision string
	status   Status

	autoMu sync.Mutex
	stop   context.CancelFunc
	done   chan struct{}

	hookMu         sync.Mutex
	onPush         []func(*exchange.Document, error)
	onUnauthorized []func(context.Context) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory records every fetch and push in history.
func WithHistory(history repository.SyncLogRepo) Option {
	return func(e *Engine) { e.history = history }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an idle Engine.
func NewEngine(client ContentClient, tokens TokenSource, cache Cache, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		tokens: tokens,
		cache:  cache,
		logger: slog.Default(),
		now:    time.Now,
		status: Status{State: domain.SyncIdle},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load restores the cached revision and last fetch time.
func (e *Engine) Load(ctx context.Context) error {
	c, err := e.cache.SyncCache(ctx)
	if err != nil {
		return fmt.Errorf("loading sync cache: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revision = c.Revision
	e.status.LastFetch = c.LastFetch
	return nil
}

// Revision returns the cached revision token, or "" before the first
// fetch or push.
func (e *Engine) Revision() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// FetchRemote reads the remote document with the stored credential and
// caches its revision. A missing file returns (nil, nil).
func (e *Engine) FetchRemote(ctx context.Context) (*exchange.Document, error) {
	token := e.tokens.Token()
	if token == "" {
		return nil, auth.ErrNotAuthenticated
	}
	return e.fetch(ctx, token, true)
}

// FetchPublic reads the remote document anonymously. It never touches
// the cached revision.
func (e *Engine) FetchPublic(ctx context.Context) (*exchange.Document, error) {
	return e.fetch(ctx, "", false)
}

func (e *Engine) fetch(ctx context.Context, token string, cacheRevision bool) (*exchange.Document, error) {
	started := e.now()
	e.setState(domain.SyncSyncing, "Loading from GitHub...")

	file, err := e.client.GetContent(ctx, token)
	if errors.Is(err, github.ErrNotFound) {
		if cacheRevision {
			if err := e.storeRevision(ctx, ""); err != nil {
				return nil, e.fail(ctx, domain.SyncPull, started, err)
			}
		}
		e.succeed(ctx, domain.SyncPull, started, "", "No remote data yet")
		return nil, nil
	}
	if err != nil {
		return nil, e.fail(ctx, domain.SyncPull, started, classify(err))
	}

	doc, err := exchange.Decode(file.Content)
	if err != nil {
		return nil, e.fail(ctx, domain.SyncPull, started, fmt.Errorf("%w: %w", ErrInvalidRemote, err))
	}

	if cacheRevision {
		if err := e.storeRevision(ctx, file.SHA); err != nil {
			return nil, e.fail(ctx, domain.SyncPull, started, err)
		}
	}
	e.succeed(ctx, domain.SyncPull, started, file.SHA, "Loaded from GitHub")
	return doc, nil
}

// OnPush registers fn to run after every push attempt that reached the
// remote, successful or not.
func (e *Engine) OnPush(fn func(doc *exchange.Document, err error)) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.onPush = append(e.onPush, fn)
}

func (e *Engine) notifyPush(doc *exchange.Document, err error) {
	e.hookMu.Lock()
	hooks := slices.Clone(e.onPush)
	e.hookMu.Unlock()
	for _, fn := range hooks {
		fn(doc, err)
	}
}

// OnUnauthorized registers fn to run when GitHub rejects the stored
// credential during a fetch or push, e.g. to sign the user out.
func (e *Engine) OnUnauthorized(fn func(ctx context.Context) error) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.onUnauthorized = append(e.onUnauthorized, fn)
}

func (e *Engine) notifyUnauthorized(ctx context.Context) {
	e.hookMu.Lock()
	hooks := slices.Clone(e.onUnauthorized)
	e.hookMu.Unlock()
	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			e.logger.Warn("handling rejected credential failed", "error", err)
		}
	}
}

// PushRemote writes doc, passing the cached revision so a concurrent
// remote change fails with ErrConflict instead of being overwritten. A
// push arriving while another runs is dropped with ErrSyncInFlight.
func (e *Engine) PushRemote(ctx context.Context, doc *exchange.Document) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInFlight
	}
	defer e.inFlight.Store(false)

	token := e.tokens.Token()
	if token == "" {
		return auth.ErrNotAuthenticated
	}

	err := e.push(ctx, token, doc)
	e.notifyPush(doc, err)
	return err
}

func (e *Engine) push(ctx context.Context, token string, doc *exchange.Document) error {
	started := e.now()
	e.setState(domain.SyncSyncing, "Saving to GitHub...")

	data, err := exchange.Encode(doc)
	if err != nil {
		return e.fail(ctx, domain.SyncPush, started, fmt.Errorf("encoding document: %w", err))
	}

	sha, err := e.client.PutContent(ctx, token, github.PutRequest{
		Content: data,
		SHA:     e.Revision(),
		Message: "Update polymath progress " + started.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return e.fail(ctx, domain.SyncPush, started, classify(err))
	}

	if err := e.storeRevision(ctx, sha); err != nil {
		return e.fail(ctx, domain.SyncPush, started, err)
	}
	e.succeed(ctx, domain.SyncPush, started, sha, "Saved to GitHub")
	return nil
}

// Reset forgets the cached revision and returns to idle.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.revision = ""
	e.status = Status{State: domain.SyncIdle}
	e.mu.Unlock()
	return e.cache.ClearSyncCache(ctx)
}

func classify(err error) error {
	switch {
	case errors.Is(err, github.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, github.ErrUnauthorized):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
}

func (e *Engine) storeRevision(ctx context.Context, revision string) error {
	if err := e.cache.SetSyncRevision(ctx, revision); err != nil {
		return fmt.Errorf("caching revision: %w", err)
	}
	e.mu.Lock()
	e.revision = revision
	e.mu.Unlock()
	return nil
}

func (e *Engine) setState(state domain.SyncState, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.State = state
	e.status.Message = msg
}

func (e *Engine) succeed(ctx context.Context, dir domain.SyncDirection, started time.Time, revision, msg string) {
	finished := e.now()
	e.mu.Lock()
	e.status.State = domain.SyncSynced
	e.status.Message = msg
	if dir == domain.SyncPull {
		e.status.LastFetch = finished
	} else {
		e.status.LastPush = finished
	}
	e.mu.Unlock()

	if dir == domain.SyncPull {
		if err := e.cache.SetLastFetch(ctx, finished); err != nil {
			e.logger.Warn("caching last fetch failed", "error", err)
		}
	}
	e.record(ctx, &domain.SyncRecord{
		Direction: dir, State: domain.SyncSynced, Message: msg, Revision: revision,
		StartedAt: started, FinishedAt: finished,
	})
	e.logger.Debug("sync complete", "direction", dir, "revision", revision)
}

// fail records err. A rejected credential first runs the OnUnauthorized
// hooks, so the error stays visible after they reset the engine.
func (e *Engine) fail(ctx context.Context, dir domain.SyncDirection, started time.Time, err error) error {
	if errors.Is(err, github.ErrUnauthorized) {
		e.notifyUnauthorized(context.WithoutCancel(ctx))
	}
	e.setState(domain.SyncError, err.Error())
	e.record(ctx, &domain.SyncRecord{
		Direction: dir, State: domain.SyncError, Message: err.Error(),
		StartedAt: started, FinishedAt: e.now(),
	})
	e.logger.Warn("sync failed", "direction", dir, "error", err)
	return err
}

func (e *Engine) record(ctx context.Context, rec *domain.SyncRecord) {
	if e.history == nil {
		return
	}
	// Record even when the sync itself was cancelled.
	if err := e.history.Append(context.WithoutCancel(ctx), rec); err != nil {
		e.logger.Warn("recording sync history failed", "error", err)
	}
}
