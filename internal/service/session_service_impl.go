package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/migrator"
	"github.com/alexanderramin/polymath/internal/remotesync"
)

const syncHistoryLimit = 10

// LoginResult reports who signed in and what they may do.
type LoginResult struct {
	Username string
	Owner    bool
	Pulled   bool
	Message  string
}

// PullResult reports the outcome of loading the remote copy.
type PullResult struct {
	Found        bool
	Schema       string
	LastModified time.Time
}

// SyncStatus is the sync state shown to the user.
type SyncStatus struct {
	Enabled  bool
	Owner    string
	Username string
	Mode     domain.ViewMode
	AutoSync bool
	Dirty    bool
	remotesync.Status
	History []*domain.SyncRecord
}

type sessionService struct {
	t *Tracker
}

// Login stores token, validates it and loads the remote copy. The owner
// also gets auto-sync when it is enabled in the configuration.
func (s *sessionService) Login(ctx context.Context, token string) (result *LoginResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.t.observe(ctx, "login", startedAt, fields, err) }()

	if !s.t.RemoteEnabled() {
		return nil, ErrRemoteDisabled
	}
	if err := s.t.gate.SetCredential(ctx, token); err != nil {
		return nil, err
	}
	if ok, err := s.t.gate.Validate(ctx); !ok {
		return nil, fmt.Errorf("validating token: %w", err)
	}

	result = &LoginResult{Username: s.t.gate.Username(), Owner: s.t.gate.IsOwner(ctx)}
	fields["owner"] = result.Owner
	if !result.Owner {
		result.Message = fmt.Sprintf("You are signed in as %s, but this tracker belongs to %s. You can view but not edit.",
			result.Username, s.t.gate.Owner())
	}

	pulled, err := s.Pull(ctx)
	if err != nil {
		return result, fmt.Errorf("loading remote data: %w", err)
	}
	result.Pulled = pulled.Found

	if result.Owner && s.t.cfg.AutoSync {
		if err := s.StartAutoSync(ctx); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if s.t.sync != nil {
		s.t.sync.StopAutoSync()
	}
	return s.t.gate.Logout(ctx)
}

func (s *sessionService) ViewMode(ctx context.Context) domain.ViewMode {
	return s.t.gate.ViewMode(ctx)
}

// Pull replaces the working state with the remote copy: the owner's
// authenticated read, or the public read for everyone else. Local edits
// not yet pushed are overwritten. A missing remote file changes nothing.
func (s *sessionService) Pull(ctx context.Context) (result *PullResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.t.observe(ctx, "pull", startedAt, fields, err) }()

	if !s.t.RemoteEnabled() {
		return nil, ErrRemoteDisabled
	}

	fetch := s.t.sync.FetchPublic
	if s.t.gate.State() == auth.StateOwner {
		fetch = s.t.sync.FetchRemote
	}
	doc, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		fields["found"] = false
		return &PullResult{}, nil
	}

	next, err := migrator.Import(doc, s.t.base.Tiers, migrator.ImportOptions{
		SupportedSchema:      s.t.cfg.SchemaVersion,
		AcceptSchemaMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	modified := doc.LastModified.UTC()
	if modified.IsZero() {
		modified = s.t.now().UTC()
	}
	s.t.mu.Lock()
	err = s.t.replaceLocked(ctx, &workingState{tiers: next.Tiers, progress: next.Progress}, modified)
	s.t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.t.markPushed(ctx, modified)
	if next.Theme == domain.ThemeLight || next.Theme == domain.ThemeDark {
		if err := s.t.setTheme(ctx, next.Theme); err != nil {
			return nil, err
		}
	}

	fields["found"] = true
	return &PullResult{Found: true, Schema: doc.SchemaTag(), LastModified: modified}, nil
}

// Push writes the newest stored state to the remote copy.
func (s *sessionService) Push(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer func() { s.t.observe(ctx, "push", startedAt, nil, err) }()

	if !s.t.RemoteEnabled() {
		return ErrRemoteDisabled
	}
	if s.t.gate.State() != auth.StateOwner {
		return ErrReadOnly
	}
	s.t.refresh(ctx)
	return s.t.sync.PushRemote(ctx, s.t.export())
}

// StartAutoSync pushes unsynced edits on the configured interval until
// StopAutoSync, Logout or ctx ends.
func (s *sessionService) StartAutoSync(ctx context.Context) error {
	if !s.t.RemoteEnabled() {
		return ErrRemoteDisabled
	}
	if s.t.gate.State() != auth.StateOwner {
		return ErrReadOnly
	}
	s.t.sync.StartAutoSync(ctx, s.t.cfg.AutoSyncInterval(), s.t.snapshot)
	return nil
}

func (s *sessionService) StopAutoSync() {
	if s.t.sync != nil {
		s.t.sync.StopAutoSync()
	}
}

func (s *sessionService) SyncStatus(ctx context.Context) *SyncStatus {
	st := &SyncStatus{
		Enabled:  s.t.RemoteEnabled(),
		Owner:    s.t.gate.Owner(),
		Username: s.t.gate.Username(),
		Mode:     domain.ViewOwner,
		Dirty:    s.t.dirty(ctx),
	}
	if s.t.gate.State() != auth.StateOwner && !s.t.gate.LocalOnly() {
		st.Mode = domain.ViewPublic
	}
	if s.t.sync != nil {
		st.Status = s.t.sync.Status()
		st.AutoSync = s.t.sync.AutoSyncRunning()
	} else {
		st.Status = remotesync.Status{State: domain.SyncIdle}
	}
	if s.t.history != nil {
		records, err := s.t.history.ListRecent(ctx, syncHistoryLimit)
		if err != nil {
			s.t.logger.WarnContext(ctx, "reading sync history", "error", err)
		}
		st.History = records
	}
	return st
}
