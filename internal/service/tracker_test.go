package service

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/catalog"
	"github.com/alexanderramin/polymath/internal/config"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/github"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/store"
	"github.com/alexanderramin/polymath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackerFixture struct {
	tracker *Tracker
	store   *store.Store
	gate    *auth.Gate
	engine  *remotesync.Engine
	fake    *testutil.FakeGitHub
	db      *sql.DB
}

type fixtureOptions struct {
	owner   string
	catalog catalog.Source
	db      *sql.DB
	tweak   func(*config.Config)
}

type fixtureOption func(*fixtureOptions)

// withOwner enables remote sync against a fake GitHub owned by owner.
func withOwner(owner string) fixtureOption {
	return func(o *fixtureOptions) { o.owner = owner }
}

func withCatalog(src catalog.Source) fixtureOption {
	return func(o *fixtureOptions) { o.catalog = src }
}

func withDB(database *sql.DB) fixtureOption {
	return func(o *fixtureOptions) { o.db = database }
}

func withConfig(fn func(*config.Config)) fixtureOption {
	return func(o *fixtureOptions) { o.tweak = fn }
}

// testClock ticks one second per call so every edit is strictly newer.
func testClock() func() time.Time {
	var n atomic.Int64
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func newTrackerFixture(t *testing.T, opts ...fixtureOption) trackerFixture {
	t.Helper()
	o := fixtureOptions{catalog: testutil.NewTestCatalogSource()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.db == nil {
		o.db = testutil.NewTestDB(t)
	}

	cfg := config.Default(t.TempDir())
	cfg.Owner = o.owner
	if o.tweak != nil {
		o.tweak(&cfg)
	}

	st := store.New(o.db, testutil.NewTestUoW(o.db))
	f := trackerFixture{store: st, db: o.db}

	fake := testutil.NewFakeGitHub(t, "ada", "notes", "polymath.json")
	fake.AddToken("owner-token", "ada")
	fake.AddToken("visitor-token", "grace")
	f.fake = fake

	ghCfg := github.DefaultConfig()
	ghCfg.APIURL = fake.URL
	ghCfg.Owner, ghCfg.Repo, ghCfg.Path = "ada", "notes", "polymath.json"
	ghCfg.Timeout = 2 * time.Second
	client := github.NewClient(ghCfg, nil)

	f.gate = auth.NewGate(client, st, o.owner)
	require.NoError(t, f.gate.Load(context.Background()))

	deps := Deps{
		Catalog: o.catalog,
		Store:   st,
		Gate:    f.gate,
		History: st.SyncLog(),
		Config:  cfg,
		Now:     testClock(),
	}
	if o.owner != "" {
		f.engine = remotesync.NewEngine(client, f.gate, st, remotesync.WithHistory(st.SyncLog()))
		require.NoError(t, f.engine.Load(context.Background()))
		f.gate.OnLogout(f.engine.Reset)
		f.engine.OnUnauthorized(f.gate.Logout)
		deps.Sync = f.engine
		t.Cleanup(f.engine.StopAutoSync)
	}

	tracker, err := Open(context.Background(), deps)
	require.NoError(t, err)
	f.tracker = tracker
	return f
}

func (f trackerFixture) loginOwner(t *testing.T) *LoginResult {
	t.Helper()
	res, err := f.tracker.Session().Login(context.Background(), "owner-token")
	require.NoError(t, err)
	require.True(t, res.Owner)
	return res
}

func TestOpen_FreshStoreUsesCatalog(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	refs := f.tracker.Subjects().Refs(ctx)
	assert.Equal(t, []domain.SubjectRef{
		{ID: "arithmetic", Name: "Arithmetic"},
		{ID: "algebra-1", Name: "Algebra I"},
		{ID: "physics", Name: "Physics"},
	}, refs)
	assert.Equal(t, "test", f.tracker.CatalogVersion())
	assert.False(t, f.tracker.RemoteEnabled())
}

func TestOpen_RestoresSavedState(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	first := newTrackerFixture(t, withDB(database))
	_, err := first.tracker.Subjects().Create(ctx, NewSubject{Name: "Category Theory", Tier: "Advanced Math"})
	require.NoError(t, err)
	require.NoError(t, first.tracker.Progress().Set(ctx, "algebra-1", domain.ProgressComplete))

	second := newTrackerFixture(t, withDB(database))
	detail, err := second.tracker.Subjects().Get(ctx, "category-theory")
	require.NoError(t, err)
	assert.Equal(t, "Advanced Math", detail.TierName)
	p, err := second.tracker.Progress().Get(ctx, "algebra-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressComplete, p)
}

func TestOpen_RebasesOntoNewCatalogVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	first := newTrackerFixture(t, withDB(database))
	_, err := first.tracker.Subjects().Create(ctx, NewSubject{Name: "Category Theory", Tier: "Advanced Math"})
	require.NoError(t, err)
	require.NoError(t, first.tracker.Subjects().Update(ctx, "algebra-1", SubjectUpdate{Goal: domain.StrPtr("Solve quadratics")}))

	next := testutil.NewTestCatalog()
	next["Foundations"].Subjects[0].Summary = "Counting."
	delete(next, "Sciences")
	src := catalog.StaticSource{Catalog: &catalog.Catalog{Version: "v2", Tiers: next}}

	second := newTrackerFixture(t, withDB(database), withCatalog(src))
	subjects := second.tracker.Subjects()

	algebra, err := subjects.Get(ctx, "algebra-1")
	require.NoError(t, err)
	assert.Equal(t, "Solve quadratics", algebra.Subject.Goal)

	arithmetic, err := subjects.Get(ctx, "arithmetic")
	require.NoError(t, err)
	assert.Equal(t, "Counting.", arithmetic.Subject.Summary)

	_, err = subjects.Get(ctx, "category-theory")
	assert.NoError(t, err)
	_, err = subjects.Get(ctx, "physics")
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)

	saved, err := second.store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", saved.CatalogVersion)
}

func TestTracker_RejectsEditsWithoutNetworkWhenNotOwner(t *testing.T) {
	f := newTrackerFixture(t, withOwner("ada"))
	ctx := context.Background()

	err := f.tracker.Progress().Set(ctx, "algebra-1", domain.ProgressPartial)
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = f.tracker.Subjects().Create(ctx, NewSubject{Name: "Logic", Tier: "Foundations"})
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = f.tracker.Transfer().Import(ctx, []byte(`{"schema":"3.0","progress":{}}`), false)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, f.tracker.Transfer().Reset(ctx, ResetPhrase), ErrReadOnly)

	assert.Zero(t, f.fake.Calls("user"))
	assert.Zero(t, f.fake.Calls("put"))

	p, err := f.tracker.Progress().Get(ctx, "algebra-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressEmpty, p)
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestTracker_ObservesUseCases(t *testing.T) {
	obs := &recordingObserver{}
	database := testutil.NewTestDB(t)
	st := store.New(database, testutil.NewTestUoW(database))
	gate := auth.NewGate(nil, st, "")
	tracker, err := Open(context.Background(), Deps{
		Catalog: testutil.NewTestCatalogSource(),
		Store:   st,
		Gate:    gate,
		Config:  config.Default(t.TempDir()),
	}, obs)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, tracker.Progress().Set(ctx, "physics", domain.ProgressPartial))
	require.Error(t, tracker.Progress().Set(ctx, "nope", domain.ProgressPartial))

	require.Len(t, obs.events, 2)
	assert.Equal(t, "set-progress", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, domain.ErrSubjectNotFound)
}
