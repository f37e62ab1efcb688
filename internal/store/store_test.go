package store

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/repository"
	"github.com/alexanderramin/polymath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database := testutil.NewTestDB(t)
	return New(database, testutil.NewTestUoW(database))
}

func TestLoadState_EmptyStoreFallsBack(t *testing.T) {
	s := newTestStore(t)

	st, err := s.LoadState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.Tiers)
	assert.Equal(t, domain.ProgressMap{}, st.Progress)

	theme, err := s.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	view, err := s.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ViewDashboard, view)
}

func TestSaveState_RoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tiers := testutil.NewTestCatalog()
	progress := domain.ProgressMap{"algebra-1": domain.ProgressPartial}

	modified := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveState(ctx, State{Tiers: tiers, Progress: progress, CatalogVersion: "2025.1", LastModified: modified}))

	st, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, tiers, st.Tiers)
	assert.Equal(t, progress, st.Progress)
	assert.Equal(t, "2025.1", st.CatalogVersion)
	assert.True(t, modified.Equal(st.LastModified))

	require.NoError(t, s.ClearState(ctx))
	st, err = s.LoadState(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.Tiers)
}

func TestLoadState_CorruptValue(t *testing.T) {
	database := testutil.NewTestDB(t)
	s := New(database, testutil.NewTestUoW(database))
	ctx := context.Background()
	require.NoError(t, repository.NewSQLiteKVRepo(database).Set(ctx, KeyProgress, []byte("{not json")))

	_, err := s.LoadState(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCredential_SetTokenForgetsUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "old"))
	require.NoError(t, s.SetUsername(ctx, "octocat"))
	token, user, err := s.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", token)
	assert.Equal(t, "octocat", user)

	require.NoError(t, s.SetToken(ctx, "new"))
	token, user, err = s.Credential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", token)
	assert.Empty(t, user)

	require.NoError(t, s.ClearCredential(ctx))
	token, _, err = s.Credential(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSyncCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SetSyncRevision(ctx, "sha-1"))
	require.NoError(t, s.SetLastFetch(ctx, at))
	require.NoError(t, s.SetSyncPushed(ctx, at.Add(-time.Minute)))
	c, err := s.SyncCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sha-1", c.Revision)
	assert.True(t, at.Equal(c.LastFetch))
	assert.True(t, at.Add(-time.Minute).Equal(c.Pushed))

	require.NoError(t, s.ClearSyncCache(ctx))
	c, err = s.SyncCache(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Revision)
	assert.True(t, c.LastFetch.IsZero())
	assert.True(t, c.Pushed.IsZero())
}

func TestThemeAndView(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetTheme(ctx, domain.ThemeDark))
	require.NoError(t, s.SetView(ctx, domain.ViewCatalog))

	theme, err := s.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
	view, err := s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCatalog, view)
}
