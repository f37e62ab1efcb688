package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/auth"
	"github.com/alexanderramin/polymath/internal/config"
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/github"
	"github.com/alexanderramin/polymath/internal/remotesync"
	"github.com/alexanderramin/polymath/internal/service"
	"github.com/alexanderramin/polymath/internal/store"
	"github.com/alexanderramin/polymath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPrompter answers every question with fixed values and records titles.
type stubPrompter struct {
	confirm bool
	input   string
	asked   []string
}

func (s *stubPrompter) Confirm(title, _ string) (bool, error) {
	s.asked = append(s.asked, title)
	return s.confirm, nil
}

func (s *stubPrompter) Input(title string, _ bool) (string, error) {
	s.asked = append(s.asked, title)
	return s.input, nil
}

func appFromTracker(tr *service.Tracker) *App {
	return &App{
		Subjects:    tr.Subjects(),
		Projects:    tr.Projects(),
		Progress:    tr.Progress(),
		Transfer:    tr.Transfer(),
		Session:     tr.Session(),
		Preferences: tr.Preferences(),
	}
}

// testApp wires a local-only App backed by an in-memory DB.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	st := store.New(database, testutil.NewTestUoW(database))
	tr, err := service.Open(context.Background(), service.Deps{
		Catalog: testutil.NewTestCatalogSource(),
		Store:   st,
		Gate:    auth.NewGate(nil, st, ""),
		History: st.SyncLog(),
		Config:  config.Default(t.TempDir()),
	})
	require.NoError(t, err)
	return appFromTracker(tr)
}

// remoteTestApp wires an App that syncs against a fake GitHub owned by ada.
func remoteTestApp(t *testing.T) (*App, *testutil.FakeGitHub) {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	st := store.New(database, testutil.NewTestUoW(database))

	fake := testutil.NewFakeGitHub(t, "ada", "notes", "polymath.json")
	fake.AddToken("owner-token", "ada")
	fake.AddToken("visitor-token", "grace")

	ghCfg := github.DefaultConfig()
	ghCfg.APIURL = fake.URL
	ghCfg.Owner, ghCfg.Repo, ghCfg.Path = "ada", "notes", "polymath.json"
	ghCfg.Timeout = 2 * time.Second
	client := github.NewClient(ghCfg, nil)

	gate := auth.NewGate(client, st, "ada")
	require.NoError(t, gate.Load(ctx))
	engine := remotesync.NewEngine(client, gate, st, remotesync.WithHistory(st.SyncLog()))
	require.NoError(t, engine.Load(ctx))
	gate.OnLogout(engine.Reset)
	engine.OnUnauthorized(gate.Logout)
	t.Cleanup(engine.StopAutoSync)

	cfg := config.Default(t.TempDir())
	cfg.Owner = "ada"
	tr, err := service.Open(ctx, service.Deps{
		Catalog: testutil.NewTestCatalogSource(),
		Store:   st,
		Gate:    gate,
		Sync:    engine,
		History: st.SyncLog(),
		Config:  cfg,
	})
	require.NoError(t, err)
	return appFromTracker(tr), fake
}

// executeCmd runs a CLI command with the given args and returns stdout.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestDefaultViewIsDashboard(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "0/3 completed")
	assert.Contains(t, out, "Foundations")

	_, err = executeCmd(t, app, "view", "catalog")
	require.NoError(t, err)
	out, err = executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "algebra-1")
	assert.NotContains(t, out, "0/3 completed")
}

func TestProgressCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "progress", "algebra-1")
	require.NoError(t, err)
	assert.Contains(t, out, "partial")

	out, err = executeCmd(t, app, "progress", "Algebra I", "complete")
	require.NoError(t, err, "names resolve to ids")
	assert.Contains(t, out, "complete")

	_, err = executeCmd(t, app, "progress", "algebra-1", "finished")
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = executeCmd(t, app, "progress", "geometry")
	assert.ErrorIs(t, err, domain.ErrSubjectNotFound)

	out, err = executeCmd(t, app, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3 completed")
}

func TestListCmd_Filters(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "progress", "arithmetic", "complete")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "arithmetic")
	assert.NotContains(t, out, "physics")

	out, err = executeCmd(t, app, "list", "--where", `readiness == "ready"`)
	require.NoError(t, err)
	assert.Contains(t, out, "algebra-1")
	assert.NotContains(t, out, "physics")

	out, err = executeCmd(t, app, "list", "--category", "science")
	require.NoError(t, err)
	assert.Contains(t, out, "physics")
	assert.NotContains(t, out, "arithmetic")
}

func TestSubjectLifecycle(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "subject", "add", "Category Theory",
		"--tier", "Advanced Math", "--prereq", "algebra-1, arithmetic", "--goal", "Read Leinster")
	require.NoError(t, err)
	assert.Contains(t, out, "category-theory")

	_, err = executeCmd(t, app, "subject", "add", "Topology", "--tier", "Advanced Math", "--prereq", "category-theory")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "show", "category-theory")
	require.NoError(t, err)
	assert.Contains(t, out, "Read Leinster")
	assert.Contains(t, out, "algebra-1, arithmetic")
	assert.Contains(t, out, "topology")

	out, err = executeCmd(t, app, "subject", "deps", "category-theory")
	require.NoError(t, err)
	assert.Contains(t, out, "topology")

	_, err = executeCmd(t, app, "subject", "edit", "category-theory", "--summary", "Arrows everywhere.")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "subject", "edit", "algebra-1", "--summary", "Mine")
	assert.ErrorIs(t, err, domain.ErrNotCustom)
	_, err = executeCmd(t, app, "subject", "edit", "algebra-1")
	assert.Error(t, err)

	out, err = executeCmd(t, app, "subject", "suggest", "algebra-1, top")
	require.NoError(t, err)
	assert.Contains(t, out, "topology")
}

func TestSubjectRemove_DependentsNeedConfirmation(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "subject", "add", "Sets", "--tier", "Advanced Math")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "subject", "add", "Topology", "--tier", "Advanced Math", "--prereq", "sets")
	require.NoError(t, err)

	// No prompter: the caller must pass --force.
	_, err = executeCmd(t, app, "subject", "rm", "sets")
	assert.ErrorIs(t, err, service.ErrHasDependents)

	prompt := &stubPrompter{confirm: false}
	app.Prompter = prompt
	out, err := executeCmd(t, app, "subject", "rm", "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, prompt.asked, 1)

	prompt.confirm = true
	out, err = executeCmd(t, app, "subject", "rm", "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed sets")

	_, err = executeCmd(t, app, "subject", "rm", "topology", "--force")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "subject", "rm", "physics")
	assert.ErrorIs(t, err, domain.ErrNotCustom)
}

func TestResourceAndProjectCmds(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "resource", "add", "physics", "Feynman", "--url", "https://feynmanlectures.caltech.edu")
	require.NoError(t, err)
	out, err := executeCmd(t, app, "project", "add", "physics", "Pendulum", "--goal", "Measure g")
	require.NoError(t, err)
	assert.Contains(t, out, "Pendulum")

	_, err = executeCmd(t, app, "resource", "add", "physics", "Lab notebook", "--project", "pendulum")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "project", "status", "physics", "Pendulum")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")
	out, err = executeCmd(t, app, "project", "status", "physics", "Pendulum", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")

	_, err = executeCmd(t, app, "project", "edit", "physics", "Pendulum", "--notes", "string length 1m")
	require.NoError(t, err)

	detail, err := app.Subjects.Get(ctx, "physics")
	require.NoError(t, err)
	require.Len(t, detail.Subject.Resources, 1)
	require.Len(t, detail.Subject.Projects, 1)
	p := detail.Subject.Projects[0]
	assert.Equal(t, "string length 1m", p.Notepad)
	require.Len(t, p.Resources, 1)

	_, err = executeCmd(t, app, "resource", "rm", "physics", p.Resources[0].ID[:6], "--project", p.ID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "resource", "rm", "physics", detail.Subject.Resources[0].ID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "project", "rm", "physics", p.ID[:6])
	require.NoError(t, err)

	detail, err = app.Subjects.Get(ctx, "physics")
	require.NoError(t, err)
	assert.Empty(t, detail.Subject.Resources)
	assert.Empty(t, detail.Subject.Projects)
}

func TestExportImportCmds(t *testing.T) {
	src := testApp(t)
	_, err := executeCmd(t, src, "progress", "physics", "complete")
	require.NoError(t, err)
	_, err = executeCmd(t, src, "subject", "add", "Logic", "--tier", "Foundations")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "polymath.json")
	_, err = executeCmd(t, src, "export", "--out", path)
	require.NoError(t, err)

	dst := testApp(t)
	out, err := executeCmd(t, dst, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "4 subjects (1 custom)")

	p, err := dst.Progress.Get(context.Background(), "physics")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressComplete, p)

	out, err = executeCmd(t, src, "export")
	require.NoError(t, err)
	doc, err := exchange.Decode([]byte(out))
	require.NoError(t, err)
	assert.Contains(t, doc.CustomSubjects, "logic")
}

func TestImportCmd_SchemaMismatch(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.1","progress":{"physics":"partial"}}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	assert.ErrorIs(t, err, exchange.ErrSchemaMismatch)

	app.Prompter = &stubPrompter{confirm: false}
	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")

	app.Prompter = nil
	_, err = executeCmd(t, app, "import", path, "--yes")
	require.NoError(t, err)
	p, err := app.Progress.Get(context.Background(), "physics")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressPartial, p)
}

func TestResetCmd(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "progress", "physics", "complete")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "reset")
	assert.ErrorIs(t, err, service.ErrResetPhrase)
	_, err = executeCmd(t, app, "reset", "--confirm", "yes")
	assert.ErrorIs(t, err, service.ErrResetPhrase)

	app.Prompter = &stubPrompter{input: service.ResetPhrase}
	out, err := executeCmd(t, app, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	p, err := app.Progress.Get(context.Background(), "physics")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressEmpty, p)
}

func TestThemeCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")
	_, err = executeCmd(t, app, "theme", "sepia")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestSyncCmds_LocalOnly(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote sync is off")

	_, err = executeCmd(t, app, "sync", "push")
	assert.ErrorIs(t, err, service.ErrRemoteDisabled)
	_, err = executeCmd(t, app, "auth", "login", "--token", "x")
	assert.ErrorIs(t, err, service.ErrRemoteDisabled)
}

func TestAuthAndSyncCmds_Remote(t *testing.T) {
	app, fake := remoteTestApp(t)

	_, err := executeCmd(t, app, "progress", "physics", "partial")
	assert.ErrorIs(t, err, service.ErrReadOnly)

	app.Prompter = &stubPrompter{input: "visitor-token"}
	out, err := executeCmd(t, app, "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "grace")
	assert.Contains(t, out, "view but not edit")

	out, err = executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "view only")

	_, err = executeCmd(t, app, "auth", "logout")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "auth", "login", "--token", "owner-token")
	require.NoError(t, err)
	assert.Contains(t, out, "ada")
	assert.NotContains(t, out, "view but not edit")

	_, err = executeCmd(t, app, "progress", "physics", "partial")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("put"), "edits push on write")

	out, err = executeCmd(t, app, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "synced")
	assert.Contains(t, out, "push")

	out, err = executeCmd(t, app, "sync", "pull")
	require.NoError(t, err)
	assert.Contains(t, out, "Pulled schema")
}
