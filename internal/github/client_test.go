package github

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/polymath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func newTestClient(t *testing.T) (*Client, *testutil.FakeGitHub, *recordingObserver) {
	t.Helper()
	fake := testutil.NewFakeGitHub(t, "ada", "notes", "polymath.json")
	fake.AddToken("good", "Ada")
	cfg := DefaultConfig()
	cfg.APIURL = fake.URL
	cfg.Owner = "ada"
	cfg.Repo = "notes"
	cfg.Path = "polymath.json"
	cfg.Timeout = 2 * time.Second
	obs := &recordingObserver{}
	return NewClient(cfg, obs), fake, obs
}

func TestGetUser(t *testing.T) {
	client, _, obs := newTestClient(t)

	login, err := client.GetUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "Ada", login)

	_, err = client.GetUser(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.Len(t, obs.events, 2)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "get_user", obs.events[0].Operation)
	assert.Equal(t, "UNAUTHORIZED", obs.events[1].ErrorCode)
	assert.Equal(t, http.StatusUnauthorized, obs.events[1].Status)
}

func TestGetContent_MissingFile(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.GetContent(context.Background(), "good")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetContent_DecodesWrappedBase64(t *testing.T) {
	client, fake, _ := newTestClient(t)
	payload := []byte(`{"schema":"3.0","progress":{"algebra-1":"partial"},"note":"long enough to wrap past sixty base64 columns"}`)
	sha := fake.SetFile(payload)

	file, err := client.GetContent(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, payload, file.Content)
	assert.Equal(t, sha, file.SHA)
}

func TestPutContent_CreateThenUpdate(t *testing.T) {
	client, fake, _ := newTestClient(t)
	ctx := context.Background()

	sha1, err := client.PutContent(ctx, "good", PutRequest{Content: []byte("v1"), Message: "sync"})
	require.NoError(t, err)
	content, stored := fake.File()
	assert.Equal(t, "v1", string(content))
	assert.Equal(t, stored, sha1)

	sha2, err := client.PutContent(ctx, "good", PutRequest{Content: []byte("v2"), SHA: sha1, Message: "sync"})
	require.NoError(t, err)
	assert.NotEqual(t, sha1, sha2)
}

func TestPutContent_StaleRevisionConflicts(t *testing.T) {
	client, fake, _ := newTestClient(t)
	ctx := context.Background()
	fake.SetFile([]byte("remote"))

	_, err := client.PutContent(ctx, "good", PutRequest{Content: []byte("local"), SHA: "stale"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = client.PutContent(ctx, "good", PutRequest{Content: []byte("local")})
	assert.ErrorIs(t, err, ErrConflict)

	content, _ := fake.File()
	assert.Equal(t, "remote", string(content))
}

func TestDo_OtherStatusIsAPIError(t *testing.T) {
	client, fake, obs := newTestClient(t)
	fake.FailNext(http.StatusBadGateway)

	_, err := client.GetContent(context.Background(), "good")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP_502", obs.events[0].ErrorCode)
}

func TestDo_Timeout(t *testing.T) {
	client, fake, _ := newTestClient(t)
	client.cfg.Timeout = 50 * time.Millisecond
	release := fake.Block()
	defer release()

	_, err := client.GetUser(context.Background(), "good")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestDo_CallerCancellation(t *testing.T) {
	client, fake, _ := newTestClient(t)
	release := fake.Block()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.GetUser(ctx, "good")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestDo_Unreachable(t *testing.T) {
	client, fake, _ := newTestClient(t)
	fake.Close()

	_, err := client.GetUser(context.Background(), "good")
	assert.ErrorIs(t, err, ErrUnavailable)
}
