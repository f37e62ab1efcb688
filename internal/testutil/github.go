package testutil

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeGitHub is an in-process stand-in for the GitHub user and contents
// endpoints, serving a single repository file.
type FakeGitHub struct {
	*httptest.Server

	Owner string
	Repo  string
	Path  string

	mu       sync.Mutex
	tokens   map[string]string
	content  []byte
	sha      string
	calls    map[string]int
	failNext int
	block    chan struct{}
}

// NewFakeGitHub starts a fake API for owner/repo/path. It is closed when
// the test completes.
func NewFakeGitHub(t *testing.T, owner, repo, path string) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{
		Owner:  owner,
		Repo:   repo,
		Path:   path,
		tokens: map[string]string{},
		calls:  map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// AddToken registers token as belonging to login.
func (f *FakeGitHub) AddToken(token, login string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = login
}

// SetFile replaces the stored file and returns its new SHA.
func (f *FakeGitHub) SetFile(content []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store(content)
	return f.sha
}

// File returns the stored content and SHA. Content is nil when no file
// has been written.
func (f *FakeGitHub) File() ([]byte, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content, f.sha
}

// Calls returns how many requests hit the named endpoint: "user",
// "get" or "put".
func (f *FakeGitHub) Calls(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

// FailNext makes the next request answer with status.
func (f *FakeGitHub) FailNext(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = status
}

// Block holds every request until the returned func is called.
func (f *FakeGitHub) Block() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.block = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.block = nil
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *FakeGitHub) store(content []byte) {
	sum := sha1.Sum(content)
	f.content = append([]byte(nil), content...)
	f.sha = hex.EncodeToString(sum[:])
}

func (f *FakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	contents := "/repos/" + f.Owner + "/" + f.Repo + "/contents/" + f.Path
	endpoint := ""
	switch {
	case r.URL.Path == "/user" && r.Method == http.MethodGet:
		endpoint = "user"
	case r.URL.Path == contents && r.Method == http.MethodGet:
		endpoint = "get"
	case r.URL.Path == contents && r.Method == http.MethodPut:
		endpoint = "put"
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	f.calls[endpoint]++

	if f.failNext != 0 {
		status := f.failNext
		f.failNext = 0
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	login, authed := f.login(r)
	if r.Header.Get("Authorization") != "" && !authed {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	switch endpoint {
	case "user":
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Requires authentication"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"login": login})
	case "get":
		if f.content == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"content":  wrap(base64.StdEncoding.EncodeToString(f.content), 60),
			"encoding": "base64",
			"sha":      f.sha,
		})
	case "put":
		f.put(w, r, authed)
	}
}

func (f *FakeGitHub) put(w http.ResponseWriter, r *http.Request, authed bool) {
	if !authed {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Requires authentication"})
		return
	}
	var body struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}
	if f.content != nil && body.SHA == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `"sha" wasn't supplied.`})
		return
	}
	if f.content != nil && body.SHA != f.sha {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "is at " + f.sha + " but expected " + body.SHA})
		return
	}
	data, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "content is not valid Base64"})
		return
	}
	status := http.StatusOK
	if f.content == nil {
		status = http.StatusCreated
	}
	f.store(data)
	writeJSON(w, status, map[string]any{"content": map[string]string{"sha": f.sha, "path": f.Path}})
}

func (f *FakeGitHub) login(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "token ")
	if !ok {
		return "", false
	}
	login, found := f.tokens[token]
	return login, found
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
