// Package auth decides who is looking at the tracker: the repository
// owner, who may edit, or anyone else, who may only view.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/github"
)

// ErrNotAuthenticated is returned when an operation needs a credential
// and none is stored.
var ErrNotAuthenticated = errors.New("not authenticated")

type State string

const (
	StateAnonymous  State = "anonymous"
	StateValidating State = "validating"
	StateOwner      State = "owner"
	StateNonOwner   State = "non-owner"
)

// IdentityClient resolves a token to its account login.
type IdentityClient interface {
	GetUser(ctx context.Context, token string) (string, error)
}

// CredentialStore persists the token and the login cached for it.
type CredentialStore interface {
	Credential(ctx context.Context) (token, username string, err error)
	SetToken(ctx context.Context, token string) error
	SetUsername(ctx context.Context, username string) error
	ClearCredential(ctx context.Context) error
}

// Gate is the authentication state machine. Safe for concurrent use.
type Gate struct {
	client IdentityClient
	store  CredentialStore
	owner  string

	mu       sync.Mutex
	token    string
	username string
	onLogout []func(context.Context) error
}

// NewGate creates a Gate for the given repository owner. An empty owner
// puts the tracker in local-only mode, where the user always edits.
func NewGate(client IdentityClient, store CredentialStore, owner string) *Gate {
	return &Gate{client: client, store: store, owner: owner}
}

// Load restores the stored credential.
func (g *Gate) Load(ctx context.Context) error {
	token, username, err := g.store.Credential(ctx)
	if err != nil {
		return fmt.Errorf("loading credential: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token, g.username = token, username
	return nil
}

// OnLogout registers a hook run by Logout, e.g. to drop sync caches.
func (g *Gate) OnLogout(fn func(context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onLogout = append(g.onLogout, fn)
}

// Owner returns the configured repository owner.
func (g *Gate) Owner() string {
	return g.owner
}

// LocalOnly reports whether no repository owner is configured.
func (g *Gate) LocalOnly() bool {
	return g.owner == ""
}

// Token returns the stored token, or "" when anonymous.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Username returns the cached login, or "" when not yet validated.
func (g *Gate) Username() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.username
}

// State reports the current authentication state without any network
// call.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *Gate) stateLocked() State {
	switch {
	case g.token == "":
		return StateAnonymous
	case g.username == "":
		return StateValidating
	case g.matchesOwner(g.username):
		return StateOwner
	default:
		return StateNonOwner
	}
}

func (g *Gate) matchesOwner(username string) bool {
	return g.owner != "" && strings.EqualFold(username, g.owner)
}

// SetCredential stores token without validating it.
func (g *Gate) SetCredential(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required: %w", domain.ErrInvalid)
	}
	if err := g.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token, g.username = token, ""
	return nil
}

// Validate checks the stored token against the identity endpoint. A
// rejected token is cleared and Validate returns false with
// github.ErrUnauthorized. Any other failure returns false and keeps the
// token so the caller can retry. On success the login is cached.
func (g *Gate) Validate(ctx context.Context) (bool, error) {
	token := g.Token()
	if token == "" {
		return false, ErrNotAuthenticated
	}

	login, err := g.client.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, github.ErrUnauthorized) {
			if clearErr := g.clear(ctx); clearErr != nil {
				return false, errors.Join(err, clearErr)
			}
		}
		return false, err
	}

	if err := g.store.SetUsername(ctx, login); err != nil {
		return false, fmt.Errorf("caching username: %w", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == token {
		g.username = login
	}
	return true, nil
}

// IsOwner reports whether the stored credential belongs to the
// repository owner, validating it first if no login is cached. It never
// calls the network without a credential.
func (g *Gate) IsOwner(ctx context.Context) bool {
	if g.LocalOnly() {
		return false
	}
	switch g.State() {
	case StateAnonymous:
		return false
	case StateValidating:
		if ok, _ := g.Validate(ctx); !ok {
			return false
		}
	}
	return g.State() == StateOwner
}

// ViewMode is owner when the user may edit, public otherwise.
func (g *Gate) ViewMode(ctx context.Context) domain.ViewMode {
	if g.LocalOnly() || g.IsOwner(ctx) {
		return domain.ViewOwner
	}
	return domain.ViewPublic
}

// Logout clears the credential, the cached login and everything
// registered with OnLogout. It always runs every step.
func (g *Gate) Logout(ctx context.Context) error {
	errs := []error{g.clear(ctx)}
	g.mu.Lock()
	hooks := slices.Clone(g.onLogout)
	g.mu.Unlock()
	for _, fn := range hooks {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

func (g *Gate) clear(ctx context.Context) error {
	g.mu.Lock()
	g.token, g.username = "", ""
	g.mu.Unlock()
	if err := g.store.ClearCredential(ctx); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
