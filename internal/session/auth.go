package session

import (
	"fmt"
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/store"
)

// AuthSnapshot is a point-in-time copy of the auth state.
type AuthSnapshot struct {
	Token    string    `json:"token,omitempty"`
	User     *api.User `json:"user,omitempty"`
	SignedIn bool      `json:"signed_in"`
}

// Auth is the authentication state. SignedIn is true exactly when a token is
// held. Login and Logout are the only transitions.
type Auth struct {
	storage store.Store

	mu    sync.RWMutex
	token string
	user  *api.User
}

// NewAuth creates the auth state, rehydrating the token from storage when
// one was persisted. A rehydrated session has no user until it is verified.
func NewAuth(storage store.Store) (*Auth, error) {
	a := &Auth{storage: storage}
	tok, ok, err := storage.Get(store.AuthTokenKey)
	if err != nil {
		return nil, fmt.Errorf("rehydrate auth token: %w", err)
	}
	if ok {
		a.token = tok
	}
	return a, nil
}

// Login signs the session in and persists token before returning. If
// persisting fails the in-memory state is left unchanged.
func (a *Auth) Login(token string, user *api.User) error {
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.storage.Set(store.AuthTokenKey, token); err != nil {
		return fmt.Errorf("persist auth token: %w", err)
	}
	a.token = token
	a.user = cloneUser(user)
	return nil
}

// Logout clears the session and erases the persisted token.
func (a *Auth) Logout() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.storage.Remove(store.AuthTokenKey); err != nil {
		return fmt.Errorf("erase auth token: %w", err)
	}
	a.token = ""
	a.user = nil
	return nil
}

// SetUser records the profile of an already signed-in session, e.g. after
// verifying a rehydrated token. It is a no-op when signed out.
func (a *Auth) SetUser(user *api.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" {
		return
	}
	a.user = cloneUser(user)
}

// Token returns the current token, or "" when signed out.
func (a *Auth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// User returns a copy of the signed-in user, or nil.
func (a *Auth) User() *api.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneUser(a.user)
}

// SignedIn reports whether a token is held.
func (a *Auth) SignedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != ""
}

// Snapshot returns a copy of the full auth state.
func (a *Auth) Snapshot() AuthSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AuthSnapshot{
		Token:    a.token,
		User:     cloneUser(a.user),
		SignedIn: a.token != "",
	}
}

func cloneUser(u *api.User) *api.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
