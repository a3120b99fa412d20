package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/logging"
	"csvdesk/internal/session"
)

const (
	MsgCredentialsRequired = "Email and password are required."
	MsgLoginFailed         = "Login failed. Please try again."
	MsgMissingToken        = "Login response did not include a token."
)

// Authenticator exchanges credentials for a token and verifies tokens.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*api.VerifyResult, error)
}

// Login is the sign-in form. It is the only writer of the auth session.
type Login struct {
	lifecycle

	client Authenticator
	auth   *session.Auth
	nav    Navigator
	log    *slog.Logger
	guard  *inflight

	mu       sync.Mutex
	email    string
	password string
	errMsg   string
}

func NewLogin(client Authenticator, auth *session.Auth, nav Navigator) *Login {
	return &Login{
		client: client,
		auth:   auth,
		nav:    navigatorOrNop(nav),
		log:    logging.New("login"),
		guard:  newInflight(),
	}
}

func (l *Login) SetEmail(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.email = email
}

func (l *Login) SetPassword(password string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.password = password
}

// Credentials returns the form fields as currently entered.
func (l *Login) Credentials() (email, password string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.email, l.password
}

// Submitting reports whether a sign-in is in flight.
func (l *Login) Submitting() bool { return l.guard.busy() }

// ErrorText returns the current error message.
func (l *Login) ErrorText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

// Submit signs in with the entered credentials. On success the session is
// persisted and the user is sent to the upload view. On failure the email
// is kept and the password cleared.
func (l *Login) Submit(ctx context.Context) error {
	if !l.guard.begin() {
		return ErrBusy
	}
	defer l.guard.end()

	email, password := l.Credentials()
	if strings.TrimSpace(email) == "" || password == "" {
		l.setError(MsgCredentialsRequired)
		return invalid(MsgCredentialsRequired)
	}
	l.setError("")

	res, err := l.client.Login(ctx, email, password)
	if err == nil && !res.Success {
		msg := res.Message
		if msg == "" {
			msg = MsgLoginFailed
		}
		err = errors.New(msg)
	}
	if err == nil && res.Token == "" {
		err = errors.New(MsgMissingToken)
	}
	if err != nil {
		l.log.Warn("login failed", "email", email, "error", err)
		if l.Mounted() {
			msg := api.Message(err)
			if msg == "" {
				msg = MsgLoginFailed
			}
			l.fail(msg)
		}
		return err
	}

	if err := l.auth.Login(res.Token, res.User); err != nil {
		if l.Mounted() {
			l.fail(MsgLoginFailed)
		}
		return fmt.Errorf("save session: %w", err)
	}
	l.log.Info("signed in", "email", email)
	if !l.Mounted() {
		return nil
	}
	l.SetPassword("")
	l.nav.Navigate(RouteUpload)
	return nil
}

// VerifySession checks a rehydrated token with the backend. A valid token
// gets its user recorded; a rejected one (401) signs the session out. Other
// failures leave the session as it was.
func (l *Login) VerifySession(ctx context.Context) error {
	token := l.auth.Token()
	if token == "" {
		return nil
	}
	res, err := l.client.VerifyToken(ctx, token)
	if err != nil {
		if api.IsUnauthorized(err) {
			l.log.Info("stored token rejected, signing out")
			if lerr := l.auth.Logout(); lerr != nil {
				return errors.Join(err, lerr)
			}
		}
		return err
	}
	if res.Success {
		l.auth.SetUser(res.User)
	}
	return nil
}

// Logout ends the session.
func (l *Login) Logout() error {
	if err := l.auth.Logout(); err != nil {
		return err
	}
	l.log.Info("signed out")
	l.nav.Navigate(RouteLogin)
	return nil
}

func (l *Login) setError(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errMsg = msg
}

// fail records a failed attempt. The password never outlives one.
func (l *Login) fail(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errMsg = msg
	l.password = ""
}
