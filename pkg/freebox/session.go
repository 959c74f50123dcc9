package freebox

import (
	"context"
	"maps"
	"net/http"
	"sync"

	"github.com/benmeehan/freebox-agent/pkg/encryption"
)

// Permissions maps a permission name (settings, calls, explorer...) to whether it is granted.
type Permissions map[string]bool

type session struct {
	mu          sync.Mutex
	token       string
	permissions Permissions
}

func (s *session) permissionsCopy() Permissions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.permissions)
}

type challengeResult struct {
	LoggedIn  bool   `json:"logged_in"`
	Challenge string `json:"challenge"`
}

type sessionRequest struct {
	AppID    string `json:"app_id"`
	Password string `json:"password"`
}

type sessionResult struct {
	SessionToken string      `json:"session_token"`
	Challenge    string      `json:"challenge"`
	Permissions  Permissions `json:"permissions"`
}

// sessionToken returns the cached session token, opening a session if there is none.
func (a *Access) sessionToken(ctx context.Context) (string, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}

	a.session.mu.Lock()
	defer a.session.mu.Unlock()

	if a.session.token != "" {
		return a.session.token, nil
	}
	return a.openSessionLocked(ctx)
}

// refreshSession replaces the stale token. If another caller already replaced
// it, the newer token is returned without logging in again.
func (a *Access) refreshSession(ctx context.Context, stale string) (string, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}

	a.session.mu.Lock()
	defer a.session.mu.Unlock()

	if a.session.token != "" && a.session.token != stale {
		return a.session.token, nil
	}
	return a.openSessionLocked(ctx)
}

func (a *Access) openSessionLocked(ctx context.Context) (string, error) {
	token, permissions, err := a.login(ctx)
	a.observer.SessionOpened(err)
	if err != nil {
		a.session.token = ""
		return "", err
	}

	a.session.token = token
	a.session.permissions = permissions
	a.logger.Info().Msg("Session opened")
	a.logger.Debug().Interface("permissions", permissions).Msg("Session permissions")
	return token, nil
}

// login answers the current challenge with the app token.
func (a *Access) login(ctx context.Context) (string, Permissions, error) {
	challenge, err := a.challenge(ctx)
	if err != nil {
		return "", nil, err
	}

	payload, err := jsonBody(sessionRequest{
		AppID:    a.appID,
		Password: encryption.ChallengePassword(a.appToken, challenge),
	})
	if err != nil {
		return "", nil, err
	}

	res, err := exchange(ctx, a.httpClient, http.MethodPost, a.url("login/session/"), payload, "")
	if err != nil {
		return "", nil, authorizationError("failed to open session", nil, err)
	}
	if !res.isJSON() || !res.OK {
		return "", nil, authorizationError("failed to open session", res, nil)
	}

	var result sessionResult
	if err := res.decode(&result); err != nil {
		return "", nil, authorizationError("failed to open session", res, err)
	}
	if result.SessionToken == "" {
		return "", nil, authorizationError("failed to open session: empty session token", res, nil)
	}
	return result.SessionToken, result.Permissions, nil
}

func (a *Access) challenge(ctx context.Context) (string, error) {
	res, err := exchange(ctx, a.httpClient, http.MethodGet, a.url("login/"), nil, "")
	if err != nil {
		return "", authorizationError("failed to get challenge", nil, err)
	}
	if !res.isJSON() || !res.OK {
		return "", authorizationError("failed to get challenge", res, nil)
	}

	var result challengeResult
	if err := res.decode(&result); err != nil {
		return "", authorizationError("failed to get challenge", res, err)
	}
	return result.Challenge, nil
}

// logout closes the current session on the Freebox. A stale session is
// refreshed once like any other call.
func (a *Access) logout(ctx context.Context) error {
	a.session.mu.Lock()
	token := a.session.token
	a.session.mu.Unlock()

	if token == "" {
		return nil
	}

	if err := a.Post(ctx, "login/logout/", nil, nil); err != nil {
		return err
	}

	a.session.mu.Lock()
	a.session.token = ""
	a.session.permissions = nil
	a.session.mu.Unlock()
	return nil
}
