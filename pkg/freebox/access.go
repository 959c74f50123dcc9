package freebox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const authHeader = "X-Fbx-App-Auth"

// Access performs authenticated calls against one Freebox. It is shared by every
// resource wrapper and is safe for concurrent use.
type Access struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	appToken   string

	session  *session
	observer Observer
	logger   zerolog.Logger

	closed atomic.Bool
}

func newAccess(httpClient *http.Client, baseURL, appID, appToken string, observer Observer, logger zerolog.Logger) *Access {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Access{
		httpClient: httpClient,
		baseURL:    baseURL,
		appID:      appID,
		appToken:   appToken,
		session:    &session{},
		observer:   observer,
		logger:     logger,
	}
}

// newClosedAccess returns an Access that answers every call with a not-open error.
func newClosedAccess(observer Observer, logger zerolog.Logger) *Access {
	a := newAccess(nil, "", "", "", observer, logger)
	a.closed.Store(true)
	return a
}

// checkOpen fails once the client has been closed, or before it was opened.
func (a *Access) checkOpen() error {
	if a.closed.Load() {
		return notOpenError()
	}
	return nil
}

// BaseURL returns the API root, e.g. https://mafreebox.freebox.fr:443/api/v3/.
func (a *Access) BaseURL() string {
	return a.baseURL
}

// Get performs a GET on path and decodes the result into out.
func (a *Access) Get(ctx context.Context, path string, out any) error {
	return a.call(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST on path with payload JSON-encoded.
func (a *Access) Post(ctx context.Context, path string, payload, out any) error {
	return a.call(ctx, http.MethodPost, path, payload, out)
}

// Put performs a PUT on path with payload JSON-encoded.
func (a *Access) Put(ctx context.Context, path string, payload, out any) error {
	return a.call(ctx, http.MethodPut, path, payload, out)
}

// Delete performs a DELETE on path. Some endpoints take a payload.
func (a *Access) Delete(ctx context.Context, path string, payload, out any) error {
	return a.call(ctx, http.MethodDelete, path, payload, out)
}

// Permissions returns the permissions granted to the current session.
func (a *Access) Permissions(ctx context.Context) (Permissions, error) {
	if _, err := a.sessionToken(ctx); err != nil {
		return nil, err
	}
	return a.session.permissionsCopy(), nil
}

func (a *Access) call(ctx context.Context, method, path string, payload, out any) error {
	res, err := a.perform(ctx, method, path, payload)
	a.observer.RequestDone(method, err)
	if err != nil {
		return err
	}
	return res.decode(out)
}

// perform sends the request with the cached session token. When the Freebox
// rejects the token, the session is refreshed and the request replayed once.
func (a *Access) perform(ctx context.Context, method, path string, payload any) (*apiResult, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return nil, err
	}

	token, err := a.sessionToken(ctx)
	if err != nil {
		return nil, err
	}

	url := a.url(path)
	res, err := exchange(ctx, a.httpClient, method, url, body, token)
	if err != nil {
		return nil, err
	}

	if res.needsNewSession() {
		a.logger.Debug().Str("path", path).Str("error_code", res.ErrorCode).Msg("Invalid session, refreshing")
		if token, err = a.refreshSession(ctx, token); err != nil {
			return nil, err
		}
		a.observer.Retried()
		if res, err = exchange(ctx, a.httpClient, method, url, body, token); err != nil {
			return nil, err
		}
	}

	if err := res.err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Access) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return a.baseURL + strings.TrimPrefix(path, "/")
}

func jsonBody(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request payload: %w", err)
	}
	return body, nil
}

// exchange sends one HTTP request and reads the whole response. An empty token
// omits the authentication header.
func exchange(ctx context.Context, client *http.Client, method, url string, body []byte, token string) (*apiResult, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(authHeader, token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return newAPIResult(resp.StatusCode, resp.Header.Get("Content-Type"), data)
}

// stream performs an authenticated GET and hands back the response body
// unread. JSON answers are treated as API envelopes, so a rejected session is
// refreshed and the request replayed once, as for the other calls.
func (a *Access) stream(ctx context.Context, path string) (io.ReadCloser, error) {
	token, err := a.sessionToken(ctx)
	if err != nil {
		return nil, err
	}

	url := a.url(path)
	body, res, err := a.openStream(ctx, url, token)
	if err == nil && res != nil && res.needsNewSession() {
		if token, err = a.refreshSession(ctx, token); err != nil {
			a.observer.RequestDone(http.MethodGet, err)
			return nil, err
		}
		a.observer.Retried()
		body, res, err = a.openStream(ctx, url, token)
	}
	if err == nil && res != nil {
		err = res.err()
		if err == nil {
			err = &Error{Kind: ErrorKindRequest, Message: "unexpected JSON response", Response: res.raw}
		}
	}
	a.observer.RequestDone(http.MethodGet, err)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// openStream returns either the live body of a non-JSON response or the
// parsed envelope of a JSON one.
func (a *Access) openStream(ctx context.Context, url, token string) (io.ReadCloser, *apiResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(authHeader, token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", url, err)
	}

	probe := &apiResult{statusCode: resp.StatusCode, contentType: resp.Header.Get("Content-Type")}
	if !probe.isJSON() {
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, &Error{Kind: ErrorKindRequest, Message: fmt.Sprintf("download failed: HTTP %d", resp.StatusCode)}
		}
		return resp.Body, nil, nil
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	res, err := newAPIResult(resp.StatusCode, probe.contentType, data)
	return nil, res, err
}
