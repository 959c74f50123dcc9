package freebox_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/pkg/encryption"
	"github.com/benmeehan/freebox-agent/pkg/file"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/identity"
)

const (
	fakeAppToken  = "dyNYgfK0Ya6FWGqq83sBHa7TwzWo+pg4fDFUJHShcjVYzTfaRrZzm93p7OTAfH/0"
	fakeChallenge = "Bj6xMqoe+DCHD44KqBljJ579seOXNWr2"
	fakeTrackID   = 42
)

// fakeBox scripts the Freebox OS API behind a TLS test server.
type fakeBox struct {
	t      *testing.T
	server *httptest.Server

	mu         sync.Mutex
	calls      []string
	counts     map[string]int
	statuses   []string
	token      string
	logins     int
	handlers   map[string]http.HandlerFunc
	apiVersion string
}

func newFakeBox(t *testing.T) *fakeBox {
	fb := &fakeBox{
		t:          t,
		counts:     map[string]int{},
		handlers:   map[string]http.HandlerFunc{},
		apiVersion: "v3",
	}
	fb.server = httptest.NewTLSServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBox) hostPort() (string, int) {
	u, err := url.Parse(fb.server.URL)
	require.NoError(fb.t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(fb.t, err)
	p, err := strconv.Atoi(port)
	require.NoError(fb.t, err)
	return host, p
}

func (fb *fakeBox) api(path string) string {
	return "/api/" + fb.apiVersion + "/" + path
}

// handle registers a handler for "METHOD path", path being relative to the API root.
func (fb *fakeBox) handle(method, path string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[method+" "+fb.api(path)] = h
}

func (fb *fakeBox) setStatuses(statuses ...string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.statuses = statuses
}

// invalidate makes the current session token stale.
func (fb *fakeBox) invalidate() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.token = ""
}

func (fb *fakeBox) count(method, path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.counts[method+" "+fb.api(path)]
}

func (fb *fakeBox) total() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.calls)
}

func (fb *fakeBox) lastCall() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.calls) == 0 {
		return ""
	}
	return fb.calls[len(fb.calls)-1]
}

func (fb *fakeBox) loginCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.logins
}

func (fb *fakeBox) authorized(r *http.Request) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.token != "" && r.Header.Get("X-Fbx-App-Auth") == fb.token
}

func (fb *fakeBox) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	fb.mu.Lock()
	fb.calls = append(fb.calls, key)
	fb.counts[key]++
	handler := fb.handlers[key]
	fb.mu.Unlock()

	switch key {
	case "GET /api_version":
		writeJSON(w, http.StatusOK, map[string]any{
			"api_version":     strings.TrimPrefix(fb.apiVersion, "v") + ".0",
			"api_base_url":    "/api/",
			"api_domain":      "abcdefgh.fbxos.fr",
			"https_available": true,
			"https_port":      30443,
			"device_name":     "Freebox Server",
			"box_model_name":  "Freebox v7 (r1)",
			"uid":             "23b86ec8091013d668829fe12791fdab",
		})
		return
	case "GET " + fb.api("login/"):
		writeResult(w, map[string]any{"logged_in": false, "challenge": fakeChallenge})
		return
	case "POST " + fb.api("login/session/"):
		fb.openSession(w, r)
		return
	case "POST " + fb.api("login/authorize/"):
		writeResult(w, map[string]any{"app_token": fakeAppToken, "track_id": fakeTrackID})
		return
	case "GET " + fb.api(fmt.Sprintf("login/authorize/%d", fakeTrackID)):
		fb.mu.Lock()
		status := "unknown"
		if len(fb.statuses) > 0 {
			status, fb.statuses = fb.statuses[0], fb.statuses[1:]
		}
		fb.mu.Unlock()
		writeResult(w, map[string]any{"status": status, "challenge": fakeChallenge})
		return
	}

	if !fb.authorized(r) {
		writeFailure(w, http.StatusForbidden, "auth_required", "Invalid session token, or not session token sent")
		return
	}
	if handler != nil {
		handler(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (fb *fakeBox) openSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppID    string `json:"app_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Password != encryption.ChallengePassword(fakeAppToken, fakeChallenge) {
		writeFailure(w, http.StatusForbidden, "invalid_token", "The app token you are trying to use is invalid or has been revoked")
		return
	}

	fb.mu.Lock()
	fb.logins++
	fb.token = fmt.Sprintf("session-%d", fb.logins)
	token := fb.token
	fb.mu.Unlock()

	writeResult(w, map[string]any{
		"session_token": token,
		"challenge":     fakeChallenge,
		"permissions":   map[string]bool{"settings": false, "calls": true, "explorer": true},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}

func writeFailure(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error_code": code, "msg": msg})
}

func testDescriptor() identity.AppDescriptor {
	return identity.AppDescriptor{
		AppID:      "fr.freebox.testapp",
		AppName:    "Test App",
		AppVersion: "0.0.7",
		DeviceName: "Pc de Xavier",
	}
}

// newTestClient returns a client talking to fb, with its token file in a temp dir.
func newTestClient(t *testing.T, fb *fakeBox, opts ...freebox.Option) (*freebox.Client, string) {
	tokenFile := filepath.Join(t.TempDir(), "app_auth")
	base := []freebox.Option{
		freebox.WithAppDescriptor(testDescriptor()),
		freebox.WithTokenFile(tokenFile),
		freebox.WithHTTPClient(fb.server.Client()),
		freebox.WithPollInterval(time.Millisecond),
	}
	return freebox.New(append(base, opts...)...), tokenFile
}

// openPaired opens a client whose app token is already stored.
func openPaired(t *testing.T, fb *fakeBox, opts ...freebox.Option) *freebox.Client {
	client, tokenFile := newTestClient(t, fb, opts...)
	require.NoError(t, saveCredentials(tokenFile, testDescriptor()))

	host, port := fb.hostPort()
	require.NoError(t, client.Open(context.Background(), host, port))
	return client
}

func saveCredentials(tokenFile string, desc identity.AppDescriptor) error {
	store := identity.NewTokenStore(tokenFile, file.NewFileService(), nil)
	return store.Save(identity.Credentials{AppDescriptor: desc, AppToken: fakeAppToken, TrackID: fakeTrackID})
}
