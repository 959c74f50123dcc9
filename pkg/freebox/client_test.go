package freebox_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/identity"
)

func TestOpen_InvalidDescriptorMakesNoRequest(t *testing.T) {
	fb := newFakeBox(t)
	desc := testDescriptor()
	desc.DeviceName = ""
	client, tokenFile := newTestClient(t, fb, freebox.WithAppDescriptor(desc))

	host, port := fb.hostPort()
	err := client.Open(context.Background(), host, port)
	require.Error(t, err)
	assert.True(t, freebox.IsInvalidAppDesc(err))
	assert.Contains(t, err.Error(), "device_name")
	assert.Zero(t, fb.total())

	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpen_PairsAndWritesTokenFile(t *testing.T) {
	fb := newFakeBox(t)
	fb.setStatuses("pending", "pending", "granted")
	client, tokenFile := newTestClient(t, fb)

	host, port := fb.hostPort()
	require.NoError(t, client.Open(context.Background(), host, port))

	assert.Equal(t, 1, fb.count(http.MethodPost, "login/authorize/"))
	assert.Equal(t, 3, fb.count(http.MethodGet, "login/authorize/42"))

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, fakeAppToken, stored["app_token"])
	assert.Equal(t, float64(fakeTrackID), stored["track_id"])
	assert.Equal(t, "fr.freebox.testapp", stored["app_id"])
	assert.Equal(t, "Pc de Xavier", stored["device_name"])
}

func TestOpen_PairingFailures(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
	}{
		{"denied", []string{"pending", "denied"}},
		{"timeout", []string{"timeout"}},
		{"unknown", []string{"unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBox(t)
			fb.setStatuses(tt.statuses...)
			client, tokenFile := newTestClient(t, fb)

			host, port := fb.hostPort()
			err := client.Open(context.Background(), host, port)
			require.Error(t, err)
			assert.True(t, freebox.IsAuthorization(err))
			assert.Equal(t, len(tt.statuses), fb.count(http.MethodGet, "login/authorize/42"))

			_, statErr := os.Stat(tokenFile)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestOpen_PairingStopsOnCancel(t *testing.T) {
	fb := newFakeBox(t)
	fb.setStatuses("pending", "pending")
	client, tokenFile := newTestClient(t, fb, freebox.WithPollInterval(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	host, port := fb.hostPort()
	err := client.Open(ctx, host, port)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, fb.count(http.MethodGet, "login/authorize/42"))

	_, statErr := os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpen_ReusesStoredToken(t *testing.T) {
	fb := newFakeBox(t)
	client := openPaired(t, fb)

	assert.Zero(t, fb.count(http.MethodPost, "login/authorize/"))

	_, err := client.System.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fb.loginCount())
}

func TestOpen_PairsAgainWhenDescriptorChanged(t *testing.T) {
	fb := newFakeBox(t)
	fb.setStatuses("granted")
	client, tokenFile := newTestClient(t, fb)

	old := testDescriptor()
	old.AppVersion = "0.0.6"
	require.NoError(t, saveCredentials(tokenFile, old))

	host, port := fb.hostPort()
	require.NoError(t, client.Open(context.Background(), host, port))
	assert.Equal(t, 1, fb.count(http.MethodPost, "login/authorize/"))

	var stored identity.Credentials
	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, testDescriptor(), stored.AppDescriptor)
}

func TestAccess_RefreshesSessionOnce(t *testing.T) {
	fb := newFakeBox(t)
	client := openPaired(t, fb)
	ctx := context.Background()

	_, err := client.System.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, fb.loginCount())

	fb.invalidate()
	config, err := client.System.GetConfig(ctx)
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.Equal(t, 3, fb.count(http.MethodGet, "system/"))
	assert.Equal(t, 2, fb.loginCount())
}

func TestAccess_NoThirdAttempt(t *testing.T) {
	fb := newFakeBox(t)
	fb.handle(http.MethodGet, "system/", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusForbidden, "invalid_session", "session expired")
	})
	client := openPaired(t, fb)

	_, err := client.System.GetConfig(context.Background())
	require.Error(t, err)
	assert.True(t, freebox.IsRequest(err))
	assert.Equal(t, 2, fb.count(http.MethodGet, "system/"))
	assert.Equal(t, 2, fb.loginCount())

	var fbxErr *freebox.Error
	require.ErrorAs(t, err, &fbxErr)
	assert.Equal(t, "invalid_session", fbxErr.Code)
}

func TestAccess_ConcurrentRefreshLogsInOnce(t *testing.T) {
	fb := newFakeBox(t)
	client := openPaired(t, fb)
	ctx := context.Background()

	_, err := client.System.GetConfig(ctx)
	require.NoError(t, err)
	fb.invalidate()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.System.GetConfig(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, fb.loginCount())
}

func TestAccess_ErrorKinds(t *testing.T) {
	fb := newFakeBox(t)
	fb.handle(http.MethodPost, "system/reboot", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusForbidden, "insufficient_rights", "Your app permissions does not allow accessing this API")
	})
	fb.handle(http.MethodGet, "dhcp/config/", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusBadRequest, "inval", "Invalid request")
	})
	client := openPaired(t, fb)
	ctx := context.Background()

	err := client.System.Reboot(ctx)
	require.Error(t, err)
	assert.True(t, freebox.IsInsufficientRights(err))
	assert.True(t, freebox.IsRequest(err))
	assert.False(t, freebox.IsAuthorization(err))

	_, err = client.DHCP.GetConfig(ctx)
	require.Error(t, err)
	assert.True(t, freebox.IsRequest(err))
	assert.False(t, freebox.IsInsufficientRights(err))

	var fbxErr *freebox.Error
	require.ErrorAs(t, err, &fbxErr)
	assert.Equal(t, "inval", fbxErr.Code)
	assert.Contains(t, string(fbxErr.Response), `"error_code":"inval"`)
	assert.Equal(t, 1, fb.count(http.MethodGet, "dhcp/config/"))
}

func TestAccess_NonJSONPassthrough(t *testing.T) {
	fb := newFakeBox(t)
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	fb.handle(http.MethodGet, "camera/1/snapshot.cgi", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("size"))
		assert.Equal(t, "5", r.URL.Query().Get("quality"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(image)
	})
	fb.handle(http.MethodGet, "camera", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, []map[string]any{{"id": 1, "name": "entrée", "stream_url": "/camera/1/stream.m3u8"}})
	})
	client := openPaired(t, fb)
	ctx := context.Background()

	snapshot, err := client.Home.GetCameraSnapshot(ctx, 0, freebox.CameraSize1280x720, 5)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", snapshot.ContentType)
	assert.Equal(t, image, snapshot.Body)

	var body []byte
	require.NoError(t, client.Access().Get(ctx, "camera/1/snapshot.cgi?size=4&quality=5", &body))
	assert.Equal(t, image, body)

	_, err = client.Home.GetCameraSnapshot(ctx, 3, freebox.CameraSize320x240, 5)
	assert.Error(t, err)
}

func TestPermissions(t *testing.T) {
	fb := newFakeBox(t)
	client := openPaired(t, fb)

	perms, err := client.Permissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, freebox.Permissions{"settings": false, "calls": true, "explorer": true}, perms)
	assert.Equal(t, 1, fb.loginCount())
}

func TestClose(t *testing.T) {
	fb := newFakeBox(t)
	ctx := context.Background()

	client, _ := newTestClient(t, fb)
	err := client.Close(ctx)
	require.Error(t, err)
	assert.True(t, freebox.IsNotOpen(err))

	_, err = client.Permissions(ctx)
	assert.True(t, freebox.IsNotOpen(err))

	client = openPaired(t, fb)
	_, err = client.Permissions(ctx)
	require.NoError(t, err)
	require.NoError(t, client.Close(ctx))
	assert.Equal(t, 1, fb.count(http.MethodPost, "login/logout/"))

	assert.True(t, freebox.IsNotOpen(client.Close(ctx)))
}

func TestCallBeforeOpen(t *testing.T) {
	ctx := context.Background()
	client := freebox.New()

	_, err := client.System.GetConfig(ctx)
	require.Error(t, err)
	assert.True(t, freebox.IsNotOpen(err))

	err = client.Remote.SendKey(ctx, freebox.RemoteKey{Key: "power"})
	assert.True(t, freebox.IsNotOpen(err))

	err = client.Events.Listen(ctx, []string{"lan_host_l3addr_reachable"}, func(freebox.Event) {})
	assert.True(t, freebox.IsNotOpen(err))
}

func TestCallAfterClose(t *testing.T) {
	fb := newFakeBox(t)
	ctx := context.Background()

	client := openPaired(t, fb)
	system := client.System
	_, err := system.GetConfig(ctx)
	require.NoError(t, err)
	require.NoError(t, client.Close(ctx))

	_, err = system.GetConfig(ctx)
	require.Error(t, err)
	assert.True(t, freebox.IsNotOpen(err))
	_, err = client.Permissions(ctx)
	assert.True(t, freebox.IsNotOpen(err))

	assert.Equal(t, 1, fb.loginCount())
	assert.Equal(t, 1, fb.count(http.MethodGet, "system/"))
}

func TestClose_RefreshesStaleSession(t *testing.T) {
	fb := newFakeBox(t)
	ctx := context.Background()

	client := openPaired(t, fb)
	_, err := client.Permissions(ctx)
	require.NoError(t, err)
	fb.invalidate()

	require.NoError(t, client.Close(ctx))
	assert.Equal(t, 2, fb.loginCount())
	assert.Equal(t, 2, fb.count(http.MethodPost, "login/logout/"))
}

type countingObserver struct {
	mu       sync.Mutex
	requests int
	failures int
	sessions int
	retries  int
}

func (o *countingObserver) RequestDone(method string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests++
	if err != nil {
		o.failures++
	}
}

func (o *countingObserver) SessionOpened(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions++
}

func (o *countingObserver) Retried() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries++
}

func TestObserver(t *testing.T) {
	fb := newFakeBox(t)
	fb.handle(http.MethodGet, "dhcp/config/", func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusBadRequest, "inval", "Invalid request")
	})
	observer := &countingObserver{}
	client := openPaired(t, fb, freebox.WithObserver(observer))
	ctx := context.Background()

	_, err := client.System.GetConfig(ctx)
	require.NoError(t, err)
	fb.invalidate()
	_, err = client.System.GetConfig(ctx)
	require.NoError(t, err)
	_, err = client.DHCP.GetConfig(ctx)
	require.Error(t, err)

	assert.Equal(t, 3, observer.requests)
	assert.Equal(t, 1, observer.failures)
	assert.Equal(t, 2, observer.sessions)
	assert.Equal(t, 1, observer.retries)
}
