package freebox_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

func TestDiscover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api_version", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"api_version":    "8.2",
			"api_base_url":   "/api/",
			"api_domain":     "abcdefgh.fbxos.fr",
			"https_port":     30443,
			"box_model_name": "Freebox v7 (r1)",
		})
	}))
	defer server.Close()

	version, err := freebox.Discover(context.Background(), nil, strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)
	assert.Equal(t, "8.2", version.APIVersion)
	assert.Equal(t, "abcdefgh.fbxos.fr", version.APIDomain)
	assert.Equal(t, 30443, version.HTTPSPort)

	major, err := version.Major()
	require.NoError(t, err)
	assert.Equal(t, "v8", major)

	_, err = (&freebox.APIVersion{APIVersion: "latest"}).Major()
	assert.Error(t, err)
}

func TestOpen_AutoAPIVersion(t *testing.T) {
	fb := newFakeBox(t)
	fb.apiVersion = "v8"
	client := openPaired(t, fb, freebox.WithAPIVersion(freebox.AutoAPIVersion))

	assert.True(t, strings.HasSuffix(client.Access().BaseURL(), "/api/v8/"))
	_, err := client.System.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fb.count(http.MethodGet, "system/"))
}

func TestEvents_Listen(t *testing.T) {
	fb := newFakeBox(t)
	registered := make(chan []string, 1)
	upgrader := websocket.Upgrader{}
	fb.handle(http.MethodGet, "ws/event", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var reg struct {
			Action string   `json:"action"`
			Events []string `json:"events"`
		}
		if err := conn.ReadJSON(&reg); err != nil || reg.Action != "register" {
			return
		}
		registered <- reg.Events

		_ = conn.WriteJSON(map[string]any{"action": "register", "success": true})
		_ = conn.WriteJSON(map[string]any{
			"action":  "notification",
			"success": true,
			"source":  "lan_host",
			"event":   "l3addr_reachable",
			"result":  map[string]any{"primary_name": "nas", "id": "ether-00:11:32:aa:bb:cc"},
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	client := openPaired(t, fb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := client.Permissions(ctx)
	require.NoError(t, err)
	fb.invalidate()

	var mu sync.Mutex
	var received []freebox.Event
	err = client.Events.Listen(ctx, []string{freebox.EventLANHostL3AddrReachable}, func(e freebox.Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"lan_host_l3addr_reachable"}, <-registered)
	require.Len(t, received, 1)
	assert.Equal(t, freebox.EventLANHostL3AddrReachable, received[0].Name())

	var host map[string]any
	require.NoError(t, json.Unmarshal(received[0].Result, &host))
	assert.Equal(t, "nas", host["primary_name"])

	assert.Equal(t, 2, fb.count(http.MethodGet, "ws/event"))
	assert.Equal(t, 2, fb.loginCount())
}

func TestEvents_ListenRequiresEvents(t *testing.T) {
	fb := newFakeBox(t)
	client := openPaired(t, fb)
	assert.Error(t, client.Events.Listen(context.Background(), nil, func(freebox.Event) {}))
}

func TestRemote(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	player := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pub/remote_control", r.URL.Path)
		q := r.URL.Query()
		if q.Get("code") != "52391882" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		mu.Lock()
		keys = append(keys, q.Get("key")+"/"+q.Get("long")+"/"+q.Get("repeat"))
		mu.Unlock()
		if q.Get("key") == "unknown" {
			_, _ = w.Write([]byte("bad key"))
		}
	}))
	defer player.Close()

	fb := newFakeBox(t)
	host := freebox.CustomRemoteHost(strings.TrimPrefix(player.URL, "http://"))
	client := openPaired(t, fb, freebox.WithRemote(host, "52391882"))
	client.Remote.SetKeyDelay(time.Millisecond)
	ctx := context.Background()

	require.NoError(t, client.Remote.SendKey(ctx, freebox.RemoteKey{Key: "power", Long: true}))
	require.NoError(t, client.Remote.SendMacro(ctx, []freebox.RemoteKey{{Key: "1"}, {Key: "2", Repeat: 2}}))
	assert.Equal(t, []string{"power/True/", "1//", "2//2"}, keys)

	err := client.Remote.SendMacro(ctx, []freebox.RemoteKey{{Key: "unknown"}, {Key: "ok"}})
	require.Error(t, err)
	assert.True(t, freebox.IsRequest(err))
	assert.Len(t, keys, 4)

	client.Remote.SetCode("")
	assert.Error(t, client.Remote.SendKey(ctx, freebox.RemoteKey{Key: "ok"}))

	client.Remote.SetCode("0000")
	assert.Error(t, client.Remote.SendKey(ctx, freebox.RemoteKey{Key: "ok"}))

	assert.Equal(t, freebox.RemoteHost("freeboxhd2.freebox.fr"), freebox.FreeboxHDRemoteHost(2))
	assert.Equal(t, freebox.RemoteHost("Freebox-Player.local"), freebox.LocalRemoteHost())
}
