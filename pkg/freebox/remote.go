package freebox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// RemoteHost is the address of the player receiving remote control keys.
type RemoteHost string

// LocalRemoteHost reaches the player by its mDNS name.
func LocalRemoteHost() RemoteHost {
	return "Freebox-Player.local"
}

// FreeboxHDRemoteHost reaches the player number playerID through the freebox.fr domain.
func FreeboxHDRemoteHost(playerID int) RemoteHost {
	if playerID <= 0 {
		playerID = 1
	}
	return RemoteHost(fmt.Sprintf("freeboxhd%d.freebox.fr", playerID))
}

// CustomRemoteHost reaches the player at host (name or host:port).
func CustomRemoteHost(host string) RemoteHost {
	return RemoteHost(host)
}

const (
	// DefaultKeyDelay separates two keys of a macro.
	DefaultKeyDelay = time.Second

	remoteControlPath = "/pub/remote_control"
	remoteKeyTimeout  = 5 * time.Second
)

// RemoteKey is one key press. Key is a name such as "power", "ok", "vol_inc" or a digit.
type RemoteKey struct {
	Key    string
	Long   bool
	Repeat int
}

// Remote sends keys to a player, as the network remote does. The remote code
// is shown in the player settings.
type Remote struct {
	access *Access

	mu       sync.Mutex
	host     RemoteHost
	code     string
	keyDelay time.Duration
}

// SetHost changes the player receiving the keys.
func (r *Remote) SetHost(host RemoteHost) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = host
}

// SetCode sets the remote control code of the player.
func (r *Remote) SetCode(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
}

// SetKeyDelay changes the pause between two keys of a macro.
func (r *Remote) SetKeyDelay(delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keyDelay = delay
}

func (r *Remote) settings() (RemoteHost, string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host, r.code, r.keyDelay
}

// SendKey presses one key.
func (r *Remote) SendKey(ctx context.Context, key RemoteKey) error {
	host, code, _ := r.settings()
	return r.send(ctx, host, code, key)
}

// SendMacro presses keys one after the other, stopping at the first failure.
func (r *Remote) SendMacro(ctx context.Context, keys []RemoteKey) error {
	host, code, delay := r.settings()
	for i, key := range keys {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := r.send(ctx, host, code, key); err != nil {
			return fmt.Errorf("key %d (%s): %w", i, key.Key, err)
		}
	}
	return nil
}

func (r *Remote) send(ctx context.Context, host RemoteHost, code string, key RemoteKey) error {
	if err := r.access.checkOpen(); err != nil {
		return err
	}
	if code == "" {
		return &Error{Kind: ErrorKindRequest, Message: "remote control code is not set"}
	}

	query := url.Values{}
	query.Set("code", code)
	query.Set("key", key.Key)
	if key.Long {
		query.Set("long", "True")
	}
	if key.Repeat > 0 {
		query.Set("repeat", strconv.Itoa(key.Repeat))
	}
	target := url.URL{Scheme: "http", Host: string(host), Path: remoteControlPath, RawQuery: query.Encode()}

	ctx, cancel := context.WithTimeout(ctx, remoteKeyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.access.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach player %s: %w", host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read player response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || len(body) > 0 {
		return &Error{Kind: ErrorKindRequest, Message: fmt.Sprintf("key %q rejected by the player (HTTP %d)", key.Key, resp.StatusCode)}
	}
	return nil
}
