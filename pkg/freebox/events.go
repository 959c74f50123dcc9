package freebox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Event names accepted by Events.Listen.
const (
	EventLANHostL3AddrReachable   = "lan_host_l3addr_reachable"
	EventLANHostL3AddrUnreachable = "lan_host_l3addr_unreachable"
	EventVMStateChanged           = "vm_state_changed"
	EventVMDiskTaskDone           = "vm_disk_task_done"
)

const eventHandshakeTimeout = 10 * time.Second

// Event is a notification pushed by the Freebox on ws/event.
type Event struct {
	Action  string          `json:"action"`
	Success bool            `json:"success"`
	Source  string          `json:"source,omitempty"`
	Event   string          `json:"event,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Msg     string          `json:"msg,omitempty"`
}

// Name returns the subscription name of the event, e.g. lan_host_l3addr_reachable.
func (e Event) Name() string {
	return e.Source + "_" + e.Event
}

type registerMessage struct {
	Action string   `json:"action"`
	Events []string `json:"events"`
}

// Events wraps the ws/event notification stream.
type Events struct {
	access *Access
}

// Listen subscribes to events and calls handler for each notification until
// ctx is done or the connection fails. It returns ctx.Err() on cancellation.
func (e *Events) Listen(ctx context.Context, events []string, handler func(Event)) error {
	if len(events) == 0 {
		return errors.New("no event to listen to")
	}

	conn, err := e.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := conn.WriteJSON(registerMessage{Action: "register", Events: events}); err != nil {
		return fmt.Errorf("failed to register events: %w", err)
	}
	e.access.logger.Debug().Strs("events", events).Msg("Registered to Freebox events")

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("event stream closed: %w", err)
		}

		switch event.Action {
		case "register":
			if !event.Success {
				return &Error{Kind: ErrorKindRequest, Message: fmt.Sprintf("event registration refused: %s", event.Msg)}
			}
		case "notification":
			handler(event)
		default:
			e.access.logger.Debug().Str("action", event.Action).Msg("Ignoring event message")
		}
	}
}

// dial opens the websocket. A handshake refused for authentication refreshes
// the session and is attempted once more.
func (e *Events) dial(ctx context.Context) (*websocket.Conn, error) {
	if err := e.access.checkOpen(); err != nil {
		return nil, err
	}

	endpoint := strings.Replace(e.access.url("ws/event"), "https://", "wss://", 1)
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		TLSClientConfig:  tlsConfigOf(e.access.httpClient),
		HandshakeTimeout: eventHandshakeTimeout,
	}

	token, err := e.access.sessionToken(ctx)
	if err != nil {
		return nil, err
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, http.Header{authHeader: []string{token}})
	if err != nil && resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		e.access.logger.Debug().Int("status", resp.StatusCode).Msg("Event stream refused, refreshing session")
		if token, err = e.access.refreshSession(ctx, token); err != nil {
			return nil, err
		}
		e.access.observer.Retried()
		conn, _, err = dialer.DialContext(ctx, endpoint, http.Header{authHeader: []string{token}})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	return conn, nil
}
