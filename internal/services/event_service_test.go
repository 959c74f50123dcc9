package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/internal/mocks"
	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/internal/services"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Listen(ctx context.Context, events []string, handler func(freebox.Event)) error {
	args := m.Called(ctx, events, handler)
	return args.Error(0)
}

// blockUntilDone delivers event, then holds the stream open until the service stops.
func blockUntilDone(event freebox.Event) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(2).(func(freebox.Event))(event)
		<-args.Get(0).(context.Context).Done()
	}
}

func TestEventService_ForwardsNotifications(t *testing.T) {
	event := freebox.Event{
		Action:  "notification",
		Success: true,
		Source:  "lan_host",
		Event:   "l3addr_reachable",
		Result:  json.RawMessage(`{"id":"ether-00:24:d4:00:00:01"}`),
	}
	listener := new(mockListener)
	listener.On("Listen", mock.Anything, []string{freebox.EventLANHostL3AddrReachable}, mock.Anything).
		Return(context.Canceled).Run(blockUntilDone(event))

	client := new(mocks.MockMQTTClient)
	payloads := capturePublish(client, "freebox/events/lan_host_l3addr_reachable", nil)

	s := services.NewEventService("freebox/events", 1, []string{freebox.EventLANHostL3AddrReachable}, time.Millisecond,
		"fbx", listener, client, zerolog.Nop())
	require.NoError(t, s.Start())

	var payload []byte
	select {
	case payload = <-payloads:
	case <-time.After(2 * time.Second):
		t.Fatal("event not forwarded")
	}
	require.NoError(t, s.Stop())

	var message models.EventMessage
	require.NoError(t, json.Unmarshal(payload, &message))
	assert.Equal(t, "lan_host_l3addr_reachable", message.Name)
	assert.Equal(t, "fbx", message.Host)
	assert.JSONEq(t, `{"id":"ether-00:24:d4:00:00:01"}`, string(message.Result))
}

func TestEventService_Reconnects(t *testing.T) {
	listener := new(mockListener)
	listener.On("Listen", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("event stream closed")).Once()
	listener.On("Listen", mock.Anything, mock.Anything, mock.Anything).Return(context.Canceled).
		Run(blockUntilDone(freebox.Event{Source: "vm", Event: "state_changed"}))

	client := new(mocks.MockMQTTClient)
	payloads := capturePublish(client, "ev/vm_state_changed", nil)

	s := services.NewEventService("ev", 0, []string{freebox.EventVMStateChanged}, 10*time.Millisecond,
		"fbx", listener, client, zerolog.Nop())
	require.NoError(t, s.Start())

	select {
	case <-payloads:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not reopened")
	}
	require.NoError(t, s.Stop())
	listener.AssertNumberOfCalls(t, "Listen", 2)
}

func TestEventService_StartStop(t *testing.T) {
	listener := new(mockListener)
	client := new(mocks.MockMQTTClient)

	empty := services.NewEventService("ev", 0, nil, time.Second, "fbx", listener, client, zerolog.Nop())
	assert.EqualError(t, empty.Start(), "no events configured")
	assert.EqualError(t, empty.Stop(), "event service is not running")
}
