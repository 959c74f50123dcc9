package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/internal/models"
	"github.com/benmeehan/freebox-agent/pkg/freebox"
	"github.com/benmeehan/freebox-agent/pkg/mqtt"
)

// EventListener is implemented by *freebox.Events.
type EventListener interface {
	Listen(ctx context.Context, events []string, handler func(freebox.Event)) error
}

// EventService relays Freebox notifications to MQTT, one topic per event name.
type EventService struct {
	topic          string
	events         []string
	reconnectDelay time.Duration
	host           string
	listener       EventListener
	publisher      *mqtt.Publisher
	logger         zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEventService initializes a new EventService.
func NewEventService(topic string, qos int, events []string, reconnectDelay time.Duration, host string,
	listener EventListener, mqttClient mqtt.MQTTClient, logger zerolog.Logger) *EventService {

	return &EventService{
		topic:          topic,
		events:         events,
		reconnectDelay: reconnectDelay,
		host:           host,
		listener:       listener,
		publisher:      mqtt.NewPublisher(mqttClient, qos, 1, 0, logger),
		logger:         logger,
	}
}

// Start opens the event stream in a separate goroutine.
func (e *EventService) Start() error {
	if e.ctx != nil {
		e.logger.Warn().Msg("EventService is already running")
		return errors.New("event service is already running")
	}
	if len(e.events) == 0 {
		return errors.New("no events configured")
	}

	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runListenLoop()
	}()

	e.logger.Info().Strs("events", e.events).Str("topic", e.topic).Msg("EventService started successfully")
	return nil
}

// Stop closes the event stream.
func (e *EventService) Stop() error {
	if e.ctx == nil {
		e.logger.Warn().Msg("EventService is not running")
		return errors.New("event service is not running")
	}

	e.cancel()
	e.wg.Wait()

	e.ctx = nil
	e.cancel = nil

	e.logger.Info().Msg("EventService stopped successfully")
	return nil
}

// runListenLoop reopens the stream after reconnectDelay whenever it drops.
func (e *EventService) runListenLoop() {
	for {
		err := e.listener.Listen(e.ctx, e.events, e.forward)
		if e.ctx.Err() != nil {
			e.logger.Info().Msg("EventService stopping gracefully")
			return
		}
		e.logger.Warn().Err(err).Dur("retry_in", e.reconnectDelay).Msg("Event stream interrupted")

		select {
		case <-time.After(e.reconnectDelay):
		case <-e.ctx.Done():
			return
		}
	}
}

func (e *EventService) forward(event freebox.Event) {
	message := models.EventMessage{
		Timestamp: time.Now().UTC(),
		Host:      e.host,
		Name:      event.Name(),
		Source:    event.Source,
		Event:     event.Event,
		Result:    event.Result,
	}

	if err := e.publisher.PublishJSON(e.topic+"/"+message.Name, message); err != nil {
		e.logger.Error().Err(err).Str("event", message.Name).Msg("Failed to publish event")
	}
}
