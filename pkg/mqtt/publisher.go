package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Publisher sends JSON documents over an MQTTClient, retrying failed publishes.
type Publisher struct {
	client  MQTTClient
	qos     byte
	retries int
	backoff time.Duration
	logger  zerolog.Logger
}

// NewPublisher returns a Publisher that tries each message up to retries times,
// sleeping backoff*attempt between attempts.
func NewPublisher(client MQTTClient, qos int, retries int, backoff time.Duration, logger zerolog.Logger) *Publisher {
	if retries < 1 {
		retries = 1
	}
	return &Publisher{
		client:  client,
		qos:     byte(qos),
		retries: retries,
		backoff: backoff,
		logger:  logger,
	}
}

// PublishJSON serializes v and publishes it to topic.
func (p *Publisher) PublishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	var lastErr error
	for i := 0; i < p.retries; i++ {
		token := p.client.Publish(topic, p.qos, false, payload)
		token.Wait()
		if lastErr = token.Error(); lastErr == nil {
			p.logger.Debug().Str("topic", topic).Msg("Message published successfully")
			return nil
		}
		p.logger.Warn().Err(lastErr).Str("topic", topic).Int("retry", i+1).Msg("Retrying to publish message...")
		if i+1 < p.retries {
			time.Sleep(time.Duration(i+1) * p.backoff)
		}
	}

	return fmt.Errorf("failed to publish to %s after %d retries: %w", topic, p.retries, lastErr)
}
