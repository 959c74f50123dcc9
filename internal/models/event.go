package models

import (
	"encoding/json"
	"time"
)

// EventMessage is a Freebox notification relayed over MQTT.
type EventMessage struct {
	Timestamp time.Time       `json:"timestamp"`
	Host      string          `json:"host"`
	Name      string          `json:"name"`
	Source    string          `json:"source"`
	Event     string          `json:"event"`
	Result    json.RawMessage `json:"result,omitempty"`
}
