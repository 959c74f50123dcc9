package models

import "time"

// StatusReport is the document published by the status service.
type StatusReport struct {
	Timestamp time.Time         `json:"timestamp"`
	Host      string            `json:"host"`
	Metrics   map[string]Metric `json:"metrics"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// Metric is the output of one collector.
type Metric struct {
	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty"`
}

// StatusConfig selects the collectors run by the status service.
// An empty list enables every collector.
type StatusConfig struct {
	Collectors []string
}
