package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SliceToSet converts a slice of any comparable type to a set represented by a map[T]struct{}.
func SliceToSet[T comparable](slice []T) map[T]struct{} {
	set := make(map[T]struct{}, len(slice))
	for _, item := range slice {
		set[item] = struct{}{}
	}
	return set
}

// UniqueClientID appends a random UUID to prefix so that several agents can share a broker.
func UniqueClientID(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "-")
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// ParseLogLevel maps a configured level name to a zerolog level, falling back to info.
func ParseLogLevel(level string) (zerolog.Level, bool) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return parsed, true
}
