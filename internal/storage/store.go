// Package storage provides the durable key-value store behind every
// persisted value of the organizer.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by a medium that has already been closed.
var ErrClosed = errors.New("storage: medium closed")

// Medium defines the on-device persistent key/value substrate.
// This abstraction allows swapping backends (SQLite, in-memory, write-behind)
// without changing the reactive layer.
type Medium interface {
	// Load returns the raw bytes stored under key.
	// The boolean is false when no entry exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save durably writes value under key, replacing any previous entry.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the medium.
	Close() error
}

// Op names the operation that failed when reporting to the side channel.
type Op string

const (
	OpLoad   Op = "load"
	OpDecode Op = "decode"
	OpEncode Op = "encode"
	OpSave   Op = "save"
)

// FailureReporter receives persistence failures that are never returned to
// callers. Implementations must not block.
type FailureReporter interface {
	ReportFailure(key string, op Op, err error)
}

// Observer is optionally implemented by a FailureReporter that also wants to
// see successful writes.
type Observer interface {
	ObserveWrite(key string)
}

// ReporterFunc adapts a function to a FailureReporter.
type ReporterFunc func(key string, op Op, err error)

// ReportFailure calls f(key, op, err).
func (f ReporterFunc) ReportFailure(key string, op Op, err error) {
	f(key, op, err)
}
