// Package middleware decorates storage media with cross-cutting behavior.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/lifesync/internal/storage"
)

// LoggingMedium logs every Load and Save passing through to the inner medium.
// It logs the operation, key, duration and any error.
type LoggingMedium struct {
	inner  storage.Medium
	logger *slog.Logger
}

// Logging wraps inner. A nil logger uses slog.Default at call time.
func Logging(inner storage.Medium, logger *slog.Logger) *LoggingMedium {
	return &LoggingMedium{inner: inner, logger: logger}
}

func (m *LoggingMedium) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

func (m *LoggingMedium) Load(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := m.inner.Load(ctx, key)
	m.record(ctx, storage.OpLoad, key, len(data), start, err)
	return data, ok, err
}

func (m *LoggingMedium) Save(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := m.inner.Save(ctx, key, data)
	m.record(ctx, storage.OpSave, key, len(data), start, err)
	return err
}

func (m *LoggingMedium) Close() error {
	return m.inner.Close()
}

func (m *LoggingMedium) record(ctx context.Context, op storage.Op, key string, size int, start time.Time, err error) {
	duration := time.Since(start).Milliseconds()
	switch {
	case err == nil:
		m.log().DebugContext(ctx, "Storage ok",
			"op", string(op),
			"key", key,
			"bytes", size,
			"duration_ms", duration,
		)
	case errors.Is(err, storage.ErrClosed), errors.Is(err, context.Canceled):
		m.log().WarnContext(ctx, "Storage unavailable",
			"op", string(op),
			"key", key,
			"error", err,
			"duration_ms", duration,
		)
	default:
		m.log().ErrorContext(ctx, "Storage error",
			"op", string(op),
			"key", key,
			"error", err,
			"duration_ms", duration,
		)
	}
}
