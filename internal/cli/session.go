package cli

import (
	"context"
	"log/slog"

	"github.com/mmynk/lifesync/internal/config"
	"github.com/mmynk/lifesync/internal/metrics"
	"github.com/mmynk/lifesync/internal/middleware"
	"github.com/mmynk/lifesync/internal/service"
	"github.com/mmynk/lifesync/internal/storage"
	"github.com/mmynk/lifesync/internal/storage/sqlite"
)

// session is one command's view of the organizer.
type session struct {
	store   *sqlite.SQLiteStore
	kv      *storage.KV
	metrics *metrics.Metrics
	org     *service.Organizer
}

func openSession(ctx context.Context, cfg config.Config) (*session, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	m := metrics.New()
	var medium storage.Medium = middleware.Logging(store, nil)
	if cfg.WriteBehind {
		medium = storage.NewWriteBehind(medium, m)
	}
	kv := storage.NewKV(medium, storage.WithReporter(m))

	return &session{
		store:   store,
		kv:      kv,
		metrics: m,
		org:     service.New(ctx, kv, service.WithLinkRecorder(m)),
	}, nil
}

// Close flushes pending writes and closes the database.
func (s *session) Close() error {
	if err := s.kv.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
		return err
	}
	return nil
}
