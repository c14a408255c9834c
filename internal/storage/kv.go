package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// KV is the typed store on top of a Medium.
// Reads fall back to a caller-supplied default and writes never fail from the
// caller's point of view; every failure is routed to the reporter instead.
type KV struct {
	medium   Medium
	reporter FailureReporter
	logger   *slog.Logger
}

// KVOption configures a KV.
type KVOption func(*KV)

// WithReporter routes swallowed failures to r in addition to the log.
func WithReporter(r FailureReporter) KVOption {
	return func(kv *KV) { kv.reporter = r }
}

// WithLogger sets the logger used for the side channel.
func WithLogger(l *slog.Logger) KVOption {
	return func(kv *KV) { kv.logger = l }
}

// NewKV creates a KV over the given medium.
func NewKV(medium Medium, opts ...KVOption) *KV {
	kv := &KV{medium: medium, logger: slog.Default()}
	for _, opt := range opts {
		opt(kv)
	}
	return kv
}

// Medium returns the underlying medium.
func (kv *KV) Medium() Medium {
	return kv.medium
}

// Close closes the underlying medium.
func (kv *KV) Close() error {
	return kv.medium.Close()
}

func (kv *KV) report(key string, op Op, err error) {
	level := slog.LevelWarn
	if op == OpDecode {
		level = slog.LevelDebug
	}
	kv.logger.Log(context.Background(), level, "Persistence failure swallowed",
		"key", key,
		"op", string(op),
		"error", err,
	)
	if kv.reporter != nil {
		kv.reporter.ReportFailure(key, op, err)
	}
}

// Get returns the value stored under key decoded into T.
// It returns def when the key is absent, the medium fails, or the stored
// entry does not decode into T.
func Get[T any](ctx context.Context, kv *KV, key string, def T) T {
	raw, ok, err := kv.medium.Load(ctx, key)
	if err != nil {
		kv.report(key, OpLoad, err)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		kv.report(key, OpDecode, &DeserializationError{Key: key, Err: err})
		return def
	}
	return v
}

// Set serializes v and writes it under key.
// Failures are reported on the side channel and never returned.
func Set[T any](ctx context.Context, kv *KV, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		kv.report(key, OpEncode, err)
		return
	}
	if err := kv.medium.Save(ctx, key, raw); err != nil {
		kv.report(key, OpSave, err)
		return
	}
	if o, ok := kv.reporter.(Observer); ok {
		o.ObserveWrite(key)
	}
}

// DeserializationError describes a stored entry that could not be decoded.
// It is only ever seen by a FailureReporter.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
