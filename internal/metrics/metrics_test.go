package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lifesync/internal/storage"
)

type brokenMedium struct{}

func (brokenMedium) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("read error")
}
func (brokenMedium) Save(context.Context, string, []byte) error { return errors.New("disk full") }
func (brokenMedium) Close() error                                { return nil }

func TestMetrics_CountsWrites(t *testing.T) {
	m := New()
	kv := storage.NewKV(storage.NewMemory(), storage.WithReporter(m))

	storage.Set(context.Background(), kv, "tasks", []string{"a"})
	storage.Set(context.Background(), kv, "tasks", []string{"a", "b"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.writes.WithLabelValues("tasks")))
}

func TestMetrics_CountsFailures(t *testing.T) {
	m := New()
	kv := storage.NewKV(brokenMedium{}, storage.WithReporter(m))

	storage.Set(context.Background(), kv, "expenses", 1)
	storage.Get(context.Background(), kv, "expenses", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("expenses", "save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("expenses", "load")))
}

func TestMetrics_CountsDecodeFallbacks(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(ctx, "total-budget", []byte("garbage")))

	m := New()
	kv := storage.NewKV(mem, storage.WithReporter(m))
	storage.Get(ctx, kv, "total-budget", 2000.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeFallbacks.WithLabelValues("total-budget")))
}

func TestMetrics_Snapshot(t *testing.T) {
	m := New()
	m.LinkAttempt("ok")
	m.LinkAttempt("ok")
	m.LinkAttempt("duplicate-id")

	samples, err := m.Snapshot()
	require.NoError(t, err)
	require.Len(t, samples, 2)

	byResult := map[string]float64{}
	for _, s := range samples {
		assert.Equal(t, "lifesync_link_attempts_total", s.Name)
		byResult[s.Labels["result"]] = s.Value
	}
	assert.Equal(t, map[string]float64{"ok": 2, "duplicate-id": 1}, byResult)
}

func TestMetrics_InstancesAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.ObserveWrite("tasks")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.writes.WithLabelValues("tasks")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.writes.WithLabelValues("tasks")))
}
