package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingMedium fails every operation with err.
type failingMedium struct{ err error }

func (f failingMedium) Load(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingMedium) Save(context.Context, string, []byte) error         { return f.err }
func (f failingMedium) Close() error                                      { return nil }

type failure struct {
	key string
	op  Op
	err error
}

// recorder collects side-channel reports.
type recorder struct {
	mu       sync.Mutex
	failures []failure
	writes   []string
}

func (r *recorder) ReportFailure(key string, op Op, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{key, op, err})
}

func (r *recorder) ObserveWrite(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, key)
}

type sample struct {
	ID   string `json:"id"`
	Done bool   `json:"done"`
}

func TestGet_MissingKeyReturnsDefault(t *testing.T) {
	rec := &recorder{}
	kv := NewKV(NewMemory(), WithReporter(rec))

	got := Get(context.Background(), kv, "total-budget", 2000.0)

	assert.Equal(t, 2000.0, got)
	assert.Empty(t, rec.failures, "a missing key is not a failure")
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	kv := NewKV(NewMemory(), WithReporter(rec))

	want := []sample{{ID: "a"}, {ID: "b", Done: true}}
	Set(ctx, kv, "tasks", want)

	got := Get(ctx, kv, "tasks", []sample{})
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"tasks"}, rec.writes)
}

func TestGet_CorruptEntryFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Save(ctx, "tasks", []byte("{not json")))

	rec := &recorder{}
	kv := NewKV(mem, WithReporter(rec))

	got := Get(ctx, kv, "tasks", []sample{})
	assert.Equal(t, []sample{}, got)

	require.Len(t, rec.failures, 1)
	assert.Equal(t, OpDecode, rec.failures[0].op)
	var decodeErr *DeserializationError
	assert.ErrorAs(t, rec.failures[0].err, &decodeErr)
	assert.Equal(t, "tasks", decodeErr.Key)
}

func TestGet_WrongShapeFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Save(ctx, "total-budget", []byte(`"lots"`)))

	kv := NewKV(mem)
	assert.Equal(t, 2000.0, Get(ctx, kv, "total-budget", 2000.0))
}

func TestGet_MediumErrorFallsBackToDefault(t *testing.T) {
	boom := errors.New("disk unavailable")
	rec := &recorder{}
	kv := NewKV(failingMedium{err: boom}, WithReporter(rec))

	got := Get(context.Background(), kv, "identity", sample{ID: "default"})

	assert.Equal(t, sample{ID: "default"}, got)
	require.Len(t, rec.failures, 1)
	assert.Equal(t, OpLoad, rec.failures[0].op)
	assert.ErrorIs(t, rec.failures[0].err, boom)
}

func TestSet_FailureIsSwallowedAndReported(t *testing.T) {
	boom := errors.New("quota exceeded")
	rec := &recorder{}
	kv := NewKV(failingMedium{err: boom}, WithReporter(rec))

	assert.NotPanics(t, func() {
		Set(context.Background(), kv, "expenses", []sample{{ID: "e1"}})
	})

	require.Len(t, rec.failures, 1)
	assert.Equal(t, OpSave, rec.failures[0].op)
	assert.Equal(t, "expenses", rec.failures[0].key)
	assert.Empty(t, rec.writes)
}

func TestSet_EncodeFailureIsReported(t *testing.T) {
	rec := &recorder{}
	kv := NewKV(NewMemory(), WithReporter(rec))

	Set(context.Background(), kv, "bad", make(chan int))

	require.Len(t, rec.failures, 1)
	assert.Equal(t, OpEncode, rec.failures[0].op)
}

func TestReporterFunc(t *testing.T) {
	var got Op
	kv := NewKV(failingMedium{err: errors.New("x")}, WithReporter(ReporterFunc(func(_ string, op Op, _ error) {
		got = op
	})))

	Set(context.Background(), kv, "k", 1)
	assert.Equal(t, OpSave, got)
}

func TestMemory_IsolatedAndCopies(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemory(), NewMemory()

	buf := []byte("1")
	require.NoError(t, a.Save(ctx, "k", buf))
	buf[0] = '9'

	v, ok, err := a.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", string(v))

	_, ok, err = b.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Save(ctx, "k", buf), ErrClosed)
}
