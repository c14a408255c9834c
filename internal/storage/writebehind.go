package storage

import (
	"context"
	"fmt"
	"sync"
)

// Ensure WriteBehind implements Medium
var _ Medium = (*WriteBehind)(nil)

type pendingSave struct {
	key   string
	value []byte
	done  chan struct{} // non-nil for flush markers
}

// WriteBehind persists to a slow medium in the background.
//
// Save enqueues the write and returns at once. A single worker applies writes
// in the order they were issued. Load serves the latest pending value for a
// key before falling through to the inner medium, so a read that follows a
// write never observes an older value.
type WriteBehind struct {
	inner    Medium
	reporter FailureReporter

	// sendMu orders enqueues; mu guards the pending maps and is never held
	// while blocking on the queue.
	sendMu  sync.Mutex
	mu      sync.Mutex
	pending map[string][]byte
	counts  map[string]int
	closed  bool

	queue chan pendingSave
	wg    sync.WaitGroup
}

// NewWriteBehind starts the background worker over inner.
// Failures of background saves go to reporter, which may be nil.
func NewWriteBehind(inner Medium, reporter FailureReporter) *WriteBehind {
	w := &WriteBehind{
		inner:    inner,
		reporter: reporter,
		pending:  make(map[string][]byte),
		counts:   make(map[string]int),
		queue:    make(chan pendingSave, 64),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *WriteBehind) run() {
	defer w.wg.Done()
	for op := range w.queue {
		if op.done != nil {
			close(op.done)
			continue
		}
		if err := w.inner.Save(context.Background(), op.key, op.value); err != nil && w.reporter != nil {
			w.reporter.ReportFailure(op.key, OpSave, err)
		}

		w.mu.Lock()
		w.counts[op.key]--
		if w.counts[op.key] == 0 {
			delete(w.counts, op.key)
			delete(w.pending, op.key)
		}
		w.mu.Unlock()
	}
}

// Load returns the pending value for key if one exists, else reads through.
func (w *WriteBehind) Load(ctx context.Context, key string) ([]byte, bool, error) {
	w.mu.Lock()
	if v, ok := w.pending[key]; ok {
		w.mu.Unlock()
		return append([]byte(nil), v...), true, nil
	}
	w.mu.Unlock()
	return w.inner.Load(ctx, key)
}

// Save enqueues value for key. It only fails once the medium is closed.
func (w *WriteBehind) Save(_ context.Context, key string, value []byte) error {
	v := append([]byte(nil), value...)

	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.pending[key] = v
	w.counts[key]++
	w.mu.Unlock()

	w.queue <- pendingSave{key: key, value: v}
	return nil
}

// Flush blocks until every write issued before the call has been applied.
func (w *WriteBehind) Flush(ctx context.Context) error {
	done := make(chan struct{})

	w.sendMu.Lock()
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		w.sendMu.Unlock()
		return ErrClosed
	}
	w.queue <- pendingSave{done: done}
	w.sendMu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush write-behind queue: %w", ctx.Err())
	}
}

// Close drains the queue and closes the inner medium.
func (w *WriteBehind) Close() error {
	w.sendMu.Lock()
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.sendMu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	close(w.queue)
	w.sendMu.Unlock()

	w.wg.Wait()
	return w.inner.Close()
}
