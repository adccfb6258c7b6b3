package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	stale   int64
	cutoffs []time.Time
	err     error
}

func (f *fakeStore) ReleaseStale(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	n := min(f.stale, int64(limit))
	f.stale -= n
	return n, nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func newSweeper(store StaleKeyReleaser, now time.Time) *IdempotencySweeper {
	w := NewIdempotencySweeper(store, time.Millisecond, 10*time.Minute, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.now = func() time.Time { return now }
	return w
}

func TestIdempotencySweeper_RunOnce_DrainsInBatches(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{stale: 5}

	released, err := newSweeper(store, now).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), released)
	assert.Equal(t, 3, store.calls())
	assert.Equal(t, now.Add(-10*time.Minute), store.cutoffs[0])
}

func TestIdempotencySweeper_RunOnce_NothingStale(t *testing.T) {
	store := &fakeStore{}

	released, err := newSweeper(store, time.Now()).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Zero(t, released)
	assert.Equal(t, 1, store.calls())
}

func TestIdempotencySweeper_RunOnce_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}

	_, err := newSweeper(store, time.Now()).RunOnce(context.Background())

	assert.Error(t, err)
}

func TestIdempotencySweeper_Start_StopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		newSweeper(store, time.Now()).Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.calls() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
