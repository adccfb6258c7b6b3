package worker

import (
	"context"
	"log/slog"
	"time"
)

// StaleKeyReleaser is implemented by the idempotency store.
type StaleKeyReleaser interface {
	ReleaseStale(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// IdempotencySweeper frees Idempotency-Key rows left locked by requests that
// never finished, e.g. because the instance serving them crashed. Until a
// key is freed every resend of that request is answered with
// REQUEST_PROCESSING.
type IdempotencySweeper struct {
	store      StaleKeyReleaser
	interval   time.Duration
	staleAfter time.Duration
	batchSize  int
	logger     *slog.Logger
	now        func() time.Time
}

// NewIdempotencySweeper builds a sweeper. staleAfter must comfortably exceed
// the request timeout or live requests lose their key.
func NewIdempotencySweeper(
	store StaleKeyReleaser,
	interval time.Duration,
	staleAfter time.Duration,
	batchSize int,
	logger *slog.Logger,
) *IdempotencySweeper {
	return &IdempotencySweeper{
		store:      store,
		interval:   interval,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		logger:     logger,
		now:        time.Now,
	}
}

func (w *IdempotencySweeper) Start(ctx context.Context) {
	w.logger.Info("idempotency sweeper started", "interval", w.interval, "stale_after", w.staleAfter)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("idempotency sweeper stopping")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error("idempotency sweep failed", "error", err)
			}
		}
	}
}

// RunOnce releases stale keys in batches until none are left.
func (w *IdempotencySweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.staleAfter)

	var total int64
	for {
		released, err := w.store.ReleaseStale(ctx, cutoff, w.batchSize)
		if err != nil {
			return total, err
		}
		total += released
		if released < int64(w.batchSize) || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		w.logger.Warn("released stale idempotency keys",
			"released", total,
			"cutoff", cutoff)
	}
	return total, nil
}
