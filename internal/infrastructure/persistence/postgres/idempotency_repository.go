package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	db *DB
}

func NewIdempotencyRepository(db *DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) AcquireLock(ctx context.Context, key, requestHash string) error {
	query := `
		INSERT INTO idempotency_keys (key, request_hash, locked_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Pool.Exec(ctx, query, key, requestHash, time.Now())
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicateKeyError(key)
		}
		return fmt.Errorf("failed to acquire idempotency lock: %w", err)
	}

	return nil
}

func (r *IdempotencyRepository) FindByKey(ctx context.Context, key string) (*application.IdempotencyKeyInfo, error) {
	query := `
		SELECT key, request_hash, locked_at, response_payload
		FROM idempotency_keys
		WHERE key = $1
	`
	var i application.IdempotencyKeyInfo

	err := r.db.Pool.QueryRow(ctx, query, key).Scan(
		&i.Key,
		&i.RequestHash,
		&i.LockedAt,
		&i.ResponsePayload,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no key found: %w", err)
		}
		return nil, fmt.Errorf("failed to load idempotency key: %w", err)
	}

	return &i, nil
}

// StoreResponse records the response and unlocks the key.
func (r *IdempotencyRepository) StoreResponse(ctx context.Context, key string, responsePayload []byte) error {
	query := `
		UPDATE idempotency_keys
		SET response_payload = $1, locked_at = NULL
		WHERE key = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, responsePayload, key)
	if err != nil {
		return fmt.Errorf("failed to store idempotency response: %w", err)
	}

	return nil
}

func (r *IdempotencyRepository) ReleaseLock(ctx context.Context, key string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND response_payload IS NULL`, key)
	if err != nil {
		return fmt.Errorf("failed to release idempotency lock: %w", err)
	}

	return nil
}

// ReleaseStale forgets up to limit keys locked before cutoff that never
// stored a response. Such keys belong to requests that died mid-flight.
func (r *IdempotencyRepository) ReleaseStale(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	query := `
		DELETE FROM idempotency_keys
		WHERE key IN (
			SELECT key FROM idempotency_keys
			WHERE response_payload IS NULL AND locked_at < $1
			ORDER BY locked_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
	`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to release stale idempotency keys: %w", err)
	}

	return tag.RowsAffected(), nil
}
