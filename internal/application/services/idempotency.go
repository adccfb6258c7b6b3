package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

// withIdempotency replays the stored result when key was already used for
// the same request. A key reused with different parameters is rejected, and
// a key whose first request is still running yields REQUEST_PROCESSING.
// Requests that end in an error release the key so they can be resent.
func (s *PaymentService) withIdempotency(
	ctx context.Context,
	key string,
	request any,
	fn func(ctx context.Context) (*PaymentResult, error),
) (*PaymentResult, error) {
	if key == "" || s.idempotency == nil {
		return fn(ctx)
	}

	requestHash := ComputeHash(request)

	if err := s.idempotency.AcquireLock(ctx, key, requestHash); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			return s.replay(ctx, key, requestHash)
		}
		return nil, application.NewInternalError(err)
	}

	result, err := fn(ctx)
	if err != nil {
		if releaseErr := s.idempotency.ReleaseLock(context.WithoutCancel(ctx), key); releaseErr != nil {
			s.logger.ErrorContext(ctx, "failed to release idempotency key", "key", key, "error", releaseErr)
		}
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if err := s.idempotency.StoreResponse(context.WithoutCancel(ctx), key, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to store idempotent response", "key", key, "error", err)
	}
	return result, nil
}

func (s *PaymentService) replay(ctx context.Context, key, requestHash string) (*PaymentResult, error) {
	info, err := s.idempotency.FindByKey(ctx, key)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if info.RequestHash != requestHash {
		return nil, domain.NewIdempotencyMismatchError()
	}
	if info.ResponsePayload == nil {
		return nil, domain.NewRequestProcessingError()
	}

	var result PaymentResult
	if err := json.Unmarshal(info.ResponsePayload, &result); err != nil {
		return nil, application.NewInternalError(err)
	}
	s.logger.InfoContext(ctx, "replaying idempotent response", "key", key, "invoice_id", result.InvoiceKey)
	return &result, nil
}
