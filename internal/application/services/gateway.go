package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/DanielPopoola/ficmart-checkout/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errUnexpectedProcessorFailure = errors.New("payment processor failed unexpectedly")

// Gateway runs one authorize+capture against an explicit invoice.
type Gateway interface {
	AuthorizeCapture(ctx context.Context, invoiceID, methodID uuid.UUID, args *domain.ArgumentBag) (*domain.TransactionOutcome, error)
}

type GatewayService struct {
	invoices application.InvoiceRepository
	methods  application.PaymentMethodRepository
	registry *Registry
	locker   application.InvoiceLocker
	metrics  *telemetry.PaymentMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewGatewayService(
	invoices application.InvoiceRepository,
	methods application.PaymentMethodRepository,
	registry *Registry,
	locker application.InvoiceLocker,
	metrics *telemetry.PaymentMetrics,
	logger *slog.Logger,
) *GatewayService {
	return &GatewayService{
		invoices: invoices,
		methods:  methods,
		registry: registry,
		locker:   locker,
		metrics:  metrics,
		logger:   logger.With("component", "gateway"),
		now:      time.Now,
	}
}

// AuthorizeCapture calls the method's processor exactly once for the amount
// still due on the invoice and appends the resulting payment record.
//
// Processor declines, errors and panics all produce an unsuccessful outcome
// rather than an error. Errors are returned only when the call could not be
// made (invoice missing or paid, method unusable) or its result could not be
// stored. Calls for the same invoice are serialised by the locker.
func (s *GatewayService) AuthorizeCapture(
	ctx context.Context,
	invoiceID, methodID uuid.UUID,
	args *domain.ArgumentBag,
) (*domain.TransactionOutcome, error) {
	ctx, span := otel.Tracer("checkout/gateway").Start(ctx, "GatewayService.AuthorizeCapture")
	defer span.End()
	span.SetAttributes(
		attribute.String("invoice.id", invoiceID.String()),
		attribute.String("payment_method.id", methodID.String()),
	)

	unlock, err := s.locker.Lock(ctx, invoiceID.String())
	if err != nil {
		span.SetStatus(codes.Error, "lock")
		return nil, fmt.Errorf("lock invoice %s: %w", invoiceID, err)
	}
	defer unlock()

	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		span.SetStatus(codes.Error, "load invoice")
		return nil, err
	}
	if err := invoice.CanAcceptPayment(); err != nil {
		span.SetStatus(codes.Error, "invoice settled")
		return nil, err
	}

	method, err := s.methods.FindByID(ctx, methodID)
	if err != nil {
		span.SetStatus(codes.Error, "load payment method")
		return nil, err
	}
	if !method.Enabled {
		return nil, domain.NewPaymentMethodUnavailableError(methodID.String())
	}
	reg, err := s.registry.Resolve(method.ProviderTag)
	if err != nil {
		span.SetStatus(codes.Error, "resolve processor")
		return nil, err
	}
	span.SetAttributes(attribute.String("payment.provider", string(method.ProviderTag)))

	amount := invoice.AmountDue()
	req := application.ProcessorRequest{
		PaymentID:     uuid.New(),
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.Number,
		CustomerID:    invoice.CustomerID,
		Amount:        amount,
		Method:        method,
		Args:          args,
	}

	result, callErr := s.invoke(ctx, reg.Processor, req)

	var record domain.PaymentRecord
	switch {
	case callErr != nil:
		record = domain.NewFailedPayment(req.PaymentID, invoice, method, amount, application.ClassifyProcessorError(callErr), s.now())
	case !result.Accepted:
		record = domain.NewFailedPayment(req.PaymentID, invoice, method, amount,
			domain.FailureDetail{Kind: domain.FailureDeclined, Message: result.ErrorMessage}, s.now())
	default:
		record = domain.NewSuccessfulPayment(req.PaymentID, invoice, method, amount, result.ReferenceID, s.now())
	}

	if err := invoice.RecordPayment(record); err != nil {
		return nil, application.NewInternalError(err)
	}

	// The processor has already been charged; the record must be stored even
	// if the caller goes away.
	if err := s.invoices.AppendPayment(context.WithoutCancel(ctx), invoice, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to store payment record",
			"invoice_id", invoice.ID,
			"payment_id", record.ID,
			"success", record.Success,
			"error", err,
		)
		span.SetStatus(codes.Error, "store payment")
		return nil, err
	}

	s.observe(ctx, method, record, callErr)
	span.SetAttributes(attribute.Bool("payment.success", record.Success))

	return domain.NewTransactionOutcome(invoice, record), nil
}

// invoke makes the single processor call, turning a panic into an error.
func (s *GatewayService) invoke(
	ctx context.Context,
	processor application.Processor,
	req application.ProcessorRequest,
) (result *application.ProcessorResult, err error) {
	tag := string(processor.Tag())
	start := time.Now()
	defer func() {
		s.metrics.ObserveProcessorDuration(tag, time.Since(start))
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "processor panicked",
				"provider", tag,
				"payment_id", req.PaymentID,
				"panic", r,
			)
			result, err = nil, errUnexpectedProcessorFailure
		}
	}()

	result, err = processor.AuthorizeCapture(ctx, req)
	if err == nil && result == nil {
		err = errUnexpectedProcessorFailure
	}
	return result, err
}

func (s *GatewayService) observe(ctx context.Context, method *domain.PaymentMethod, record domain.PaymentRecord, callErr error) {
	provider := string(method.ProviderTag)
	attrs := []any{
		"invoice_id", record.InvoiceID,
		"payment_id", record.ID,
		"provider", provider,
		"method", method.Key(),
		"sequence", record.Sequence,
		"amount", record.AmountCents,
	}

	switch {
	case record.Success:
		s.metrics.ObserveAttempt(provider, telemetry.ResultSuccess)
		s.logger.InfoContext(ctx, "payment captured", attrs...)
	case record.Failure.Kind == domain.FailureDeclined:
		s.metrics.ObserveAttempt(provider, telemetry.ResultDeclined)
		s.logger.InfoContext(ctx, "payment declined", append(attrs, "reason", record.Failure.Message)...)
	default:
		s.metrics.ObserveAttempt(provider, telemetry.ResultUnavailable)
		s.logger.WarnContext(ctx, "payment processor unavailable", append(attrs,
			"error", callErr,
			"category", application.CategorizeError(callErr),
		)...)
	}
}
