package services_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/mocks"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/DanielPopoola/ficmart-checkout/internal/telemetry"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testCredentialArg = "payment_method_nonce"

// MockInvoiceRepository keeps invoices in memory and enforces the version
// check the Postgres repository does.
type MockInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*domain.Invoice

	AppendPaymentFn func(ctx context.Context, invoice *domain.Invoice, record domain.PaymentRecord) error
}

func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.invoices[id]; ok {
		return cloneInvoice(inv), nil
	}
	return nil, domain.NewOrderNotFoundError(id.String())
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

func (m *MockInvoiceRepository) AppendPayment(ctx context.Context, invoice *domain.Invoice, record domain.PaymentRecord) error {
	if m.AppendPaymentFn != nil {
		return m.AppendPaymentFn(ctx, invoice, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.invoices[invoice.ID]
	if !ok {
		return domain.NewOrderNotFoundError(invoice.ID.String())
	}
	if stored.Version != invoice.Version {
		return domain.NewConcurrentModificationError(invoice.ID.String(), invoice.Version)
	}
	invoice.Version++
	m.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

func (m *MockInvoiceRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invoices)
}

func (m *MockInvoiceRepository) PaymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, inv := range m.invoices {
		n += len(inv.Payments)
	}
	return n
}

func cloneInvoice(inv *domain.Invoice) *domain.Invoice {
	c := *inv
	c.LineItems = slices.Clone(inv.LineItems)
	c.Payments = slices.Clone(inv.Payments)
	return &c
}

type MockPaymentMethodRepository struct {
	methods map[uuid.UUID]*domain.PaymentMethod
}

func NewMockPaymentMethodRepository(methods ...*domain.PaymentMethod) *MockPaymentMethodRepository {
	m := &MockPaymentMethodRepository{methods: make(map[uuid.UUID]*domain.PaymentMethod)}
	for _, method := range methods {
		m.methods[method.ID] = method
	}
	return m
}

func (m *MockPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	if method, ok := m.methods[id]; ok {
		c := *method
		return &c, nil
	}
	return nil, domain.NewPaymentMethodUnavailableError(id.String())
}

type checkoutSession struct {
	method     *domain.PaymentMethod
	invoiceID  uuid.UUID
	customerID string
}

type MockCheckoutStage struct {
	sessions map[string]checkoutSession
}

func NewMockCheckoutStage() *MockCheckoutStage {
	return &MockCheckoutStage{sessions: make(map[string]checkoutSession)}
}

func (m *MockCheckoutStage) PaymentMethod(ctx context.Context, checkoutID string) (*domain.PaymentMethod, error) {
	s, ok := m.sessions[checkoutID]
	if !ok {
		return nil, domain.NewCheckoutNotFoundError(checkoutID)
	}
	if s.method == nil {
		return nil, domain.NewNoActivePaymentMethodError(checkoutID)
	}
	return s.method, nil
}

func (m *MockCheckoutStage) Invoice(ctx context.Context, checkoutID string) (uuid.UUID, error) {
	s, ok := m.sessions[checkoutID]
	if !ok {
		return uuid.Nil, domain.NewCheckoutNotFoundError(checkoutID)
	}
	return s.invoiceID, nil
}

func (m *MockCheckoutStage) Customer(ctx context.Context, checkoutID string) (string, error) {
	s, ok := m.sessions[checkoutID]
	if !ok {
		return "", domain.NewCheckoutNotFoundError(checkoutID)
	}
	return s.customerID, nil
}

type MockIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]*application.IdempotencyKeyInfo
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{keys: make(map[string]*application.IdempotencyKeyInfo)}
}

func (m *MockIdempotencyStore) AcquireLock(ctx context.Context, key, requestHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.keys[key]; exists {
		return domain.NewDuplicateKeyError(key)
	}
	now := time.Now()
	m.keys[key] = &application.IdempotencyKeyInfo{Key: key, RequestHash: requestHash, LockedAt: &now}
	return nil
}

func (m *MockIdempotencyStore) FindByKey(ctx context.Context, key string) (*application.IdempotencyKeyInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.keys[key]
	if !ok {
		return nil, domain.NewMissingRequiredFieldError("idempotency key")
	}
	c := *info
	return &c, nil
}

func (m *MockIdempotencyStore) StoreResponse(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key].ResponsePayload = payload
	m.keys[key].LockedAt = nil
	return nil
}

func (m *MockIdempotencyStore) ReleaseLock(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// StubProcessor accepts every payment after Delay and counts its calls.
type StubProcessor struct {
	Delay time.Duration
	calls atomic.Int32
}

func (p *StubProcessor) Tag() domain.ProviderTag { return "card" }

func (p *StubProcessor) AuthorizeCapture(ctx context.Context, req application.ProcessorRequest) (*application.ProcessorResult, error) {
	p.calls.Add(1)
	time.Sleep(p.Delay)
	return &application.ProcessorResult{Accepted: true, ReferenceID: "ref-" + req.PaymentID.String()}, nil
}

func (p *StubProcessor) Calls() int { return int(p.calls.Load()) }

type fixture struct {
	invoices    *MockInvoiceRepository
	methods     *MockPaymentMethodRepository
	stage       *MockCheckoutStage
	idempotency *MockIdempotencyStore
	processor   *mocks.MockProcessor
	metrics     *telemetry.PaymentMetrics
	gateway     *services.GatewayService
	service     *services.PaymentService

	method     *domain.PaymentMethod
	invoice    *domain.Invoice
	checkoutID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	processor := mocks.NewMockProcessor(t)
	processor.EXPECT().Tag().Return("braintree").Maybe()
	return newFixtureWithProcessor(t, processor, processor)
}

func newFixtureWithProcessor(t *testing.T, processor application.Processor, mock *mocks.MockProcessor) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	method := &domain.PaymentMethod{
		ID:          uuid.New(),
		ProviderTag: processor.Tag(),
		Variant:     "paypal.onetime",
		Name:        "PayPal",
		Enabled:     true,
	}
	invoice, err := domain.NewInvoice(uuid.New(), "cust-42", "USD", []domain.LineItem{
		{SKU: "sku-mug", Name: "Mug", Quantity: 2, UnitPriceCents: 1250},
	})
	require.NoError(t, err)

	f := &fixture{
		invoices:    NewMockInvoiceRepository(),
		methods:     NewMockPaymentMethodRepository(method),
		stage:       NewMockCheckoutStage(),
		idempotency: NewMockIdempotencyStore(),
		processor:   mock,
		metrics:     telemetry.NewPaymentMetrics(prometheus.NewRegistry()),
		method:      method,
		invoice:     invoice,
		checkoutID:  "chk-" + uuid.NewString(),
	}
	require.NoError(t, f.invoices.Create(context.Background(), invoice))
	f.stage.sessions[f.checkoutID] = checkoutSession{method: method, invoiceID: invoice.ID, customerID: "cust-42"}

	registry, err := services.NewRegistry(services.Registration{Processor: processor, CredentialArg: testCredentialArg})
	require.NoError(t, err)

	f.gateway = services.NewGatewayService(f.invoices, f.methods, registry, services.NewKeyedLocker(), f.metrics, logger)
	f.service = services.NewPaymentService(f.stage, f.invoices, registry, f.gateway, f.idempotency, logger)
	return f
}

func (f *fixture) args(token string) *domain.ArgumentBag {
	args := domain.NewArgumentBag()
	args.Set(testCredentialArg, token)
	return args
}

func (f *fixture) storedInvoice(t *testing.T) *domain.Invoice {
	t.Helper()
	inv, err := f.invoices.FindByID(context.Background(), f.invoice.ID)
	require.NoError(t, err)
	return inv
}

func accepted(ref string) *application.ProcessorResult {
	return &application.ProcessorResult{Accepted: true, ReferenceID: ref}
}

func declined(reason string) *application.ProcessorResult {
	return &application.ProcessorResult{Accepted: false, ErrorMessage: reason}
}
