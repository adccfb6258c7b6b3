package braintree_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/processor/braintree"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = braintree.Credentials{
	MerchantID: "merchant-1",
	PublicKey:  "pub",
	PrivateKey: "priv",
}

type capturedSale struct {
	path     string
	user     string
	password string
	body     map[string]any
}

func newGateway(t *testing.T, status int, response any) (*httptest.Server, *capturedSale) {
	t.Helper()
	captured := &capturedSale{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.user, captured.password, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newProcessor(t *testing.T, baseURL string) *braintree.Processor {
	t.Helper()
	p, err := braintree.NewProcessor(
		braintree.NewClient(baseURL, testCredentials, 2*time.Second),
		"",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return p
}

func newRequest(nonce string) application.ProcessorRequest {
	args := domain.NewArgumentBag()
	if nonce != "" {
		braintree.SetPaymentMethodNonce(args, nonce)
	}
	return application.ProcessorRequest{
		PaymentID:     uuid.New(),
		InvoiceID:     uuid.New(),
		InvoiceNumber: 1042,
		Amount:        domain.Money{Amount: 2500, Currency: "USD"},
		Method: &domain.PaymentMethod{
			ID: uuid.New(), ProviderTag: braintree.Tag, Variant: "paypal.onetime", Enabled: true,
		},
		Args: args,
	}
}

func transaction(status, text string) map[string]any {
	return map[string]any{
		"transaction": map[string]any{
			"id":                      "bt-tx-1",
			"status":                  status,
			"amount":                  "25.00",
			"processor_response_text": text,
		},
	}
}

func TestSetPaymentMethodNonce(t *testing.T) {
	args := domain.NewArgumentBag()
	braintree.SetPaymentMethodNonce(args, "nonce-abc")

	got, ok := args.Get("payment_method_nonce")
	assert.True(t, ok)
	assert.Equal(t, "nonce-abc", got)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2500, "25.00"},
		{1, "0.01"},
		{0, "0.00"},
		{123456, "1234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, braintree.FormatAmount(domain.Money{Amount: tt.cents, Currency: "USD"}))
		})
	}
}

func TestProcessor_AuthorizeCapture_Success(t *testing.T) {
	srv, captured := newGateway(t, http.StatusCreated, transaction("submitted_for_settlement", "Approved"))

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), newRequest("nonce-abc"))

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "bt-tx-1", result.ReferenceID)

	assert.Equal(t, "/merchants/merchant-1/transactions", captured.path)
	assert.Equal(t, "pub", captured.user)
	assert.Equal(t, "priv", captured.password)

	tx := captured.body["transaction"].(map[string]any)
	assert.Equal(t, "sale", tx["type"])
	assert.Equal(t, "25.00", tx["amount"])
	assert.Equal(t, "nonce-abc", tx["payment_method_nonce"])
	assert.Equal(t, "1042", tx["order_id"])
	assert.Equal(t, true, tx["options"].(map[string]any)["submit_for_settlement"])
}

func TestProcessor_AuthorizeCapture_ProcessorDeclined(t *testing.T) {
	srv, _ := newGateway(t, http.StatusCreated, transaction("processor_declined", "Insufficient Funds"))

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), newRequest("nonce-abc"))

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, "bt-tx-1", result.ReferenceID)
	assert.Equal(t, "Insufficient Funds", result.ErrorMessage)
}

func TestProcessor_AuthorizeCapture_ValidationFailure(t *testing.T) {
	srv, _ := newGateway(t, http.StatusUnprocessableEntity, map[string]string{
		"message": "Cannot use a payment_method_nonce more than once.",
	})

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), newRequest("nonce-abc"))

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, "Cannot use a payment_method_nonce more than once.", result.ErrorMessage)
}

func TestProcessor_AuthorizeCapture_MissingNonce(t *testing.T) {
	srv, captured := newGateway(t, http.StatusCreated, transaction("submitted_for_settlement", ""))

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), newRequest(""))

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.NotEmpty(t, result.ErrorMessage)
	assert.Empty(t, captured.path, "gateway must not be called")
}

func TestProcessor_AuthorizeCapture_EmptyNonce(t *testing.T) {
	srv, captured := newGateway(t, http.StatusCreated, transaction("submitted_for_settlement", ""))
	req := newRequest("")
	braintree.SetPaymentMethodNonce(req.Args, "")

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Empty(t, captured.path)
}

func TestProcessor_AuthorizeCapture_CustomCredentialArg(t *testing.T) {
	srv, captured := newGateway(t, http.StatusCreated, transaction("settling", ""))
	p, err := braintree.NewProcessor(
		braintree.NewClient(srv.URL, testCredentials, time.Second),
		"wallet_token",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)

	req := newRequest("")
	req.Args.Set("wallet_token", "nonce-xyz")

	result, err := p.AuthorizeCapture(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, "nonce-xyz", captured.body["transaction"].(map[string]any)["payment_method_nonce"])
}

func TestProcessor_AuthorizeCapture_GatewayUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"bad credentials", http.StatusUnauthorized},
		{"maintenance", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newGateway(t, tt.status, map[string]string{})

			result, err := newProcessor(t, srv.URL).AuthorizeCapture(context.Background(), newRequest("nonce-abc"))

			require.Error(t, err)
			assert.Nil(t, result)
			apiErr, ok := braintree.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestProcessor_AuthorizeCapture_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := newProcessor(t, srv.URL).AuthorizeCapture(ctx, newRequest("nonce-abc"))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, result)
}
