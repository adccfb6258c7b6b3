package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/processor/card"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-checkout/internal/tests/e2e/testdata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to the checkout API.
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIResponse is a decoded reply; exactly one of Result and Error is set
// for the payment endpoints.
type APIResponse struct {
	StatusCode int
	Result     *services.PaymentResult
	Error      *rest.ErrorResponse
}

func (c *TestClient) SubmitPayment(t *testing.T, checkoutID, token, idempotencyKey string) APIResponse {
	t.Helper()
	body, _ := json.Marshal(rest.SubmitPaymentRequest{CredentialToken: token})
	return c.post(t, "/api/v1/checkout/payments", checkoutID, idempotencyKey, body)
}

func (c *TestClient) RetryPayment(t *testing.T, checkoutID, token string, invoiceKey uuid.UUID) APIResponse {
	t.Helper()
	body, _ := json.Marshal(rest.RetryPaymentRequest{CredentialToken: token, InvoiceKey: invoiceKey})
	return c.post(t, "/api/v1/checkout/payments/retry", checkoutID, "", body)
}

func (c *TestClient) GetInvoice(t *testing.T, invoiceKey uuid.UUID) rest.InvoiceResponse {
	t.Helper()
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/invoices/" + invoiceKey.String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var invoice rest.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&invoice))
	return invoice
}

func (c *TestClient) PaymentForm(t *testing.T, checkoutID string) (int, rest.PaymentFormResponse) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/checkout/payment-method", nil)
	require.NoError(t, err)
	req.Header.Set("X-Checkout-ID", checkoutID)

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var form rest.PaymentFormResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	}
	return resp.StatusCode, form
}

func (c *TestClient) post(t *testing.T, path, checkoutID, idempotencyKey string, body []byte) APIResponse {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Checkout-ID", checkoutID)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := APIResponse{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusOK {
		out.Result = &services.PaymentResult{}
		require.NoError(t, json.Unmarshal(raw, out.Result))
	} else {
		out.Error = &rest.ErrorResponse{}
		require.NoError(t, json.Unmarshal(raw, out.Error))
	}
	return out
}

// fakeBank answers the card bank API, deciding by card token.
type fakeBank struct {
	*httptest.Server

	mu    sync.Mutex
	voids []string
}

func newFakeBank(t *testing.T) *fakeBank {
	t.Helper()
	b := &fakeBank{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/authorizations", b.authorize)
	mux.HandleFunc("POST /api/v1/captures", b.capture)
	mux.HandleFunc("POST /api/v1/voids", b.void)
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBank) Voids() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.voids...)
}

func (b *fakeBank) authorize(w http.ResponseWriter, r *http.Request) {
	var req card.AuthorizationRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	switch req.CardToken {
	case testdata.CardInsufficientFunds:
		writeBankJSON(w, http.StatusPaymentRequired, card.BankErrorResponse{Err: "insufficient_funds", Message: "balance too low"})
	case testdata.CardBankDown:
		writeBankJSON(w, http.StatusServiceUnavailable, card.BankErrorResponse{Err: "internal_error", Message: "maintenance"})
	default:
		writeBankJSON(w, http.StatusOK, card.AuthorizationResponse{
			Amount:          req.Amount,
			Currency:        req.Currency,
			Status:          "AUTHORIZED",
			AuthorizationID: "auth-" + req.CardToken + "-" + uuid.NewString(),
			CreatedAt:       time.Now(),
		})
	}
}

func (b *fakeBank) capture(w http.ResponseWriter, r *http.Request) {
	var req card.CaptureRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if strings.HasPrefix(req.AuthorizationID, "auth-"+testdata.CardCaptureFails) {
		writeBankJSON(w, http.StatusBadRequest, card.BankErrorResponse{Err: "authorization_failed", Message: "hold released"})
		return
	}
	writeBankJSON(w, http.StatusOK, card.CaptureResponse{
		Amount:          req.Amount,
		AuthorizationID: req.AuthorizationID,
		CaptureID:       "cap-" + uuid.NewString(),
		Status:          "CAPTURED",
		CapturedAt:      time.Now(),
	})
}

func (b *fakeBank) void(w http.ResponseWriter, r *http.Request) {
	var req card.VoidRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.voids = append(b.voids, req.AuthorizationID)
	b.mu.Unlock()

	writeBankJSON(w, http.StatusOK, card.VoidResponse{
		AuthorizationID: req.AuthorizationID,
		Status:          "VOIDED",
		VoidID:          "void-" + uuid.NewString(),
		VoidedAt:        time.Now(),
	})
}

func writeBankJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
