package services_test

import (
	"context"
	"testing"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_SubmitPayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(accepted("txn-1"), nil).Once()

		result, err := f.service.SubmitPayment(context.Background(), services.SubmitPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce-ok",
		}, "")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, f.invoice.ID, result.InvoiceKey)
		assert.NotEqual(t, uuid.Nil, result.PaymentKey)
		assert.Empty(t, result.Messages)
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(declined("Insufficient funds"), nil).Once()

		result, err := f.service.SubmitPayment(context.Background(), services.SubmitPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce-poor",
		}, "")

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, f.invoice.ID, result.InvoiceKey)
		assert.Equal(t, []string{"Insufficient funds"}, result.Messages)

		stored := f.storedInvoice(t)
		require.Len(t, stored.Payments, 1)
		assert.Equal(t, result.PaymentKey, stored.Payments[0].ID)
	})

	t.Run("no active payment method", func(t *testing.T) {
		f := newFixture(t)
		f.stage.sessions[f.checkoutID] = checkoutSession{invoiceID: f.invoice.ID, customerID: "cust-42"}

		result, err := f.service.SubmitPayment(context.Background(), services.SubmitPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce",
		}, "")

		assert.Nil(t, result)
		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodeInvalidCheckoutStage, svcErr.Code)
		assert.ErrorIs(t, err, domain.ErrNoActivePaymentMethod)
		f.processor.AssertNotCalled(t, "AuthorizeCapture", mock.Anything, mock.Anything)
		assert.Empty(t, f.storedInvoice(t).Payments)
	})

	t.Run("missing credential", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.SubmitPayment(context.Background(), services.SubmitPaymentCommand{CheckoutID: f.checkoutID}, "")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})

	t.Run("unknown checkout", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.SubmitPayment(context.Background(), services.SubmitPaymentCommand{
			CheckoutID:      "chk-missing",
			CredentialToken: "nonce",
		}, "")

		assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)
	})
}

func TestPaymentService_RetryPayment(t *testing.T) {
	t.Run("retry after decline settles the same invoice", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(declined("Insufficient funds"), nil).Once()
		first, err := f.service.SubmitPayment(ctx, services.SubmitPaymentCommand{CheckoutID: f.checkoutID, CredentialToken: "nonce-1"}, "")
		require.NoError(t, err)
		require.False(t, first.Success)

		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(accepted("txn-2"), nil).Once()
		result, err := f.service.RetryPayment(ctx, services.RetryPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce-2",
			InvoiceID:       first.InvoiceKey,
		}, "")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, first.InvoiceKey, result.InvoiceKey)
		assert.NotEqual(t, first.PaymentKey, result.PaymentKey)
		assert.Equal(t, 1, f.invoices.Count())
		assert.Len(t, f.storedInvoice(t).Payments, 2)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.service.RetryPayment(context.Background(), services.RetryPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce",
			InvoiceID:       uuid.New(),
		}, "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.Equal(t, 0, f.invoices.PaymentCount())
		assert.Equal(t, 1, f.invoices.Count())
	})

	t.Run("invoice of another customer", func(t *testing.T) {
		f := newFixture(t)
		other, err := domain.NewInvoice(uuid.New(), "cust-other", "USD", []domain.LineItem{
			{SKU: "sku-mug", Name: "Mug", Quantity: 1, UnitPriceCents: 1250},
		})
		require.NoError(t, err)
		require.NoError(t, f.invoices.Create(context.Background(), other))

		result, err := f.service.RetryPayment(context.Background(), services.RetryPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce",
			InvoiceID:       other.ID,
		}, "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
		assert.Equal(t, 0, f.invoices.PaymentCount())
	})

	t.Run("missing invoice key", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.RetryPayment(context.Background(), services.RetryPaymentCommand{
			CheckoutID:      f.checkoutID,
			CredentialToken: "nonce",
		}, "")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})
}

func TestPaymentService_Idempotency(t *testing.T) {
	t.Run("same key replays the first result", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		cmd := services.SubmitPaymentCommand{CheckoutID: f.checkoutID, CredentialToken: "nonce"}
		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(accepted("txn-1"), nil).Once()

		first, err := f.service.SubmitPayment(ctx, cmd, "idem-1")
		require.NoError(t, err)
		second, err := f.service.SubmitPayment(ctx, cmd, "idem-1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, f.storedInvoice(t).Payments, 1)
	})

	t.Run("same key with different request", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.processor.EXPECT().AuthorizeCapture(mock.Anything, mock.Anything).Return(declined("Do not honor"), nil).Once()

		_, err := f.service.SubmitPayment(ctx, services.SubmitPaymentCommand{CheckoutID: f.checkoutID, CredentialToken: "nonce-1"}, "idem-2")
		require.NoError(t, err)
		_, err = f.service.SubmitPayment(ctx, services.SubmitPaymentCommand{CheckoutID: f.checkoutID, CredentialToken: "nonce-2"}, "idem-2")

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeIdempotencyMismatch))
	})

	t.Run("key still in progress", func(t *testing.T) {
		f := newFixture(t)
		cmd := services.SubmitPaymentCommand{CheckoutID: f.checkoutID, CredentialToken: "nonce"}
		require.NoError(t, f.idempotency.AcquireLock(context.Background(), "idem-3", services.ComputeHash(cmd)))

		_, err := f.service.SubmitPayment(context.Background(), cmd, "idem-3")

		assert.True(t, domain.IsErrorCode(err, domain.ErrRequestProcessing))
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.service.RetryPayment(ctx, services.RetryPaymentCommand{
			CheckoutID: f.checkoutID, CredentialToken: "nonce", InvoiceID: uuid.New(),
		}, "idem-4")
		require.Error(t, err)

		_, err = f.idempotency.FindByKey(ctx, "idem-4")
		assert.Error(t, err)
	})
}

func TestPaymentService_PaymentForm(t *testing.T) {
	t.Run("active method", func(t *testing.T) {
		f := newFixture(t)

		form, err := f.service.PaymentForm(context.Background(), f.checkoutID)

		require.NoError(t, err)
		assert.Equal(t, f.method.ID, form.Method.ID)
		assert.Equal(t, "cust-42", form.CustomerID)
		assert.Equal(t, f.invoice.ID, form.InvoiceID)
		assert.Equal(t, int64(2500), form.AmountDue.Amount)
	})

	t.Run("not at payment stage", func(t *testing.T) {
		f := newFixture(t)
		f.stage.sessions[f.checkoutID] = checkoutSession{invoiceID: f.invoice.ID}

		_, err := f.service.PaymentForm(context.Background(), f.checkoutID)

		assert.Equal(t, application.ErrCodeInvalidCheckoutStage, application.ToErrorCode(err))
	})
}

func TestPaymentService_GetInvoice(t *testing.T) {
	f := newFixture(t)

	invoice, err := f.service.GetInvoice(context.Background(), f.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, f.invoice.ID, invoice.ID)

	_, err = f.service.GetInvoice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
