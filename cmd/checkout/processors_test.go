package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/config"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	regs, err := newProcessors(config.ProcessorsConfig{
		Card: config.CardConfig{
			Enabled: true, BaseURL: "http://bank.local", Timeout: time.Second,
			VoidRetries: 3, VoidBaseDelay: time.Millisecond, CredentialArg: "card_token",
		},
		Braintree: config.BraintreeConfig{
			Enabled: true, BaseURL: "http://bt.local", MerchantID: "m", Timeout: time.Second,
			CredentialArg: "payment_method_nonce",
		},
		Sandbox: config.SandboxConfig{
			Enabled: true, Rules: "amount > 100 => too much", CredentialArg: "payment_method_nonce",
		},
	}, logger)
	require.NoError(t, err)

	registry, err := services.NewRegistry(regs...)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProviderTag{"braintree", "card", "sandbox"}, registry.Tags())
}

func TestNewProcessors_OnlyEnabled(t *testing.T) {
	regs, err := newProcessors(config.ProcessorsConfig{
		Sandbox: config.SandboxConfig{Enabled: true, CredentialArg: "payment_method_nonce"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, domain.ProviderTag("sandbox"), regs[0].Processor.Tag())
}

func TestNewProcessors_BadSandboxRules(t *testing.T) {
	_, err := newProcessors(config.ProcessorsConfig{
		Sandbox: config.SandboxConfig{Enabled: true, Rules: "amount > 1", CredentialArg: "x"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Error(t, err)
}
