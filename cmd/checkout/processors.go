package main

import (
	"log/slog"

	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/config"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/processor/braintree"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/processor/card"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/processor/sandbox"
)

// newProcessors builds one registration per enabled processor.
func newProcessors(cfg config.ProcessorsConfig, logger *slog.Logger) ([]services.Registration, error) {
	var regs []services.Registration

	if cfg.Card.Enabled {
		p := card.NewProcessor(
			card.NewClient(cfg.Card.BaseURL, cfg.Card.Timeout),
			card.Options{
				CredentialArg: cfg.Card.CredentialArg,
				VoidRetries:   cfg.Card.VoidRetries,
				VoidBaseDelay: cfg.Card.VoidBaseDelay,
			},
			logger.With("processor", card.Tag),
		)
		regs = append(regs, services.Registration{Processor: p, CredentialArg: cfg.Card.CredentialArg})
	}

	if cfg.Braintree.Enabled {
		client := braintree.NewClient(cfg.Braintree.BaseURL, braintree.Credentials{
			MerchantID: cfg.Braintree.MerchantID,
			PublicKey:  cfg.Braintree.PublicKey,
			PrivateKey: cfg.Braintree.PrivateKey,
		}, cfg.Braintree.Timeout)
		p, err := braintree.NewProcessor(client, cfg.Braintree.CredentialArg, logger.With("processor", braintree.Tag))
		if err != nil {
			return nil, err
		}
		regs = append(regs, services.Registration{Processor: p, CredentialArg: cfg.Braintree.CredentialArg})
	}

	if cfg.Sandbox.Enabled {
		rules, err := sandbox.ParseRules(cfg.Sandbox.Rules)
		if err != nil {
			return nil, err
		}
		p := sandbox.NewProcessor(rules, cfg.Sandbox.CredentialArg, logger.With("processor", sandbox.Tag))
		regs = append(regs, services.Registration{Processor: p, CredentialArg: cfg.Sandbox.CredentialArg})
	}

	return regs, nil
}
