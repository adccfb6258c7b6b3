// Package sandbox is a local processor for development and demos. It never
// leaves the process and decides declines from configured rules.
package sandbox

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

const Tag domain.ProviderTag = "sandbox"

type Processor struct {
	rules         []Rule
	credentialArg string
	logger        *slog.Logger
}

func NewProcessor(rules []Rule, credentialArg string, logger *slog.Logger) *Processor {
	return &Processor{
		rules:         rules,
		credentialArg: credentialArg,
		logger:        logger,
	}
}

func (p *Processor) Tag() domain.ProviderTag {
	return Tag
}

func (p *Processor) AuthorizeCapture(ctx context.Context, req application.ProcessorRequest) (*application.ProcessorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, _ := req.Args.Get(p.credentialArg)
	params := map[string]any{
		"amount":   float64(req.Amount.Amount),
		"currency": req.Amount.Currency,
		"token":    token,
		"customer": req.CustomerID,
	}

	for _, rule := range p.rules {
		matched, err := rule.matches(params)
		if err != nil {
			return nil, err
		}
		if matched {
			p.logger.DebugContext(ctx, "sandbox rule declined payment",
				"payment_id", req.PaymentID,
				"rule", rule.Expression)
			return &application.ProcessorResult{ErrorMessage: rule.Message}, nil
		}
	}

	return &application.ProcessorResult{
		Accepted:    true,
		ReferenceID: "sandbox-" + req.PaymentID.String(),
	}, nil
}
