package postgres

import (
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

func toInvoiceModel(inv *domain.Invoice) InvoiceModel {
	return InvoiceModel{
		ID:            inv.ID,
		InvoiceNumber: inv.Number,
		CustomerID:    inv.CustomerID,
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toInvoiceDomain(m InvoiceModel, items []LineItemModel, payments []PaymentModel) *domain.Invoice {
	inv := &domain.Invoice{
		ID:         m.ID,
		Number:     m.InvoiceNumber,
		CustomerID: m.CustomerID,
		Currency:   m.Currency,
		Status:     domain.InvoiceStatus(m.Status),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		LineItems:  make([]domain.LineItem, 0, len(items)),
		Payments:   make([]domain.PaymentRecord, 0, len(payments)),
	}
	for _, item := range items {
		inv.LineItems = append(inv.LineItems, domain.LineItem{
			SKU:            item.SKU,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	for _, p := range payments {
		inv.Payments = append(inv.Payments, toPaymentDomain(p))
	}
	return inv
}

func toPaymentModel(p domain.PaymentRecord) PaymentModel {
	m := PaymentModel{
		ID:                 p.ID,
		InvoiceID:          p.InvoiceID,
		Sequence:           p.Sequence,
		PaymentMethodID:    p.PaymentMethodID,
		ProviderTag:        string(p.ProviderTag),
		AmountCents:        p.AmountCents,
		Currency:           p.Currency,
		Success:            p.Success,
		ProcessorReference: p.ProcessorReference,
		CreatedAt:          p.CreatedAt,
	}
	if p.Failure != nil {
		kind := string(p.Failure.Kind)
		msg := p.Failure.Message
		m.FailureKind = &kind
		m.FailureMessage = &msg
	}
	return m
}

func toPaymentDomain(m PaymentModel) domain.PaymentRecord {
	p := domain.PaymentRecord{
		ID:                 m.ID,
		InvoiceID:          m.InvoiceID,
		Sequence:           m.Sequence,
		PaymentMethodID:    m.PaymentMethodID,
		ProviderTag:        domain.ProviderTag(m.ProviderTag),
		AmountCents:        m.AmountCents,
		Currency:           m.Currency,
		Success:            m.Success,
		ProcessorReference: m.ProcessorReference,
		CreatedAt:          m.CreatedAt,
	}
	if m.FailureKind != nil {
		detail := domain.FailureDetail{Kind: domain.FailureKind(*m.FailureKind)}
		if m.FailureMessage != nil {
			detail.Message = *m.FailureMessage
		}
		p.Failure = &detail
	}
	return p
}

func toMethodDomain(m PaymentMethodModel) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          m.ID,
		ProviderTag: domain.ProviderTag(m.ProviderTag),
		Variant:     m.Variant,
		Name:        m.Name,
		Enabled:     m.Enabled,
	}
}
