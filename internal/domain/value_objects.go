package domain

type Money struct {
	Amount   int64
	Currency string
}

// ProviderTag names a processor integration, e.g. "braintree" or "card".
type ProviderTag string
