package domain

import "github.com/google/uuid"

// PaymentMethod is a configured integration with one processor, narrowed to
// a variant such as "paypal.onetime".
type PaymentMethod struct {
	ID          uuid.UUID
	ProviderTag ProviderTag
	Variant     string
	Name        string
	Enabled     bool
}

// Key identifies the method as "provider.variant".
func (m *PaymentMethod) Key() string {
	if m.Variant == "" {
		return string(m.ProviderTag)
	}
	return string(m.ProviderTag) + "." + m.Variant
}
