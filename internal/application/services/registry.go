package services

import (
	"fmt"
	"slices"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
)

// Registration binds a processor to the argument name its credential token
// is passed under (e.g. "payment_method_nonce").
type Registration struct {
	Processor     application.Processor
	CredentialArg string
}

// Registry is the closed set of processors the checkout can call. Adding a
// processor means adding a Registration at startup.
type Registry struct {
	entries map[domain.ProviderTag]Registration
}

func NewRegistry(registrations ...Registration) (*Registry, error) {
	entries := make(map[domain.ProviderTag]Registration, len(registrations))
	for _, reg := range registrations {
		if reg.Processor == nil {
			return nil, fmt.Errorf("registry: nil processor")
		}
		tag := reg.Processor.Tag()
		if reg.CredentialArg == "" {
			return nil, fmt.Errorf("registry: processor %q has no credential argument", tag)
		}
		if _, exists := entries[tag]; exists {
			return nil, fmt.Errorf("registry: processor %q registered twice", tag)
		}
		entries[tag] = reg
	}
	return &Registry{entries: entries}, nil
}

func (r *Registry) Resolve(tag domain.ProviderTag) (Registration, error) {
	reg, ok := r.entries[tag]
	if !ok {
		return Registration{}, domain.NewProcessorNotRegisteredError(tag)
	}
	return reg, nil
}

// Tags lists the registered provider tags in sorted order.
func (r *Registry) Tags() []domain.ProviderTag {
	tags := make([]domain.ProviderTag, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// BuildArguments puts the credential token in a fresh argument bag under the
// name the method's processor expects.
func (r *Registry) BuildArguments(method *domain.PaymentMethod, credentialToken string) (*domain.ArgumentBag, error) {
	reg, err := r.Resolve(method.ProviderTag)
	if err != nil {
		return nil, err
	}
	args := domain.NewArgumentBag()
	args.Set(reg.CredentialArg, credentialToken)
	return args, nil
}
