package braintree

import (
	"fmt"
	"strings"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// NonceArg is the argument name Braintree's client SDKs use for the
// single-use payment method token.
const NonceArg = "payment_method_nonce"

func SetPaymentMethodNonce(args *domain.ArgumentBag, nonce string) {
	args.Set(NonceArg, nonce)
}

// argumentSchema checks the argument bag handed to a sale.
type argumentSchema struct {
	schema *gojsonschema.Schema
}

func newArgumentSchema(credentialArg string) (*argumentSchema, error) {
	loader := gojsonschema.NewGoLoader(map[string]any{
		"type":     "object",
		"required": []string{credentialArg},
		"properties": map[string]any{
			credentialArg: map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
		"additionalProperties": map[string]any{"type": "string"},
	})
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("error compiling argument schema: %w", err)
	}
	return &argumentSchema{schema: schema}, nil
}

// Validate returns the violations found in args, if any.
func (s *argumentSchema) Validate(args *domain.ArgumentBag) ([]string, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(args.Map()))
	if err != nil {
		return nil, fmt.Errorf("error during validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}

func formatViolations(violations []string) string {
	return strings.Join(violations, "; ")
}
