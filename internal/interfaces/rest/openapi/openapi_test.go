package openapi_test

import (
	"encoding/json"
	"testing"

	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad(t *testing.T) {
	doc, err := openapi.Load()

	require.NoError(t, err)
	for _, path := range []string{
		"/api/v1/checkout/payments",
		"/api/v1/checkout/payments/retry",
		"/api/v1/checkout/payment-method",
		"/api/v1/invoices/{invoiceKey}",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestRegister(t *testing.T) {
	doc, err := openapi.Load()
	require.NoError(t, err)

	require.NoError(t, openapi.Register(doc))

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Equal(t, "3.0.3", parsed["openapi"])
}
