package braintree

type saleRequest struct {
	Transaction transactionRequest `json:"transaction"`
}

type transactionRequest struct {
	Type               string             `json:"type"`
	Amount             string             `json:"amount"`
	PaymentMethodNonce string             `json:"payment_method_nonce"`
	OrderID            string             `json:"order_id,omitempty"`
	Options            transactionOptions `json:"options"`
}

type transactionOptions struct {
	SubmitForSettlement bool `json:"submit_for_settlement"`
}

type saleResponse struct {
	Transaction Transaction `json:"transaction"`
}

type Transaction struct {
	ID                    string `json:"id"`
	Status                string `json:"status"`
	Amount                string `json:"amount"`
	ProcessorResponseCode string `json:"processor_response_code"`
	ProcessorResponseText string `json:"processor_response_text"`
}

// Settling reports whether the sale went through and funds are on their way.
func (t Transaction) Settling() bool {
	switch t.Status {
	case "submitted_for_settlement", "settling", "settled", "settlement_pending":
		return true
	}
	return false
}

type errorResponse struct {
	Message string `json:"message"`
}
