package domain

// TransactionOutcome is the result of one authorize+capture call: the invoice
// as it stands afterwards and the payment record the call produced.
type TransactionOutcome struct {
	Invoice *Invoice
	Payment PaymentRecord
	Success bool
	Failure *FailureDetail
}

func NewTransactionOutcome(invoice *Invoice, payment PaymentRecord) *TransactionOutcome {
	return &TransactionOutcome{
		Invoice: invoice,
		Payment: payment,
		Success: payment.Success,
		Failure: payment.Failure,
	}
}
