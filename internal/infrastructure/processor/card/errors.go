package card

import (
	"errors"
	"fmt"
	"net/http"
)

type BankError struct {
	Code       string
	Message    string
	StatusCode int
}

type BankErrorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *BankError) Error() string {
	return fmt.Sprintf("bank error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// IsDecline reports whether the bank refused the card rather than failing
// to process the request.
func (e *BankError) IsDecline() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != http.StatusTooManyRequests &&
		e.StatusCode != http.StatusRequestTimeout
}

func (e *BankError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.Code == "internal_error"
}

func IsBankError(err error) (*BankError, bool) {
	var bankErr *BankError
	ok := errors.As(err, &bankErr)
	return bankErr, ok
}

var declineMessages = map[string]string{
	"insufficient_funds":   "Insufficient funds",
	"card_expired":         "The card has expired",
	"invalid_card":         "The card number is invalid",
	"card_declined":        "The card was declined",
	"authorization_failed": "The card could not be authorized",
}

// DeclineMessage turns a bank decline into text a customer can act on.
func DeclineMessage(e *BankError) string {
	if msg, ok := declineMessages[e.Code]; ok {
		return msg
	}
	if e.Message != "" {
		return e.Message
	}
	return "The card was declined"
}
