package card

import "time"

type AuthorizationRequest struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	CardToken string `json:"card_token"`
	Reference string `json:"reference"`
}

type AuthorizationResponse struct {
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	AuthorizationID string    `json:"authorization_id"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type CaptureRequest struct {
	Amount          int64  `json:"amount"`
	AuthorizationID string `json:"authorization_id"`
}

type CaptureResponse struct {
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	AuthorizationID string    `json:"authorization_id"`
	CaptureID       string    `json:"capture_id"`
	Status          string    `json:"status"`
	CapturedAt      time.Time `json:"captured_at"`
}

type VoidRequest struct {
	AuthorizationID string `json:"authorization_id"`
}

type VoidResponse struct {
	AuthorizationID string    `json:"authorization_id"`
	Status          string    `json:"status"`
	VoidID          string    `json:"void_id"`
	VoidedAt        time.Time `json:"voided_at"`
}
