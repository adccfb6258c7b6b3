package rest

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BuildErrorResponse maps application errors to a status code and body.
// Internal errors are not echoed to the client.
func BuildErrorResponse(err error) (int, ErrorResponse) {
	statusCode := application.ToHTTPStatus(err)
	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = "internal server error"
	}

	return statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    application.ToErrorCode(err),
			Message: message,
		},
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	statusCode, response := BuildErrorResponse(err)

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", statusCode,
		"code", response.Error.Code,
		"category", application.CategorizeError(err),
		"error", err,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		logger.InfoContext(r.Context(), "request rejected", attrs...)
	}

	WriteJSON(w, statusCode, response)
}
