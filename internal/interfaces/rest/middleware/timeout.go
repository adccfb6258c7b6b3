package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
)

// Timeout bounds every request. The deadline reaches the processor call
// through the request context, so a slow processor ends as a failed payment
// result. The hard limit only trips for handlers that ignore the deadline and
// leaves room to write the result after the deadline has passed.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	_, response := rest.BuildErrorResponse(application.NewTimeoutError())
	body, _ := json.Marshal(response)

	return func(next http.Handler) http.Handler {
		timeoutHandler := http.TimeoutHandler(next, hardLimit(timeout), string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			timeoutHandler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hardLimit(timeout time.Duration) time.Duration {
	return timeout + max(timeout/2, time.Second)
}
