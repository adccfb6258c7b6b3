package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterOptions struct {
	Doc            *openapi3.T
	Gatherer       prometheus.Gatherer
	Health         HealthChecker
	RequestTimeout time.Duration
}

func NewRouter(h *Handlers, opts RouterOptions) (http.Handler, error) {
	validate, err := middleware.ValidateRequests(opts.Doc, h.logger)
	if err != nil {
		return nil, err
	}
	if err := openapi.Register(opts.Doc); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Recovery(h.logger))

	r.Get("/healthz", h.health(opts.Health))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/doc.json", h.swaggerDoc)

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}
		r.Use(validate)

		r.Post("/checkout/payments", h.SubmitPayment)
		r.Post("/checkout/payments/retry", h.RetryPayment)
		r.Get("/checkout/payment-method", h.GetPaymentForm)
		r.Get("/invoices/{invoiceKey}", h.GetInvoice)
	})

	return r, nil
}

func (h *Handlers) health(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Ping(r.Context()); err != nil {
				h.logger.ErrorContext(r.Context(), "health check failed", "error", err)
				rest.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h *Handlers) swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
