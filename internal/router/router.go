package router

import (
	"net/http"

	"checkout-wizard/internal/handler"
	"checkout-wizard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS -> Locale -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Locale)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", checkoutHandler.Start)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(checkoutHandler.SessionLocale)

			r.Get("/", checkoutHandler.Get)
			r.Delete("/", checkoutHandler.Abandon)

			r.Put("/step", checkoutHandler.GoToStep)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/fields", checkoutHandler.ValidateField)

			r.Post("/customer", checkoutHandler.SubmitCustomer)

			r.Put("/shipping/zip", checkoutHandler.ChangeZipCode)
			r.Put("/shipping/option", checkoutHandler.SelectShippingOption)
			r.Post("/shipping", checkoutHandler.SubmitShipping)

			r.Put("/payment/method", checkoutHandler.SelectPaymentMethod)
			r.Post("/payment", checkoutHandler.SubmitPayment)

			r.Post("/coupon", checkoutHandler.ApplyCoupon)
			r.Delete("/coupon", checkoutHandler.RemoveCoupon)

			r.Post("/order", orderHandler.Submit)
			r.Post("/reset", orderHandler.NewOrder)
		})
	})

	return r
}
