package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"checkout-wizard/internal/i18n"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type startRequest struct {
	CartID string `json:"cartId"`
}

type stepRequest struct {
	Step string `json:"step"`
}

type fieldRequest struct {
	Step  string `json:"step"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type optionRequest struct {
	OptionID string `json:"optionId"`
}

type methodRequest struct {
	Method model.PaymentMethod `json:"method"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// CheckoutHandler handles the checkout session HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// SessionLocale lets the handlers of a session route write their messages in
// the session's locale when the request names none.
func (h *CheckoutHandler) SessionLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := i18n.FromContext(r.Context()); !ok {
			if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
				if locale, err := h.service.Locale(r.Context(), id); err == nil {
					if l, ok := i18n.ParseLocale(locale); ok {
						r = r.WithContext(i18n.WithSessionLocale(r.Context(), l))
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Start handles POST /api/sessions requests. The body is optional.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.invalidBody(w, r)
		return
	}

	view, err := h.service.Start(r.Context(), req.CartID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusCreated, view)
}

// Get handles GET /api/sessions/{id} requests.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	h.respond(w, r)(h.service.Get(r.Context(), id))
}

// Abandon handles DELETE /api/sessions/{id} requests.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.Abandon(r.Context(), id); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GoToStep handles PUT /api/sessions/{id}/step requests.
func (h *CheckoutHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req stepRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.GoToStep(r.Context(), id, req.Step))
}

// Back handles POST /api/sessions/{id}/back requests.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	h.respond(w, r)(h.service.Back(r.Context(), id))
}

// ValidateField handles POST /api/sessions/{id}/fields requests.
func (h *CheckoutHandler) ValidateField(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req fieldRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.service.ValidateField(r.Context(), id, req.Step, req.Name, req.Value)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

// SubmitCustomer handles POST /api/sessions/{id}/customer requests.
func (h *CheckoutHandler) SubmitCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req model.CustomerInfo
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.SubmitCustomer(r.Context(), id, req))
}

// ChangeZipCode handles PUT /api/sessions/{id}/shipping/zip requests. The
// body is the address draft as currently typed.
func (h *CheckoutHandler) ChangeZipCode(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req model.ShippingAddress
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.ChangeZipCode(r.Context(), id, req))
}

// SelectShippingOption handles PUT /api/sessions/{id}/shipping/option requests.
func (h *CheckoutHandler) SelectShippingOption(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req optionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.SelectShippingOption(r.Context(), id, req.OptionID))
}

// SubmitShipping handles POST /api/sessions/{id}/shipping requests.
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req model.ShippingAddress
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.SubmitShipping(r.Context(), id, req))
}

// SelectPaymentMethod handles PUT /api/sessions/{id}/payment/method requests.
func (h *CheckoutHandler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req methodRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.SelectPaymentMethod(r.Context(), id, req.Method))
}

// SubmitPayment handles POST /api/sessions/{id}/payment requests.
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req model.PaymentInfo
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.SubmitPayment(r.Context(), id, req))
}

// ApplyCoupon handles POST /api/sessions/{id}/coupon requests.
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	var req couponRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r)(h.service.ApplyCoupon(r.Context(), id, req.Code))
}

// RemoveCoupon handles DELETE /api/sessions/{id}/coupon requests.
func (h *CheckoutHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r, h.logger)
	if !ok {
		return
	}
	h.respond(w, r)(h.service.RemoveCoupon(r.Context(), id))
}

// respond returns a writer for the (view, error) result of a service call.
func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request) func(*service.SessionView, error) {
	return func(view *service.SessionView, err error) {
		if err != nil {
			writeServiceError(w, r, err, h.logger)
			return
		}
		writeSuccess(w, http.StatusOK, view)
	}
}

func (h *CheckoutHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.invalidBody(w, r)
		return false
	}
	return true
}

func (h *CheckoutHandler) invalidBody(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, translator(r).T(i18n.InvalidRequestBody), h.logger)
}

// sessionID parses the {id} path parameter. A malformed ID cannot name a
// session and is reported as not found.
func sessionID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCodeSessionNotFound, translator(r).T(i18n.SessionNotFound), logger)
		return uuid.Nil, false
	}
	return id, true
}
