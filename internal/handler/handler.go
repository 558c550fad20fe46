package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"checkout-wizard/internal/cart"
	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/coupon"
	"checkout-wizard/internal/i18n"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/payment"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeSuccess wraps data in a successful envelope.
func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, model.APIResponse{Success: true, Data: data})
}

// writeError writes a failed envelope with a localized message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.APIResponse{Success: false, Error: message, Code: code})
}

// translator returns the translator for the locale requested with r, falling
// back to the locale of the session r addresses.
func translator(r *http.Request) i18n.Translator {
	return i18n.New(i18n.Resolve(r.Context()))
}

// declineMessage returns the processor's reason for a decline. The stock
// reason is replaced by its translation.
func declineMessage(tr i18n.Translator, declined *payment.DeclinedError) string {
	if declined.Reason == "" || declined.Reason == payment.DefaultDeclineReason {
		return tr.T(i18n.PaymentDeclined)
	}
	return declined.Reason
}

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:         http.StatusBadRequest,
	model.ErrCodeSessionNotFound:     http.StatusNotFound,
	model.ErrCodeStepNotNavigable:    http.StatusConflict,
	model.ErrCodeStepNotCurrent:      http.StatusConflict,
	model.ErrCodeUnknownStep:         http.StatusBadRequest,
	model.ErrCodeUnknownField:        http.StatusBadRequest,
	model.ErrCodeOrderCompleted:      http.StatusConflict,
	model.ErrCodeOrderNotReady:       http.StatusConflict,
	model.ErrCodeSubmissionInFlight:  http.StatusConflict,
	model.ErrCodeCouponInvalid:       http.StatusBadRequest,
	model.ErrCodeCouponEmpty:         http.StatusBadRequest,
	model.ErrCodeCouponMinPurchase:   http.StatusBadRequest,
	model.ErrCodeCouponLookupFailed:  http.StatusBadGateway,
	model.ErrCodeCouponDisabled:      http.StatusBadRequest,
	model.ErrCodeShippingUnavailable: http.StatusBadRequest,
	model.ErrCodeShippingOption:      http.StatusBadRequest,
	model.ErrCodePaymentMethod:       http.StatusBadRequest,
	model.ErrCodePaymentDeclined:     http.StatusPaymentRequired,
	model.ErrCodePaymentFailed:       http.StatusBadGateway,
	model.ErrCodeCartUnavailable:     http.StatusServiceUnavailable,
}

// messageByCode maps domain error codes to message keys.
var messageByCode = map[string]string{
	model.ErrCodeInvalidJSON:         i18n.InvalidRequestBody,
	model.ErrCodeSessionNotFound:     i18n.SessionNotFound,
	model.ErrCodeStepNotNavigable:    i18n.StepNotNavigable,
	model.ErrCodeStepNotCurrent:      i18n.StepNotCurrent,
	model.ErrCodeUnknownStep:         i18n.UnknownStep,
	model.ErrCodeUnknownField:        i18n.UnknownField,
	model.ErrCodeOrderCompleted:      i18n.OrderCompleted,
	model.ErrCodeOrderNotReady:       i18n.OrderNotReady,
	model.ErrCodeSubmissionInFlight:  i18n.OrderInFlight,
	model.ErrCodeCouponInvalid:       i18n.CouponInvalid,
	model.ErrCodeCouponEmpty:         i18n.CouponEmpty,
	model.ErrCodeCouponLookupFailed:  i18n.CouponLookupFailed,
	model.ErrCodeCouponDisabled:      i18n.CouponDisabled,
	model.ErrCodeShippingUnavailable: i18n.ShippingUnavailable,
	model.ErrCodeShippingOption:      i18n.ShippingOptionGone,
	model.ErrCodePaymentMethod:       i18n.MethodUnavailable,
	model.ErrCodePaymentDeclined:     i18n.PaymentDeclined,
	model.ErrCodePaymentFailed:       i18n.PaymentFailed,
	model.ErrCodeCartUnavailable:     i18n.CartUnavailable,
}

// writeServiceError classifies err and writes the matching failed envelope.
// Validation errors carry their field messages in data.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	tr := translator(r)

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		logger.Debug().Str("step", verr.Step).Int("error_count", len(verr.Fields)).Msg("form rejected")
		writeJSON(w, http.StatusUnprocessableEntity, model.APIResponse{
			Success: false,
			Data:    verr,
			Error:   tr.T(i18n.ValidationFailed),
			Code:    model.ErrCodeValidationFailed,
		})
		return
	}

	var minErr *coupon.MinPurchaseError
	if errors.As(err, &minErr) {
		writeError(w, http.StatusBadRequest, model.ErrCodeCouponMinPurchase, tr.Tf(i18n.CouponMinPurchase, minErr.MinPurchase), logger)
		return
	}

	if errors.Is(err, model.ErrCartUnavailable) && errors.Is(err, cart.ErrNotFound) {
		writeError(w, http.StatusNotFound, model.ErrCodeCartUnavailable, tr.T(i18n.CartUnavailable), logger)
		return
	}

	if errors.Is(err, checkout.ErrUnknownStep) {
		writeError(w, http.StatusBadRequest, model.ErrCodeUnknownStep, tr.T(i18n.UnknownStep), logger)
		return
	}

	var derr *model.DomainError
	if errors.As(err, &derr) {
		status, ok := statusByCode[derr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		message := derr.Message
		if key, ok := messageByCode[derr.Code]; ok {
			message = tr.T(key)
		}
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("code", derr.Code).Msg("collaborator failure")
		}
		writeError(w, status, derr.Code, message, logger)
		return
	}

	var declined *payment.DeclinedError
	if errors.As(err, &declined) {
		writeError(w, http.StatusPaymentRequired, model.ErrCodePaymentDeclined, declineMessage(tr, declined), logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, tr.T(i18n.InternalError), logger)
}
