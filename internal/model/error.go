package model

// APIResponse is the success/failure envelope returned by every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeStepNotNavigable    = "STEP_NOT_NAVIGABLE"
	ErrCodeStepNotCurrent      = "STEP_NOT_CURRENT"
	ErrCodeUnknownStep         = "UNKNOWN_STEP"
	ErrCodeUnknownField        = "UNKNOWN_FIELD"
	ErrCodeOrderCompleted      = "ORDER_COMPLETED"
	ErrCodeOrderNotReady       = "ORDER_NOT_READY"
	ErrCodeSubmissionInFlight  = "SUBMISSION_IN_FLIGHT"
	ErrCodeCouponInvalid       = "COUPON_INVALID"
	ErrCodeCouponEmpty         = "COUPON_EMPTY"
	ErrCodeCouponMinPurchase   = "COUPON_MIN_PURCHASE"
	ErrCodeCouponLookupFailed  = "COUPON_LOOKUP_FAILED"
	ErrCodeCouponDisabled      = "COUPON_DISABLED"
	ErrCodeZipInvalid          = "ZIP_INVALID"
	ErrCodeZipNotFound         = "ZIP_NOT_FOUND"
	ErrCodeAddressLookupFailed = "ADDRESS_LOOKUP_FAILED"
	ErrCodeShippingUnavailable = "SHIPPING_UNAVAILABLE"
	ErrCodeShippingOption      = "SHIPPING_OPTION_UNKNOWN"
	ErrCodePaymentMethod       = "PAYMENT_METHOD_UNAVAILABLE"
	ErrCodePaymentDeclined     = "PAYMENT_DECLINED"
	ErrCodePaymentFailed       = "PAYMENT_FAILED"
	ErrCodeCartUnavailable     = "CART_UNAVAILABLE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrSessionNotFound    = NewDomainError(ErrCodeSessionNotFound, "checkout session not found")
	ErrStepNotNavigable   = NewDomainError(ErrCodeStepNotNavigable, "step has not been reached yet")
	ErrStepNotCurrent     = NewDomainError(ErrCodeStepNotCurrent, "form does not belong to the current step")
	ErrUnknownStep        = NewDomainError(ErrCodeUnknownStep, "unknown checkout step")
	ErrCartUnavailable    = NewDomainError(ErrCodeCartUnavailable, "cart could not be loaded")
	ErrOrderNotReady      = NewDomainError(ErrCodeOrderNotReady, "all previous steps must be completed before submitting the order")
	ErrSubmissionInFlight = NewDomainError(ErrCodeSubmissionInFlight, "an order submission is already in progress")
	ErrCouponDisabled     = NewDomainError(ErrCodeCouponDisabled, "coupons are not enabled for this checkout")
)

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct {
	Step   string            `json:"step"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "validation failed for step " + e.Step
}
