// Package validation implements the field and form rules of the checkout
// steps. Rules are pure; messages come from the caller's translator.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/i18n"
	"checkout-wizard/internal/model"
)

// Field names, matching the JSON names of the checkout records.
const (
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldZipCode      = "zipCode"
	FieldStreet       = "street"
	FieldNumber       = "number"
	FieldComplement   = "complement"
	FieldNeighborhood = "neighborhood"
	FieldCity         = "city"
	FieldState        = "state"
	FieldShipping     = "shipping"
	FieldMethod       = "method"
	FieldCardNumber   = "cardNumber"
	FieldCardName     = "cardName"
	FieldExpiryDate   = "expiryDate"
	FieldCVV          = "cvv"
	FieldInstallments = "installments"
)

var (
	CustomerFields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone}
	ShippingFields = []string{FieldZipCode, FieldStreet, FieldNumber, FieldComplement, FieldNeighborhood, FieldCity, FieldState}
	CardFields     = []string{FieldCardNumber, FieldCardName, FieldExpiryDate, FieldCVV}
	// PaymentFields are cleared whenever the payment method changes.
	PaymentFields = append([]string{FieldMethod, FieldInstallments}, CardFields...)
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryPattern = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// ErrUnknownField is returned by Field for names no rule applies to.
var ErrUnknownField = errors.New("unknown field")

// Options configures the rules that depend on checkout settings.
type Options struct {
	ShippingEnabled bool
	PaymentMethods  []model.PaymentMethod
	Policy          checkout.Policy
	// Now is used for card expiry; defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a form validation.
type Result struct {
	Errors  map[string]string
	Touched []string
	Valid   bool
}

func newResult(touched []string) Result {
	return Result{Errors: map[string]string{}, Touched: slices.Clone(touched)}
}

func (r *Result) check(field, msg string) {
	if msg != "" {
		r.Errors[field] = msg
	}
}

func (r *Result) done() Result {
	r.Valid = len(r.Errors) == 0
	return *r
}

// Validator applies the step rules.
type Validator struct {
	opts Options
}

// New creates a Validator.
func New(opts Options) *Validator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PaymentMethods == nil {
		opts.PaymentMethods = model.PaymentMethods
	}
	return &Validator{opts: opts}
}

// MethodEnabled reports whether method can be used in this checkout.
func (v *Validator) MethodEnabled(method model.PaymentMethod) bool {
	return method.Valid() && slices.Contains(v.opts.PaymentMethods, method)
}

// Field validates a single field of step, as on blur. method selects the
// payment rules and is ignored for other steps.
func (v *Validator) Field(tr i18n.Translator, step checkout.Step, method model.PaymentMethod, name, value string) (string, error) {
	switch step {
	case checkout.StepCustomer:
		if !slices.Contains(CustomerFields, name) {
			break
		}
		return v.CustomerField(tr, name, value), nil
	case checkout.StepShipping:
		if !slices.Contains(ShippingFields, name) {
			break
		}
		return v.ShippingField(tr, name, value), nil
	case checkout.StepPayment:
		if !slices.Contains(CardFields, name) {
			break
		}
		return v.PaymentField(tr, method, name, value), nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnknownField, step, name)
}

// CustomerField returns the error message for one customer field, or "".
func (v *Validator) CustomerField(tr i18n.Translator, name, value string) string {
	switch name {
	case FieldFirstName:
		return minLength(tr, value, 2, i18n.FirstNameRequired, i18n.FirstNameMin)
	case FieldLastName:
		return minLength(tr, value, 2, i18n.LastNameRequired, i18n.LastNameMin)
	case FieldEmail:
		if strings.TrimSpace(value) == "" {
			return tr.T(i18n.EmailRequired)
		}
		if !emailPattern.MatchString(value) {
			return tr.T(i18n.EmailInvalid)
		}
	case FieldPhone:
		digits := Digits(value)
		if digits == "" {
			return tr.T(i18n.PhoneRequired)
		}
		if len(digits) < 10 || len(digits) > 11 {
			return tr.T(i18n.PhoneInvalid)
		}
	}
	return ""
}

// Customer validates the customer form and returns the record to commit.
func (v *Validator) Customer(tr i18n.Translator, c model.CustomerInfo) (Result, model.CustomerInfo) {
	res := newResult(CustomerFields)
	res.check(FieldFirstName, v.CustomerField(tr, FieldFirstName, c.FirstName))
	res.check(FieldLastName, v.CustomerField(tr, FieldLastName, c.LastName))
	res.check(FieldEmail, v.CustomerField(tr, FieldEmail, c.Email))
	res.check(FieldPhone, v.CustomerField(tr, FieldPhone, c.Phone))

	clean := model.CustomerInfo{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
	}
	return res.done(), clean
}

// ShippingField returns the error message for one address field, or "".
func (v *Validator) ShippingField(tr i18n.Translator, name, value string) string {
	switch name {
	case FieldZipCode:
		digits := Digits(value)
		if digits == "" {
			return tr.T(i18n.ZipCodeRequired)
		}
		if len(digits) != 8 {
			return tr.T(i18n.ZipCodeInvalid)
		}
	case FieldStreet:
		return required(tr, value, i18n.StreetRequired)
	case FieldNumber:
		return required(tr, value, i18n.NumberRequired)
	case FieldNeighborhood:
		return required(tr, value, i18n.NeighborhoodRequired)
	case FieldCity:
		return required(tr, value, i18n.CityRequired)
	case FieldState:
		return required(tr, value, i18n.StateRequired)
	}
	return ""
}

// Shipping validates the address form. optionSelected tells whether a
// shipping option has been picked for the current postal code.
func (v *Validator) Shipping(tr i18n.Translator, addr model.ShippingAddress, optionSelected bool) (Result, model.ShippingAddress) {
	res := newResult(ShippingFields)
	res.check(FieldZipCode, v.ShippingField(tr, FieldZipCode, addr.ZipCode))
	res.check(FieldStreet, v.ShippingField(tr, FieldStreet, addr.Street))
	res.check(FieldNumber, v.ShippingField(tr, FieldNumber, addr.Number))
	res.check(FieldNeighborhood, v.ShippingField(tr, FieldNeighborhood, addr.Neighborhood))
	res.check(FieldCity, v.ShippingField(tr, FieldCity, addr.City))
	res.check(FieldState, v.ShippingField(tr, FieldState, addr.State))
	if v.opts.ShippingEnabled && !optionSelected {
		res.check(FieldShipping, tr.T(i18n.ShippingRequired))
	}

	clean := model.ShippingAddress{
		Street:       strings.TrimSpace(addr.Street),
		Number:       strings.TrimSpace(addr.Number),
		Complement:   strings.TrimSpace(addr.Complement),
		Neighborhood: strings.TrimSpace(addr.Neighborhood),
		City:         strings.TrimSpace(addr.City),
		State:        strings.TrimSpace(addr.State),
		ZipCode:      Digits(addr.ZipCode),
		Country:      strings.TrimSpace(addr.Country),
	}
	if clean.Country == "" {
		clean.Country = model.DefaultCountry
	}
	return res.done(), clean
}

// PaymentField returns the error message for one card field, or "". Card
// fields always pass for methods that do not take a card.
func (v *Validator) PaymentField(tr i18n.Translator, method model.PaymentMethod, name, value string) string {
	if !method.IsCard() {
		return ""
	}
	switch name {
	case FieldCardNumber:
		digits := Digits(value)
		if digits == "" {
			return tr.T(i18n.CardNumberRequired)
		}
		if !ValidateCardNumber(digits) {
			return tr.T(i18n.CardNumberInvalid)
		}
	case FieldCardName:
		return minLength(tr, value, 3, i18n.CardNameRequired, i18n.CardNameMin)
	case FieldExpiryDate:
		return v.expiry(tr, value)
	case FieldCVV:
		if value == "" {
			return tr.T(i18n.CVVRequired)
		}
		if !cvvPattern.MatchString(value) {
			return tr.T(i18n.CVVInvalid)
		}
	}
	return ""
}

// Payment validates the payment form against total (used for installment
// limits) and returns the record to commit. Card details are dropped for
// methods that do not take a card.
func (v *Validator) Payment(tr i18n.Translator, p model.PaymentInfo, total float64) (Result, model.PaymentInfo) {
	res := newResult(PaymentFields)

	if !v.MethodEnabled(p.Method) {
		res.check(FieldMethod, tr.T(i18n.MethodUnavailable))
		return res.done(), p
	}

	clean := model.PaymentInfo{Method: p.Method, Installments: 1}
	if !p.Method.IsCard() {
		return res.done(), clean
	}

	res.check(FieldCardNumber, v.PaymentField(tr, p.Method, FieldCardNumber, p.CardNumber))
	res.check(FieldCardName, v.PaymentField(tr, p.Method, FieldCardName, p.CardName))
	res.check(FieldExpiryDate, v.PaymentField(tr, p.Method, FieldExpiryDate, p.ExpiryDate))
	res.check(FieldCVV, v.PaymentField(tr, p.Method, FieldCVV, p.CVV))

	clean.CardNumber = Digits(p.CardNumber)
	clean.CardName = strings.ToUpper(strings.TrimSpace(p.CardName))
	clean.ExpiryDate = strings.TrimSpace(p.ExpiryDate)
	clean.CVV = p.CVV

	if p.Method == model.PaymentCredit {
		installments := p.Installments
		if installments == 0 {
			installments = 1
		}
		if !checkout.AllowsInstallments(total, installments, v.opts.Policy) {
			res.check(FieldInstallments, tr.T(i18n.InstallmentsLimit))
		}
		clean.Installments = installments
	}

	return res.done(), clean
}

// expiry checks MM/YY. A card is expired when its year is before the current
// year, or it is the current year and the month has passed.
func (v *Validator) expiry(tr i18n.Translator, value string) string {
	if value == "" {
		return tr.T(i18n.ExpiryRequired)
	}
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return tr.T(i18n.ExpiryInvalid)
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return tr.T(i18n.ExpiryInvalidMonth)
	}

	now := v.opts.Now()
	currentYear := now.Year() % 100
	if year < currentYear || (year == currentYear && month < int(now.Month())) {
		return tr.T(i18n.ExpiryExpired)
	}
	return ""
}

func required(tr i18n.Translator, value, key string) string {
	if strings.TrimSpace(value) == "" {
		return tr.T(key)
	}
	return ""
}

func minLength(tr i18n.Translator, value string, n int, requiredKey, minKey string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return tr.T(requiredKey)
	}
	if len([]rune(v)) < n {
		return tr.T(minKey)
	}
	return ""
}
