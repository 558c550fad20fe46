package checkout

import (
	"slices"
	"sync"
	"time"

	"checkout-wizard/internal/model"

	"github.com/google/uuid"
)

// ShippingDraft is the in-progress shipping form: the postal code in effect,
// the address being edited, and the quotes fetched for that postal code.
type ShippingDraft struct {
	Address          model.ShippingAddress  `json:"address"`
	Options          []model.ShippingOption `json:"options"`
	SelectedOptionID string                 `json:"selectedOptionId,omitempty"`
	LookupError      string                 `json:"lookupError,omitempty"`
	LookupPending    bool                   `json:"lookupPending"`
	lookupTag        uint64
}

// Session is the handle to one checkout flow. All writes go through Dispatch
// or the draft helpers, which serialize on the session lock.
type Session struct {
	id     uuid.UUID
	policy Policy

	mu            sync.Mutex
	state         State
	cartID        string
	locale        string
	shipping      ShippingDraft
	paymentMethod model.PaymentMethod
	lastActive    time.Time
	now           func() time.Time
}

// NewSession creates a session in the initial state.
func NewSession(id uuid.UUID, policy Policy, locale string) *Session {
	s := &Session{
		id:     id,
		policy: policy,
		locale: locale,
		now:    time.Now,
	}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.state = InitialState()
	// the tag keeps counting so lookups started before a reset stay stale
	s.shipping = ShippingDraft{
		Address:   s.state.Shipping,
		Options:   []model.ShippingOption{},
		lookupTag: s.shipping.lookupTag + 1,
	}
	s.paymentMethod = s.state.Payment.Method
	s.lastActive = s.now()
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Policy returns the pricing policy of the session.
func (s *Session) Policy() Policy {
	return s.policy
}

// Dispatch applies cmds in order. Either all commands apply or, on the first
// error, none do.
func (s *Session) Dispatch(cmds ...Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(cmds...)
}

func (s *Session) dispatchLocked(cmds ...Command) error {
	next := s.state
	reset := false
	for _, cmd := range cmds {
		var err error
		next, err = Reduce(next, cmd)
		if err != nil {
			return err
		}
		if _, ok := cmd.(Reset); ok {
			reset = true
		}
	}
	if reset {
		s.resetLocked()
	}
	s.state = next
	s.lastActive = s.now()
	return nil
}

// Navigate opens step if the buyer may go there.
func (s *Session) Navigate(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Confirmed() {
		return ErrOrderCompleted
	}
	if !step.Valid() {
		return ErrUnknownStep
	}
	if !s.state.CanNavigate(step) {
		return model.ErrStepNotNavigable
	}
	return s.dispatchLocked(SetStep{Step: step})
}

// CommitStep applies cmds for the form of step, marks step completed, clears
// form errors and advances. step must be the current step.
func (s *Session) CommitStep(step Step, cmds ...Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Confirmed() {
		return ErrOrderCompleted
	}
	if s.state.CurrentStep != step {
		return model.ErrStepNotCurrent
	}
	all := append(slices.Clone(cmds), CompleteStep{Step: step}, ClearErrors{}, NextStep{})
	return s.dispatchLocked(all...)
}

// Restart resets the session and applies cmds to the fresh state. It is
// refused while a submission is in flight.
func (s *Session) Restart(cmds ...Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsLoading {
		return model.ErrSubmissionInFlight
	}
	return s.dispatchLocked(append([]Command{Reset{}}, cmds...)...)
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CanNavigate reports whether step can be opened right now.
func (s *Session) CanNavigate(step Step) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CanNavigate(step)
}

// Snapshot returns the checkout data as it would be submitted.
func (s *Session) Snapshot() model.CheckoutData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() model.CheckoutData {
	data := s.state.Snapshot(s.policy)
	data.SessionID = s.id.String()
	return data
}

// BeginSubmission checks that the order can be submitted, raises the loading
// flag and returns the snapshot to submit. Only one submission can be
// outstanding at a time.
func (s *Session) BeginSubmission() (model.CheckoutData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Confirmed() {
		return model.CheckoutData{}, ErrOrderCompleted
	}
	if s.state.IsLoading {
		return model.CheckoutData{}, model.ErrSubmissionInFlight
	}
	if !s.state.ReadyForSubmission() {
		return model.CheckoutData{}, model.ErrOrderNotReady
	}
	if err := s.dispatchLocked(SetLoading{Loading: true}); err != nil {
		return model.CheckoutData{}, err
	}
	return s.snapshotLocked(), nil
}

// CartID returns the cart the session was started from.
func (s *Session) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}

// SetCartID records the cart the session is checking out.
func (s *Session) SetCartID(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartID = cartID
}

// Locale returns the session locale.
func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale changes the session locale.
func (s *Session) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}

// Touch records activity on the session without changing its state.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
}

// LastActive returns the time of the last write or Touch.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// PaymentMethod returns the payment method currently selected in the form.
func (s *Session) PaymentMethod() model.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentMethod
}

// SelectPaymentMethod switches the payment form to method and drops errors
// recorded for the given payment fields.
func (s *Session) SelectPaymentMethod(method model.PaymentMethod, fields []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dispatchLocked(ClearFieldErrors{Fields: fields}); err != nil {
		return err
	}
	s.paymentMethod = method
	return nil
}

// ShippingDraft returns a copy of the shipping form draft.
func (s *Session) ShippingDraft() ShippingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.shipping
	d.Options = append([]model.ShippingOption(nil), s.shipping.Options...)
	return d
}

// BeginZipLookup records a new postal code in the draft and returns the tag
// that lookup results must present to be applied. Quotes and the selected
// option of the previous postal code are discarded.
func (s *Session) BeginZipLookup(zipCode string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.shippingOpenLocked(); err != nil {
		return 0, err
	}

	s.shipping.lookupTag++
	s.shipping.Address.ZipCode = zipCode
	s.shipping.Options = []model.ShippingOption{}
	s.shipping.LookupError = ""
	s.shipping.LookupPending = true
	if s.shipping.SelectedOptionID != "" {
		s.shipping.SelectedOptionID = ""
		if err := s.dispatchLocked(SetShippingCost{Cost: 0}); err != nil {
			return 0, err
		}
	}
	s.lastActive = s.now()
	return s.shipping.lookupTag, nil
}

// CancelZipLookup marks the lookup identified by tag as finished without a
// result, e.g. when the postal code is incomplete.
func (s *Session) CancelZipLookup(tag uint64, lookupError string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != s.shipping.lookupTag {
		return false
	}
	s.shipping.LookupPending = false
	s.shipping.LookupError = lookupError
	return true
}

// ApplyAddressLookup merges a looked-up address into the draft if tag is still
// current. With overwrite, non-empty lookup values replace draft values;
// otherwise only empty draft fields are filled. It returns false for a stale tag.
func (s *Session) ApplyAddressLookup(tag uint64, addr model.AddressLookup, overwrite bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != s.shipping.lookupTag {
		return false
	}

	d := &s.shipping.Address
	d.Street = mergeField(d.Street, addr.Street, overwrite)
	d.Neighborhood = mergeField(d.Neighborhood, addr.Neighborhood, overwrite)
	d.City = mergeField(d.City, addr.City, overwrite)
	d.State = mergeField(d.State, addr.State, overwrite)
	s.shipping.LookupError = ""
	return true
}

// ApplyShippingQuotes stores the quotes for the postal code identified by tag.
// It returns false for a stale tag.
func (s *Session) ApplyShippingQuotes(tag uint64, options []model.ShippingOption, lookupError string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag != s.shipping.lookupTag {
		return false
	}
	s.shipping.Options = append([]model.ShippingOption{}, options...)
	s.shipping.LookupPending = false
	if lookupError != "" {
		s.shipping.LookupError = lookupError
	}
	return true
}

// UpdateShippingDraft replaces the editable address fields of the draft. The
// postal code is kept; it only changes through BeginZipLookup.
func (s *Session) UpdateShippingDraft(addr model.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addr.ZipCode = s.shipping.Address.ZipCode
	s.shipping.Address = addr
	s.lastActive = s.now()
}

// SelectShippingOption picks one of the quoted options and makes its price the
// shipping cost. ok is false if id is not among the current quotes.
func (s *Session) SelectShippingOption(id string) (option model.ShippingOption, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.shippingOpenLocked(); err != nil {
		return model.ShippingOption{}, false, err
	}
	for _, opt := range s.shipping.Options {
		if opt.ID == id {
			if err := s.dispatchLocked(SetShippingCost{Cost: opt.Price}, SetFieldError{Field: "shipping"}); err != nil {
				return model.ShippingOption{}, false, err
			}
			s.shipping.SelectedOptionID = id
			return opt, true, nil
		}
	}
	return model.ShippingOption{}, false, nil
}

// shippingOpenLocked refuses draft changes unless the shipping step is the
// one being filled in. A committed shipping cost only changes by resubmitting
// the step.
func (s *Session) shippingOpenLocked() error {
	if s.state.Confirmed() {
		return ErrOrderCompleted
	}
	if s.state.CurrentStep != StepShipping {
		return model.ErrStepNotCurrent
	}
	return nil
}

func mergeField(current, looked string, overwrite bool) string {
	if looked == "" {
		return current
	}
	if overwrite || current == "" {
		return looked
	}
	return current
}
