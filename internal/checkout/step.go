package checkout

import (
	"encoding/json"
	"fmt"
)

// Step is one of the checkout wizard steps.
type Step string

const (
	StepCustomer Step = "customer"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// Steps holds every step in wizard order. The order defines Next and Prev.
var Steps = []Step{StepCustomer, StepShipping, StepPayment, StepReview}

// ParseStep converts a string into a Step.
func ParseStep(v string) (Step, error) {
	s := Step(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, v)
	}
	return s, nil
}

// Index returns the position of s in the wizard, or -1 for an unknown step.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.Index() >= 0
}

// Next returns the step after s. ok is false at the last step.
func (s Step) Next() (next Step, ok bool) {
	i := s.Index()
	if i < 0 || i >= len(Steps)-1 {
		return s, false
	}
	return Steps[i+1], true
}

// Prev returns the step before s. ok is false at the first step.
func (s Step) Prev() (prev Step, ok bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return Steps[i-1], true
}

func (s Step) String() string {
	return string(s)
}

// StepSet is a set of steps. The zero value is the empty set.
type StepSet uint8

func (set StepSet) bit(s Step) StepSet {
	i := s.Index()
	if i < 0 {
		return 0
	}
	return 1 << uint(i)
}

// Has reports whether s is in the set.
func (set StepSet) Has(s Step) bool {
	b := set.bit(s)
	return b != 0 && set&b != 0
}

// With returns the set with s added. Adding a member twice has no effect.
func (set StepSet) With(s Step) StepSet {
	return set | set.bit(s)
}

// Len returns the number of members.
func (set StepSet) Len() int {
	n := 0
	for _, s := range Steps {
		if set.Has(s) {
			n++
		}
	}
	return n
}

// Steps returns the members in wizard order.
func (set StepSet) Steps() []Step {
	out := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON encodes the set as an ordered list of step names.
func (set StepSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Steps())
}

// UnmarshalJSON decodes a list of step names.
func (set *StepSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out StepSet
	for _, name := range names {
		s, err := ParseStep(name)
		if err != nil {
			return err
		}
		out = out.With(s)
	}
	*set = out
	return nil
}
