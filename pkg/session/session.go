// Package session holds the mutable side of the risk indicator: the current
// inputs and the unit counter. Every mutation triggers a total, synchronous
// recomputation through risk.Model, so a State is never partially updated.
//
// A Session is not safe for concurrent use.
package session

import (
	"fmt"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/util"
)

// State is an immutable snapshot of a session after recomputation.
type State struct {
	Inputs  risk.Inputs  `json:"inputs"`
	Policy  risk.Policy  `json:"policy"`
	Metrics risk.Metrics `json:"metrics"`
	// Alert mirrors Metrics.Crossed until dismissed; it reappears on the next
	// change of percentage, units or max units.
	Alert bool `json:"alert"`
}

// Session owns Inputs and the clamped unit counter.
type Session struct {
	model *risk.Model
	in    risk.Inputs
	units int

	met   risk.Metrics
	alert bool

	// last-value memoization
	computed  bool
	lastIn    risk.Inputs
	lastUnits int
}

// New creates a session with in sanitized to the declared minimums and a
// counter at zero.
func New(model *risk.Model, in risk.Inputs) (*Session, error) {
	if model == nil {
		model = risk.New(nil)
	}
	s := &Session{model: model}
	if err := s.SetInputs(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Sanitize validates in and raises every field to its declared minimum.
func Sanitize(in risk.Inputs) (risk.Inputs, error) {
	fields := []struct {
		name string
		v    *float64
		min  float64
	}{
		{"body mass", &in.BodyMassKg, risk.MinBodyMassKg},
		{"drink volume", &in.DrinkVolumeMl, risk.MinDrinkVolumeMl},
		{"abv", &in.ABVPercent, risk.MinABVPercent},
		{"coefficient", &in.Coefficient, risk.MinCoefficient},
	}
	for _, f := range fields {
		if !util.Finite(*f.v) {
			return in, fmt.Errorf("%s: %w", f.name, ErrNotFinite)
		}
		*f.v = util.AtLeast(*f.v, f.min)
	}
	return in, nil
}

// Check sanitizes in and rejects inputs that are finite on their own but
// overflow the derived grams per unit or reference dose.
func Check(model *risk.Model, in risk.Inputs) (risk.Inputs, error) {
	in, err := Sanitize(in)
	if err != nil {
		return in, err
	}
	if !util.Finite(risk.GramsPerUnit(in.DrinkVolumeMl, in.ABVPercent)) {
		return in, fmt.Errorf("grams per unit: %w", ErrNotFinite)
	}
	if !util.Finite(model.LethalTarget(in)) {
		return in, fmt.Errorf("reference dose: %w", ErrNotFinite)
	}
	return in, nil
}

// SetInputs replaces all inputs at once. On error the session is unchanged.
func (s *Session) SetInputs(in risk.Inputs) error {
	in, err := Check(s.model, in)
	if err != nil {
		return err
	}
	s.in = in
	s.recompute()
	return nil
}

// update applies fn to a copy of the inputs and commits it only if valid.
func (s *Session) update(fn func(in *risk.Inputs)) error {
	in := s.in
	fn(&in)
	return s.SetInputs(in)
}

// SetBodyMass sets body mass in kg (min 1).
func (s *Session) SetBodyMass(kg float64) error {
	return s.update(func(in *risk.Inputs) { in.BodyMassKg = kg })
}

// SetVolume sets drink volume in mL (min 0).
func (s *Session) SetVolume(ml float64) error {
	return s.update(func(in *risk.Inputs) { in.DrinkVolumeMl = ml })
}

// SetABV sets alcohol by volume in percent (min 0).
func (s *Session) SetABV(pct float64) error {
	return s.update(func(in *risk.Inputs) { in.ABVPercent = pct })
}

// SetCoefficient sets the free Widmark r (min 0.01).
func (s *Session) SetCoefficient(r float64) error {
	return s.update(func(in *risk.Inputs) { in.Coefficient = r })
}

// SetSex selects the category coefficient; SexUnset returns to the free r.
func (s *Session) SetSex(sex risk.Sex) error {
	return s.update(func(in *risk.Inputs) { in.Sex = sex })
}

// SetUnits sets the counter, clamped into [0, MaxUnits]. It returns the
// stored value.
func (s *Session) SetUnits(n int) int {
	s.units = util.ClampInt(n, 0, s.met.MaxUnits)
	s.recompute()
	return s.units
}

// Increment adds one unit unless already at the cap.
func (s *Session) Increment() int { return s.SetUnits(s.units + 1) }

// Decrement removes one unit, never going below zero.
func (s *Session) Decrement() int { return s.SetUnits(s.units - 1) }

// Max jumps the counter to the current cap.
func (s *Session) Max() int { return s.SetUnits(s.met.MaxUnits) }

// Reset puts the counter back to zero.
func (s *Session) Reset() { s.SetUnits(0) }

// DismissAlert hides the alert until the next relevant change.
func (s *Session) DismissAlert() { s.alert = false }

// Units returns the current counter.
func (s *Session) Units() int { return s.units }

// Inputs returns the current (sanitized) inputs.
func (s *Session) Inputs() risk.Inputs { return s.in }

// State returns the current snapshot.
func (s *Session) State() State {
	return State{
		Inputs:  s.in,
		Policy:  s.model.Policy(),
		Metrics: s.met,
		Alert:   s.alert,
	}
}

// recompute refreshes all derived fields and clamps the counter down to the
// new cap. It is a no-op when neither inputs nor units changed.
func (s *Session) recompute() {
	if s.computed && s.in == s.lastIn && s.units == s.lastUnits {
		return
	}

	prev := s.met
	met := s.model.Compute(s.in, s.units)
	s.units = met.Units
	s.met = met

	if !s.computed ||
		prev.PercentToThreshold != met.PercentToThreshold ||
		prev.Units != met.Units ||
		prev.MaxUnits != met.MaxUnits {
		s.alert = met.Crossed
	}

	s.computed = true
	s.lastIn = s.in
	s.lastUnits = s.units
}
