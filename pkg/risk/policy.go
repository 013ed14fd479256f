package risk

import (
	"fmt"
	"strings"
)

// Policy selects how the lethal reference dose is derived from Inputs.
// The zero value is not a valid policy; Config falls back to the default.
type Policy uint8

const (
	// PolicyMassProportional: target = GramsPerKg × body mass.
	PolicyMassProportional Policy = iota + 1
	// PolicyConcentrationTarget: target = TargetPerMille × r × body mass,
	// i.e. the dose that reaches TargetPerMille under the Widmark relation.
	PolicyConcentrationTarget
)

var policyNames = map[Policy]string{
	PolicyMassProportional:    "mass",
	PolicyConcentrationTarget: "concentration",
}

// ParsePolicy maps a name ("mass", "concentration") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mass", "mass-proportional":
		return PolicyMassProportional, nil
	case "concentration", "concentration-target":
		return PolicyConcentrationTarget, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p Policy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Set and Type make *Policy usable as a command-line flag value.
func (p *Policy) Set(s string) error { return p.UnmarshalText([]byte(s)) }
func (p *Policy) Type() string { return "policy" }

// Sex is the binary category that selects a fixed Widmark coefficient.
// SexUnset means the free Coefficient of Inputs applies.
type Sex uint8

const (
	SexUnset Sex = iota
	SexMale
	SexFemale
)

// Distribution coefficients per category.
const (
	CoefficientMale   = 0.68
	CoefficientFemale = 0.55
)

// ParseSex maps "male"/"m", "female"/"f" or "" to a Sex.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SexUnset, nil
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	}
	return SexUnset, fmt.Errorf("%w: %q", ErrUnknownSex, s)
}

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return ""
	}
}

// Coefficient returns the category's distribution coefficient.
// SexUnset resolves to the male coefficient, the default category.
func (s Sex) Coefficient() float64 {
	if s == SexFemale {
		return CoefficientFemale
	}
	return CoefficientMale
}

func (s Sex) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Sex) UnmarshalText(b []byte) error {
	v, err := ParseSex(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *Sex) Set(v string) error { return s.UnmarshalText([]byte(v)) }
func (s *Sex) Type() string { return "sex" }
