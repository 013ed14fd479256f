package risk

import (
	"fmt"
	"strings"
)

// Severity is a three-tier band over the percentage to threshold.
type Severity uint8

const (
	SeverityLow      Severity = iota // [0, 60)
	SeverityElevated                 // [60, 90)
	SeverityCritical                 // [90, 100]
)

// Band lower bounds, inclusive.
const (
	ElevatedFrom = 60.0
	CriticalFrom = 90.0
)

// Classify bands pct. Each lower bound belongs to its own band.
func Classify(pct float64) Severity {
	switch {
	case pct >= CriticalFrom:
		return SeverityCritical
	case pct >= ElevatedFrom:
		return SeverityElevated
	default:
		return SeverityLow
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityElevated:
		return "elevated"
	case SeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "low":
		*s = SeverityLow
	case "elevated":
		*s = SeverityElevated
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, b)
	}
	return nil
}
