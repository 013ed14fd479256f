package risk

import (
	"math"

	"github.com/ja7ad/drinkrisk/pkg/util"
)

// Model maps Inputs and a unit count to Metrics under one threshold policy.
// It holds no mutable state and is safe to share.
type Model struct {
	cfg Config
}

// New creates a model with the given config.
// Fields > 0 (or a valid Policy) in cfg override defaults.
// Notes:
//   - A zero or unknown Policy falls back to PolicyMassProportional.
//   - GramsPerKg/TargetPerMille must be > 0 to override defaults.
func New(cfg *Config) *Model {
	base := _defaultConfig()

	if cfg == nil {
		return &Model{cfg: *base}
	}

	merged := *base
	if cfg.Policy.Valid() {
		merged.Policy = cfg.Policy
	}
	if cfg.GramsPerKg > 0 {
		merged.GramsPerKg = cfg.GramsPerKg
	}
	if cfg.TargetPerMille > 0 {
		merged.TargetPerMille = cfg.TargetPerMille
	}

	return &Model{cfg: merged}
}

// Config returns the effective (merged) configuration.
func (m *Model) Config() Config { return m.cfg }

// Policy returns the active threshold policy.
func (m *Model) Policy() Policy { return m.cfg.Policy }

// Coefficient resolves the Widmark r for in. The concentration policy always
// uses the category constant; otherwise a set Sex wins over the free value.
func (m *Model) Coefficient(in Inputs) float64 {
	if m.cfg.Policy == PolicyConcentrationTarget || in.Sex != SexUnset {
		return in.Sex.Coefficient()
	}
	return in.Coefficient
}

// LethalTarget returns the reference dose in grams under the active policy.
//
//	mass:          max(1, GramsPerKg × mass)
//	concentration: TargetPerMille × r × mass
func (m *Model) LethalTarget(in Inputs) float64 {
	switch m.cfg.Policy {
	case PolicyConcentrationTarget:
		return math.Max(0, m.cfg.TargetPerMille*in.Sex.Coefficient()*in.BodyMassKg)
	default:
		return math.Max(1, m.cfg.GramsPerKg*in.BodyMassKg)
	}
}

// Compute performs a total recomputation. units is clamped into [0, MaxUnits]
// and the effective count is reported in Metrics.Units.
func (m *Model) Compute(in Inputs, units int) Metrics {
	gpu := GramsPerUnit(in.DrinkVolumeMl, in.ABVPercent)
	target := m.LethalTarget(in)
	maxUnits := MaxUnits(target, gpu)
	units = util.ClampInt(units, 0, maxUnits)

	r := m.Coefficient(in)
	total := gpu * float64(units)
	pct := PercentToThreshold(total, target)

	return Metrics{
		Units:              units,
		GramsPerUnit:       gpu,
		TotalGrams:         total,
		LethalTargetGrams:  target,
		Coefficient:        r,
		PerMille:           Concentration(total, r, in.BodyMassKg),
		PercentToThreshold: pct,
		MaxUnits:           maxUnits,
		Crossed:            ThresholdCrossed(pct, units, maxUnits),
		Severity:           Classify(pct),
	}
}

// GramsPerUnit converts a drink's volume and ABV into grams of ethanol.
func GramsPerUnit(volumeMl, abvPercent float64) float64 {
	return volumeMl * (abvPercent / 100) * EthanolDensity
}

// Concentration is the Widmark estimate in ‰ without elimination:
//
//	‰ ≈ A_g / (r × mass_kg)
//
// It returns 0 unless both r and mass are positive. The result is not capped.
func Concentration(totalGrams, coefficient, bodyMassKg float64) float64 {
	if coefficient <= 0 || bodyMassKg <= 0 {
		return 0
	}
	return totalGrams / (coefficient * bodyMassKg)
}

// PercentToThreshold returns total/target as a percentage clamped to [0, 100].
func PercentToThreshold(totalGrams, lethalTargetGrams float64) float64 {
	if lethalTargetGrams <= 0 {
		return 0
	}
	return util.Clamp(totalGrams/lethalTargetGrams*100, 0, 100)
}

// MaxUnits is the number of whole units that fit under the target.
func MaxUnits(lethalTargetGrams, gramsPerUnit float64) int {
	if gramsPerUnit <= 0 || lethalTargetGrams <= 0 {
		return 0
	}
	n := math.Floor(lethalTargetGrams / gramsPerUnit)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// ThresholdCrossed drives the "limit reached" signal. Never true at zero units.
func ThresholdCrossed(percentToThreshold float64, units, maxUnits int) bool {
	return units >= 1 && (percentToThreshold >= 100 || units >= maxUnits)
}
