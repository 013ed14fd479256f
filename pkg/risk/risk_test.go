package risk

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGramsPerUnit_Reference(t *testing.T) {
	// 500 × 0.05 × 0.79
	assert.InDelta(t, 19.75, GramsPerUnit(500, 5), 1e-9)
	assert.Equal(t, 0.0, GramsPerUnit(500, 0))
	assert.Equal(t, 0.0, GramsPerUnit(0, 40))
	assert.InDelta(t, 12.64, GramsPerUnit(40, 40), 1e-9)
}

func TestGramsPerUnit_Monotonic(t *testing.T) {
	prev := -1.0
	for abv := 0.0; abv <= 96; abv += 0.5 {
		g := GramsPerUnit(330, abv)
		require.GreaterOrEqual(t, g, prev, "abv=%.1f", abv)
		prev = g
	}
	prev = -1.0
	for vol := 0.0; vol <= 2000; vol += 50 {
		g := GramsPerUnit(vol, 5)
		require.GreaterOrEqual(t, g, prev, "vol=%.0f", vol)
		prev = g
	}
}

func TestLethalTarget_MassPolicy(t *testing.T) {
	m := New(&Config{Policy: PolicyMassProportional})
	in := DefaultInputs()
	assert.InDelta(t, 720, m.LethalTarget(in), 1e-9)

	// monotonic in mass
	prev := 0.0
	for mass := 1.0; mass <= 250; mass++ {
		in.BodyMassKg = mass
		got := m.LethalTarget(in)
		require.GreaterOrEqual(t, got, prev, "mass=%.0f", mass)
		prev = got
	}

	// floored at 1 g
	in.BodyMassKg = 0.05
	assert.Equal(t, 1.0, m.LethalTarget(in))
}

func TestLethalTarget_ConcentrationPolicy(t *testing.T) {
	m := New(&Config{Policy: PolicyConcentrationTarget})
	in := DefaultInputs()

	in.Sex = SexMale
	assert.InDelta(t, 306, m.LethalTarget(in), 1e-9)

	in.Sex = SexFemale
	assert.InDelta(t, 5*0.55*90, m.LethalTarget(in), 1e-9)

	// unset category resolves to the default (male); free r is ignored
	in.Sex = SexUnset
	in.Coefficient = 0.9
	assert.InDelta(t, 306, m.LethalTarget(in), 1e-9)
	assert.InDelta(t, CoefficientMale, m.Coefficient(in), 1e-12)
}

func TestConcentration(t *testing.T) {
	assert.InDelta(t, 59.25/(0.7*90), Concentration(59.25, 0.7, 90), 1e-12)
	assert.Equal(t, 0.0, Concentration(100, 0, 90))
	assert.Equal(t, 0.0, Concentration(100, -0.5, 90))
	assert.Equal(t, 0.0, Concentration(100, 0.7, 0))
	assert.Equal(t, 0.0, Concentration(100, 0.7, -1))
	// uncapped: well beyond a 5 ‰ target
	assert.Greater(t, Concentration(720, 0.7, 90), 5.0)
}

func TestPercentToThreshold(t *testing.T) {
	assert.InDelta(t, 50, PercentToThreshold(360, 720), 1e-9)
	assert.Equal(t, 100.0, PercentToThreshold(1000, 720))
	assert.Equal(t, 0.0, PercentToThreshold(0, 720))
	assert.Equal(t, 0.0, PercentToThreshold(100, 0))
	assert.Equal(t, 0.0, PercentToThreshold(100, -3))
	assert.Equal(t, 0.0, PercentToThreshold(-10, 720))
}

func TestMaxUnits(t *testing.T) {
	assert.Equal(t, 36, MaxUnits(720, 19.75))
	assert.Equal(t, 15, MaxUnits(306, 19.75))
	assert.Equal(t, 0, MaxUnits(720, 0))
	assert.Equal(t, 0, MaxUnits(720, -1))
	assert.Equal(t, 0, MaxUnits(0, 19.75))
	assert.Equal(t, 0, MaxUnits(10, 19.75))
	assert.Equal(t, math.MaxInt32, MaxUnits(720, 1e-9))
}

func TestMaxUnits_VanishingGramsPerUnit(t *testing.T) {
	gpu := GramsPerUnit(1e-6, 1e-6)
	require.Greater(t, gpu, 0.0)
	require.Less(t, gpu, 1e-12)

	// any positive grams/unit divides, however small
	assert.Equal(t, math.MaxInt32, MaxUnits(720, gpu))
	assert.Equal(t, 1, MaxUnits(gpu*1.5, gpu))

	met := New(nil).Compute(Inputs{BodyMassKg: 90, DrinkVolumeMl: 1e-6, ABVPercent: 1e-6, Coefficient: 0.7}, 3)
	assert.Equal(t, math.MaxInt32, met.MaxUnits)
	assert.Equal(t, 3, met.Units)
}

func TestThresholdCrossed(t *testing.T) {
	cases := []struct {
		pct         float64
		units, max  int
		want        bool
		description string
	}{
		{100, 36, 36, true, "both conditions"},
		{98.75, 36, 36, true, "at max"},
		{100, 5, 36, true, "percent capped"},
		{50, 5, 36, false, "below both"},
		{100, 0, 36, false, "zero units"},
		{0, 0, 0, false, "zero units, zero max"},
		{0, 1, 0, true, "above an empty range"},
	}
	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, ThresholdCrossed(tc.pct, tc.units, tc.max))
		})
	}
}

func TestClassify_Bands(t *testing.T) {
	cases := []struct {
		pct  float64
		want Severity
	}{
		{0, SeverityLow},
		{59.999, SeverityLow},
		{60, SeverityElevated},
		{89.999, SeverityElevated},
		{90, SeverityCritical},
		{100, SeverityCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.pct), "pct=%v", tc.pct)
	}
}

func TestNew_MergesDefaults(t *testing.T) {
	m := New(nil)
	assert.Equal(t, DefaultConfig(), m.Config())

	m = New(&Config{Policy: Policy(42), GramsPerKg: -1, TargetPerMille: 0})
	assert.Equal(t, DefaultConfig(), m.Config())

	m = New(&Config{Policy: PolicyConcentrationTarget, GramsPerKg: 6, TargetPerMille: 4})
	cfg := m.Config()
	assert.Equal(t, PolicyConcentrationTarget, cfg.Policy)
	assert.Equal(t, 6.0, cfg.GramsPerKg)
	assert.Equal(t, 4.0, cfg.TargetPerMille)
}

func TestCompute_MassPolicyReference(t *testing.T) {
	m := New(nil)
	in := DefaultInputs()

	met := m.Compute(in, 0)
	assert.InDelta(t, 19.75, met.GramsPerUnit, 1e-9)
	assert.InDelta(t, 720, met.LethalTargetGrams, 1e-9)
	assert.Equal(t, 36, met.MaxUnits)
	assert.Equal(t, 0.0, met.TotalGrams)
	assert.Equal(t, 0.0, met.PerMille)
	assert.False(t, met.Crossed)
	assert.Equal(t, SeverityLow, met.Severity)

	met = m.Compute(in, 3)
	assert.InDelta(t, 59.25, met.TotalGrams, 1e-9)
	assert.InDelta(t, 59.25/(0.7*90), met.PerMille, 1e-9)
	assert.InDelta(t, 59.25/720*100, met.PercentToThreshold, 1e-9)
	assert.False(t, met.Crossed)

	met = m.Compute(in, 36)
	assert.Equal(t, 36, met.Units)
	assert.InDelta(t, 98.75, met.PercentToThreshold, 1e-9)
	assert.True(t, met.Crossed)
	assert.Equal(t, SeverityCritical, met.Severity)
}

func TestCompute_ConcentrationPolicyReference(t *testing.T) {
	m := New(&Config{Policy: PolicyConcentrationTarget})
	in := DefaultInputs()
	in.Sex = SexMale

	met := m.Compute(in, 15)
	assert.InDelta(t, 306, met.LethalTargetGrams, 1e-9)
	assert.Equal(t, 15, met.MaxUnits)
	assert.InDelta(t, CoefficientMale, met.Coefficient, 1e-12)
	assert.InDelta(t, 15*19.75/(0.68*90), met.PerMille, 1e-9)
	assert.True(t, met.Crossed)
}

func TestCompute_ClampsUnits(t *testing.T) {
	m := New(nil)
	in := DefaultInputs()

	assert.Equal(t, 36, m.Compute(in, 1000).Units)
	assert.Equal(t, 0, m.Compute(in, -4).Units)

	// zero ABV: nothing fits, every count collapses to 0
	in.ABVPercent = 0
	met := m.Compute(in, 7)
	assert.Equal(t, 0, met.MaxUnits)
	assert.Equal(t, 0, met.Units)
	assert.False(t, met.Crossed)
}

func TestCompute_Invariants_Grid(t *testing.T) {
	for _, policy := range []Policy{PolicyMassProportional, PolicyConcentrationTarget} {
		m := New(&Config{Policy: policy})
		for _, mass := range []float64{1, 45, 90, 150} {
			for _, vol := range []float64{0, 30, 330, 500, 1000} {
				for _, abv := range []float64{0, 4.5, 12, 40, 96} {
					for _, sex := range []Sex{SexUnset, SexMale, SexFemale} {
						in := Inputs{BodyMassKg: mass, DrinkVolumeMl: vol, ABVPercent: abv, Coefficient: 0.7, Sex: sex}
						for _, units := range []int{0, 1, 5, 50, 500} {
							met := m.Compute(in, units)
							name := fmt.Sprintf("%s m=%v v=%v a=%v s=%v u=%d", policy, mass, vol, abv, sex, units)
							require.GreaterOrEqual(t, met.PercentToThreshold, 0.0, name)
							require.LessOrEqual(t, met.PercentToThreshold, 100.0, name)
							require.GreaterOrEqual(t, met.MaxUnits, 0, name)
							require.GreaterOrEqual(t, met.Units, 0, name)
							require.LessOrEqual(t, met.Units, met.MaxUnits, name)
							require.GreaterOrEqual(t, met.GramsPerUnit, 0.0, name)
							require.GreaterOrEqual(t, met.LethalTargetGrams, 0.0, name)
							if met.Units == 0 {
								require.False(t, met.Crossed, name)
							}
						}
					}
				}
			}
		}
	}
}

func ExampleModel_Compute() {
	m := New(nil)
	met := m.Compute(DefaultInputs(), 3)
	fmt.Printf("%.2f g/unit, %.2f g, max %d, %.0f%%, %s\n",
		met.GramsPerUnit, met.TotalGrams, met.MaxUnits, met.PercentToThreshold, met.Severity)
	// Output: 19.75 g/unit, 59.25 g, max 36, 8%, low
}
