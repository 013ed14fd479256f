package risk

// EthanolDensity is the mass of pure ethanol per millilitre (g/mL).
const EthanolDensity = 0.79

// Config holds threshold policy coefficients.
// Units:
//   - GramsPerKg: grams of ethanol per kilogram of body mass (mass policy)
//   - TargetPerMille: blood-alcohol concentration in ‰ (concentration policy)
type Config struct {
	Policy         Policy
	GramsPerKg     float64
	TargetPerMille float64
}

// _defaultConfig returns the reference coefficients: 8 g/kg and 5 ‰.
func _defaultConfig() *Config {
	return &Config{
		Policy:         PolicyMassProportional,
		GramsPerKg:     8.0,
		TargetPerMille: 5.0,
	}
}

// DefaultConfig returns a copy of the reference coefficients.
func DefaultConfig() Config { return *_defaultConfig() }

// Inputs are the user-controlled quantities. Callers clamp them to their
// declared minimums before computing; see the session package.
type Inputs struct {
	BodyMassKg    float64 `json:"body_mass_kg" yaml:"body_mass_kg"`
	DrinkVolumeMl float64 `json:"drink_volume_ml" yaml:"drink_volume_ml"`
	ABVPercent    float64 `json:"abv_percent" yaml:"abv_percent"`
	// Coefficient is the free Widmark r, used when Sex is unset.
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	Sex         Sex     `json:"sex,omitempty" yaml:"sex,omitempty"`
}

// Declared input minimums and defaults.
const (
	MinBodyMassKg    = 1.0
	MinDrinkVolumeMl = 0.0
	MinABVPercent    = 0.0
	MinCoefficient   = 0.01

	DefaultBodyMassKg    = 90.0
	DefaultDrinkVolumeMl = 500.0
	DefaultABVPercent    = 5.0
	DefaultCoefficient   = 0.7
)

// DefaultInputs returns a half-litre of 5% beer for a 90 kg adult with r = 0.7.
func DefaultInputs() Inputs {
	return Inputs{
		BodyMassKg:    DefaultBodyMassKg,
		DrinkVolumeMl: DefaultDrinkVolumeMl,
		ABVPercent:    DefaultABVPercent,
		Coefficient:   DefaultCoefficient,
	}
}

// Metrics is the full set of derived quantities for one Inputs/units pair.
type Metrics struct {
	Units              int      `json:"units"`
	GramsPerUnit       float64  `json:"grams_per_unit"`
	TotalGrams         float64  `json:"total_grams"`
	LethalTargetGrams  float64  `json:"lethal_target_grams"`
	Coefficient        float64  `json:"coefficient"`
	PerMille           float64  `json:"per_mille"`
	PercentToThreshold float64  `json:"percent_to_threshold"`
	MaxUnits           int      `json:"max_units"`
	Crossed            bool     `json:"threshold_crossed"`
	Severity           Severity `json:"severity"`
}
