package types

import "fmt"

// Grams is a mass of pure ethanol in grams.
type Grams float64

// Humanized returns a human-readable string with automatic unit (g, kg).
func (g Grams) Humanized() string {
	if kg := g.Kilograms(); kg >= 1 || kg <= -1 {
		return fmt.Sprintf("%.2f kg", kg)
	}
	return fmt.Sprintf("%.1f g", float64(g))
}

// Kilograms returns the mass in kilograms.
func (g Grams) Kilograms() float64 { return float64(g) / 1000 }

// PerMille is a blood-alcohol concentration in grams per kilogram (‰).
type PerMille float64

// String formats the concentration with two decimals, e.g. "0.32 ‰".
func (p PerMille) String() string { return fmt.Sprintf("%.2f ‰", float64(p)) }

// Percent converts per-mille to a percentage (1 ‰ = 0.1 %).
func (p PerMille) Percent() float64 { return float64(p) / 10 }
