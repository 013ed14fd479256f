// Package risk is a pure, deterministic drink risk model: it converts a drink
// description and a unit count into grams of ethanol, a Widmark point
// estimate of blood-alcohol concentration, and a position relative to a
// configurable "lethal" reference dose.
//
// # Formulas
//
//	grams/unit = volume_ml × abv/100 × 0.79
//	total      = grams/unit × units
//	‰          = total / (r × mass_kg)          (0 if r ≤ 0 or mass ≤ 0)
//	pct        = clamp(total / target × 100, 0, 100)
//	max units  = floor(target / grams/unit)     (0 if grams/unit ≤ 0)
//	crossed    = units ≥ 1 && (pct ≥ 100 || units ≥ max units)
//
// # Threshold policies
//
// The reference dose ("target") is chosen by Policy:
//
//   - PolicyMassProportional: max(1, 8 g × mass_kg). Default.
//   - PolicyConcentrationTarget: 5 ‰ × r × mass_kg, where r is the fixed
//     category coefficient (male 0.68, female 0.55).
//
// ‰ is intentionally not capped while pct is: the first is informational,
// the second drives the unit cap and the severity band.
//
// No elimination over time is modelled. The numbers are not medical advice.
//
// # Example
//
//	m := risk.New(nil)
//	met := m.Compute(risk.DefaultInputs(), 3)
//	fmt.Printf("%.1f g, %.2f ‰, %.0f%% (max %d)\n",
//	    met.TotalGrams, met.PerMille, met.PercentToThreshold, met.MaxUnits)
package risk
