package quantity

import "strings"

// Family identifies the measurement family a unit belongs to.
type Family int

const (
	// FamilyUnknown covers count-like or unrecognized units ("bag",
	// "piece"). Two unknown quantities are only comparable when their
	// normalized unit strings are identical.
	FamilyUnknown Family = iota
	// FamilyMass is normalized to kilograms.
	FamilyMass
	// FamilyVolume is normalized to liters.
	FamilyVolume
)

// Normalized is a quantity converted to its family's base unit.
type Normalized struct {
	Value  float64
	Unit   string // cleaned unit string (lowercased, trimmed, de-pluralized)
	Family Family
}

// Normalize converts value/unit into the base unit for its measurement
// family (kg for mass, l for volume). Unrecognized units pass through
// unconverted with FamilyUnknown.
func Normalize(value float64, unit string) Normalized {
	u := CleanUnit(unit)
	if u == "" {
		return Normalized{Value: value, Unit: u, Family: FamilyUnknown}
	}

	switch u {
	case "kg", "kilogram":
		return Normalized{Value: value, Unit: u, Family: FamilyMass}
	case "g", "gram":
		return Normalized{Value: value / 1000, Unit: u, Family: FamilyMass}
	case "mg", "milligram":
		return Normalized{Value: value / 1000000, Unit: u, Family: FamilyMass}
	case "tonne", "ton", "metric ton":
		return Normalized{Value: value * 1000, Unit: u, Family: FamilyMass}
	case "l", "litre", "liter":
		return Normalized{Value: value, Unit: u, Family: FamilyVolume}
	case "ml", "milliliter", "millilitre":
		return Normalized{Value: value / 1000, Unit: u, Family: FamilyVolume}
	}

	return Normalized{Value: value, Unit: u, Family: FamilyUnknown}
}

// CleanUnit lowercases, trims, and strips a trailing plural "s" from a
// unit string ("Tonnes" -> "tonne").
func CleanUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.TrimSuffix(u, "s")
}

// Comparable reports whether two normalized quantities can be meaningfully
// divided: same known family, or unknown units with identical strings.
// Two sides with no unit at all count as identical.
func Comparable(a, b Normalized) bool {
	if a.Family != b.Family {
		return false
	}
	if a.Family == FamilyUnknown {
		return a.Unit == b.Unit
	}
	return true
}
