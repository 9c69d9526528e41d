// Package units holds the single weight conversion used at every presentation boundary.
// Weights are stored in kilograms; pounds only exist on the way in and out.
package units

import (
	"fmt"
	"math"
	"strconv"
)

// LbsPerKg is the fixed conversion factor: 1 kg = 2.20462 lbs.
const LbsPerKg = 2.20462

// WeightUnit is a display/input unit for weights.
type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lbs"
)

// ParseUnit validates a unit name. An empty string means kilograms.
func ParseUnit(raw string) (WeightUnit, error) {
	switch WeightUnit(raw) {
	case "", Kilograms:
		return Kilograms, nil
	case Pounds:
		return Pounds, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", raw)
}

// ToKilograms converts a weight expressed in unit to kilograms.
func ToKilograms(v float64, unit WeightUnit) float64 {
	if unit == Pounds {
		return v / LbsPerKg
	}
	return v
}

// FromKilograms converts a stored kilogram weight to unit.
func FromKilograms(kg float64, unit WeightUnit) float64 {
	if unit == Pounds {
		return kg * LbsPerKg
	}
	return kg
}

// Round1 rounds to the one-decimal display precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatWeight renders a stored kilogram weight in unit with one decimal.
func FormatWeight(kg float64, unit WeightUnit) string {
	if unit == "" {
		unit = Kilograms
	}
	return strconv.FormatFloat(Round1(FromKilograms(kg, unit)), 'f', 1, 64) + " " + string(unit)
}
