// Package units converts cooking measurements between volume, weight, and
// temperature units. Conversions pivot through a standard unit per
// dimension (ml, g, celsius). Unknown units such as "pieces" or "cloves"
// pass through untouched so count-style quantities keep working.
package units

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// ErrIncompatible is returned when two units measure different dimensions.
var ErrIncompatible = errors.New("incompatible units")

// Dimension classifies what a unit measures.
type Dimension string

const (
	Volume      Dimension = "volume"
	Weight      Dimension = "weight"
	Temperature Dimension = "temperature"
	Unknown     Dimension = "unknown"
)

// volumeToML maps volume units and their aliases to milliliters.
var volumeToML = map[string]float64{
	"ml": 1, "milliliter": 1, "milliliters": 1,
	"l": 1000, "liter": 1000, "liters": 1000,
	"cup": 236.588, "cups": 236.588,
	"tbsp": 14.787, "tablespoon": 14.787, "tablespoons": 14.787,
	"tsp": 4.929, "teaspoon": 4.929, "teaspoons": 4.929,
	"fl oz": 29.574, "fluid ounce": 29.574, "fluid ounces": 29.574,
	"pint": 473.176, "pints": 473.176,
	"quart": 946.353, "quarts": 946.353,
	"gallon": 3785.41, "gallons": 3785.41,
}

// weightToG maps weight units and their aliases to grams.
var weightToG = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"lb": 453.592, "pound": 453.592, "pounds": 453.592,
	"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
	"mg": 0.001, "milligram": 0.001, "milligrams": 0.001,
}

var temperatureUnits = map[string]bool{
	"celsius":    true,
	"fahrenheit": true,
	"kelvin":     true,
}

// Convert converts a quantity between two units. Identical units (after
// normalization) return the quantity untouched, even when the tables do
// not know them. Volume and weight results are rounded to three decimals;
// temperatures are returned unrounded.
func Convert(quantity float64, from, to string) (float64, error) {
	f, t := normalize(from), normalize(to)
	if f == t {
		return quantity, nil
	}

	if ff, ok := volumeToML[f]; ok {
		if tf, ok := volumeToML[t]; ok {
			return round3(quantity * ff / tf), nil
		}
	}
	if ff, ok := weightToG[f]; ok {
		if tf, ok := weightToG[t]; ok {
			return round3(quantity * ff / tf), nil
		}
	}
	if temperatureUnits[f] && temperatureUnits[t] {
		return convertTemperature(quantity, f, t), nil
	}

	return 0, fmt.Errorf("%w: cannot convert %s to %s", ErrIncompatible, f, t)
}

// ToStandard converts a quantity to the standard unit of its dimension.
// Unknown units pass through unchanged.
func ToStandard(quantity float64, unit string) (float64, string) {
	u := normalize(unit)
	std := StandardUnit(u)
	q, err := Convert(quantity, u, std)
	if err != nil {
		return quantity, u
	}
	return q, std
}

// StandardUnit returns the standard unit for the unit's dimension: ml for
// volume, g for weight, celsius for temperature. Unknown units are
// returned as-is.
func StandardUnit(unit string) string {
	u := normalize(unit)
	switch DimensionOf(u) {
	case Volume:
		return "ml"
	case Weight:
		return "g"
	case Temperature:
		return "celsius"
	}
	return u
}

// DimensionOf classifies a unit.
func DimensionOf(unit string) Dimension {
	u := normalize(unit)
	if _, ok := volumeToML[u]; ok {
		return Volume
	}
	if _, ok := weightToG[u]; ok {
		return Weight
	}
	if temperatureUnits[u] {
		return Temperature
	}
	return Unknown
}

// Compatible reports whether two units resolve to the same dimension.
// Unknown units are compatible with nothing, not even themselves; Convert
// still passes identical unknown units through.
func Compatible(a, b string) bool {
	da := DimensionOf(a)
	return da != Unknown && da == DimensionOf(b)
}

// CompatibleUnits lists every unit sharing the given unit's dimension,
// sorted. Unknown units have no compatible set.
func CompatibleUnits(unit string) []string {
	switch DimensionOf(unit) {
	case Volume:
		return slices.Sorted(maps.Keys(volumeToML))
	case Weight:
		return slices.Sorted(maps.Keys(weightToG))
	case Temperature:
		return slices.Sorted(maps.Keys(temperatureUnits))
	}
	return nil
}

// FormatQuantity renders a quantity with its unit for display. Whole
// numbers drop the decimals; fractions keep one to three depending on
// magnitude.
func FormatQuantity(quantity float64, unit string) string {
	switch {
	case quantity == math.Trunc(quantity):
		return fmt.Sprintf("%.0f %s", quantity, unit)
	case quantity < 0.1:
		return fmt.Sprintf("%.3f %s", quantity, unit)
	case quantity < 1:
		return fmt.Sprintf("%.2f %s", quantity, unit)
	default:
		return fmt.Sprintf("%.1f %s", quantity, unit)
	}
}

// convertTemperature pivots through celsius.
func convertTemperature(q float64, from, to string) float64 {
	c := q
	switch from {
	case "fahrenheit":
		c = (q - 32) * 5 / 9
	case "kelvin":
		c = q - 273.15
	}
	switch to {
	case "fahrenheit":
		return c*9/5 + 32
	case "kelvin":
		return c + 273.15
	}
	return c
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

func round3(q float64) float64 {
	return math.Round(q*1000) / 1000
}
