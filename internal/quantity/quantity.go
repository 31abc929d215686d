// SPDX-License-Identifier: MIT

// Package quantity parses free-form quantity strings such as "400g", "1.2kg",
// "10x100g" or "250ml" into a total mass in grams.
package quantity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parse errors carry user-facing messages; the API returns them verbatim.
var (
	ErrMissingUnit = fmt.Errorf("Please specify the unit of measurement (kg, g, gm, mg, l, ml). Example: 400g, 1.2kg, 500mg, 2l, 250ml")

	ErrMissingUnitMultiple = fmt.Errorf("Please specify the unit of measurement. Example: 10x100g, 5x200mg, 3x1.5kg, 2x500ml")

	ErrInvalidFormat = fmt.Errorf("Invalid quantity format. Use formats like '10x100g', '400g', '1.2kg', '500mg'")
)

// UnsupportedUnitError reports a unit that is not in the accepted set.
type UnsupportedUnitError struct {
	Unit string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("Unsupported unit '%s'. Please use kg, g, gm, mg, l, or ml", e.Unit)
}

var (
	// Bare number with no unit at all ("400", "1.2").
	bareNumberRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	// Multiplication form: "<count>x<amount><unit>" or "<count>*<amount><unit>".
	multipleRe = regexp.MustCompile(`^(\d+)[x*](\d+(?:\.\d+)?)([a-z]*)`)

	// Single form: "<amount><unit>".
	singleRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-z]*)`)
)

// DefaultDensity is the assumed density for volume units when no ingredient
// specific density is known (water: 1 g/ml).
const DefaultDensity = 1.0

// Parser converts quantity strings into grams. The zero value is not usable;
// construct with NewParser.
type Parser struct {
	// Density in g/ml applied to volume units (l, ml).
	Density float64
}

// NewParser returns a Parser using the default water density for volume units.
func NewParser() Parser {
	return Parser{Density: DefaultDensity}
}

// Parse returns the total mass in grams represented by input.
// It accepts single quantities ("400g", "1.2kg") and multiplication
// expressions ("10x100g", "20*1200g"). Volume units are converted to mass
// using the parser's density.
func (p Parser) Parse(input string) (float64, error) {
	s := strings.ToLower(strings.ReplaceAll(input, " ", ""))

	if bareNumberRe.MatchString(s) {
		return 0, ErrMissingUnit
	}

	var total float64
	var unit string

	if m := multipleRe.FindStringSubmatch(s); m != nil {
		count, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		amount, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		unit = m[3]
		if unit == "" {
			return 0, ErrMissingUnitMultiple
		}
		total = count * amount
	} else if m := singleRe.FindStringSubmatch(s); m != nil {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		unit = m[2]
		if unit == "" {
			return 0, ErrMissingUnit
		}
		total = amount
	} else {
		return 0, ErrInvalidFormat
	}

	return p.toGrams(total, unit)
}

// toGrams converts an amount in the given unit to grams.
func (p Parser) toGrams(amount float64, unit string) (float64, error) {
	density := p.Density
	if density <= 0 {
		density = DefaultDensity
	}

	switch unit {
	case "kg", "kilogram", "kilograms":
		return amount * 1000, nil
	case "g", "gm", "gram", "grams":
		return amount, nil
	case "mg", "milligram", "milligrams":
		return amount / 1000, nil
	case "l", "ltr", "litre", "litres", "liter", "liters":
		return amount * 1000 * density, nil
	case "ml", "millilitre", "millilitres", "milliliter", "milliliters":
		return amount * density, nil
	default:
		return 0, &UnsupportedUnitError{Unit: unit}
	}
}

// Parse is a convenience wrapper using the default density.
func Parse(input string) (float64, error) {
	return NewParser().Parse(input)
}
