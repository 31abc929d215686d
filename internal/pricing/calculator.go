// SPDX-License-Identifier: MIT

// Package pricing computes per-unit prices for ingredients from a purchase
// quantity and price.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/sagarsingh/pricecalc/internal/quantity"
)

// Breakdown holds the computed price per unit of mass.
type Breakdown struct {
	PerKG float64 `json:"kg"`
	PerG  float64 `json:"g"`
	PerMG float64 `json:"mg"`
}

// Result is the outcome of a single pricing calculation. Error is always
// present on the wire, empty on success, so clients can key off either field.
type Result struct {
	Success        bool       `json:"success"`
	Error          string     `json:"error"`
	IngredientName string     `json:"ingredient_name"`
	Results        *Breakdown `json:"results"`
}

// DensityFunc resolves the density (g/ml) to use for an ingredient's volume
// units. Implementations may return quantity.DefaultDensity when unknown.
type DensityFunc func(ingredient string) float64

// Calculator computes unit prices. The zero value uses the default density
// for all ingredients.
type Calculator struct {
	density DensityFunc
}

// New returns a Calculator that resolves volume densities through fn.
// A nil fn means every ingredient uses the default water density.
func New(fn DensityFunc) *Calculator {
	return &Calculator{density: fn}
}

// Calculate validates the raw inputs and computes the price per kg, g and mg.
// Validation failures are reported in Result.Error, never as a Go error, so
// the API can return them directly to the client.
func (c *Calculator) Calculate(ingredient, quantityInput, priceInput string) Result {
	result := Result{IngredientName: ingredient}

	if strings.TrimSpace(ingredient) == "" {
		result.Error = "Please enter an ingredient name."
		return result
	}
	if strings.TrimSpace(quantityInput) == "" {
		result.Error = "Please enter a quantity."
		return result
	}
	if strings.TrimSpace(priceInput) == "" {
		result.Error = "Please enter a price."
		return result
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(priceInput), 64)
	if err != nil {
		result.Error = "Please enter a valid price."
		return result
	}

	grams, err := c.parser(ingredient).Parse(quantityInput)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if grams <= 0 {
		result.Error = "Quantity must be greater than zero."
		return result
	}

	perGram := price / grams
	result.Results = &Breakdown{
		PerKG: Round(perGram*1000, 2),
		PerG:  Round(perGram, 4),
		PerMG: Round(perGram/1000, 6),
	}
	result.Success = true
	return result
}

// PerGram parses quantityInput for the given ingredient and returns the raw
// (unrounded) price per gram. Used by batch processing, which formats values
// itself.
func (c *Calculator) PerGram(ingredient, quantityInput string, price float64) (float64, error) {
	grams, err := c.parser(ingredient).Parse(quantityInput)
	if err != nil {
		return 0, err
	}
	if grams <= 0 {
		return 0, nil
	}
	return price / grams, nil
}

func (c *Calculator) parser(ingredient string) quantity.Parser {
	p := quantity.NewParser()
	if c.density != nil {
		if d := c.density(ingredient); d > 0 {
			p.Density = d
		}
	}
	return p
}

// Round rounds v to the given number of decimal places. Exact halves round
// away from zero.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
