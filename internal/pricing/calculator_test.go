// SPDX-License-Identifier: MIT

package pricing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Success(t *testing.T) {
	calc := New(nil)

	tests := []struct {
		name       string
		ingredient string
		qty        string
		price      string
		want       Breakdown
	}{
		{
			name:       "simple grams",
			ingredient: "sugar",
			qty:        "400g",
			price:      "100",
			want:       Breakdown{PerKG: 250, PerG: 0.25, PerMG: 0.00025},
		},
		{
			name:       "kilograms",
			ingredient: "flour",
			qty:        "1.2kg",
			price:      "60",
			want:       Breakdown{PerKG: 50, PerG: 0.05, PerMG: 0.00005},
		},
		{
			name:       "multiplication form",
			ingredient: "butter",
			qty:        "10x100g",
			price:      "500",
			want:       Breakdown{PerKG: 500, PerG: 0.5, PerMG: 0.0005},
		},
		{
			name:       "millilitres as water",
			ingredient: "milk",
			qty:        "500ml",
			price:      "25",
			want:       Breakdown{PerKG: 50, PerG: 0.05, PerMG: 0.00005},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(tt.ingredient, tt.qty, tt.price)
			require.True(t, got.Success, "error: %s", got.Error)
			require.NotNil(t, got.Results)
			if diff := cmp.Diff(tt.want, *got.Results); diff != "" {
				t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.ingredient, got.IngredientName)
			assert.Empty(t, got.Error)
		})
	}
}

func TestCalculate_ValidationErrors(t *testing.T) {
	calc := New(nil)

	tests := []struct {
		name       string
		ingredient string
		qty        string
		price      string
		wantErr    string
	}{
		{name: "empty ingredient", ingredient: "  ", qty: "400g", price: "10", wantErr: "Please enter an ingredient name."},
		{name: "empty quantity", ingredient: "salt", qty: "", price: "10", wantErr: "Please enter a quantity."},
		{name: "empty price", ingredient: "salt", qty: "400g", price: " ", wantErr: "Please enter a price."},
		{name: "invalid price", ingredient: "salt", qty: "400g", price: "ten", wantErr: "Please enter a valid price."},
		{name: "missing unit", ingredient: "salt", qty: "400", price: "10", wantErr: "Please specify the unit of measurement (kg, g, gm, mg, l, ml). Example: 400g, 1.2kg, 500mg, 2l, 250ml"},
		{name: "unsupported unit", ingredient: "salt", qty: "400oz", price: "10", wantErr: "Unsupported unit 'oz'. Please use kg, g, gm, mg, l, or ml"},
		{name: "zero quantity", ingredient: "salt", qty: "0g", price: "10", wantErr: "Quantity must be greater than zero."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(tt.ingredient, tt.qty, tt.price)
			assert.False(t, got.Success)
			assert.Equal(t, tt.wantErr, got.Error)
			assert.Nil(t, got.Results)
		})
	}
}

func TestCalculate_DensityLookup(t *testing.T) {
	densities := map[string]float64{"honey": 1.42}
	calc := New(func(ingredient string) float64 {
		return densities[ingredient]
	})

	// 1 l of honey = 1420 g; 142 currency units -> 0.1 per gram.
	got := calc.Calculate("honey", "1l", "142")
	require.True(t, got.Success, "error: %s", got.Error)
	assert.InDelta(t, 100, got.Results.PerKG, 1e-9)
	assert.InDelta(t, 0.1, got.Results.PerG, 1e-9)

	// Unknown ingredient falls back to water density.
	got = calc.Calculate("milk", "1l", "100")
	require.True(t, got.Success)
	assert.InDelta(t, 100, got.Results.PerKG, 1e-9)
}

func TestPerGram(t *testing.T) {
	calc := New(nil)

	perGram, err := calc.PerGram("sugar", "2kg", 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, perGram, 1e-9)

	_, err = calc.PerGram("sugar", "nonsense", 100)
	require.Error(t, err)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.25, Round(0.24999999999, 2))
	assert.Equal(t, 1.2346, Round(1.23456, 4))
	assert.Equal(t, 0.000123, Round(0.0001234, 6))

	// Exact halves round away from zero.
	assert.Equal(t, 0.13, Round(0.125, 2))
	assert.Equal(t, -0.13, Round(-0.125, 2))
}
