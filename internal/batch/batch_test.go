// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarsingh/pricecalc/internal/pricing"
)

func newProcessor(workers int) *Processor {
	return NewProcessor(pricing.New(nil), workers)
}

func TestProcess_Statuses(t *testing.T) {
	p := newProcessor(2)

	records := []Record{
		{Ingredient: "sugar", Quantity: "2kg", Price: "100"},
		{Ingredient: "salt", Quantity: "", Price: "50"},
		{Ingredient: "pepper", Quantity: "nonsense", Price: "30"},
		{Ingredient: "rice", Quantity: "400", Price: "20"},
		{Ingredient: "oil", Quantity: "1l", Price: "abc"},
	}

	items, summary, err := p.Process(context.Background(), "batch-1", records)
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Row 0: calculated.
	assert.Equal(t, StatusCalculated, items[0].Status)
	require.NotNil(t, items[0].Results)
	assert.Equal(t, CurrencySymbol+"50.00", items[0].Results.KG)
	assert.Equal(t, CurrencySymbol+"0.05", items[0].Results.G)
	assert.Equal(t, CurrencySymbol+"0.0001", items[0].Results.MG)

	// Row 1: missing quantity.
	assert.Equal(t, StatusNoQuantity, items[1].Status)
	assert.Equal(t, "Not provided", items[1].QuantityInput)
	assert.Nil(t, items[1].Results)

	// Row 2: unparseable quantity.
	assert.Contains(t, items[2].Status, "Error: ")
	assert.Nil(t, items[2].Results)

	// Row 3: bare number without unit.
	assert.Contains(t, items[3].Status, "specify the unit of measurement")

	// Row 4: invalid price.
	assert.Contains(t, items[4].Status, "valid price")

	assert.Equal(t, 5, summary.TotalItems)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 4, summary.Failed)
	assert.Equal(t, "batch-1", summary.BatchID)
}

func TestProcess_PreservesOrder(t *testing.T) {
	p := newProcessor(8)

	var records []Record
	for i := 0; i < 200; i++ {
		records = append(records, Record{
			Ingredient: "item-" + strconv.Itoa(i),
			Quantity:   "1kg",
			Price:      strconv.Itoa(i + 1),
		})
	}

	items, _, err := p.Process(context.Background(), "batch-order", records)
	require.NoError(t, err)
	require.Len(t, items, 200)

	for i, item := range items {
		assert.Equal(t, "item-"+strconv.Itoa(i), item.IngredientName)
		assert.InDelta(t, float64(i+1), item.PriceInput, 1e-9)
	}
}

func TestProcess_EmptyPrice(t *testing.T) {
	p := newProcessor(1)

	items, _, err := p.Process(context.Background(), "batch-2", []Record{
		{Ingredient: "flour", Quantity: "1kg", Price: ""},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Missing price is lenient: row succeeds with zero unit prices.
	assert.Equal(t, StatusCalculated, items[0].Status)
	assert.Equal(t, CurrencySymbol+"0.00", items[0].Results.KG)
}

func TestProcess_CancelledContext(t *testing.T) {
	p := newProcessor(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]Record, 50)
	for i := range records {
		records[i] = Record{Ingredient: "x", Quantity: "1kg", Price: "1"}
	}

	_, _, err := p.Process(ctx, "batch-3", records)
	assert.Error(t, err)
}

func TestProcess_Empty(t *testing.T) {
	p := newProcessor(4)

	items, summary, err := p.Process(context.Background(), "batch-4", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, summary.TotalItems)
}
