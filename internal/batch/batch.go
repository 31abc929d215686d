// SPDX-License-Identifier: MIT

// Package batch processes uploaded price lists: it parses CSV/XLSX files,
// computes unit prices row by row and renders results for export.
package batch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sagarsingh/pricecalc/internal/log"
	"github.com/sagarsingh/pricecalc/internal/pricing"
)

// Per-row status messages returned to the client.
const (
	StatusCalculated    = "Calculated successfully"
	StatusNoQuantity    = "Quantity was not provided, so pricing could not be calculated"
	statusErrorPrefix   = "Error: "
	quantityNotProvided = "Not provided"

	// CurrencySymbol prefixes formatted batch prices.
	CurrencySymbol = "₹"
)

// Record is one raw input row: ingredient name, quantity and price, in
// spreadsheet column order.
type Record struct {
	Ingredient string
	Quantity   string
	Price      string
}

// Breakdown holds formatted per-unit prices for one batch row.
type Breakdown struct {
	KG string `json:"kg"`
	G  string `json:"g"`
	MG string `json:"mg"`
}

// Item is the computed outcome for one input row. PerGram carries the raw
// unit price for persistence; the wire format only exposes the formatted
// breakdown.
type Item struct {
	IngredientName string     `json:"ingredient_name"`
	QuantityInput  string     `json:"quantity_input"`
	PriceInput     float64    `json:"price_input"`
	Results        *Breakdown `json:"results"`
	Status         string     `json:"status"`
	PerGram        float64    `json:"-"`
}

// Summary aggregates the outcome of one processed batch.
type Summary struct {
	BatchID    string    `json:"batch_id"`
	TotalItems int       `json:"total_items"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
}

// Processor computes unit prices for batches of records.
type Processor struct {
	Calc    *pricing.Calculator
	Workers int // max parallel rows; <= 0 means sequential
	Clock   func() time.Time
}

// NewProcessor returns a Processor with the given calculator and worker count.
func NewProcessor(calc *pricing.Calculator, workers int) *Processor {
	return &Processor{Calc: calc, Workers: workers, Clock: time.Now}
}

// Process computes one Item per input record, preserving input order.
// Row failures are reported in the item status and never abort the batch.
func (p *Processor) Process(ctx context.Context, batchID string, records []Record) ([]Item, Summary, error) {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	start := clock()

	logger := log.WithComponentFromContext(log.ContextWithBatchID(ctx, batchID), "batch")
	logger.Info().
		Str(log.FieldEvent, "batch.start").
		Int(log.FieldRows, len(records)).
		Msg("processing batch")

	items := make([]Item, len(records))

	g, gctx := errgroup.WithContext(ctx)
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, rec := range records {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			items[i] = p.processRow(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, fmt.Errorf("batch %s cancelled: %w", batchID, err)
	}

	summary := Summary{
		BatchID:    batchID,
		TotalItems: len(items),
		StartedAt:  start.UTC(),
		DurationMS: clock().Sub(start).Milliseconds(),
	}
	for _, item := range items {
		if item.Status == StatusCalculated {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	logger.Info().
		Str(log.FieldEvent, "batch.done").
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int64("duration_ms", summary.DurationMS).
		Msg("batch processed")

	return items, summary, nil
}

// processRow computes the outcome for a single record.
func (p *Processor) processRow(rec Record) Item {
	ingredient := strings.TrimSpace(rec.Ingredient)
	qty := strings.TrimSpace(rec.Quantity)

	price, priceErr := parsePrice(rec.Price)

	item := Item{
		IngredientName: ingredient,
		QuantityInput:  qty,
		PriceInput:     price,
	}

	if qty == "" || strings.EqualFold(qty, "nan") || strings.EqualFold(qty, "none") {
		item.QuantityInput = quantityNotProvided
		item.Status = StatusNoQuantity
		return item
	}

	if priceErr != nil {
		item.Status = statusErrorPrefix + "Please enter a valid price."
		return item
	}

	perGram, err := p.Calc.PerGram(ingredient, qty, price)
	if err != nil {
		item.Status = statusErrorPrefix + err.Error()
		return item
	}

	item.PerGram = perGram
	item.Results = &Breakdown{
		KG: fmt.Sprintf("%s%.2f", CurrencySymbol, perGram*1000),
		G:  fmt.Sprintf("%s%.2f", CurrencySymbol, perGram),
		MG: fmt.Sprintf("%s%.4f", CurrencySymbol, perGram/1000),
	}
	item.Status = StatusCalculated
	return item
}

// parsePrice converts a raw spreadsheet cell to a price. Empty cells become 0,
// matching the lenient upload behaviour where missing prices produce zero
// unit prices rather than a rejected row.
func parsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return price, nil
}
