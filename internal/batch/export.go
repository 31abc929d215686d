// SPDX-License-Identifier: MIT

package batch

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportRow is one row of a results export, as submitted by the client after
// a batch run.
type ExportRow struct {
	IngredientName string `json:"ingredient_name"`
	QuantityInput  string `json:"quantity_input"`
	PriceInput     string `json:"price_input"`
	PerKG          string `json:"per_kg"`
	PerG           string `json:"per_g"`
	PerMG          string `json:"per_mg"`
	Status         string `json:"status"`
}

var exportHeader = []string{"Ingredient Name", "Quantity", "Price", "Per KG", "Per G", "Per MG", "Status"}

const exportSheet = "Pricing Results"

func (r ExportRow) cells() []string {
	return []string{
		r.IngredientName,
		r.QuantityInput,
		r.PriceInput,
		orNA(r.PerKG),
		orNA(r.PerG),
		orNA(r.PerMG),
		r.Status,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// WriteCSV renders rows as CSV with a header row.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.cells()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX renders rows as an XLSX workbook with a single results sheet.
func WriteXLSX(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	writeRow := func(rowNum int, cells []string) error {
		for col, val := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheet, cell, val); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(1, exportHeader); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row.cells()); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
