// SPDX-License-Identifier: MIT

package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleExportRows() []ExportRow {
	return []ExportRow{
		{
			IngredientName: "sugar",
			QuantityInput:  "400g",
			PriceInput:     "100",
			PerKG:          "₹250.00",
			PerG:           "₹0.25",
			PerMG:          "₹0.0003",
			Status:         StatusCalculated,
		},
		{
			IngredientName: "salt",
			QuantityInput:  "Not provided",
			PriceInput:     "20",
			Status:         StatusNoQuantity,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleExportRows()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"sugar", "400g", "100", "₹250.00", "₹0.25", "₹0.0003", StatusCalculated}, rows[1])
	// Missing breakdown values are exported as N/A.
	assert.Equal(t, []string{"salt", "Not provided", "20", "N/A", "N/A", "N/A", StatusNoQuantity}, rows[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleExportRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ingredient Name", rows[0][0])
	assert.Equal(t, "sugar", rows[1][0])
	assert.Equal(t, "₹250.00", rows[1][3])
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	report := Report{
		Summary: Summary{
			BatchID:    "b-123",
			TotalItems: 2,
			Succeeded:  1,
			Failed:     1,
			StartedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			DurationMS: 15,
		},
		Items: []Item{{IngredientName: "sugar", Status: StatusCalculated}},
	}

	path, err := WriteReport(dir, report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "b-123.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report.Summary.BatchID, got.Summary.BatchID)
	assert.Len(t, got.Items, 1)
}
