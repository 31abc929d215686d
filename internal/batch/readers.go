// SPDX-License-Identifier: MIT

package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrWrongColumnCount is returned when an uploaded file does not have exactly
// the three expected columns.
var ErrWrongColumnCount = errors.New("File must contain exactly 3 columns (Ingredient name, Quantity, Pricing)")

// TooManyRowsError is returned when an uploaded file exceeds the row limit.
type TooManyRowsError struct {
	Limit int
}

func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("File contains more than %d items. Maximum allowed is %d.", e.Limit, e.Limit)
}

// ReadCSV parses records from CSV data. Each row must have exactly three
// columns; a leading header row is skipped. maxRows bounds the number of data
// rows accepted.
func ReadCSV(r io.Reader, maxRows int) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row for a friendlier error
	reader.TrimLeadingSpace = true

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) != 3 {
			return nil, ErrWrongColumnCount
		}
		records = append(records, Record{
			Ingredient: row[0],
			Quantity:   row[1],
			Price:      row[2],
		})
		if len(records) > maxRows {
			return nil, &TooManyRowsError{Limit: maxRows}
		}
	}

	return stripHeader(records), nil
}

// ReadXLSX parses records from the first sheet of an XLSX workbook. The same
// column and row constraints as ReadCSV apply.
func ReadXLSX(r io.Reader, maxRows int) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var records []Record
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		// excelize drops trailing empty cells; pad rather than reject.
		for len(row) < 3 {
			row = append(row, "")
		}
		if len(row) != 3 {
			return nil, ErrWrongColumnCount
		}
		records = append(records, Record{
			Ingredient: row[0],
			Quantity:   row[1],
			Price:      row[2],
		})
		if len(records) > maxRows {
			return nil, &TooManyRowsError{Limit: maxRows}
		}
	}

	return stripHeader(records), nil
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// stripHeader drops a leading header row. A row is treated as a header when
// its price cell is non-empty and not numeric.
func stripHeader(records []Record) []Record {
	if len(records) == 0 {
		return records
	}
	price := strings.TrimSpace(records[0].Price)
	if price == "" {
		return records
	}
	if _, err := strconv.ParseFloat(price, 64); err != nil {
		return records[1:]
	}
	return records
}

// AllowedFile reports whether the uploaded filename has a supported extension.
// Legacy .xls is not supported: it is a CFB container, not an OOXML zip
// archive, and cannot be parsed by ReadXLSX.
func AllowedFile(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".csv") ||
		strings.HasSuffix(lower, ".xlsx")
}

// IsLegacyXLS reports whether the filename refers to a legacy binary Excel
// file (.xls but not .xlsx).
func IsLegacyXLS(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

// IsCSV reports whether the filename refers to a CSV file.
func IsCSV(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}
