// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sagarsingh/pricecalc/internal/batch"
	"github.com/sagarsingh/pricecalc/internal/cache"
	"github.com/sagarsingh/pricecalc/internal/log"
	"github.com/sagarsingh/pricecalc/internal/pricing"
	"github.com/sagarsingh/pricecalc/internal/store"
)

// flexString accepts both JSON strings and numbers, so clients may send
// quantities and prices either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type calculateRequest struct {
	IngredientName string     `json:"ingredient_name"`
	QuantityInput  flexString `json:"quantity_input"`
	PriceInput     flexString `json:"price_input"`
}

// handleCalculate computes unit prices for one ingredient. Validation
// failures come back as 200 with success=false so the UI can show the
// message inline.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	key := cache.Key(req.IngredientName, string(req.QuantityInput), string(req.PriceInput))
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			cacheLookupsTotal.WithLabelValues("hit").Inc()
			writeJSON(w, http.StatusOK, cached)
			return
		}
		cacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	result := s.calc.Calculate(req.IngredientName, string(req.QuantityInput), string(req.PriceInput))

	if !result.Success {
		calculationsTotal.WithLabelValues(sourceSingle, outcomeError).Inc()
		writeJSON(w, http.StatusOK, result)
		return
	}
	calculationsTotal.WithLabelValues(sourceSingle, outcomeSuccess).Inc()

	if s.cache != nil {
		s.cache.Set(key, result, s.cfg.CacheTTL)
	}

	if s.store != nil {
		price, _ := strconv.ParseFloat(strings.TrimSpace(string(req.PriceInput)), 64)
		calc := store.Calculation{
			ID:            uuid.New().String(),
			Ingredient:    req.IngredientName,
			QuantityInput: string(req.QuantityInput),
			Price:         price,
			PerKG:         result.Results.PerKG,
			PerG:          result.Results.PerG,
			PerMG:         result.Results.PerMG,
			Source:        sourceSingle,
		}
		if err := s.store.Save(r.Context(), calc); err != nil {
			logger.Error().Err(err).
				Str(log.FieldEvent, "history.save_failed").
				Str(log.FieldIngredient, req.IngredientName).
				Msg("failed to persist calculation")
		}
	}

	logger.Info().
		Str(log.FieldEvent, "calculate.done").
		Str(log.FieldIngredient, result.IngredientName).
		Str(log.FieldQuantity, string(req.QuantityInput)).
		Msg("calculation served")

	writeJSON(w, http.StatusOK, result)
}

// handleUpload processes an uploaded CSV or XLSX price list and returns the
// computed rows.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			uploadsRejectedTotal.WithLabelValues("too_large").Inc()
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %d MB.", s.cfg.MaxUploadBytes>>20))
			return
		}
		uploadsRejectedTotal.WithLabelValues("no_file").Inc()
		writeBadRequest(w, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		uploadsRejectedTotal.WithLabelValues("no_file").Inc()
		writeBadRequest(w, "No file selected")
		return
	}
	if batch.IsLegacyXLS(header.Filename) {
		uploadsRejectedTotal.WithLabelValues("legacy_xls").Inc()
		writeBadRequest(w, "Legacy .xls files are not supported. Please save the file as .xlsx or CSV and try again.")
		return
	}
	if !batch.AllowedFile(header.Filename) {
		uploadsRejectedTotal.WithLabelValues("bad_extension").Inc()
		writeBadRequest(w, "Only Excel (.xlsx) and CSV files are allowed")
		return
	}

	var records []batch.Record
	if batch.IsCSV(header.Filename) {
		records, err = batch.ReadCSV(file, s.cfg.MaxBatchRows)
	} else {
		records, err = batch.ReadXLSX(file, s.cfg.MaxBatchRows)
	}
	if err != nil {
		var tooMany *batch.TooManyRowsError
		switch {
		case errors.As(err, &tooMany):
			uploadsRejectedTotal.WithLabelValues("too_many_rows").Inc()
			writeBadRequest(w, err.Error())
		case errors.Is(err, batch.ErrWrongColumnCount):
			uploadsRejectedTotal.WithLabelValues("bad_columns").Inc()
			writeBadRequest(w, err.Error())
		default:
			uploadsRejectedTotal.WithLabelValues("unreadable").Inc()
			logger.Warn().Err(err).
				Str(log.FieldEvent, "upload.unreadable").
				Str("filename", header.Filename).
				Msg("failed to parse uploaded file")
			writeBadRequest(w, "Could not read the uploaded file. Please check the format.")
		}
		return
	}
	if len(records) == 0 {
		uploadsRejectedTotal.WithLabelValues("empty").Inc()
		writeBadRequest(w, "File contains no data rows")
		return
	}

	batchID := uuid.New().String()
	items, summary, err := s.processor.Process(r.Context(), batchID, records)
	if err != nil {
		logger.Error().Err(err).
			Str(log.FieldEvent, "batch.aborted").
			Str(log.FieldBatchID, batchID).
			Msg("batch processing aborted")
		writeInternalError(w)
		return
	}

	batchRowsTotal.WithLabelValues(outcomeSuccess).Add(float64(summary.Succeeded))
	batchRowsTotal.WithLabelValues(outcomeError).Add(float64(summary.Failed))
	batchDuration.Observe(float64(summary.DurationMS) / 1000.0)
	calculationsTotal.WithLabelValues(sourceBatch, outcomeSuccess).Add(float64(summary.Succeeded))
	calculationsTotal.WithLabelValues(sourceBatch, outcomeError).Add(float64(summary.Failed))

	s.persistBatch(r, batchID, items)

	if _, err := batch.WriteReport(s.cfg.DataDir, batch.Report{Summary: summary, Items: items}); err != nil {
		logger.Error().Err(err).
			Str(log.FieldEvent, "report.write_failed").
			Str(log.FieldBatchID, batchID).
			Msg("failed to write batch report")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"batch_id":    batchID,
		"results":     items,
		"total_items": summary.TotalItems,
	})
}

// persistBatch saves the successfully calculated rows to history. Failures
// are logged and skipped; history is best-effort.
func (s *Server) persistBatch(r *http.Request, batchID string, items []batch.Item) {
	if s.store == nil {
		return
	}
	logger := log.WithComponentFromContext(r.Context(), "api")

	for _, item := range items {
		if item.Status != batch.StatusCalculated {
			continue
		}
		calc := store.Calculation{
			ID:            uuid.New().String(),
			Ingredient:    item.IngredientName,
			QuantityInput: item.QuantityInput,
			Price:         item.PriceInput,
			PerKG:         pricing.Round(item.PerGram*1000, 2),
			PerG:          pricing.Round(item.PerGram, 4),
			PerMG:         pricing.Round(item.PerGram/1000, 6),
			Source:        sourceBatch,
		}
		if err := s.store.Save(r.Context(), calc); err != nil {
			logger.Error().Err(err).
				Str(log.FieldEvent, "history.save_failed").
				Str(log.FieldBatchID, batchID).
				Str(log.FieldIngredient, item.IngredientName).
				Msg("failed to persist batch row")
		}
	}
}

type downloadRequest struct {
	Results []batch.ExportRow `json:"results"`
	Format  string            `json:"format"`
}

// handleDownload renders previously computed results as a CSV or XLSX file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if len(req.Results) == 0 {
		writeBadRequest(w, "No results to download")
		return
	}
	if len(req.Results) > s.cfg.MaxBatchRows {
		writeBadRequest(w, fmt.Sprintf("Too many results. Maximum %d items allowed for download.", s.cfg.MaxBatchRows))
		return
	}

	// Excel is the default; only an explicit "csv" selects CSV, any other
	// value falls through to excel.
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "csv" {
		format = "excel"
	}

	var err error
	if format == "csv" {
		setDownloadHeaders(w, "pricing_results.csv", "text/csv; charset=utf-8")
		err = batch.WriteCSV(w, req.Results)
	} else {
		setDownloadHeaders(w, "pricing_results.xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = batch.WriteXLSX(w, req.Results)
	}
	if err != nil {
		// Headers are already sent; all we can do is log.
		logger.Error().Err(err).
			Str(log.FieldEvent, "export.write_failed").
			Str(log.FieldFormat, format).
			Msg("failed to stream export")
		return
	}

	exportsTotal.WithLabelValues(format).Inc()

	logger.Info().
		Str(log.FieldEvent, "export.done").
		Str(log.FieldFormat, format).
		Int(log.FieldRows, len(req.Results)).
		Msg("export served")
}

// handleHistory returns the most recent calculations, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []store.Calculation{}, "count": 0})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeBadRequest(w, "Invalid limit. Use a positive integer.")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	items, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str(log.FieldEvent, "history.list_failed").
			Msg("failed to list calculation history")
		writeInternalError(w)
		return
	}
	if items == nil {
		items = []store.Calculation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}
