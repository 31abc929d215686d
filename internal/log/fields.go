// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldBatchID   = "batch_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Domain fields
	FieldIngredient = "ingredient"
	FieldQuantity   = "quantity"
	FieldRows       = "rows"
	FieldFormat     = "format"

	// Path fields
	FieldPath    = "path"
	FieldDataDir = "data_dir"
)
