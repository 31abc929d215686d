// SPDX-License-Identifier: MIT

package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Report is the persisted record of one processed batch.
type Report struct {
	Summary Summary `json:"summary"`
	Items   []Item  `json:"items"`
}

// WriteReport writes the batch report as JSON into dataDir/reports,
// atomically so a crash never leaves a truncated file behind.
func WriteReport(dataDir string, report Report) (string, error) {
	dir := filepath.Join(dataDir, "reports")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(dir, report.Summary.BatchID+".json")
	if err := renameio.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
