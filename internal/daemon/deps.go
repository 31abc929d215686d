// SPDX-License-Identifier: MIT

package daemon

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Deps holds the collaborators the manager runs.
type Deps struct {
	// ListenAddr is the address the API server binds to.
	ListenAddr string

	// APIHandler serves the application routes.
	APIHandler http.Handler

	// MetricsAddr is the address of the optional metrics server. Empty
	// disables it.
	MetricsAddr string

	// MetricsHandler serves the metrics endpoint. Nil disables the metrics
	// server regardless of MetricsAddr.
	MetricsHandler http.Handler

	// Logger is the base logger for the manager.
	Logger zerolog.Logger
}

// Validate checks that required dependencies are present.
func (d Deps) Validate() error {
	if d.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if d.APIHandler == nil {
		return fmt.Errorf("API handler is required")
	}
	return nil
}
