// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"runtime"
	"time"
)

type versionResponse struct {
	Version       string `json:"version"`
	GoVersion     string `json:"go_version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleVersion reports build and runtime information.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version:       s.version,
		GoVersion:     runtime.Version(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}
