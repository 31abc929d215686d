// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name   string
	result CheckResult
}

func (c stubChecker) Name() string                        { return c.name }
func (c stubChecker) Check(_ context.Context) CheckResult { return c.result }

func TestHealth_AlwaysHealthyWithoutVerbose(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(stubChecker{name: "db", result: CheckResult{Status: StatusUnhealthy}})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
	assert.Equal(t, "v1.0.0", resp.Version)
}

func TestHealth_VerboseAggregates(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(stubChecker{name: "db", result: CheckResult{Status: StatusHealthy}})
	m.RegisterChecker(stubChecker{name: "cache", result: CheckResult{Status: StatusDegraded}})

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReady_UnhealthyCheckerBlocksReadiness(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(stubChecker{name: "db", result: CheckResult{Status: StatusHealthy}})
	m.RegisterChecker(stubChecker{name: "cache", result: CheckResult{Status: StatusUnhealthy, Error: "down"}})

	resp := m.Ready(context.Background())
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestReady_NoCheckers(t *testing.T) {
	m := NewManager("v1.0.0")

	resp := m.Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestServeReady_StatusCodes(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		m := NewManager("v1")
		rec := httptest.NewRecorder()
		m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/api/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		m := NewManager("v1")
		m.RegisterChecker(stubChecker{name: "db", result: CheckResult{Status: StatusUnhealthy}})

		rec := httptest.NewRecorder()
		m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/api/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Ready)
	})
}

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("db", time.Second, func(ctx context.Context) error { return nil })
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	failing := NewPingChecker("db", time.Second, func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	result := failing.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Contains(t, result.Error, "connection refused")
}
