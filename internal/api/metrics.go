// SPDX-License-Identifier: MIT

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	calculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricecalc_calculations_total",
		Help: "Pricing calculations by source and outcome",
	}, []string{"source", "status"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricecalc_cache_lookups_total",
		Help: "Cache lookups for single calculations by result",
	}, []string{"result"})

	uploadsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricecalc_uploads_rejected_total",
		Help: "Rejected batch uploads by reason",
	}, []string{"reason"})

	batchRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricecalc_batch_rows_total",
		Help: "Processed batch rows by outcome",
	}, []string{"status"})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricecalc_batch_duration_seconds",
		Help:    "Wall time spent processing one uploaded batch",
		Buckets: prometheus.DefBuckets,
	})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricecalc_exports_total",
		Help: "Result exports by format",
	}, []string{"format"})
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	sourceSingle = "single"
	sourceBatch  = "batch"
)
