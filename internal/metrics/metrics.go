// Package metrics exposes gateway counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PrecheckRuns counts completed precheck runs by overall category.
	PrecheckRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgepath_precheck_runs_total",
		Help: "Completed precheck runs by overall category.",
	}, []string{"overall"})

	// RiskRuns counts project risk-assessment runs by result.
	RiskRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgepath_risk_runs_total",
		Help: "Project risk assessment runs by result.",
	}, []string{"status"}) // ok|error

	// Assessments counts appended team assessments by level.
	Assessments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forgepath_team_assessments_total",
		Help: "Appended team risk assessments by level.",
	}, []string{"level"})
)

// Handler serves the default registry at /metrics.
func Handler() http.Handler { return promhttp.Handler() }
