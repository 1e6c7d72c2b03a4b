package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRowsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asistencias_import_rows_accepted_total",
		Help: "Rows written by bulk imports, by import kind",
	}, []string{"kind"})

	importRowsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asistencias_import_rows_rejected_total",
		Help: "Rows rejected by bulk imports, by import kind",
	}, []string{"kind"})

	importRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asistencias_import_runs_total",
		Help: "Completed bulk import runs, by import kind and outcome",
	}, []string{"kind", "outcome"})
)

// ImportOutcome records the result of one completed import run.
func ImportOutcome(kind string, accepted, rejected int) {
	importRowsAccepted.WithLabelValues(kind).Add(float64(accepted))
	importRowsRejected.WithLabelValues(kind).Add(float64(rejected))
	outcome := "ok"
	if accepted == 0 && rejected > 0 {
		outcome = "all_rejected"
	}
	importRuns.WithLabelValues(kind, outcome).Inc()
}

// ImportFailed records an import aborted by a storage failure.
func ImportFailed(kind string) {
	importRuns.WithLabelValues(kind, "failed").Inc()
}
