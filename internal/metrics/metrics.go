// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fintrack",
	Subsystem: "store",
	Name:      "writes_total",
	Help:      "Collection writes by key and outcome.",
}, []string{"key", "outcome"})

var RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fintrack",
	Subsystem: "records",
	Name:      "created_total",
	Help:      "Records created by kind (entry, invoice, client).",
}, []string{"kind"})

var BackupOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "fintrack",
	Subsystem: "backup",
	Name:      "operations_total",
	Help:      "Backup exports and imports by outcome.",
}, []string{"operation", "outcome"})

// Outcome labels an operation result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
