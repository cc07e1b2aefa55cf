package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gnomad",
		Subsystem: "loader",
		Name:      "documents_written_total",
		Help:      "Documents accepted by the document store.",
	}, []string{"index"})

	documentsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gnomad",
		Subsystem: "loader",
		Name:      "documents_failed_total",
		Help:      "Documents that could not be written, by failure kind.",
	}, []string{"index", "kind"})

	ingestionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gnomad",
		Subsystem: "ingestion",
		Name:      "requests_total",
		Help:      "Gene ingestion requests by final state.",
	}, []string{"state"})
)
