package finder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steambuddy",
		Subsystem: "finder",
		Name:      "lookups_total",
		Help:      "Storefront metadata lookups attempted.",
	})
	skipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steambuddy",
		Subsystem: "finder",
		Name:      "skips_total",
		Help:      "Candidates skipped without a report entry.",
	}, []string{"reason"})
	entriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steambuddy",
		Subsystem: "finder",
		Name:      "report_entries_total",
		Help:      "Report entries accepted into batches.",
	})
	batchSendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steambuddy",
		Subsystem: "finder",
		Name:      "batch_sends_total",
		Help:      "Batches delivered to the transport.",
	})
	sendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steambuddy",
		Subsystem: "finder",
		Name:      "send_failures_total",
		Help:      "Transport send errors that aborted a dispatch.",
	})
)
