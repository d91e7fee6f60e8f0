// Package metrics registers the engine's prometheus collectors.
// Counters only; the engine is a per-post pipeline, latency lives with callers
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SegmentsClassified counts terminal classification decisions by decision and source
	SegmentsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "segments_classified_total",
		Help:      "Terminal classification decisions by decision (accept|reject) and source (rule|llm|vision|filter)",
	}, []string{"decision", "source"})

	// FilterRejects counts hard filter chain rejects by named reason
	FilterRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "filter_rejects_total",
		Help:      "Hard filter chain rejects by named filter reason",
	}, []string{"reason"})

	// Escalations counts collaborator escalations by kind (text|vision) and status (ok|error|refused)
	Escalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "llm_escalations_total",
		Help:      "Collaborator escalations by kind and status",
	}, []string{"kind", "status"})

	// CacheHits counts collaborator response cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "llm_cache_hits_total",
		Help:      "Collaborator response cache hits",
	})

	// DraftsEmitted counts event drafts handed to the persistence layer
	DraftsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "event_drafts_total",
		Help:      "Event drafts emitted by the extraction pipeline",
	})

	// DatetimeOutcomes counts reconciliation outcomes by table row
	DatetimeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scran",
		Name:      "datetime_reconciliations_total",
		Help:      "Datetime reconciliation outcomes (agree|llm_only|regex_only|disagree|none)",
	}, []string{"outcome"})
)
