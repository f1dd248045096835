package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UnrecognizedStatusTotal counts raw status strings that no normalization rule matched.
	UnrecognizedStatusTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_unrecognized_total",
		Help: "Total number of upstream status strings that could not be normalized",
	})

	// TimelinesBuiltTotal counts reconstructed timelines by event source.
	TimelinesBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timelines_built_total",
		Help: "Total number of shipment timelines reconstructed",
	}, []string{"source"})

	// TimelineFallbacksTotal counts timelines built synthetically after a history fetch failure.
	TimelineFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeline_fallbacks_total",
		Help: "Total number of timelines degraded to the synthetic single-source build",
	})

	// ShipmentsIngestedTotal counts shipments received through the ingest endpoints.
	ShipmentsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipments_ingested_total",
		Help: "Total number of shipments upserted via ingestion",
	})

	// TrackingEventsIngestedTotal counts tracking events received through the ingest endpoints.
	TrackingEventsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_events_ingested_total",
		Help: "Total number of tracking events appended via ingestion",
	})

	// IngestRejectedTotal counts ingestion payloads rejected during validation.
	IngestRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rejected_total",
		Help: "Total number of ingestion payloads rejected",
	}, []string{"reason"})

	// SLABreachesObservedTotal counts SLA computations that came back overdue.
	SLABreachesObservedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sla_breaches_observed_total",
		Help: "Total number of SLA computations classified as overdue",
	})

	// TimelineBuildDuration tracks how long timeline reconstruction takes end to end.
	TimelineBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_build_duration_seconds",
		Help:    "Latency of timeline reconstruction including history fetch",
		Buckets: prometheus.DefBuckets,
	})
)
