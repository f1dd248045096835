package domain

import (
	"sort"
	"time"

	shipments "logistics-tracker/internal/features/shipments/domain"
	tracking "logistics-tracker/internal/features/tracking/domain"
)

// bottleneckFactor flags a stage as a bottleneck when its average dwell time
// exceeds the overall average by this factor.
const bottleneckFactor = 1.2

// criticalOverdueDays is how many days past the stage SLA a shipment must be
// before it counts as critical.
const criticalOverdueDays = 2

// StageTiming aggregates how long shipments dwell in one stage.
type StageTiming struct {
	Stage      string  `json:"stage"`
	AvgDays    float64 `json:"avg_days"`
	MinDays    float64 `json:"min_days"`
	MaxDays    float64 `json:"max_days"`
	Count      int     `json:"count"`
	Bottleneck bool    `json:"bottleneck"`
}

// StageTimingReport is the per-stage dwell time aggregation.
type StageTimingReport struct {
	Stages     []StageTiming `json:"stages"`
	OverallAvg float64       `json:"overall_avg_days"`
}

// ComputeStageTiming measures the time between consecutive history events of
// each shipment, attributing the dwell to the stage the shipment was leaving.
func ComputeStageTiming(events []shipments.HistoryEvent) StageTimingReport {
	bySalesOrder := make(map[string][]shipments.HistoryEvent)
	for _, ev := range events {
		if ev.DataEvento.IsZero() {
			continue
		}
		bySalesOrder[ev.SalesOrder] = append(bySalesOrder[ev.SalesOrder], ev)
	}

	type bucket struct {
		total float64
		min   float64
		max   float64
		count int
	}
	buckets := make(map[string]*bucket)
	var allTotal float64
	var allCount int

	for _, history := range bySalesOrder {
		sort.Slice(history, func(i, j int) bool {
			return history[i].DataEvento.Before(history[j].DataEvento)
		})

		for i := 1; i < len(history); i++ {
			days := history[i].DataEvento.Sub(history[i-1].DataEvento).Hours() / 24
			stage := string(tracking.Normalize(history[i-1].Status))

			b, ok := buckets[stage]
			if !ok {
				b = &bucket{min: days, max: days}
				buckets[stage] = b
			}
			b.total += days
			b.count++
			if days < b.min {
				b.min = days
			}
			if days > b.max {
				b.max = days
			}

			allTotal += days
			allCount++
		}
	}

	report := StageTimingReport{Stages: []StageTiming{}}
	if allCount > 0 {
		report.OverallAvg = allTotal / float64(allCount)
	}

	for stage, b := range buckets {
		avg := b.total / float64(b.count)
		report.Stages = append(report.Stages, StageTiming{
			Stage:      stage,
			AvgDays:    avg,
			MinDays:    b.min,
			MaxDays:    b.max,
			Count:      b.count,
			Bottleneck: avg > bottleneckFactor*report.OverallAvg,
		})
	}
	sort.Slice(report.Stages, func(i, j int) bool {
		return report.Stages[i].Stage < report.Stages[j].Stage
	})

	return report
}

// CriticalGroup is one cell of the critical summary: shipments in a stage at
// a given urgency level.
type CriticalGroup struct {
	Stage   string           `json:"stage"`
	Urgency tracking.Urgency `json:"urgency"`
	Count   int              `json:"count"`
}

// CriticalSummary counts shipments well past their stage SLA.
type CriticalSummary struct {
	Total  int             `json:"total"`
	Groups []CriticalGroup `json:"groups"`
}

// ComputeCriticalSummary counts non-delivered shipments past production that
// are more than two days over their stage SLA, grouped by stage and urgency.
func ComputeCriticalSummary(list []shipments.Shipment, now time.Time) CriticalSummary {
	counts := make(map[CriticalGroup]int)
	total := 0

	for _, s := range list {
		if s.IsDelivered {
			continue
		}

		view := shipments.Decorate(s, now)
		if view.StatusNormalizado == tracking.StatusProduction || view.SLA == nil {
			continue
		}
		if view.SLA.DaysRemaining >= -criticalOverdueDays {
			continue
		}

		key := CriticalGroup{Stage: view.SLA.Stage, Urgency: view.SLA.Urgency}
		counts[key]++
		total++
	}

	summary := CriticalSummary{Total: total, Groups: []CriticalGroup{}}
	for key, count := range counts {
		key.Count = count
		summary.Groups = append(summary.Groups, key)
	}
	sort.Slice(summary.Groups, func(i, j int) bool {
		if summary.Groups[i].Stage != summary.Groups[j].Stage {
			return summary.Groups[i].Stage < summary.Groups[j].Stage
		}
		return summary.Groups[i].Urgency < summary.Groups[j].Urgency
	})

	return summary
}

// CriticalReport pairs the critical summary with the business-day compliance
// table, both keyed on the shipments' current stage.
type CriticalReport struct {
	Summary    CriticalSummary   `json:"summary"`
	Compliance []ComplianceEntry `json:"compliance"`
}

// ComplianceEntry reports how many shipments in a stage are within its
// business-day expectation.
type ComplianceEntry struct {
	Stage        string `json:"stage"`
	BusinessDays int    `json:"business_days"`
	Within       int    `json:"within"`
	Over         int    `json:"over"`
}

// ComputeSLACompliance evaluates non-delivered shipments against the
// business-day table, keyed by normalized current status.
func ComputeSLACompliance(list []shipments.Shipment, now time.Time) []ComplianceEntry {
	entries := make(map[tracking.Status]*ComplianceEntry)

	for _, s := range list {
		if s.IsDelivered {
			continue
		}

		status := tracking.Normalize(s.StatusAtual)
		limit, ok := tracking.StageSLABusinessDays[status]
		if !ok || limit == 0 {
			continue
		}

		lastUpdate := s.CreatedAt
		if s.DataAtualizacao != nil && !s.DataAtualizacao.IsZero() {
			lastUpdate = *s.DataAtualizacao
		}

		entry, ok := entries[status]
		if !ok {
			entry = &ComplianceEntry{Stage: string(status), BusinessDays: limit}
			entries[status] = entry
		}

		if tracking.BusinessDays(lastUpdate, now) <= limit {
			entry.Within++
		} else {
			entry.Over++
		}
	}

	result := make([]ComplianceEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Stage < result[j].Stage
	})

	return result
}

// DeliveryAudit summarizes delivery performance and data quality.
type DeliveryAudit struct {
	TotalDelivered  int     `json:"total_delivered"`
	Audited         int     `json:"audited"`
	OnTime          int     `json:"on_time"`
	OnTimeRate      float64 `json:"on_time_rate"`
	AvgBusinessDays float64 `json:"avg_business_days"`
	// ShipDateCoverage is the share of delivered shipments carrying a ship
	// date; deliveries without one cannot be audited.
	ShipDateCoverage float64 `json:"ship_date_coverage"`
	// UpdateDateCoverage is the share of delivered shipments carrying a
	// last-update date, used as the delivery timestamp.
	UpdateDateCoverage float64 `json:"update_date_coverage"`
}

// ComputeDeliveryAudit measures the ship-to-delivery window in business days
// for delivered shipments, against the audit window.
func ComputeDeliveryAudit(list []shipments.Shipment) DeliveryAudit {
	var audit DeliveryAudit
	var withShipDate, withUpdateDate int
	var totalDays int

	for _, s := range list {
		if !s.IsDelivered {
			continue
		}
		audit.TotalDelivered++

		hasShipDate := s.DataEnvio != nil && !s.DataEnvio.IsZero()
		hasUpdateDate := s.DataAtualizacao != nil && !s.DataAtualizacao.IsZero()
		if hasShipDate {
			withShipDate++
		}
		if hasUpdateDate {
			withUpdateDate++
		}
		if !hasShipDate || !hasUpdateDate {
			continue
		}

		days := tracking.BusinessDays(*s.DataEnvio, *s.DataAtualizacao)
		audit.Audited++
		totalDays += days
		if days <= tracking.DeliverySLABusinessDays {
			audit.OnTime++
		}
	}

	if audit.Audited > 0 {
		audit.OnTimeRate = float64(audit.OnTime) / float64(audit.Audited)
		audit.AvgBusinessDays = float64(totalDays) / float64(audit.Audited)
	}
	if audit.TotalDelivered > 0 {
		audit.ShipDateCoverage = float64(withShipDate) / float64(audit.TotalDelivered)
		audit.UpdateDateCoverage = float64(withUpdateDate) / float64(audit.TotalDelivered)
	}

	return audit
}
