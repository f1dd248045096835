package domain

import (
	"strings"
	"time"

	"logistics-tracker/internal/core/metrics"
)

// Urgency classifies how close a shipment is to breaching its stage SLA.
type Urgency string

const (
	UrgencyOK       Urgency = "ok"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
	UrgencyOverdue  Urgency = "overdue"
)

// Delivery-wide SLA constants. The two values serve different callers and are
// deliberately kept separate: the calendar-day window drives the overdue flag
// on listings, the business-day window drives the delivery audit indicator.
const (
	// DeliverySLACalendarDays is the expected ship-to-delivery window in calendar days.
	DeliverySLACalendarDays = 15
	// DeliverySLABusinessDays is the stricter audit window in business days.
	DeliverySLABusinessDays = 10
)

// StageSLABusinessDays is the per-stage expectation in business days, used by
// aggregate reporting only. It is NOT the same scale as the calendar-day
// table inside ComputeSLA; both sets of constants are kept as-is.
var StageSLABusinessDays = map[Status]int{
	StatusProduction: 5,
	StatusWarehouse:  2,
	StatusCustoms:    2,
	StatusTransit:    3,
	StatusDelivered:  0,
}

// SLAResult describes where a shipment stands against its current stage SLA.
type SLAResult struct {
	// DaysRemaining is expected days minus days elapsed; negative when overdue.
	DaysRemaining int `json:"days_remaining"`
	// Urgency is the alert classification for the result.
	Urgency Urgency `json:"urgency"`
	// ExpectedDays is the stage's expected duration in calendar days.
	ExpectedDays int `json:"expected_days"`
	// DaysSinceUpdate is the whole calendar days elapsed since the last update.
	DaysSinceUpdate int `json:"days_since_update"`
	// Stage is the display name of the matched SLA stage.
	Stage string `json:"stage"`
}

// stageExpectations holds the calendar-day expectation per stage, matched
// against the status by keyword. Groups are evaluated in order and the first
// match wins.
var stageExpectations = []struct {
	name     string
	keywords []string
	days     int
}{
	{"Em Produção", []string{"produção", "producao", "production"}, 14},
	{"Chegada no Armazém", []string{"enviado", "fedex", "saiu", "shipped"}, 1},
	{"No Armazém", []string{"armazém", "armazem", "warehouse"}, 5},
	{"Processo de Importação", []string{"importação", "importacao"}, 10},
	{"Voo Internacional", []string{"voo", "internacional"}, 2},
	{"Desembaraço", []string{"desembaraç", "desembarac", "clearance", "customs"}, 6},
	{"Em Trânsito", []string{"trânsito", "transito", "transit"}, 5},
}

// ComputeSLA evaluates a shipment's current status against the per-stage
// calendar-day expectations. Returns nil for delivered shipments and for
// statuses without a defined expectation (terminal or unrecognized stages).
func ComputeSLA(status Status, lastUpdate, now time.Time, delivered bool) *SLAResult {
	if delivered {
		return nil
	}

	lower := strings.ToLower(string(status))

	for _, exp := range stageExpectations {
		for _, kw := range exp.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}

			daysSinceUpdate := int(now.Sub(lastUpdate).Hours() / 24)
			daysRemaining := exp.days - daysSinceUpdate

			var urgency Urgency
			switch {
			case daysRemaining < 0:
				urgency = UrgencyOverdue
				metrics.SLABreachesObservedTotal.Inc()
			case daysRemaining <= 1:
				urgency = UrgencyCritical
			case daysRemaining <= 3:
				urgency = UrgencyWarning
			default:
				urgency = UrgencyOK
			}

			return &SLAResult{
				DaysRemaining:   daysRemaining,
				Urgency:         urgency,
				ExpectedDays:    exp.days,
				DaysSinceUpdate: daysSinceUpdate,
				Stage:           exp.name,
			}
		}
	}

	return nil
}

// IsOverdueByDeliverySLA reports whether a shipment has exceeded the
// calendar-day delivery window counted from its ship date. Shipments already
// delivered or without a ship date are never overdue.
func IsOverdueByDeliverySLA(shipDate *time.Time, delivered bool, now time.Time) bool {
	if delivered || shipDate == nil || shipDate.IsZero() {
		return false
	}
	return CalendarDays(*shipDate, now) > DeliverySLACalendarDays
}
