package domain

import (
	"math"
	"sort"
	"time"
)

// EntryStatus classifies a timeline entry relative to the shipment's current stage.
type EntryStatus string

const (
	EntryCompleted EntryStatus = "completed"
	EntryCurrent   EntryStatus = "current"
	EntryUpcoming  EntryStatus = "upcoming"
)

// TimelineEntry is one stage of a reconstructed shipment timeline.
type TimelineEntry struct {
	// StageID is the stable stage identifier.
	StageID string `json:"stage_id"`
	// Title is the stage display title.
	Title string `json:"title"`
	// Timestamp is the resolved, estimated or forecast date for the stage.
	Timestamp time.Time `json:"timestamp"`
	// Status classifies the entry as completed, current or upcoming.
	Status EntryStatus `json:"status"`
	// Details carries the description of the event that resolved the stage, if any.
	Details string `json:"details,omitempty"`
}

// syntheticStepDays is the flat per-stage estimate used when no ship date is
// known to anchor a proportional forecast.
const syntheticStepDays = 3

// BuildTimeline merges the per-shipment and per-cargo histories into a dense
// timeline covering every lifecycle stage exactly once, in stage order.
//
// Events are merged and sorted; for each stage the latest qualifying event
// wins. Two stages are overridden by higher-trust record fields when those
// are earlier: Production by createdAt and CarrierPickup by shipDate. Stages
// before the current one are completed (estimated backwards from lastUpdate
// when no event exists), the current stage takes the resolved event date or
// lastUpdate, and later stages get forecast dates: proportional over the
// delivery window when shipDate is known, a flat step heuristic otherwise.
// A final pass bumps any non-increasing timestamp to one hour after its
// predecessor, so out-of-order upstream data is corrected, never rejected.
//
// Calling with empty event slices yields the synthetic fallback timeline.
func BuildTimeline(shipmentEvents, cargoEvents []Event, currentStatus string, shipDate, createdAt *time.Time, lastUpdate, now time.Time) []TimelineEntry {
	merged := make([]Event, 0, len(shipmentEvents)+len(cargoEvents))
	for _, ev := range shipmentEvents {
		if !ev.Timestamp.IsZero() {
			merged = append(merged, ev)
		}
	}
	for _, ev := range cargoEvents {
		if !ev.Timestamp.IsZero() {
			merged = append(merged, ev)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	type resolved struct {
		ts      time.Time
		details string
		known   bool
	}
	var stages [StageCount]resolved

	for _, ev := range merged {
		stage := StageForStatus(ev.Status)
		if !stages[stage].known || ev.Timestamp.After(stages[stage].ts) {
			stages[stage] = resolved{ts: ev.Timestamp, details: ev.Description, known: true}
		}
	}

	// Direct record fields outrank reconstructed event dates for the two
	// stages they describe, when they are earlier.
	if createdAt != nil && !createdAt.IsZero() {
		if !stages[StageProduction].known || createdAt.Before(stages[StageProduction].ts) {
			stages[StageProduction].ts = *createdAt
			stages[StageProduction].known = true
		}
	}
	if shipDate != nil && !shipDate.IsZero() {
		if !stages[StageCarrierPickup].known || shipDate.Before(stages[StageCarrierPickup].ts) {
			stages[StageCarrierPickup].ts = *shipDate
			stages[StageCarrierPickup].known = true
		}
	}

	currentOrder := StageForStatus(currentStatus).Order()

	anchor := lastUpdate
	if anchor.IsZero() {
		anchor = now
	}

	currentDate := anchor
	if stages[currentOrder].known {
		currentDate = stages[currentOrder].ts
	}

	stagesRemaining := StageCount - 1 - currentOrder

	entries := make([]TimelineEntry, 0, StageCount)
	for i := 0; i < StageCount; i++ {
		stage := Stage(i)
		entry := TimelineEntry{
			StageID: stage.ID(),
			Title:   stage.Title(),
			Details: stages[i].details,
		}

		switch {
		case i < currentOrder:
			entry.Status = EntryCompleted
			if stages[i].known {
				entry.Timestamp = stages[i].ts
			} else {
				entry.Timestamp = anchor.AddDate(0, 0, -syntheticStepDays*(currentOrder-i))
			}
		case i == currentOrder:
			entry.Status = EntryCurrent
			entry.Timestamp = currentDate
		default:
			entry.Status = EntryUpcoming
			gap := i - currentOrder
			if shipDate != nil && !shipDate.IsZero() {
				days := int(math.Round(float64(gap) * float64(DeliverySLACalendarDays) / float64(stagesRemaining)))
				entry.Timestamp = currentDate.AddDate(0, 0, days)
			} else {
				entry.Timestamp = currentDate.AddDate(0, 0, syntheticStepDays*gap)
			}
		}

		entries = append(entries, entry)
	}

	// Monotonicity pass: display order must be strictly increasing no matter
	// how noisy the upstream events were.
	for i := 1; i < StageCount; i++ {
		if !entries[i].Timestamp.After(entries[i-1].Timestamp) {
			entries[i].Timestamp = entries[i-1].Timestamp.Add(time.Hour)
		}
	}

	return entries
}
