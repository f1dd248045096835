package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDense(t *testing.T, entries []TimelineEntry) {
	t.Helper()
	require.Len(t, entries, StageCount)
	for i := 0; i < StageCount; i++ {
		assert.Equal(t, Stage(i).ID(), entries[i].StageID)
		assert.Equal(t, Stage(i).Title(), entries[i].Title)
	}
}

func assertStrictlyIncreasing(t *testing.T, entries []TimelineEntry) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].Timestamp.After(entries[i-1].Timestamp),
			"entry %d (%s) must be after entry %d", i, entries[i].StageID, i-1)
	}
}

// TestBuildTimeline_DenseAndMonotonic verifies the two structural guarantees
// hold even with no event history at all.
func TestBuildTimeline_DenseAndMonotonic(t *testing.T) {
	now := date(2024, time.February, 1)

	entries := BuildTimeline(nil, nil, "No Armazém", nil, nil, now.AddDate(0, 0, -2), now)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)
}

// TestBuildTimeline_Classification verifies stages split into completed,
// current and upcoming around the current stage.
func TestBuildTimeline_Classification(t *testing.T) {
	now := date(2024, time.February, 1)

	entries := BuildTimeline(nil, nil, "No Armazém", nil, nil, now.AddDate(0, 0, -2), now)

	for i, entry := range entries {
		switch {
		case i < StageWarehouse.Order():
			assert.Equal(t, EntryCompleted, entry.Status, "stage %s", entry.StageID)
		case i == StageWarehouse.Order():
			assert.Equal(t, EntryCurrent, entry.Status, "stage %s", entry.StageID)
		default:
			assert.Equal(t, EntryUpcoming, entry.Status, "stage %s", entry.StageID)
		}
	}
}

// TestBuildTimeline_EndToEnd reproduces a shipment in transit with direct
// record dates and no event history: production and carrier pickup must use
// the record dates, and forecasts must split the delivery window
// proportionally from the current stage.
func TestBuildTimeline_EndToEnd(t *testing.T) {
	createdAt := date(2023, time.December, 20)
	shipDate := date(2024, time.January, 1)
	lastUpdate := date(2024, time.January, 5)
	now := date(2024, time.January, 6)

	entries := BuildTimeline(nil, nil, "Em Trânsito", &shipDate, &createdAt, lastUpdate, now)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)

	assert.Equal(t, EntryCompleted, entries[StageProduction].Status)
	assert.Equal(t, createdAt, entries[StageProduction].Timestamp)

	assert.Equal(t, EntryCompleted, entries[StageCarrierPickup].Status)
	assert.Equal(t, shipDate, entries[StageCarrierPickup].Timestamp)

	assert.Equal(t, EntryCurrent, entries[StageArrival].Status)
	assert.Equal(t, lastUpdate, entries[StageArrival].Timestamp)

	// Two stages remain after the current one; the 15-day window is split
	// proportionally: customs at +8 days (rounded), delivery at +15.
	assert.Equal(t, EntryUpcoming, entries[StageCustoms].Status)
	assert.Equal(t, lastUpdate.AddDate(0, 0, 8), entries[StageCustoms].Timestamp)

	assert.Equal(t, EntryUpcoming, entries[StageDelivered].Status)
	assert.Equal(t, lastUpdate.AddDate(0, 0, 15), entries[StageDelivered].Timestamp)
}

// TestBuildTimeline_LastEventWinsPerStage verifies that when several events
// map to the same stage, the latest timestamp is kept.
func TestBuildTimeline_LastEventWinsPerStage(t *testing.T) {
	first := date(2024, time.January, 2)
	second := date(2024, time.January, 4)
	lastUpdate := date(2024, time.January, 10)

	events := []Event{
		{Status: "No Armazém", Timestamp: first, Description: "chegada inicial", Source: EventSourceShipment},
		{Status: "At warehouse", Timestamp: second, Description: "reconferido", Source: EventSourceCargo},
	}

	entries := BuildTimeline(events, nil, "Em Desembaraço", nil, nil, lastUpdate, lastUpdate)

	assert.Equal(t, second, entries[StageWarehouse].Timestamp)
	assert.Equal(t, "reconferido", entries[StageWarehouse].Details)
}

// TestBuildTimeline_MergesBothHistories verifies shipment and cargo events
// land on the same timeline.
func TestBuildTimeline_MergesBothHistories(t *testing.T) {
	createdAt := date(2024, time.January, 1)
	lastUpdate := date(2024, time.January, 16)

	shipmentEvents := []Event{
		{Status: "Enviado", Timestamp: date(2024, time.January, 2), Source: EventSourceShipment},
	}
	cargoEvents := []Event{
		{Status: "Embarque Confirmado", Timestamp: date(2024, time.January, 10), Source: EventSourceCargo},
		{Status: "Chegada no Brasil", Timestamp: date(2024, time.January, 14), Source: EventSourceCargo},
	}

	entries := BuildTimeline(shipmentEvents, cargoEvents, "Em Desembaraço", nil, &createdAt, lastUpdate, lastUpdate)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)
	assert.Equal(t, createdAt, entries[StageProduction].Timestamp)
	assert.Equal(t, date(2024, time.January, 2), entries[StageCarrierPickup].Timestamp)
	assert.Equal(t, date(2024, time.January, 10), entries[StageDepartureConfirmed].Timestamp)
	assert.Equal(t, date(2024, time.January, 14), entries[StageArrival].Timestamp)
	assert.Equal(t, EntryCurrent, entries[StageCustoms].Status)
	assert.Equal(t, lastUpdate, entries[StageCustoms].Timestamp)
}

// TestBuildTimeline_OutOfOrderEventsCorrected verifies the monotonicity pass
// fixes noisy upstream ordering instead of rejecting it.
func TestBuildTimeline_OutOfOrderEventsCorrected(t *testing.T) {
	lastUpdate := date(2024, time.January, 20)

	events := []Event{
		// warehouse event reported AFTER the departure event
		{Status: "Embarque Confirmado", Timestamp: date(2024, time.January, 5), Source: EventSourceCargo},
		{Status: "No Armazém", Timestamp: date(2024, time.January, 8), Source: EventSourceShipment},
	}

	entries := BuildTimeline(events, nil, "Chegada no Brasil", nil, nil, lastUpdate, lastUpdate)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)
}

// TestBuildTimeline_ZeroTimestampsIgnored verifies malformed dates degrade to
// the synthetic estimates instead of poisoning the timeline.
func TestBuildTimeline_ZeroTimestampsIgnored(t *testing.T) {
	lastUpdate := date(2024, time.January, 20)

	events := []Event{
		{Status: "No Armazém", Source: EventSourceShipment}, // zero timestamp
	}

	entries := BuildTimeline(events, nil, "Em Desembaraço", nil, nil, lastUpdate, lastUpdate)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)
	// the warehouse stage fell back to the backwards estimate
	assert.Equal(t, EntryCompleted, entries[StageWarehouse].Status)
	assert.Empty(t, entries[StageWarehouse].Details)
}

// TestBuildTimeline_DeliveredShipment verifies a delivered shipment marks the
// final stage current and everything else completed.
func TestBuildTimeline_DeliveredShipment(t *testing.T) {
	lastUpdate := date(2024, time.January, 25)

	entries := BuildTimeline(nil, nil, "Entregue", nil, nil, lastUpdate, lastUpdate)

	assertDense(t, entries)
	assertStrictlyIncreasing(t, entries)
	assert.Equal(t, EntryCurrent, entries[StageDelivered].Status)
	for i := 0; i < StageDelivered.Order(); i++ {
		assert.Equal(t, EntryCompleted, entries[i].Status)
	}
}

// TestBuildTimeline_FlatHeuristicWithoutShipDate verifies the 3-day step
// forecast applies when no ship date anchors the delivery window.
func TestBuildTimeline_FlatHeuristicWithoutShipDate(t *testing.T) {
	lastUpdate := date(2024, time.January, 10)

	entries := BuildTimeline(nil, nil, "Em Desembaraço", nil, nil, lastUpdate, lastUpdate)

	assert.Equal(t, EntryCurrent, entries[StageCustoms].Status)
	assert.Equal(t, lastUpdate, entries[StageCustoms].Timestamp)
	assert.Equal(t, lastUpdate.AddDate(0, 0, 3), entries[StageDelivered].Timestamp)
}

// TestBuildTimeline_Idempotent verifies repeated calls over the same
// snapshot produce identical output.
func TestBuildTimeline_Idempotent(t *testing.T) {
	shipDate := date(2024, time.January, 1)
	lastUpdate := date(2024, time.January, 5)
	now := date(2024, time.January, 6)

	events := []Event{
		{Status: "No Armazém", Timestamp: date(2024, time.January, 3), Source: EventSourceShipment},
	}

	first := BuildTimeline(events, nil, "Em Trânsito", &shipDate, nil, lastUpdate, now)
	second := BuildTimeline(events, nil, "Em Trânsito", &shipDate, nil, lastUpdate, now)

	assert.Equal(t, first, second)
}
