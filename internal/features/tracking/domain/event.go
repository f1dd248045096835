package domain

import "time"

// EventSource identifies which history an event came from.
type EventSource string

const (
	// EventSourceShipment marks events from the per-shipment history.
	EventSourceShipment EventSource = "shipment"
	// EventSourceCargo marks events from the consolidated cargo history.
	EventSourceCargo EventSource = "cargo"
)

// Event is a single timestamped entry in a shipment or cargo history.
type Event struct {
	// Status is the free-text status reported with the event.
	Status string `json:"status"`
	// Location is where the event occurred, when known.
	Location string `json:"location,omitempty"`
	// Description carries upstream details about the event.
	Description string `json:"description,omitempty"`
	// Timestamp is when the event occurred. Zero timestamps are ignored
	// during timeline reconstruction.
	Timestamp time.Time `json:"timestamp"`
	// Source is the history the event was read from.
	Source EventSource `json:"source"`
}
