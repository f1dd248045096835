package domain

import (
	"errors"
	"time"
)

// ErrShipmentNotFound is returned when no shipment exists for a sales order.
var ErrShipmentNotFound = errors.New("shipment not found")

// TrackingRecord is the slice of a shipment record the timeline and SLA
// calculations need: the current status plus the anchor dates.
type TrackingRecord struct {
	SalesOrder string
	Status     string
	ShipDate   *time.Time
	CreatedAt  *time.Time
	LastUpdate time.Time
	Delivered  bool
}
