package ports

import (
	"context"

	"logistics-tracker/internal/features/tracking/domain"
)

// HistoryRepository provides the tracking inputs for a sales order: the
// shipment record itself and both event histories.
type HistoryRepository interface {
	// Record returns the shipment record for the sales order, or
	// domain.ErrShipmentNotFound when none exists.
	Record(ctx context.Context, salesOrder string) (*domain.TrackingRecord, error)

	// ShipmentEvents returns the per-shipment history, oldest first.
	ShipmentEvents(ctx context.Context, salesOrder string) ([]domain.Event, error)

	// CargoEvents returns the history of every cargo linked to the sales
	// order, oldest first.
	CargoEvents(ctx context.Context, salesOrder string) ([]domain.Event, error)
}

// TrackingService exposes the reconstructed timeline and SLA position of a
// shipment.
type TrackingService interface {
	ShipmentTimeline(ctx context.Context, salesOrder string) ([]domain.TimelineEntry, error)
	ShipmentSLA(ctx context.Context, salesOrder string) (*domain.SLAResult, error)
}
