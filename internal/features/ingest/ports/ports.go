package ports

import (
	"context"

	"logistics-tracker/internal/features/ingest/domain"
	shipments "logistics-tracker/internal/features/shipments/domain"
)

// IngestService accepts validated pushes from the upstream automation.
type IngestService interface {
	// IngestShipment upserts a shipment from a push payload and records the
	// initial history event.
	IngestShipment(ctx context.Context, payload domain.ShipmentPayload) (*shipments.Shipment, error)

	// IngestTracking appends a tracking event and refreshes the shipment's
	// current status.
	IngestTracking(ctx context.Context, payload domain.TrackingPayload) error
}
