package ports

import (
	"context"
	"time"

	"logistics-tracker/internal/features/shipments/domain"
)

// ShipmentRepository persists shipment records and their history.
type ShipmentRepository interface {
	// List returns shipments matching the filter, most recently updated first.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error)

	// Get returns the shipment for the sales order, or
	// domain.ErrShipmentNotFound when none exists.
	Get(ctx context.Context, salesOrder string) (*domain.Shipment, error)

	// Upsert inserts the shipment or replaces the stored row for its sales
	// order.
	Upsert(ctx context.Context, shipment domain.Shipment) error

	// UpdateStatus sets the current status, location, last-update timestamp
	// and delivered flag of a shipment.
	UpdateStatus(ctx context.Context, salesOrder, status, location string, delivered bool, when time.Time) error

	// AppendHistory adds one event to the shipment's tracking history.
	AppendHistory(ctx context.Context, event domain.HistoryEvent) error

	// Delete removes the given sales orders and their history, returning how
	// many shipments were deleted.
	Delete(ctx context.Context, salesOrders []string) (int64, error)
}

// ShipmentService exposes shipment listings and admin operations.
type ShipmentService interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.ShipmentView, error)
	Get(ctx context.Context, salesOrder string) (*domain.ShipmentView, error)
	UpdateStatus(ctx context.Context, salesOrder, status, location, note string) (*domain.ShipmentView, error)
	Delete(ctx context.Context, salesOrders []string) (int64, error)
}
