package ports

import (
	"context"
	"time"

	"logistics-tracker/internal/features/cargas/domain"
)

// CargaRepository persists cargas, their history and their sales order links.
type CargaRepository interface {
	// List returns all cargas, most recently updated first.
	List(ctx context.Context) ([]domain.Carga, error)

	// Get returns the carga for the number, with its linked sales orders, or
	// domain.ErrCargaNotFound when none exists.
	Get(ctx context.Context, numeroCarga string) (*domain.Carga, error)

	// Save inserts or updates a carga row.
	Save(ctx context.Context, carga domain.Carga) error

	// AppendHistory adds one event to the carga's history.
	AppendHistory(ctx context.Context, event domain.CargaEvent) error

	// LinkSalesOrders associates sales orders with the carga, ignoring
	// duplicates.
	LinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error

	// UnlinkSalesOrders removes the association between the carga and the
	// given sales orders.
	UnlinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error

	// LinkedSalesOrders returns the sales orders associated with the carga.
	LinkedSalesOrders(ctx context.Context, numeroCarga string) ([]string, error)

	// MarkLinkedDelivered flags every shipment linked to the carga as
	// delivered.
	MarkLinkedDelivered(ctx context.Context, numeroCarga string, when time.Time) error
}

// CargaService exposes carga listings, upserts and sales order linking.
type CargaService interface {
	List(ctx context.Context) ([]domain.Carga, error)
	Get(ctx context.Context, numeroCarga string) (*domain.Carga, error)
	Upsert(ctx context.Context, numeroCarga string, update domain.Update) (*domain.Carga, error)
	LinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) (*domain.Carga, error)
	UnlinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) (*domain.Carga, error)
}
