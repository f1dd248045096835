package ports

import (
	"context"

	"logistics-tracker/internal/features/reports/domain"
	shipments "logistics-tracker/internal/features/shipments/domain"
)

// ReportsRepository provides the raw rows the aggregations consume.
type ReportsRepository interface {
	// Shipments returns every shipment record.
	Shipments(ctx context.Context) ([]shipments.Shipment, error)

	// HistoryEvents returns every shipment history event.
	HistoryEvents(ctx context.Context) ([]shipments.HistoryEvent, error)
}

// ReportsService exposes the aggregate dashboards.
type ReportsService interface {
	StageTiming(ctx context.Context) (domain.StageTimingReport, error)
	CriticalReport(ctx context.Context) (domain.CriticalReport, error)
	DeliveryAudit(ctx context.Context) (domain.DeliveryAudit, error)
}
