package service

import (
	"context"
	"fmt"
	"time"

	"logistics-tracker/internal/core/cache"
	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/core/metrics"
	"logistics-tracker/internal/features/ingest/domain"
	shipments "logistics-tracker/internal/features/shipments/domain"
	shipmentports "logistics-tracker/internal/features/shipments/ports"
	tracking "logistics-tracker/internal/features/tracking/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestServiceImpl implements ports.IngestService on top of the shipment
// repository.
type IngestServiceImpl struct {
	shipments shipmentports.ShipmentRepository
	cache     cache.Cache
	now       func() time.Time
}

// NewIngestService creates a new IngestServiceImpl. The cache is optional;
// when set, ingested events invalidate the cached timeline of the shipment.
func NewIngestService(repo shipmentports.ShipmentRepository, c cache.Cache) *IngestServiceImpl {
	return &IngestServiceImpl{
		shipments: repo,
		cache:     c,
		now:       time.Now,
	}
}

// IngestShipment validates, sanitizes and upserts a shipment push, recording
// the initial history event.
func (s *IngestServiceImpl) IngestShipment(ctx context.Context, payload domain.ShipmentPayload) (*shipments.Shipment, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	shipment := payload.ToShipment(now)
	shipment.IsDelivered = tracking.Normalize(shipment.StatusAtual) == tracking.StatusDelivered

	if err := s.shipments.Upsert(ctx, shipment); err != nil {
		return nil, fmt.Errorf("service: failed to upsert shipment %s: %w", shipment.SalesOrder, err)
	}

	event := shipments.HistoryEvent{
		ID:          uuid.NewString(),
		SalesOrder:  shipment.SalesOrder,
		Status:      shipment.StatusAtual,
		Localizacao: shipment.UltimaLocalizacao,
		Descricao:   "recebido via ingestão",
		DataEvento:  now,
	}
	if err := s.shipments.AppendHistory(ctx, event); err != nil {
		return nil, fmt.Errorf("service: failed to append history for %s: %w", shipment.SalesOrder, err)
	}

	s.invalidateTimeline(ctx, shipment.SalesOrder)
	metrics.ShipmentsIngestedTotal.Inc()

	return &shipment, nil
}

// IngestTracking appends a tracking event and moves the shipment to the
// event's status. A shipment whose normalized status is delivered gets its
// delivered flag set.
func (s *IngestServiceImpl) IngestTracking(ctx context.Context, payload domain.TrackingPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	salesOrder := domain.Sanitize(payload.SalesOrder, 100)
	if _, err := s.shipments.Get(ctx, salesOrder); err != nil {
		return fmt.Errorf("service: failed to load shipment %s: %w", salesOrder, err)
	}

	now := s.now()
	when := now
	if payload.DataEvento != nil {
		when = *payload.DataEvento
	}

	status := domain.Sanitize(payload.Status, 100)
	location := domain.Sanitize(payload.Localizacao, 200)
	delivered := tracking.Normalize(status) == tracking.StatusDelivered

	event := shipments.HistoryEvent{
		ID:          uuid.NewString(),
		SalesOrder:  salesOrder,
		Status:      status,
		Localizacao: location,
		Descricao:   domain.Sanitize(payload.Descricao, 1000),
		DataEvento:  when,
	}
	if err := s.shipments.AppendHistory(ctx, event); err != nil {
		return fmt.Errorf("service: failed to append history for %s: %w", salesOrder, err)
	}

	if err := s.shipments.UpdateStatus(ctx, salesOrder, status, location, delivered, now); err != nil {
		return fmt.Errorf("service: failed to update status of %s: %w", salesOrder, err)
	}

	s.invalidateTimeline(ctx, salesOrder)
	metrics.TrackingEventsIngestedTotal.Inc()

	return nil
}

func (s *IngestServiceImpl) invalidateTimeline(ctx context.Context, salesOrder string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf("timeline:%s", salesOrder)); err != nil {
		logger.Get().Warn("failed to invalidate cached timeline",
			zap.String("sales_order", salesOrder), zap.Error(err))
	}
}
