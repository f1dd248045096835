package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"logistics-tracker/internal/core/cache"
	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/core/metrics"
	"logistics-tracker/internal/features/tracking/domain"
	"logistics-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// TrackingServiceImpl implements ports.TrackingService.
type TrackingServiceImpl struct {
	repo     ports.HistoryRepository
	cache    cache.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewTrackingService creates a new TrackingServiceImpl. The cache is optional;
// pass nil to disable timeline caching.
func NewTrackingService(repo ports.HistoryRepository, c cache.Cache, cacheTTL time.Duration) *TrackingServiceImpl {
	return &TrackingServiceImpl{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func timelineCacheKey(salesOrder string) string {
	return fmt.Sprintf("timeline:%s", salesOrder)
}

// ShipmentTimeline reconstructs the full lifecycle timeline for a sales
// order. History fetch failures degrade to the synthetic timeline built from
// the record dates alone; a missing shipment is an error.
func (s *TrackingServiceImpl) ShipmentTimeline(ctx context.Context, salesOrder string) ([]domain.TimelineEntry, error) {
	if cached := s.cachedTimeline(ctx, salesOrder); cached != nil {
		return cached, nil
	}

	record, err := s.repo.Record(ctx, salesOrder)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load shipment %s: %w", salesOrder, err)
	}

	start := s.now()
	source := "events"

	shipmentEvents, shipErr := s.repo.ShipmentEvents(ctx, salesOrder)
	cargoEvents, cargoErr := s.repo.CargoEvents(ctx, salesOrder)
	if shipErr != nil || cargoErr != nil {
		logger.Get().Warn("history fetch failed, falling back to synthetic timeline",
			zap.String("sales_order", salesOrder),
			zap.NamedError("shipment_history", shipErr),
			zap.NamedError("cargo_history", cargoErr))
		metrics.TimelineFallbacksTotal.Inc()
		shipmentEvents, cargoEvents = nil, nil
		source = "synthetic"
	}

	entries := domain.BuildTimeline(shipmentEvents, cargoEvents, record.Status,
		record.ShipDate, record.CreatedAt, record.LastUpdate, s.now())

	metrics.TimelinesBuiltTotal.WithLabelValues(source).Inc()
	metrics.TimelineBuildDuration.Observe(s.now().Sub(start).Seconds())

	s.storeTimeline(ctx, salesOrder, entries)

	return entries, nil
}

// ShipmentSLA evaluates the shipment's normalized status against the
// per-stage expectations. A nil result means no SLA applies.
func (s *TrackingServiceImpl) ShipmentSLA(ctx context.Context, salesOrder string) (*domain.SLAResult, error) {
	record, err := s.repo.Record(ctx, salesOrder)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load shipment %s: %w", salesOrder, err)
	}

	status := domain.Normalize(record.Status)
	return domain.ComputeSLA(status, record.LastUpdate, s.now(), record.Delivered), nil
}

func (s *TrackingServiceImpl) cachedTimeline(ctx context.Context, salesOrder string) []domain.TimelineEntry {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, timelineCacheKey(salesOrder))
	if err != nil || data == nil {
		return nil
	}

	var entries []domain.TimelineEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Get().Warn("discarding corrupt cached timeline",
			zap.String("sales_order", salesOrder), zap.Error(err))
		return nil
	}

	return entries
}

func (s *TrackingServiceImpl) storeTimeline(ctx context.Context, salesOrder string, entries []domain.TimelineEntry) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, timelineCacheKey(salesOrder), data, s.cacheTTL); err != nil {
		logger.Get().Warn("failed to cache timeline",
			zap.String("sales_order", salesOrder), zap.Error(err))
	}
}
