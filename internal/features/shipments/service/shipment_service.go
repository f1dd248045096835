package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics-tracker/internal/core/cache"
	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/shipments/domain"
	"logistics-tracker/internal/features/shipments/ports"
	tracking "logistics-tracker/internal/features/tracking/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyStatus is returned when a status update carries no status.
var ErrEmptyStatus = errors.New("status must not be empty")

// ShipmentServiceImpl implements ports.ShipmentService.
type ShipmentServiceImpl struct {
	repo  ports.ShipmentRepository
	cache cache.Cache
	now   func() time.Time
}

// NewShipmentService creates a new ShipmentServiceImpl. The cache is optional;
// when set, status updates invalidate the cached timeline of the shipment.
func NewShipmentService(repo ports.ShipmentRepository, c cache.Cache) *ShipmentServiceImpl {
	return &ShipmentServiceImpl{
		repo:  repo,
		cache: c,
		now:   time.Now,
	}
}

// List returns decorated shipment views matching the filter.
func (s *ShipmentServiceImpl) List(ctx context.Context, filter domain.ListFilter) ([]domain.ShipmentView, error) {
	shipments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list shipments: %w", err)
	}

	now := s.now()
	views := make([]domain.ShipmentView, 0, len(shipments))
	for _, shipment := range shipments {
		views = append(views, domain.Decorate(shipment, now))
	}

	return views, nil
}

// Get returns the decorated view of one shipment.
func (s *ShipmentServiceImpl) Get(ctx context.Context, salesOrder string) (*domain.ShipmentView, error) {
	shipment, err := s.repo.Get(ctx, salesOrder)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get shipment %s: %w", salesOrder, err)
	}

	view := domain.Decorate(*shipment, s.now())
	return &view, nil
}

// UpdateStatus sets a new status on the shipment and appends a matching
// history event, the same write path manual corrections take on the dashboard.
func (s *ShipmentServiceImpl) UpdateStatus(ctx context.Context, salesOrder, status, location, note string) (*domain.ShipmentView, error) {
	if status == "" {
		return nil, ErrEmptyStatus
	}

	if _, err := s.repo.Get(ctx, salesOrder); err != nil {
		return nil, fmt.Errorf("service: failed to get shipment %s: %w", salesOrder, err)
	}

	now := s.now()
	delivered := tracking.Normalize(status) == tracking.StatusDelivered

	if err := s.repo.UpdateStatus(ctx, salesOrder, status, location, delivered, now); err != nil {
		return nil, fmt.Errorf("service: failed to update status of %s: %w", salesOrder, err)
	}

	event := domain.HistoryEvent{
		ID:          uuid.NewString(),
		SalesOrder:  salesOrder,
		Status:      status,
		Localizacao: location,
		Descricao:   note,
		DataEvento:  now,
	}
	if err := s.repo.AppendHistory(ctx, event); err != nil {
		return nil, fmt.Errorf("service: failed to append history for %s: %w", salesOrder, err)
	}

	s.invalidateTimeline(ctx, salesOrder)

	return s.Get(ctx, salesOrder)
}

// Delete removes the given sales orders.
func (s *ShipmentServiceImpl) Delete(ctx context.Context, salesOrders []string) (int64, error) {
	if len(salesOrders) == 0 {
		return 0, nil
	}

	deleted, err := s.repo.Delete(ctx, salesOrders)
	if err != nil {
		return 0, fmt.Errorf("service: failed to delete shipments: %w", err)
	}

	for _, so := range salesOrders {
		s.invalidateTimeline(ctx, so)
	}

	return deleted, nil
}

func (s *ShipmentServiceImpl) invalidateTimeline(ctx context.Context, salesOrder string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf("timeline:%s", salesOrder)); err != nil {
		logger.Get().Warn("failed to invalidate cached timeline",
			zap.String("sales_order", salesOrder), zap.Error(err))
	}
}
