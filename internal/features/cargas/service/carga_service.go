package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/features/cargas/domain"
	"logistics-tracker/internal/features/cargas/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CargaServiceImpl implements ports.CargaService.
type CargaServiceImpl struct {
	repo ports.CargaRepository
	now  func() time.Time
}

// NewCargaService creates a new CargaServiceImpl.
func NewCargaService(repo ports.CargaRepository) *CargaServiceImpl {
	return &CargaServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// List returns all cargas.
func (s *CargaServiceImpl) List(ctx context.Context) ([]domain.Carga, error) {
	cargas, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list cargas: %w", err)
	}
	return cargas, nil
}

// Get returns one carga with its linked sales orders.
func (s *CargaServiceImpl) Get(ctx context.Context, numeroCarga string) (*domain.Carga, error) {
	carga, err := s.repo.Get(ctx, numeroCarga)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get carga %s: %w", numeroCarga, err)
	}
	return carga, nil
}

// Upsert merges an upstream update over the stored carga, creating it when
// missing. A status change appends a history event, and a carga delivered
// upstream marks every linked shipment delivered.
func (s *CargaServiceImpl) Upsert(ctx context.Context, numeroCarga string, update domain.Update) (*domain.Carga, error) {
	now := s.now()

	stored, err := s.repo.Get(ctx, numeroCarga)
	if errors.Is(err, domain.ErrCargaNotFound) {
		stored = &domain.Carga{
			NumeroCarga: numeroCarga,
			Status:      domain.DefaultStatus,
			CreatedAt:   now,
		}
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to load carga %s: %w", numeroCarga, err)
	}

	previousStatus := stored.Status
	merged := domain.Merge(*stored, update, now)

	if err := s.repo.Save(ctx, merged); err != nil {
		return nil, fmt.Errorf("service: failed to save carga %s: %w", numeroCarga, err)
	}

	if merged.Status != previousStatus || stored.CreatedAt.Equal(now) {
		event := domain.CargaEvent{
			ID:         uuid.NewString(),
			CargaID:    numeroCarga,
			Status:     merged.Status,
			DataEvento: now,
		}
		if err := s.repo.AppendHistory(ctx, event); err != nil {
			return nil, fmt.Errorf("service: failed to append carga history for %s: %w", numeroCarga, err)
		}
	}

	if merged.Status == "Entregue" && previousStatus != "Entregue" {
		if err := s.repo.MarkLinkedDelivered(ctx, numeroCarga, now); err != nil {
			// The carga update itself succeeded; log and keep going.
			logger.Get().Error("Failed to mark linked shipments delivered",
				zap.String("numero_carga", numeroCarga), zap.Error(err))
		}
	}

	return s.Get(ctx, numeroCarga)
}

// LinkSalesOrders associates sales orders with a carga.
func (s *CargaServiceImpl) LinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) (*domain.Carga, error) {
	if _, err := s.repo.Get(ctx, numeroCarga); err != nil {
		return nil, fmt.Errorf("service: failed to get carga %s: %w", numeroCarga, err)
	}

	if len(salesOrders) > 0 {
		if err := s.repo.LinkSalesOrders(ctx, numeroCarga, salesOrders); err != nil {
			return nil, fmt.Errorf("service: failed to link sales orders to %s: %w", numeroCarga, err)
		}
	}

	return s.Get(ctx, numeroCarga)
}

// UnlinkSalesOrders removes the association between a carga and sales orders.
func (s *CargaServiceImpl) UnlinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) (*domain.Carga, error) {
	if _, err := s.repo.Get(ctx, numeroCarga); err != nil {
		return nil, fmt.Errorf("service: failed to get carga %s: %w", numeroCarga, err)
	}

	if len(salesOrders) > 0 {
		if err := s.repo.UnlinkSalesOrders(ctx, numeroCarga, salesOrders); err != nil {
			return nil, fmt.Errorf("service: failed to unlink sales orders from %s: %w", numeroCarga, err)
		}
	}

	return s.Get(ctx, numeroCarga)
}
