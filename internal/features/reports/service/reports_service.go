package service

import (
	"context"
	"fmt"
	"time"

	"logistics-tracker/internal/features/reports/domain"
	"logistics-tracker/internal/features/reports/ports"
)

// ReportsServiceImpl implements ports.ReportsService.
type ReportsServiceImpl struct {
	repo ports.ReportsRepository
	now  func() time.Time
}

// NewReportsService creates a new ReportsServiceImpl.
func NewReportsService(repo ports.ReportsRepository) *ReportsServiceImpl {
	return &ReportsServiceImpl{
		repo: repo,
		now:  time.Now,
	}
}

// StageTiming aggregates per-stage dwell times from the full history.
func (s *ReportsServiceImpl) StageTiming(ctx context.Context) (domain.StageTimingReport, error) {
	events, err := s.repo.HistoryEvents(ctx)
	if err != nil {
		return domain.StageTimingReport{}, fmt.Errorf("service: failed to load history: %w", err)
	}

	return domain.ComputeStageTiming(events), nil
}

// CriticalReport summarizes shipments well past their SLA together with the
// business-day compliance table.
func (s *ReportsServiceImpl) CriticalReport(ctx context.Context) (domain.CriticalReport, error) {
	list, err := s.repo.Shipments(ctx)
	if err != nil {
		return domain.CriticalReport{}, fmt.Errorf("service: failed to load shipments: %w", err)
	}

	now := s.now()
	return domain.CriticalReport{
		Summary:    domain.ComputeCriticalSummary(list, now),
		Compliance: domain.ComputeSLACompliance(list, now),
	}, nil
}

// DeliveryAudit measures delivery performance and data coverage.
func (s *ReportsServiceImpl) DeliveryAudit(ctx context.Context) (domain.DeliveryAudit, error) {
	list, err := s.repo.Shipments(ctx)
	if err != nil {
		return domain.DeliveryAudit{}, fmt.Errorf("service: failed to load shipments: %w", err)
	}

	return domain.ComputeDeliveryAudit(list), nil
}
