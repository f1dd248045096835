package adapters

import (
	"context"
	"fmt"

	shipments "logistics-tracker/internal/features/shipments/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresReportsRepository implements ports.ReportsRepository with full-table
// reads; the aggregations run in memory.
type PostgresReportsRepository struct {
	db *sqlx.DB
}

// NewPostgresReportsRepository creates a new PostgresReportsRepository.
func NewPostgresReportsRepository(db *sqlx.DB) *PostgresReportsRepository {
	return &PostgresReportsRepository{db: db}
}

// Shipments returns every shipment record.
func (r *PostgresReportsRepository) Shipments(ctx context.Context) ([]shipments.Shipment, error) {
	list := []shipments.Shipment{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT sales_order, COALESCE(erp_order, '') AS erp_order, cliente,
			COALESCE(produtos, '') AS produtos, COALESCE(valor_total, 0) AS valor_total,
			COALESCE(status_atual, '') AS status_atual,
			COALESCE(ultima_localizacao, '') AS ultima_localizacao,
			COALESCE(carrier, '') AS carrier, tracking_numbers,
			data_ordem, data_envio, data_ultima_atualizacao, is_delivered, created_at
		FROM shipments`)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipments for reporting: %w", err)
	}

	return list, nil
}

// HistoryEvents returns every shipment history event, oldest first.
func (r *PostgresReportsRepository) HistoryEvents(ctx context.Context) ([]shipments.HistoryEvent, error) {
	events := []shipments.HistoryEvent{}
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, sales_order, status, COALESCE(localizacao, '') AS localizacao,
			COALESCE(descricao, '') AS descricao, data_evento
		FROM shipment_history
		ORDER BY sales_order, data_evento`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for reporting: %w", err)
	}

	return events, nil
}
