package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logistics-tracker/internal/features/shipments/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresShipmentRepository implements ports.ShipmentRepository over the
// shipments and shipment_history tables.
type PostgresShipmentRepository struct {
	db *sqlx.DB
}

// NewPostgresShipmentRepository creates a new PostgresShipmentRepository.
func NewPostgresShipmentRepository(db *sqlx.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

const shipmentColumns = `sales_order, COALESCE(erp_order, '') AS erp_order, cliente,
	COALESCE(produtos, '') AS produtos, COALESCE(valor_total, 0) AS valor_total,
	COALESCE(status_atual, '') AS status_atual,
	COALESCE(ultima_localizacao, '') AS ultima_localizacao,
	COALESCE(carrier, '') AS carrier, tracking_numbers,
	data_ordem, data_envio, data_ultima_atualizacao, is_delivered, created_at`

// List returns shipments matching the filter, most recently updated first.
func (r *PostgresShipmentRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error) {
	query := fmt.Sprintf("SELECT %s FROM shipments WHERE 1=1", shipmentColumns)
	args := []interface{}{}

	if filter.Cliente != "" {
		args = append(args, "%"+filter.Cliente+"%")
		query += fmt.Sprintf(" AND cliente ILIKE $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status_atual = $%d", len(args))
	}
	if filter.Delivered != nil {
		args = append(args, *filter.Delivered)
		query += fmt.Sprintf(" AND is_delivered = $%d", len(args))
	}

	query += " ORDER BY data_ultima_atualizacao DESC NULLS LAST, created_at DESC"

	shipments := []domain.Shipment{}
	if err := r.db.SelectContext(ctx, &shipments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	return shipments, nil
}

// Get returns the shipment for the sales order.
func (r *PostgresShipmentRepository) Get(ctx context.Context, salesOrder string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	query := fmt.Sprintf("SELECT %s FROM shipments WHERE sales_order = $1", shipmentColumns)
	err := r.db.GetContext(ctx, &shipment, query, salesOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment %s: %w", salesOrder, err)
	}

	return &shipment, nil
}

// Upsert inserts the shipment or replaces the stored row for its sales order.
func (r *PostgresShipmentRepository) Upsert(ctx context.Context, shipment domain.Shipment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO shipments (sales_order, erp_order, cliente, produtos, valor_total,
			status_atual, ultima_localizacao, carrier, tracking_numbers,
			data_ordem, data_envio, data_ultima_atualizacao, is_delivered, created_at)
		VALUES (:sales_order, :erp_order, :cliente, :produtos, :valor_total,
			:status_atual, :ultima_localizacao, :carrier, :tracking_numbers,
			:data_ordem, :data_envio, :data_ultima_atualizacao, :is_delivered, :created_at)
		ON CONFLICT (sales_order) DO UPDATE SET
			erp_order = EXCLUDED.erp_order,
			cliente = EXCLUDED.cliente,
			produtos = EXCLUDED.produtos,
			valor_total = EXCLUDED.valor_total,
			status_atual = EXCLUDED.status_atual,
			ultima_localizacao = EXCLUDED.ultima_localizacao,
			carrier = EXCLUDED.carrier,
			tracking_numbers = EXCLUDED.tracking_numbers,
			data_ordem = EXCLUDED.data_ordem,
			data_envio = EXCLUDED.data_envio,
			data_ultima_atualizacao = EXCLUDED.data_ultima_atualizacao,
			is_delivered = EXCLUDED.is_delivered`, shipment)
	if err != nil {
		return fmt.Errorf("failed to upsert shipment %s: %w", shipment.SalesOrder, err)
	}

	return nil
}

// UpdateStatus sets the current status of a shipment. An empty location keeps
// the stored one.
func (r *PostgresShipmentRepository) UpdateStatus(ctx context.Context, salesOrder, status, location string, delivered bool, when time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE shipments
		SET status_atual = $1,
		    ultima_localizacao = COALESCE(NULLIF($2, ''), ultima_localizacao),
		    is_delivered = $3,
		    data_ultima_atualizacao = $4
		WHERE sales_order = $5`,
		status, location, delivered, when, salesOrder)
	if err != nil {
		return fmt.Errorf("failed to update shipment %s: %w", salesOrder, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for %s: %w", salesOrder, err)
	}
	if rows == 0 {
		return domain.ErrShipmentNotFound
	}

	return nil
}

// AppendHistory adds one event to the shipment's tracking history.
func (r *PostgresShipmentRepository) AppendHistory(ctx context.Context, event domain.HistoryEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO shipment_history (id, sales_order, status, localizacao, descricao, data_evento)
		VALUES (:id, :sales_order, :status, :localizacao, :descricao, :data_evento)`, event)
	if err != nil {
		return fmt.Errorf("failed to append history for %s: %w", event.SalesOrder, err)
	}

	return nil
}

// Delete removes the given sales orders and their history.
func (r *PostgresShipmentRepository) Delete(ctx context.Context, salesOrders []string) (int64, error) {
	if len(salesOrders) == 0 {
		return 0, nil
	}

	historyQuery, historyArgs, err := sqlx.In("DELETE FROM shipment_history WHERE sales_order IN (?)", salesOrders)
	if err != nil {
		return 0, fmt.Errorf("failed to build history delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(historyQuery), historyArgs...); err != nil {
		return 0, fmt.Errorf("failed to delete shipment history: %w", err)
	}

	query, args, err := sqlx.In("DELETE FROM shipments WHERE sales_order IN (?)", salesOrders)
	if err != nil {
		return 0, fmt.Errorf("failed to build shipment delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shipments: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	return deleted, nil
}
