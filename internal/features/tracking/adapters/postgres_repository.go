package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logistics-tracker/internal/features/tracking/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresHistoryRepository implements ports.HistoryRepository over the
// shipments, shipment_history and carga_historico tables.
type PostgresHistoryRepository struct {
	db *sqlx.DB
}

// NewPostgresHistoryRepository creates a new PostgresHistoryRepository.
func NewPostgresHistoryRepository(db *sqlx.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

type recordRow struct {
	SalesOrder string       `db:"sales_order"`
	Status     string       `db:"status_atual"`
	ShipDate   sql.NullTime `db:"data_envio"`
	CreatedAt  sql.NullTime `db:"created_at"`
	LastUpdate sql.NullTime `db:"data_ultima_atualizacao"`
	Delivered  bool         `db:"is_delivered"`
}

type eventRow struct {
	Status      string         `db:"status"`
	Location    sql.NullString `db:"localizacao"`
	Description sql.NullString `db:"descricao"`
	Timestamp   sql.NullTime   `db:"data_evento"`
}

// Record returns the shipment record for the sales order.
func (r *PostgresHistoryRepository) Record(ctx context.Context, salesOrder string) (*domain.TrackingRecord, error) {
	var row recordRow
	err := r.db.GetContext(ctx, &row, `
		SELECT sales_order, status_atual, data_envio, created_at, data_ultima_atualizacao, is_delivered
		FROM shipments
		WHERE sales_order = $1`, salesOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment %s: %w", salesOrder, err)
	}

	record := &domain.TrackingRecord{
		SalesOrder: row.SalesOrder,
		Status:     row.Status,
		Delivered:  row.Delivered,
	}
	if row.ShipDate.Valid {
		record.ShipDate = timePtr(row.ShipDate.Time)
	}
	if row.CreatedAt.Valid {
		record.CreatedAt = timePtr(row.CreatedAt.Time)
	}
	if row.LastUpdate.Valid {
		record.LastUpdate = row.LastUpdate.Time
	}

	return record, nil
}

// ShipmentEvents returns the per-shipment history, oldest first.
func (r *PostgresHistoryRepository) ShipmentEvents(ctx context.Context, salesOrder string) ([]domain.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status, localizacao, descricao, data_evento
		FROM shipment_history
		WHERE sales_order = $1
		ORDER BY data_evento ASC`, salesOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment history for %s: %w", salesOrder, err)
	}

	return toEvents(rows, domain.EventSourceShipment), nil
}

// CargoEvents returns the history of every cargo linked to the sales order.
func (r *PostgresHistoryRepository) CargoEvents(ctx context.Context, salesOrder string) ([]domain.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT ch.status, ch.localizacao, ch.descricao, ch.data_evento
		FROM carga_historico ch
		JOIN carga_sales_orders cso ON cso.carga_id = ch.carga_id
		WHERE cso.sales_order = $1
		ORDER BY ch.data_evento ASC`, salesOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to query cargo history for %s: %w", salesOrder, err)
	}

	return toEvents(rows, domain.EventSourceCargo), nil
}

func toEvents(rows []eventRow, source domain.EventSource) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		ev := domain.Event{
			Status:      row.Status,
			Location:    row.Location.String,
			Description: row.Description.String,
			Source:      source,
		}
		if row.Timestamp.Valid {
			ev.Timestamp = row.Timestamp.Time
		}
		events = append(events, ev)
	}
	return events
}

func timePtr(t time.Time) *time.Time {
	return &t
}
