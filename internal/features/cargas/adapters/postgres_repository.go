package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logistics-tracker/internal/features/cargas/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresCargaRepository implements ports.CargaRepository over the cargas,
// carga_historico and carga_sales_orders tables.
type PostgresCargaRepository struct {
	db *sqlx.DB
}

// NewPostgresCargaRepository creates a new PostgresCargaRepository.
func NewPostgresCargaRepository(db *sqlx.DB) *PostgresCargaRepository {
	return &PostgresCargaRepository{db: db}
}

const cargaColumns = `numero_carga, COALESCE(status, '') AS status,
	COALESCE(temperatura, '') AS temperatura,
	COALESCE(transportadora, '') AS transportadora,
	COALESCE(origem, '') AS origem, COALESCE(destino, '') AS destino,
	data_embarque, data_chegada_prevista, data_chegada_real,
	data_desembaraco, data_entrega, created_at, updated_at`

// List returns all cargas, most recently updated first.
func (r *PostgresCargaRepository) List(ctx context.Context) ([]domain.Carga, error) {
	cargas := []domain.Carga{}
	query := fmt.Sprintf("SELECT %s FROM cargas ORDER BY updated_at DESC", cargaColumns)
	if err := r.db.SelectContext(ctx, &cargas, query); err != nil {
		return nil, fmt.Errorf("failed to list cargas: %w", err)
	}

	return cargas, nil
}

// Get returns the carga for the number, with its linked sales orders.
func (r *PostgresCargaRepository) Get(ctx context.Context, numeroCarga string) (*domain.Carga, error) {
	var carga domain.Carga
	query := fmt.Sprintf("SELECT %s FROM cargas WHERE numero_carga = $1", cargaColumns)
	err := r.db.GetContext(ctx, &carga, query, numeroCarga)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCargaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get carga %s: %w", numeroCarga, err)
	}

	salesOrders, err := r.LinkedSalesOrders(ctx, numeroCarga)
	if err != nil {
		return nil, err
	}
	carga.SalesOrders = salesOrders

	return &carga, nil
}

// Save inserts or updates a carga row.
func (r *PostgresCargaRepository) Save(ctx context.Context, carga domain.Carga) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cargas (numero_carga, status, temperatura, transportadora, origem, destino,
			data_embarque, data_chegada_prevista, data_chegada_real, data_desembaraco, data_entrega,
			created_at, updated_at)
		VALUES (:numero_carga, :status, :temperatura, :transportadora, :origem, :destino,
			:data_embarque, :data_chegada_prevista, :data_chegada_real, :data_desembaraco, :data_entrega,
			:created_at, :updated_at)
		ON CONFLICT (numero_carga) DO UPDATE SET
			status = EXCLUDED.status,
			temperatura = EXCLUDED.temperatura,
			transportadora = EXCLUDED.transportadora,
			origem = EXCLUDED.origem,
			destino = EXCLUDED.destino,
			data_embarque = EXCLUDED.data_embarque,
			data_chegada_prevista = EXCLUDED.data_chegada_prevista,
			data_chegada_real = EXCLUDED.data_chegada_real,
			data_desembaraco = EXCLUDED.data_desembaraco,
			data_entrega = EXCLUDED.data_entrega,
			updated_at = EXCLUDED.updated_at`, carga)
	if err != nil {
		return fmt.Errorf("failed to save carga %s: %w", carga.NumeroCarga, err)
	}

	return nil
}

// AppendHistory adds one event to the carga's history.
func (r *PostgresCargaRepository) AppendHistory(ctx context.Context, event domain.CargaEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO carga_historico (id, carga_id, status, localizacao, descricao, data_evento)
		VALUES (:id, :carga_id, :status, :localizacao, :descricao, :data_evento)`, event)
	if err != nil {
		return fmt.Errorf("failed to append carga history for %s: %w", event.CargaID, err)
	}

	return nil
}

// LinkSalesOrders associates sales orders with the carga, ignoring duplicates.
func (r *PostgresCargaRepository) LinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error {
	for _, so := range salesOrders {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO carga_sales_orders (carga_id, sales_order)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, numeroCarga, so)
		if err != nil {
			return fmt.Errorf("failed to link %s to carga %s: %w", so, numeroCarga, err)
		}
	}

	return nil
}

// UnlinkSalesOrders removes the association between the carga and the given
// sales orders. Already-unlinked sales orders are a no-op.
func (r *PostgresCargaRepository) UnlinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error {
	query, args, err := sqlx.In(`
		DELETE FROM carga_sales_orders
		WHERE carga_id = ? AND sales_order IN (?)`, numeroCarga, salesOrders)
	if err != nil {
		return fmt.Errorf("failed to build unlink query for carga %s: %w", numeroCarga, err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to unlink sales orders from carga %s: %w", numeroCarga, err)
	}

	return nil
}

// LinkedSalesOrders returns the sales orders associated with the carga.
func (r *PostgresCargaRepository) LinkedSalesOrders(ctx context.Context, numeroCarga string) ([]string, error) {
	salesOrders := []string{}
	err := r.db.SelectContext(ctx, &salesOrders, `
		SELECT sales_order FROM carga_sales_orders
		WHERE carga_id = $1
		ORDER BY sales_order`, numeroCarga)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders of carga %s: %w", numeroCarga, err)
	}

	return salesOrders, nil
}

// MarkLinkedDelivered flags every shipment linked to the carga as delivered.
func (r *PostgresCargaRepository) MarkLinkedDelivered(ctx context.Context, numeroCarga string, when time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE shipments
		SET status_atual = 'Entregue',
		    is_delivered = TRUE,
		    data_ultima_atualizacao = $1
		WHERE sales_order IN (
			SELECT sales_order FROM carga_sales_orders WHERE carga_id = $2
		)`, when, numeroCarga)
	if err != nil {
		return fmt.Errorf("failed to mark shipments of carga %s delivered: %w", numeroCarga, err)
	}

	return nil
}
