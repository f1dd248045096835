package domain

import (
	"errors"
	"time"

	tracking "logistics-tracker/internal/features/tracking/domain"

	"github.com/lib/pq"
)

// ErrShipmentNotFound is returned when no shipment exists for a sales order.
var ErrShipmentNotFound = errors.New("shipment not found")

// Shipment is one sales order as tracked end to end. JSON field names follow
// the upstream ERP exports, which are in Portuguese.
type Shipment struct {
	SalesOrder        string         `json:"sales_order" db:"sales_order"`
	ERPOrder          string         `json:"erp_order,omitempty" db:"erp_order"`
	Cliente           string         `json:"cliente" db:"cliente"`
	Produtos          string         `json:"produtos,omitempty" db:"produtos"`
	ValorTotal        float64        `json:"valor_total" db:"valor_total"`
	StatusAtual       string         `json:"status_atual" db:"status_atual"`
	UltimaLocalizacao string         `json:"ultima_localizacao,omitempty" db:"ultima_localizacao"`
	Carrier           string         `json:"carrier,omitempty" db:"carrier"`
	TrackingNumbers   pq.StringArray `json:"tracking_numbers" db:"tracking_numbers"`
	DataOrdem         *time.Time     `json:"data_ordem,omitempty" db:"data_ordem"`
	DataEnvio         *time.Time     `json:"data_envio,omitempty" db:"data_envio"`
	DataAtualizacao   *time.Time     `json:"data_ultima_atualizacao,omitempty" db:"data_ultima_atualizacao"`
	IsDelivered       bool           `json:"is_delivered" db:"is_delivered"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}

// ShipmentView is a shipment decorated with the derived tracking fields the
// dashboard listing needs.
type ShipmentView struct {
	Shipment
	StatusNormalizado tracking.Status     `json:"status_normalizado"`
	SLA               *tracking.SLAResult `json:"sla,omitempty"`
	Atrasado          bool                `json:"atrasado"`
}

// HistoryEvent is one entry of a shipment's tracking history.
type HistoryEvent struct {
	ID          string    `json:"id" db:"id"`
	SalesOrder  string    `json:"sales_order" db:"sales_order"`
	Status      string    `json:"status" db:"status"`
	Localizacao string    `json:"localizacao,omitempty" db:"localizacao"`
	Descricao   string    `json:"descricao,omitempty" db:"descricao"`
	DataEvento  time.Time `json:"data_evento" db:"data_evento"`
}

// ListFilter narrows shipment listings. Zero values mean no filtering.
type ListFilter struct {
	Cliente   string
	Status    string
	Delivered *bool
}

// Decorate builds the listing view for a shipment at the given instant.
func Decorate(s Shipment, now time.Time) ShipmentView {
	normalized := tracking.Normalize(s.StatusAtual)

	lastUpdate := s.CreatedAt
	if s.DataAtualizacao != nil && !s.DataAtualizacao.IsZero() {
		lastUpdate = *s.DataAtualizacao
	}

	return ShipmentView{
		Shipment:          s,
		StatusNormalizado: normalized,
		SLA:               tracking.ComputeSLA(normalized, lastUpdate, now, s.IsDelivered),
		Atrasado:          tracking.IsOverdueByDeliverySLA(s.DataEnvio, s.IsDelivered, now),
	}
}
