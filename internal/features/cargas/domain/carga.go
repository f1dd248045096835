package domain

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// ErrCargaNotFound is returned when no carga exists for a carga number.
var ErrCargaNotFound = errors.New("carga not found")

// DefaultStatus is the status a newly created carga starts in.
const DefaultStatus = "No Armazém"

// Carga is a consolidated air cargo grouping several sales orders.
type Carga struct {
	NumeroCarga         string         `json:"numero_carga" db:"numero_carga"`
	Status              string         `json:"status" db:"status"`
	Temperatura         string         `json:"temperatura,omitempty" db:"temperatura"`
	Transportadora      string         `json:"transportadora,omitempty" db:"transportadora"`
	Origem              string         `json:"origem,omitempty" db:"origem"`
	Destino             string         `json:"destino,omitempty" db:"destino"`
	DataEmbarque        *time.Time     `json:"data_embarque,omitempty" db:"data_embarque"`
	DataChegadaPrevista *time.Time     `json:"data_chegada_prevista,omitempty" db:"data_chegada_prevista"`
	DataChegadaReal     *time.Time     `json:"data_chegada_real,omitempty" db:"data_chegada_real"`
	DataDesembaraco     *time.Time     `json:"data_desembaraco,omitempty" db:"data_desembaraco"`
	DataEntrega         *time.Time     `json:"data_entrega,omitempty" db:"data_entrega"`
	SalesOrders         pq.StringArray `json:"sales_orders" db:"-"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// CargaEvent is one entry of a carga's history.
type CargaEvent struct {
	ID          string    `json:"id" db:"id"`
	CargaID     string    `json:"carga_id" db:"carga_id"`
	Status      string    `json:"status" db:"status"`
	Localizacao string    `json:"localizacao,omitempty" db:"localizacao"`
	Descricao   string    `json:"descricao,omitempty" db:"descricao"`
	DataEvento  time.Time `json:"data_evento" db:"data_evento"`
}

// Update carries the fields an upstream push may set on a carga. Empty
// strings and nil dates mean "not provided" and keep the stored value.
type Update struct {
	Status              string     `json:"status_atual"`
	Temperatura         string     `json:"temperatura"`
	Transportadora      string     `json:"transportadora"`
	Origem              string     `json:"origem"`
	Destino             string     `json:"destino"`
	DataEmbarque        *time.Time `json:"data_embarque_real"`
	DataChegadaPrevista *time.Time `json:"data_previsao_chegada"`
	DataChegadaReal     *time.Time `json:"data_chegada_real"`
	DataDesembaraco     *time.Time `json:"data_desembaraco"`
	DataEntrega         *time.Time `json:"data_entrega"`
}

// upstreamStatusMap translates the freight forwarder's status vocabulary into
// the dashboard's. Unknown upstream statuses keep the stored status.
var upstreamStatusMap = map[string]string{
	"Aguardando Pré-Alerta":     "No Armazém",
	"Aguardando Embarque":       "Embarque Agendado",
	"Em Consolidação":           "Em Consolidação",
	"Em Trânsito Internacional": "Em Trânsito",
	"Em Liberação":              "Chegada no Brasil",
	"Liberada":                  "Desembaraçado",
	"Em Expedição":              "Desembaraçado",
	"Em Rota de Entrega":        "Em Trânsito",
	"Entregue":                  "Entregue",
}

// MapUpstreamStatus translates an upstream carga status, falling back to the
// stored status when the upstream value is empty or unknown.
func MapUpstreamStatus(upstream, stored string) string {
	if upstream == "" {
		return stored
	}
	if mapped, ok := upstreamStatusMap[upstream]; ok {
		return mapped
	}
	return stored
}

// Merge applies an update over a stored carga, field by field. Provided
// fields win; everything else keeps the stored value.
func Merge(stored Carga, update Update, now time.Time) Carga {
	merged := stored
	merged.Status = MapUpstreamStatus(update.Status, stored.Status)
	merged.UpdatedAt = now

	if update.Temperatura != "" {
		merged.Temperatura = update.Temperatura
	}
	if update.Transportadora != "" {
		merged.Transportadora = update.Transportadora
	}
	if update.Origem != "" {
		merged.Origem = update.Origem
	}
	if update.Destino != "" {
		merged.Destino = update.Destino
	}
	if update.DataEmbarque != nil {
		merged.DataEmbarque = update.DataEmbarque
	}
	if update.DataChegadaPrevista != nil {
		merged.DataChegadaPrevista = update.DataChegadaPrevista
	}
	if update.DataChegadaReal != nil {
		merged.DataChegadaReal = update.DataChegadaReal
	}
	if update.DataDesembaraco != nil {
		merged.DataDesembaraco = update.DataDesembaraco
	}
	if update.DataEntrega != nil {
		merged.DataEntrega = update.DataEntrega
	}

	return merged
}
