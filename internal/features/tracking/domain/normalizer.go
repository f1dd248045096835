package domain

import (
	"strings"

	"logistics-tracker/internal/core/logger"
	"logistics-tracker/internal/core/metrics"

	"go.uber.org/zap"
)

// Status is a canonical shipment status as displayed across the system.
type Status string

const (
	// StatusProduction is the default status for new shipments.
	StatusProduction Status = "Em Produção"
	// StatusWarehouse indicates arrival at the consolidation warehouse.
	StatusWarehouse Status = "No Armazém"
	// StatusCustoms indicates the shipment is in customs clearance.
	StatusCustoms Status = "Em Desembaraço"
	// StatusTransit indicates the shipment is moving between facilities.
	StatusTransit Status = "Em Trânsito"
	// StatusDelivered is the terminal status.
	StatusDelivered Status = "Entregue"
	// StatusConsolidation indicates the shipment is being grouped into a cargo.
	StatusConsolidation Status = "Em Consolidação"
	// StatusAwaitingDeparture indicates the cargo is waiting for embarkation.
	StatusAwaitingDeparture Status = "Aguardando Embarque"
)

// statusSynonyms maps upstream status variations (carrier phrasing, English
// and Portuguese spellings) to canonical statuses. The table is static; it is
// never mutated at runtime.
var statusSynonyms = map[string]Status{
	// FedEx status variations
	"Saiu da Localização FedEx":           StatusTransit,
	"Departed FedEx location":             StatusTransit,
	"At FedEx destination facility":       StatusTransit,
	"Na Instalação FedEx de Destino":      StatusTransit,
	"On FedEx vehicle for delivery":       StatusTransit,
	"Em Veículo FedEx para Entrega":       StatusTransit,
	"In transit":                          StatusTransit,
	"Left FedEx origin facility":          StatusTransit,
	"Saiu da Instalação FedEx de Origem":  StatusTransit,
	"Arrived at FedEx location":           StatusTransit,
	"Chegou na Localização FedEx":         StatusTransit,
	"At local FedEx facility":             StatusTransit,
	"Na Instalação FedEx Local":           StatusTransit,

	// Shipped -> in transit (left production)
	"Enviado": StatusTransit,
	"Shipped": StatusTransit,

	// Customs clearance variations
	"Desembaraço":                     StatusCustoms,
	"In clearance":                    StatusCustoms,
	"Customs cleared":                 StatusCustoms,
	"Liberado pela Alfândega":         StatusCustoms,
	"Package available for clearance": StatusCustoms,
	"Pacote Disponível para Desembaraço": StatusCustoms,

	// Warehouse variations
	"No Armazem":   StatusWarehouse,
	"Warehouse":    StatusWarehouse,
	"At warehouse": StatusWarehouse,

	// Production variations
	"Em Producao":   StatusProduction,
	"In Production": StatusProduction,
	"Production":    StatusProduction,

	// Delivered variations
	"Delivered": StatusDelivered,

	// Consolidation
	"Em Consolidação": StatusConsolidation,
	"Consolidation":   StatusConsolidation,

	// Awaiting departure
	"Aguardando Embarque":  StatusAwaitingDeparture,
	"Waiting for shipping": StatusAwaitingDeparture,
}

// statusKeywordGroups is the fallback keyword matching, evaluated in this
// fixed order. A string containing keywords from two groups resolves to the
// group checked first.
var statusKeywordGroups = []struct {
	status   Status
	keywords []string
}{
	{StatusProduction, []string{"produção", "producao", "production"}},
	{StatusWarehouse, []string{"armazém", "armazem", "warehouse", "miami"}},
	{StatusCustoms, []string{"desembaraço", "desembaraco", "clearance", "customs", "alfândega"}},
	{StatusTransit, []string{"trânsito", "transito", "transit", "fedex"}},
	{StatusDelivered, []string{"entregue", "delivered"}},
	{StatusConsolidation, []string{"consolidação", "consolidacao"}},
	{StatusAwaitingDeparture, []string{"embarque"}},
}

// Normalize maps a free-text upstream status onto a canonical status.
// Lookup order: exact synonym match, case-insensitive synonym match, keyword
// groups. Empty input defaults to StatusProduction. Unrecognized input is
// returned trimmed and unchanged, with a diagnostic warning; downstream
// consumers must treat such statuses as having no SLA.
func Normalize(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StatusProduction
	}

	if status, ok := statusSynonyms[trimmed]; ok {
		return status
	}

	lower := strings.ToLower(trimmed)
	for key, status := range statusSynonyms {
		if strings.ToLower(key) == lower {
			return status
		}
	}

	for _, group := range statusKeywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.status
			}
		}
	}

	logger.Named("normalizer").Warn("Unrecognized status", zap.String("status", raw))
	metrics.UnrecognizedStatusTotal.Inc()

	return Status(trimmed)
}

// IsCriticalBottleneck reports whether a status belongs to one of the three
// stages the operation watches most closely.
func IsCriticalBottleneck(status string) bool {
	switch Normalize(status) {
	case StatusProduction, StatusWarehouse, StatusCustoms:
		return true
	}
	return false
}
