package domain

import "strings"

// Stage is one of the fixed, ordered lifecycle stages a shipment passes
// through, from production to final delivery.
type Stage int

const (
	// StageProduction indicates the product is being manufactured.
	StageProduction Stage = iota
	// StageCarrierPickup indicates the carrier is moving the shipment to the warehouse.
	StageCarrierPickup
	// StageWarehouse indicates the shipment arrived at the consolidation warehouse.
	StageWarehouse
	// StageDepartureScheduled indicates international departure has been booked.
	StageDepartureScheduled
	// StageDepartureConfirmed indicates the cargo has embarked.
	StageDepartureConfirmed
	// StageArrival indicates the cargo is in international transit or has arrived.
	StageArrival
	// StageCustoms indicates the cargo is in customs clearance.
	StageCustoms
	// StageDelivered indicates final delivery to the client.
	StageDelivered
)

// StageCount is the number of lifecycle stages; every timeline has exactly this many entries.
const StageCount = 8

var stageIDs = [StageCount]string{
	"em_producao",
	"fedex",
	"no_armazem",
	"embarque_agendado",
	"embarque_confirmado",
	"chegada_brasil",
	"desembaraco",
	"entregue",
}

var stageTitles = [StageCount]string{
	"Em Produção",
	"FedEx",
	"No Armazém",
	"Embarque Agendado",
	"Embarque Confirmado",
	"Chegada no Brasil",
	"Desembaraço",
	"Entregue",
}

// ID returns the stable identifier used in API payloads.
func (s Stage) ID() string {
	return stageIDs[s]
}

// Title returns the display title for the stage.
func (s Stage) Title() string {
	return stageTitles[s]
}

// Order returns the position of the stage in the lifecycle.
func (s Stage) Order() int {
	return int(s)
}

// stageKeywords maps status keywords to stages. Groups are evaluated in
// lifecycle order and the first match wins, mirroring how upstream statuses
// name the earliest stage they belong to. Departure phrasings are exact so
// "Embarque Confirmado" never matches the scheduled group.
var stageKeywords = []struct {
	stage    Stage
	keywords []string
}{
	{StageProduction, []string{"produção", "producao", "production"}},
	{StageCarrierPickup, []string{"enviado", "fedex", "picked up", "shipment information", "shipped"}},
	{StageWarehouse, []string{"armazém", "armazem", "miami", "warehouse"}},
	{StageDepartureScheduled, []string{"embarque agendado", "aguardando embarque"}},
	{StageDepartureConfirmed, []string{"embarque confirmado", "embarcado"}},
	{StageArrival, []string{"chegada", "brasil", "voo", "trânsito", "transito", "transit"}},
	{StageCustoms, []string{"desembaraç", "desembarac", "alfândega", "alfandega", "liberação", "liberacao", "clearance", "customs"}},
	{StageDelivered, []string{"entregue", "delivered", "destino"}},
}

// StageForStatus maps a free-text status onto its lifecycle stage.
// Unmatched statuses resolve to StageProduction.
func StageForStatus(status string) Stage {
	lower := strings.ToLower(strings.TrimSpace(status))

	for _, group := range stageKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.stage
			}
		}
	}

	return StageProduction
}
