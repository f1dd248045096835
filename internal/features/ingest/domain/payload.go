package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	shipments "logistics-tracker/internal/features/shipments/domain"

	"github.com/lib/pq"
)

// ErrInvalidPayload wraps every validation failure on an ingest payload.
var ErrInvalidPayload = errors.New("invalid payload")

var (
	strippedChars = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", "&", "")
	schemePattern = regexp.MustCompile(`(?i)(javascript|data):`)
)

// Sanitize cleans a free-text input from an untrusted push: trims, caps the
// length and strips markup characters and script URI schemes.
func Sanitize(input string, maxLength int) string {
	cleaned := strings.TrimSpace(input)
	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength])
	}
	cleaned = strippedChars.Replace(cleaned)
	return schemePattern.ReplaceAllString(cleaned, "")
}

// ValidDate accepts dates within a sane range; upstream exports occasionally
// carry epoch zeroes or year-9999 placeholders.
func ValidDate(t time.Time) bool {
	return t.Year() > 1900 && t.Year() < 2100
}

// ShipmentPayload is an inbound shipment push.
type ShipmentPayload struct {
	SalesOrder            string     `json:"sales_order"`
	ERPOrder              string     `json:"erp_order"`
	Cliente               string     `json:"cliente"`
	Produtos              string     `json:"produtos"`
	ValorTotal            float64    `json:"valor_total"`
	StatusAtual           string     `json:"status_atual"`
	UltimaLocalizacao     string     `json:"ultima_localizacao"`
	Carrier               string     `json:"carrier"`
	TrackingNumbers       []string   `json:"tracking_numbers"`
	DataOrdem             *time.Time `json:"data_ordem"`
	DataEnvio             *time.Time `json:"data_envio"`
	DataUltimaAtualizacao *time.Time `json:"data_ultima_atualizacao"`
}

// Validate checks required fields and date sanity.
func (p *ShipmentPayload) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"sales_order", p.SalesOrder},
		{"erp_order", p.ERPOrder},
		{"cliente", p.Cliente},
		{"produtos", p.Produtos},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: missing required field %s", ErrInvalidPayload, field.name)
		}
	}

	if p.ValorTotal < 0 {
		return fmt.Errorf("%w: valor_total must not be negative", ErrInvalidPayload)
	}

	if p.DataUltimaAtualizacao == nil || !ValidDate(*p.DataUltimaAtualizacao) {
		return fmt.Errorf("%w: invalid data_ultima_atualizacao", ErrInvalidPayload)
	}

	return nil
}

// ToShipment converts the payload into a sanitized shipment record. Optional
// fields get the upstream defaults.
func (p *ShipmentPayload) ToShipment(now time.Time) shipments.Shipment {
	status := Sanitize(p.StatusAtual, 100)
	if status == "" {
		status = "Enviado"
	}
	location := Sanitize(p.UltimaLocalizacao, 200)
	if location == "" {
		location = "Em Trânsito"
	}
	carrier := Sanitize(p.Carrier, 50)
	if carrier == "" {
		carrier = "FedEx"
	}

	trackingNumbers := make(pq.StringArray, 0, len(p.TrackingNumbers))
	for _, tn := range p.TrackingNumbers {
		if cleaned := Sanitize(tn, 100); cleaned != "" {
			trackingNumbers = append(trackingNumbers, cleaned)
		}
	}

	shipment := shipments.Shipment{
		SalesOrder:        Sanitize(p.SalesOrder, 100),
		ERPOrder:          Sanitize(p.ERPOrder, 100),
		Cliente:           Sanitize(p.Cliente, 200),
		Produtos:          Sanitize(p.Produtos, 1000),
		ValorTotal:        p.ValorTotal,
		StatusAtual:       status,
		UltimaLocalizacao: location,
		Carrier:           carrier,
		TrackingNumbers:   trackingNumbers,
		DataAtualizacao:   p.DataUltimaAtualizacao,
		CreatedAt:         now,
	}
	if p.DataOrdem != nil && ValidDate(*p.DataOrdem) {
		shipment.DataOrdem = p.DataOrdem
	}
	if p.DataEnvio != nil && ValidDate(*p.DataEnvio) {
		shipment.DataEnvio = p.DataEnvio
	}

	return shipment
}

// TrackingPayload is an inbound tracking event push.
type TrackingPayload struct {
	SalesOrder  string     `json:"sales_order"`
	Status      string     `json:"status"`
	Localizacao string     `json:"localizacao"`
	Descricao   string     `json:"descricao"`
	DataEvento  *time.Time `json:"data_evento"`
}

// Validate checks required fields and date sanity.
func (p *TrackingPayload) Validate() error {
	if strings.TrimSpace(p.SalesOrder) == "" {
		return fmt.Errorf("%w: missing required field sales_order", ErrInvalidPayload)
	}
	if strings.TrimSpace(p.Status) == "" {
		return fmt.Errorf("%w: missing required field status", ErrInvalidPayload)
	}
	if p.DataEvento != nil && !ValidDate(*p.DataEvento) {
		return fmt.Errorf("%w: invalid data_evento", ErrInvalidPayload)
	}
	return nil
}
