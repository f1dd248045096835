package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMapUpstreamStatus verifies the forwarder vocabulary translation.
func TestMapUpstreamStatus(t *testing.T) {
	tests := []struct {
		upstream string
		want     string
	}{
		{"Aguardando Pré-Alerta", "No Armazém"},
		{"Aguardando Embarque", "Embarque Agendado"},
		{"Em Consolidação", "Em Consolidação"},
		{"Em Trânsito Internacional", "Em Trânsito"},
		{"Em Liberação", "Chegada no Brasil"},
		{"Liberada", "Desembaraçado"},
		{"Em Expedição", "Desembaraçado"},
		{"Em Rota de Entrega", "Em Trânsito"},
		{"Entregue", "Entregue"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapUpstreamStatus(tt.upstream, "No Armazém"), "upstream %q", tt.upstream)
	}
}

// TestMapUpstreamStatus_UnknownKeepsStored verifies unknown and empty
// upstream statuses keep the stored one.
func TestMapUpstreamStatus_UnknownKeepsStored(t *testing.T) {
	assert.Equal(t, "Em Trânsito", MapUpstreamStatus("Status Inventado", "Em Trânsito"))
	assert.Equal(t, "Em Trânsito", MapUpstreamStatus("", "Em Trânsito"))
}

// TestMerge verifies provided fields win and omitted fields keep stored values.
func TestMerge(t *testing.T) {
	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	embarque := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	stored := Carga{
		NumeroCarga:    "CRG-42",
		Status:         "Embarque Agendado",
		Transportadora: "LATAM Cargo",
		Origem:         "MIA",
		Destino:        "GRU",
	}

	merged := Merge(stored, Update{
		Status:       "Em Trânsito Internacional",
		Temperatura:  "2-8°C",
		DataEmbarque: &embarque,
	}, now)

	assert.Equal(t, "Em Trânsito", merged.Status)
	assert.Equal(t, "2-8°C", merged.Temperatura)
	assert.Equal(t, &embarque, merged.DataEmbarque)
	assert.Equal(t, now, merged.UpdatedAt)
	// untouched fields survive
	assert.Equal(t, "LATAM Cargo", merged.Transportadora)
	assert.Equal(t, "MIA", merged.Origem)
	assert.Equal(t, "GRU", merged.Destino)
}

// TestMerge_UnknownStatusKeepsStored verifies a merge never clears the status.
func TestMerge_UnknownStatusKeepsStored(t *testing.T) {
	now := time.Now()
	stored := Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito"}

	merged := Merge(stored, Update{Status: "???"}, now)
	assert.Equal(t, "Em Trânsito", merged.Status)
}
