package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalize_ExactSynonyms verifies every synonym table entry resolves to
// its canonical status.
func TestNormalize_ExactSynonyms(t *testing.T) {
	for raw, want := range statusSynonyms {
		assert.Equal(t, want, Normalize(raw), "synonym %q", raw)
	}
}

// TestNormalize_EmptyDefaultsToProduction verifies the documented fallback.
func TestNormalize_EmptyDefaultsToProduction(t *testing.T) {
	assert.Equal(t, StatusProduction, Normalize(""))
	assert.Equal(t, StatusProduction, Normalize("   "))
}

// TestNormalize_CaseInsensitive verifies synonym matching ignores case.
func TestNormalize_CaseInsensitive(t *testing.T) {
	assert.Equal(t, StatusTransit, Normalize("SHIPPED"))
	assert.Equal(t, StatusDelivered, Normalize("delivered"))
	assert.Equal(t, StatusWarehouse, Normalize("at WAREHOUSE"))
}

// TestNormalize_Keywords verifies the keyword fallback groups.
func TestNormalize_Keywords(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"Produto em produção na fábrica", StatusProduction},
		{"Recebido no armazém de Miami", StatusWarehouse},
		{"Package available for clearance", StatusCustoms},
		{"Aguardando liberação na alfândega", StatusCustoms},
		{"Saiu da base FedEx", StatusTransit},
		{"Pedido entregue ao destinatário", StatusDelivered},
		{"Carga em consolidação", StatusConsolidation},
		{"Aguardando embarque no terminal", StatusAwaitingDeparture},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.raw), "raw %q", tt.raw)
	}
}

// TestNormalize_KeywordPriority verifies that a string matching two groups
// resolves to the group checked first.
func TestNormalize_KeywordPriority(t *testing.T) {
	// warehouse is checked before customs
	assert.Equal(t, StatusWarehouse, Normalize("no armazém aguardando customs"))
	// customs is checked before transit
	assert.Equal(t, StatusCustoms, Normalize("in transit to customs"))
}

// TestNormalize_UnrecognizedPassthrough verifies unknown statuses are
// returned trimmed and unchanged.
func TestNormalize_UnrecognizedPassthrough(t *testing.T) {
	assert.Equal(t, Status("Extraviado"), Normalize("  Extraviado  "))
}

// TestIsCriticalBottleneck verifies the three watched stages are flagged.
func TestIsCriticalBottleneck(t *testing.T) {
	assert.True(t, IsCriticalBottleneck("Em Produção"))
	assert.True(t, IsCriticalBottleneck("At warehouse"))
	assert.True(t, IsCriticalBottleneck("Package available for clearance"))
	assert.False(t, IsCriticalBottleneck("Em Trânsito"))
	assert.False(t, IsCriticalBottleneck("Entregue"))
}
