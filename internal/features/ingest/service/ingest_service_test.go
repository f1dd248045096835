package service

import (
	"context"
	"testing"
	"time"

	"logistics-tracker/internal/features/ingest/domain"
	shipments "logistics-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockShipmentRepository is a mock implementation of the shipments repository port
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) List(ctx context.Context, filter shipments.ListFilter) ([]shipments.Shipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipments.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Get(ctx context.Context, salesOrder string) (*shipments.Shipment, error) {
	args := m.Called(ctx, salesOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipments.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Upsert(ctx context.Context, shipment shipments.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) UpdateStatus(ctx context.Context, salesOrder, status, location string, delivered bool, when time.Time) error {
	args := m.Called(ctx, salesOrder, status, location, delivered, when)
	return args.Error(0)
}

func (m *MockShipmentRepository) AppendHistory(ctx context.Context, event shipments.HistoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, salesOrders []string) (int64, error) {
	args := m.Called(ctx, salesOrders)
	return args.Get(0).(int64), args.Error(1)
}

func validShipmentPayload() domain.ShipmentPayload {
	updated := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	return domain.ShipmentPayload{
		SalesOrder:            "SO-1001",
		ERPOrder:              "ERP-77",
		Cliente:               "ACME Corp",
		Produtos:              "Reagente X (2un)",
		ValorTotal:            1250.50,
		DataUltimaAtualizacao: &updated,
	}
}

func TestIngestService_IngestShipment(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("UpsertsAndAppendsHistory", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)
		svc.now = func() time.Time { return now }

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(s shipments.Shipment) bool {
			return s.SalesOrder == "SO-1001" && s.StatusAtual == "Enviado" && !s.IsDelivered
		})).Return(nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.MatchedBy(func(ev shipments.HistoryEvent) bool {
			return ev.SalesOrder == "SO-1001" && ev.Status == "Enviado" && ev.ID != ""
		})).Return(nil).Once()

		shipment, err := svc.IngestShipment(ctx, validShipmentPayload())
		require.NoError(t, err)
		assert.Equal(t, "SO-1001", shipment.SalesOrder)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DeliveredStatusSetsFlag", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)
		svc.now = func() time.Time { return now }

		payload := validShipmentPayload()
		payload.StatusAtual = "Delivered"

		mockRepo.On("Upsert", ctx, mock.MatchedBy(func(s shipments.Shipment) bool {
			return s.IsDelivered
		})).Return(nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.AnythingOfType("domain.HistoryEvent")).Return(nil).Once()

		_, err := svc.IngestShipment(ctx, payload)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)

		payload := validShipmentPayload()
		payload.Cliente = ""

		_, err := svc.IngestShipment(ctx, payload)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
		mockRepo.AssertExpectations(t)
	})
}

func TestIngestService_IngestTracking(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("AppendsEventAndRefreshesStatus", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)
		svc.now = func() time.Time { return now }

		when := time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC)
		stored := &shipments.Shipment{SalesOrder: "SO-1001", StatusAtual: "Enviado"}
		mockRepo.On("Get", ctx, "SO-1001").Return(stored, nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.MatchedBy(func(ev shipments.HistoryEvent) bool {
			return ev.Status == "No Armazém" && ev.DataEvento.Equal(when)
		})).Return(nil).Once()
		mockRepo.On("UpdateStatus", ctx, "SO-1001", "No Armazém", "Miami, FL", false, now).Return(nil).Once()

		err := svc.IngestTracking(ctx, domain.TrackingPayload{
			SalesOrder:  "SO-1001",
			Status:      "No Armazém",
			Localizacao: "Miami, FL",
			DataEvento:  &when,
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DeliveredMarksShipment", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)
		svc.now = func() time.Time { return now }

		stored := &shipments.Shipment{SalesOrder: "SO-1001", StatusAtual: "Em Trânsito"}
		mockRepo.On("Get", ctx, "SO-1001").Return(stored, nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.AnythingOfType("domain.HistoryEvent")).Return(nil).Once()
		mockRepo.On("UpdateStatus", ctx, "SO-1001", "Entregue", "", true, now).Return(nil).Once()

		err := svc.IngestTracking(ctx, domain.TrackingPayload{
			SalesOrder: "SO-1001",
			Status:     "Entregue",
		})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownSalesOrder", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)

		mockRepo.On("Get", ctx, "SO-9999").Return(nil, shipments.ErrShipmentNotFound).Once()

		err := svc.IngestTracking(ctx, domain.TrackingPayload{
			SalesOrder: "SO-9999",
			Status:     "Entregue",
		})
		assert.ErrorIs(t, err, shipments.ErrShipmentNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		mockRepo := new(MockShipmentRepository)
		svc := NewIngestService(mockRepo, nil)

		err := svc.IngestTracking(ctx, domain.TrackingPayload{SalesOrder: "SO-1001"})
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
		mockRepo.AssertExpectations(t)
	})
}
