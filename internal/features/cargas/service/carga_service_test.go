package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"logistics-tracker/internal/features/cargas/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCargaRepository is a mock implementation of ports.CargaRepository
type MockCargaRepository struct {
	mock.Mock
}

func (m *MockCargaRepository) List(ctx context.Context) ([]domain.Carga, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Carga), args.Error(1)
}

func (m *MockCargaRepository) Get(ctx context.Context, numeroCarga string) (*domain.Carga, error) {
	args := m.Called(ctx, numeroCarga)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Carga), args.Error(1)
}

func (m *MockCargaRepository) Save(ctx context.Context, carga domain.Carga) error {
	args := m.Called(ctx, carga)
	return args.Error(0)
}

func (m *MockCargaRepository) AppendHistory(ctx context.Context, event domain.CargaEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCargaRepository) LinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error {
	args := m.Called(ctx, numeroCarga, salesOrders)
	return args.Error(0)
}

func (m *MockCargaRepository) UnlinkSalesOrders(ctx context.Context, numeroCarga string, salesOrders []string) error {
	args := m.Called(ctx, numeroCarga, salesOrders)
	return args.Error(0)
}

func (m *MockCargaRepository) LinkedSalesOrders(ctx context.Context, numeroCarga string) ([]string, error) {
	args := m.Called(ctx, numeroCarga)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCargaRepository) MarkLinkedDelivered(ctx context.Context, numeroCarga string, when time.Time) error {
	args := m.Called(ctx, numeroCarga, when)
	return args.Error(0)
}

func TestCargaService_Upsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("CreatesMissingCarga", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)
		svc.now = func() time.Time { return now }

		mockRepo.On("Get", ctx, "CRG-42").Return(nil, domain.ErrCargaNotFound).Once()
		mockRepo.On("Save", ctx, mock.MatchedBy(func(c domain.Carga) bool {
			return c.NumeroCarga == "CRG-42" && c.Status == "Embarque Agendado"
		})).Return(nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.MatchedBy(func(ev domain.CargaEvent) bool {
			return ev.CargaID == "CRG-42" && ev.Status == "Embarque Agendado" && ev.ID != ""
		})).Return(nil).Once()
		created := &domain.Carga{NumeroCarga: "CRG-42", Status: "Embarque Agendado"}
		mockRepo.On("Get", ctx, "CRG-42").Return(created, nil).Once()

		carga, err := svc.Upsert(ctx, "CRG-42", domain.Update{Status: "Aguardando Embarque"})
		require.NoError(t, err)
		assert.Equal(t, "Embarque Agendado", carga.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StatusChangeAppendsHistory", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)
		svc.now = func() time.Time { return now }

		stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Embarque Agendado", CreatedAt: now.AddDate(0, 0, -5)}
		mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Twice()
		mockRepo.On("Save", ctx, mock.MatchedBy(func(c domain.Carga) bool {
			return c.Status == "Em Trânsito"
		})).Return(nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.MatchedBy(func(ev domain.CargaEvent) bool {
			return ev.Status == "Em Trânsito"
		})).Return(nil).Once()

		_, err := svc.Upsert(ctx, "CRG-42", domain.Update{Status: "Em Trânsito Internacional"})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnchangedStatusSkipsHistory", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)
		svc.now = func() time.Time { return now }

		stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito", CreatedAt: now.AddDate(0, 0, -5)}
		mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Twice()
		mockRepo.On("Save", ctx, mock.AnythingOfType("domain.Carga")).Return(nil).Once()

		_, err := svc.Upsert(ctx, "CRG-42", domain.Update{Transportadora: "LATAM Cargo"})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DeliveredMarksLinkedShipments", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)
		svc.now = func() time.Time { return now }

		stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito", CreatedAt: now.AddDate(0, 0, -5)}
		mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Twice()
		mockRepo.On("Save", ctx, mock.AnythingOfType("domain.Carga")).Return(nil).Once()
		mockRepo.On("AppendHistory", ctx, mock.AnythingOfType("domain.CargaEvent")).Return(nil).Once()
		mockRepo.On("MarkLinkedDelivered", ctx, "CRG-42", now).Return(nil).Once()

		_, err := svc.Upsert(ctx, "CRG-42", domain.Update{Status: "Entregue"})
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SaveError", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)

		stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito"}
		mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Once()
		mockRepo.On("Save", ctx, mock.AnythingOfType("domain.Carga")).Return(errors.New("db error")).Once()

		_, err := svc.Upsert(ctx, "CRG-42", domain.Update{})
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCargaService_LinkSalesOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)

		stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito"}
		mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Twice()
		mockRepo.On("LinkSalesOrders", ctx, "CRG-42", []string{"SO-1001", "SO-1002"}).Return(nil).Once()

		carga, err := svc.LinkSalesOrders(ctx, "CRG-42", []string{"SO-1001", "SO-1002"})
		require.NoError(t, err)
		assert.Equal(t, "CRG-42", carga.NumeroCarga)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockCargaRepository)
		svc := NewCargaService(mockRepo)

		mockRepo.On("Get", ctx, "CRG-99").Return(nil, domain.ErrCargaNotFound).Once()

		_, err := svc.LinkSalesOrders(ctx, "CRG-99", []string{"SO-1001"})
		assert.ErrorIs(t, err, domain.ErrCargaNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCargaService_UnlinkSalesOrders(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockCargaRepository)
	svc := NewCargaService(mockRepo)

	stored := &domain.Carga{NumeroCarga: "CRG-42", Status: "Em Trânsito", SalesOrders: []string{"SO-1002"}}
	mockRepo.On("Get", ctx, "CRG-42").Return(stored, nil).Twice()
	mockRepo.On("UnlinkSalesOrders", ctx, "CRG-42", []string{"SO-1001"}).Return(nil).Once()

	carga, err := svc.UnlinkSalesOrders(ctx, "CRG-42", []string{"SO-1001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SO-1002"}, []string(carga.SalesOrders))
	mockRepo.AssertExpectations(t)
}
