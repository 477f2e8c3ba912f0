package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
	"github.com/PierrardFacundo/GestionFinanzasapp/internal/logger"
)

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, mv *movement.Movement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovementRepository) CreateMany(ctx context.Context, ms []*movement.Movement) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMovementRepository) List(ctx context.Context, filter movement.ListFilter) (*movement.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movement.Page), args.Error(1)
}

func (m *MockMovementRepository) Patch(ctx context.Context, id string, patch movement.Patch) (*movement.Movement, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movement.Movement), args.Error(1)
}

func (m *MockMovementRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovementRepository) DeleteByDateRange(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *movement.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var testLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func TestMovementService_CreateMovement(t *testing.T) {
	date := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		id := primitive.NewObjectID()
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *movement.Movement) bool {
			return m.Type == movement.TypeExpense && m.Amount == 1200 && m.Category == "super"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*movement.Movement).ID = id
		}).Return(nil).Once()

		ctx := logger.WithCorrelationID(context.Background(), "corr-1")
		mockPublisher.On("Publish", ctx, mock.MatchedBy(func(e *movement.Event) bool {
			return e.Type == movement.EventCreated &&
				e.MovementID == id.Hex() &&
				e.Movement != nil &&
				e.CorrelationID == "corr-1"
		})).Return(nil).Once()

		m, err := svc.CreateMovement(ctx, CreateMovementInput{
			Type:     movement.TypeExpense,
			Amount:   1200,
			Date:     date,
			Category: "  super ",
		})

		require.NoError(t, err)
		assert.Equal(t, id, m.ID)
		assert.Equal(t, "super", m.Category)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("ValidationErrorSkipsStore", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		_, err := svc.CreateMovement(context.Background(), CreateMovementInput{
			Type:     movement.TypeIncome,
			Amount:   0,
			Date:     date,
			Category: "sueldo",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, movement.ValidationError{Field: "amount"}))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("StoreErrorSkipsEvent", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		storeErr := errors.New("insert failed")
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(storeErr).Once()

		_, err := svc.CreateMovement(context.Background(), CreateMovementInput{
			Type:     movement.TypeIncome,
			Amount:   10,
			Date:     date,
			Category: "sueldo",
		})

		assert.ErrorIs(t, err, storeErr)
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureDoesNotFailRequest", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		m, err := svc.CreateMovement(context.Background(), CreateMovementInput{
			Type:     movement.TypeIncome,
			Amount:   10,
			Date:     date,
			Category: "sueldo",
		})

		require.NoError(t, err)
		assert.NotNil(t, m)
		mockPublisher.AssertExpectations(t)
	})
}

func TestMovementService_ListMovements(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))

		expected := &movement.Page{Items: []*movement.Movement{}, Total: 0, Page: 1, Limit: 20}
		mockRepo.On("List", mock.Anything, movement.ListFilter{
			Type:  movement.TypeExpense,
			Page:  movement.DefaultPage,
			Limit: movement.DefaultLimit,
		}).Return(expected, nil).Once()

		page, err := svc.ListMovements(context.Background(), movement.ListFilter{Type: movement.TypeExpense})

		require.NoError(t, err)
		assert.Equal(t, expected, page)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))

		mockRepo.On("List", mock.Anything, mock.Anything).Return(nil, movement.ErrStoreUnavailable).Once()

		page, err := svc.ListMovements(context.Background(), movement.ListFilter{})

		assert.Nil(t, page)
		assert.ErrorIs(t, err, movement.ErrStoreUnavailable)
	})
}

func TestMovementService_ExportMovements(t *testing.T) {
	pageOf := func(n int) []*movement.Movement {
		items := make([]*movement.Movement, n)
		for i := range items {
			items[i] = &movement.Movement{Type: movement.TypeExpense, Amount: 1, Category: "ocio"}
		}
		return items
	}

	t.Run("CollectsEveryPage", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		first := movement.ListFilter{Category: "ocio", From: &from, Page: 1, Limit: movement.MaxLimit}
		second := first
		second.Page = 2
		mockRepo.On("List", mock.Anything, first).
			Return(&movement.Page{Items: pageOf(100), Total: 130, Page: 1, Limit: 100}, nil).Once()
		mockRepo.On("List", mock.Anything, second).
			Return(&movement.Page{Items: pageOf(30), Total: 130, Page: 2, Limit: 100}, nil).Once()

		items, err := svc.ExportMovements(context.Background(), movement.ListFilter{Category: "ocio", From: &from, Page: 7, Limit: 5})

		require.NoError(t, err)
		assert.Len(t, items, 130)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmptyResult", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))
		mockRepo.On("List", mock.Anything, mock.Anything).
			Return(&movement.Page{Items: []*movement.Movement{}, Page: 1, Limit: 100}, nil).Once()

		items, err := svc.ExportMovements(context.Background(), movement.ListFilter{})

		require.NoError(t, err)
		assert.Empty(t, items)
		mockRepo.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("TooManyRows", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))
		mockRepo.On("List", mock.Anything, mock.Anything).
			Return(&movement.Page{Items: pageOf(100), Total: MaxExportRows + 1, Page: 1, Limit: 100}, nil).Once()

		items, err := svc.ExportMovements(context.Background(), movement.ListFilter{})

		assert.Nil(t, items)
		assert.ErrorIs(t, err, movement.ValidationError{Field: "from"})
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))
		mockRepo.On("List", mock.Anything, mock.Anything).Return(nil, movement.ErrStoreUnavailable).Once()

		_, err := svc.ExportMovements(context.Background(), movement.ListFilter{})

		assert.ErrorIs(t, err, movement.ErrStoreUnavailable)
	})
}

func TestMovementService_UpdateMovement(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	t.Run("NormalizesBeforePatch", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		category := "  ocio  "
		updated := &movement.Movement{Category: "ocio"}
		mockRepo.On("Patch", mock.Anything, id, mock.MatchedBy(func(p movement.Patch) bool {
			return p.Category != nil && *p.Category == "ocio"
		})).Return(updated, nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e *movement.Event) bool {
			return e.Type == movement.EventUpdated && e.MovementID == id && e.Movement == updated
		})).Return(nil).Once()

		m, err := svc.UpdateMovement(context.Background(), id, movement.Patch{Category: &category})

		require.NoError(t, err)
		assert.Equal(t, updated, m)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("InvalidPatch", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		svc := NewMovementService(testLogger, mockRepo, new(MockEventPublisher))

		amount := -5.0
		_, err := svc.UpdateMovement(context.Background(), id, movement.Patch{Amount: &amount})

		assert.True(t, errors.Is(err, movement.ValidationError{Field: "amount"}))
		mockRepo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		note := "x"
		mockRepo.On("Patch", mock.Anything, id, mock.Anything).
			Return(nil, movement.ErrMovementNotFound{ID: id}).Once()

		_, err := svc.UpdateMovement(context.Background(), id, movement.Patch{Note: &note})

		assert.True(t, errors.Is(err, movement.ErrMovementNotFound{}))
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestMovementService_DeleteMovement(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()
		mockPublisher.On("Publish", mock.Anything, mock.MatchedBy(func(e *movement.Event) bool {
			return e.Type == movement.EventDeleted && e.MovementID == id && e.Movement == nil
		})).Return(nil).Once()

		require.NoError(t, svc.DeleteMovement(context.Background(), id))
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockMovementRepository)
		mockPublisher := new(MockEventPublisher)
		svc := NewMovementService(testLogger, mockRepo, mockPublisher)

		mockRepo.On("Delete", mock.Anything, id).Return(movement.ErrMovementNotFound{ID: id}).Once()

		err := svc.DeleteMovement(context.Background(), id)

		assert.True(t, errors.Is(err, movement.ErrMovementNotFound{ID: id}))
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
