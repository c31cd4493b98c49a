package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/shelter-booking/internal/domain"
	catalogRepo "github.com/m04kA/shelter-booking/internal/infra/storage/catalog"
	"github.com/m04kA/shelter-booking/internal/infra/storage/memory"
	"github.com/m04kA/shelter-booking/pkg/logger"
	"github.com/m04kA/shelter-booking/pkg/retry"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error) {
	args := m.Called(ctx, serviceID)
	s, _ := args.Get(0).(*domain.ServiceDefinition)
	return s, args.Error(1)
}

func (m *mockRepository) ListByCategory(ctx context.Context, shelterID int64, categoryID string) ([]*domain.ServiceDefinition, error) {
	args := m.Called(ctx, shelterID, categoryID)
	s, _ := args.Get(0).([]*domain.ServiceDefinition)
	return s, args.Error(1)
}

type countingMetrics struct {
	degraded map[string]int
}

func (m *countingMetrics) IncDegraded(component string) {
	if m.degraded == nil {
		m.degraded = map[string]int{}
	}
	m.degraded[component]++
}

var fastRetry = retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

func liveService(id int64) *domain.ServiceDefinition {
	return &domain.ServiceDefinition{
		ID:              id,
		ShelterID:       1,
		CategoryID:      "medical",
		Name:            "Checkup",
		DurationMinutes: 30,
		Capacity:        1,
		Active:          true,
		Origin:          domain.OriginAuthoritative,
		Schedule:        []domain.WeeklyWindow{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
	}
}

func fallbackCatalog() *memory.Catalog {
	s := liveService(900)
	s.Name = "Fallback checkup"
	return memory.NewFallbackCatalog([]*domain.ServiceDefinition{s})
}

func TestGetService_Success(t *testing.T) {
	repo := &mockRepository{}
	repo.On("GetService", mock.Anything, int64(1)).Return(liveService(1), nil).Once()

	svc := NewService(repo, fallbackCatalog(), fastRetry, &countingMetrics{}, logger.NewNop())
	got, err := svc.GetService(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, domain.OriginAuthoritative, got.Origin)
	repo.AssertExpectations(t)
}

func TestGetService_NotFoundIsNotRetried(t *testing.T) {
	repo := &mockRepository{}
	repo.On("GetService", mock.Anything, int64(900)).Return(nil, catalogRepo.ErrServiceNotFound).Once()

	svc := NewService(repo, fallbackCatalog(), fastRetry, &countingMetrics{}, logger.NewNop())
	_, err := svc.GetService(context.Background(), 900)

	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
	repo.AssertNumberOfCalls(t, "GetService", 1)
}

func TestGetService_RetriesThenFallsBack(t *testing.T) {
	repo := &mockRepository{}
	repo.On("GetService", mock.Anything, int64(900)).Return(nil, errors.New("connection refused"))
	m := &countingMetrics{}

	svc := NewService(repo, fallbackCatalog(), fastRetry, m, logger.NewNop())
	got, err := svc.GetService(context.Background(), 900)

	require.NoError(t, err)
	assert.Equal(t, domain.OriginFallback, got.Origin)
	assert.Equal(t, "Fallback checkup", got.Name)
	assert.Equal(t, 1, m.degraded["catalog"])
	repo.AssertNumberOfCalls(t, "GetService", 3)
}

func TestGetService_UnavailableWithoutFallbackEntry(t *testing.T) {
	repo := &mockRepository{}
	repo.On("GetService", mock.Anything, int64(5)).Return(nil, errors.New("timeout"))

	svc := NewService(repo, fallbackCatalog(), fastRetry, &countingMetrics{}, logger.NewNop())
	_, err := svc.GetService(context.Background(), 5)

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestGetService_Malformed(t *testing.T) {
	broken := liveService(2)
	broken.Capacity = 0
	repo := &mockRepository{}
	repo.On("GetService", mock.Anything, int64(2)).Return(broken, nil)

	svc := NewService(repo, nil, fastRetry, &countingMetrics{}, logger.NewNop())
	_, err := svc.GetService(context.Background(), 2)

	assert.ErrorIs(t, err, domain.ErrInvalidService)
}

func TestListServicesByCategory(t *testing.T) {
	broken := liveService(3)
	broken.DurationMinutes = 0

	tests := []struct {
		name         string
		live         []*domain.ServiceDefinition
		liveErr      error
		withFallback bool
		wantIDs      []int64
		wantDegraded bool
		wantErr      error
	}{
		{
			name:         "live data",
			live:         []*domain.ServiceDefinition{liveService(1), broken},
			withFallback: true,
			wantIDs:      []int64{1},
		},
		{
			name:         "empty live falls back",
			live:         []*domain.ServiceDefinition{},
			withFallback: true,
			wantIDs:      []int64{900},
			wantDegraded: true,
		},
		{
			name:         "error falls back",
			liveErr:      errors.New("db down"),
			withFallback: true,
			wantIDs:      []int64{900},
			wantDegraded: true,
		},
		{
			name:    "error without fallback",
			liveErr: errors.New("db down"),
			wantErr: ErrCatalogUnavailable,
		},
		{
			name:    "empty without fallback",
			live:    []*domain.ServiceDefinition{},
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			repo.On("ListByCategory", mock.Anything, int64(1), "medical").Return(tt.live, tt.liveErr)

			var fallback Repository
			if tt.withFallback {
				fallback = fallbackCatalog()
			}
			svc := NewService(repo, fallback, fastRetry, &countingMetrics{}, logger.NewNop())

			res, err := svc.ListServicesByCategory(context.Background(), 1, "medical")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int64, 0, len(res.Services))
			for _, s := range res.Services {
				ids = append(ids, s.ID)
				if tt.wantDegraded {
					assert.Equal(t, domain.OriginFallback, s.Origin)
				} else {
					assert.Equal(t, domain.OriginAuthoritative, s.Origin)
				}
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantDegraded, res.Degraded)
		})
	}
}
