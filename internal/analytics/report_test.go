package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/punter-edge/internal/logger"
	"github.com/yourusername/punter-edge/internal/models"
)

// MockBetRepository is a mock bet repository for engine tests
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Update(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) GetSettledBets(ctx context.Context, filter models.BetFilter) ([]*models.Bet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingBets(ctx context.Context) ([]*models.Bet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetRecentBetsByParticipant(ctx context.Context, participantA, participantB string, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, participantA, participantB, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func newTestEngine(repo *MockBetRepository) *Engine {
	engine := NewEngine(repo, testAnalyticsConfig(), logger.NewLogger("error"))
	engine.seedFn = func() int64 { return 42 }
	return engine
}

func TestGenerateRiskReportInsufficientHistory(t *testing.T) {
	repo := new(MockBetRepository)
	repo.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		settledBet(0, 10, 5),
		settledBet(1, 10, -10),
	}, nil)

	report, err := newTestEngine(repo).GenerateRiskReport(context.Background(), models.BetFilter{})

	assert.NoError(t, err)
	assert.True(t, report.Insufficient)
	assert.Equal(t, 5, report.RequiredBets)
	assert.Equal(t, 2, report.AvailableBets)
	assert.Nil(t, report.Metrics)
	repo.AssertExpectations(t)
}

func TestGenerateRiskReportFull(t *testing.T) {
	repo := new(MockBetRepository)
	repo.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		settledBet(0, 10, 5),
		settledBet(1, 10, -10),
		settledBet(2, 10, 5),
		settledBet(3, 10, 5),
		settledBet(4, 10, -10),
	}, nil)

	report, err := newTestEngine(repo).GenerateRiskReport(context.Background(), models.BetFilter{})

	assert.NoError(t, err)
	assert.False(t, report.Insufficient)
	assert.NotNil(t, report.Metrics)
	assert.NotNil(t, report.Kelly)
	assert.NotNil(t, report.Projection)
	assert.NotNil(t, report.Score)
	assert.NotEmpty(t, report.Recommendations)
	assert.InDelta(t, 60.0, report.Metrics.WinRate, 1e-9)
	assert.InDelta(t, -100.0, report.Metrics.MaxDrawdown, 1e-9)
}

func TestGenerateRiskReportRepositoryError(t *testing.T) {
	repo := new(MockBetRepository)
	repo.On("GetSettledBets", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	report, err := newTestEngine(repo).GenerateRiskReport(context.Background(), models.BetFilter{})

	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestSuggestStakes(t *testing.T) {
	repo := new(MockBetRepository)
	repo.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		settledBet(0, 10, 10),
		settledBet(1, 10, 10),
		settledBet(2, 10, 10),
		settledBet(3, 10, -10),
		settledBet(4, 10, -10),
	}, nil)

	sizes, err := newTestEngine(repo).SuggestStakes(context.Background(), 1000, RiskProfileModerate)

	assert.NoError(t, err)
	assert.Len(t, sizes, 5)
	for _, s := range sizes {
		assert.GreaterOrEqual(t, s.Amount, 1.0)
		assert.LessOrEqual(t, s.Amount, 100.0)
	}
}
