package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/punter-edge/internal/config"
	"github.com/yourusername/punter-edge/internal/logger"
	"github.com/yourusername/punter-edge/internal/models"
	"github.com/yourusername/punter-edge/internal/repository"
)

// MockBetRepository is a mock bet repository for alert tests
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

// MockLedgerRepository is a mock ledger repository for alert tests
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, movement decimal.Decimal, description string) (*models.LedgerEntry, error) {
	args := m.Called(ctx, movement, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) InitialBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListOrdered(ctx context.Context) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) InTransaction(ctx context.Context, fn func(repository.LedgerMutator) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func testAlertsConfig() config.AlertsConfig {
	return config.AlertsConfig{
		DrawdownThreshold:     10.0,
		LosingStreakThreshold: 3,
		ROIThreshold:          -5.0,
		BankrollThreshold:     20.0,
		OddsThreshold:         5.0,
		ValueBetThreshold:     0.1,
		ProbabilityCacheTTL:   60,
		Enabled: config.AlertsEnabledFlags{
			Drawdown:     true,
			LosingStreak: true,
			ROIWarning:   true,
			BankrollLow:  true,
			HighRiskBet:  true,
			ValueBet:     true,
		},
	}
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		RiskFreeRate:          0,
		AnnualizationFactor:   252,
		KellyCap:              0.25,
		MinSegmentBets:        10,
		MinReportBets:         5,
		MonteCarloSimulations: 100,
		MonteCarloBets:        50,
		PeriodDays:            30,
		MinPeriodBets:         5,
	}
}

func recentBet(hoursAgo int, stake, profit float64) *models.Bet {
	settled := time.Now().Add(-time.Duration(hoursAgo) * time.Hour)
	result := models.BetResultWon
	if profit <= 0 {
		result = models.BetResultLost
	}
	return &models.Bet{
		ID:         uuid.New(),
		PlacedAt:   settled.Add(-2 * time.Hour),
		SettledAt:  &settled,
		HomeTeam:   "Arsenal",
		AwayTeam:   "Chelsea",
		Odds:       2.0,
		Stake:      stake,
		Result:     result,
		ProfitLoss: profit,
	}
}

func newTestEngine(bets *MockBetRepository, ledger *MockLedgerRepository) *Engine {
	return NewEngine(bets, ledger, testAlertsConfig(), testAnalyticsConfig(), logger.NewLogger("error"))
}

func healthyBalances(ledger *MockLedgerRepository) {
	ledger.On("CurrentBalance", mock.Anything).Return(decimal.NewFromInt(900), nil)
	ledger.On("InitialBalance", mock.Anything).Return(decimal.NewFromInt(1000), nil)
}

func TestSweepLosingStreak(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	healthyBalances(ledger)

	// Small losses avoid the drawdown and ROI thresholds so only the
	// streak fires.
	bets.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		recentBet(50, 100, 5),
		recentBet(40, 100, 5),
		recentBet(30, 100, -1),
		recentBet(20, 100, -1),
		recentBet(10, 100, -1),
	}, nil)

	fired, err := newTestEngine(bets, ledger).Sweep(context.Background())

	assert.NoError(t, err)
	assert.Len(t, fired, 1)
	assert.Equal(t, AlertLosingStreak, fired[0].Type)
	assert.Equal(t, 3.0, fired[0].Value)
}

func TestSweepDrawdownAndROI(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	healthyBalances(ledger)

	// One win then a full loss: drawdown 100%, recent ROI -47.5%.
	bets.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		recentBet(20, 100, 5),
		recentBet(10, 100, -100),
	}, nil)

	fired, err := newTestEngine(bets, ledger).Sweep(context.Background())

	assert.NoError(t, err)
	types := make(map[AlertType]bool)
	for _, a := range fired {
		types[a.Type] = true
	}
	assert.True(t, types[AlertDrawdown], "expected drawdown alert")
	assert.True(t, types[AlertROIWarning], "expected ROI alert")
	assert.False(t, types[AlertBankrollLow], "bankroll at 90%% must not alert")
}

func TestSweepBankrollLow(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	bets.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{}, nil)
	ledger.On("CurrentBalance", mock.Anything).Return(decimal.NewFromInt(150), nil)
	ledger.On("InitialBalance", mock.Anything).Return(decimal.NewFromInt(1000), nil)

	fired, err := newTestEngine(bets, ledger).Sweep(context.Background())

	assert.NoError(t, err)
	assert.Len(t, fired, 1)
	assert.Equal(t, AlertBankrollLow, fired[0].Type)
	assert.Equal(t, SeverityCritical, fired[0].Severity)
	assert.InDelta(t, 15.0, fired[0].Value, 1e-9)
}

func TestSweepDisabledChecksStaySilent(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	bets.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{
		recentBet(20, 100, 5),
		recentBet(10, 100, -100),
	}, nil)

	cfg := testAlertsConfig()
	cfg.Enabled = config.AlertsEnabledFlags{}
	engine := NewEngine(bets, ledger, cfg, testAnalyticsConfig(), logger.NewLogger("error"))

	fired, err := engine.Sweep(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, fired)
	ledger.AssertNotCalled(t, "CurrentBalance", mock.Anything)
}

func TestEstimateWinProbabilityClampAndDefault(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	engine := newTestEngine(bets, ledger)

	// No history: default 0.50.
	bets.On("GetRecentBetsByParticipant", mock.Anything, "Leeds", "Derby", 20).
		Return([]*models.Bet{}, nil).Once()
	p, err := engine.EstimateWinProbability(context.Background(), "Leeds", "Derby")
	assert.NoError(t, err)
	assert.Equal(t, 0.50, p)

	// All wins: clamped to 0.90.
	bets.On("GetRecentBetsByParticipant", mock.Anything, "Arsenal", "Chelsea", 20).
		Return([]*models.Bet{
			recentBet(30, 100, 50),
			recentBet(20, 100, 50),
			recentBet(10, 100, 50),
		}, nil).Once()
	p, err = engine.EstimateWinProbability(context.Background(), "Arsenal", "Chelsea")
	assert.NoError(t, err)
	assert.Equal(t, 0.90, p)

	// All losses: clamped to 0.10.
	bets.On("GetRecentBetsByParticipant", mock.Anything, "Luton", "Barnet", 20).
		Return([]*models.Bet{
			recentBet(20, 100, -100),
			recentBet(10, 100, -100),
		}, nil).Once()
	p, err = engine.EstimateWinProbability(context.Background(), "Luton", "Barnet")
	assert.NoError(t, err)
	assert.Equal(t, 0.10, p)
}

func TestEstimateWinProbabilityCached(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	engine := newTestEngine(bets, ledger)

	bets.On("GetRecentBetsByParticipant", mock.Anything, "Arsenal", "Chelsea", 20).
		Return([]*models.Bet{recentBet(10, 100, 50)}, nil).Once()

	first, err := engine.EstimateWinProbability(context.Background(), "Arsenal", "Chelsea")
	assert.NoError(t, err)
	second, err := engine.EstimateWinProbability(context.Background(), "Arsenal", "Chelsea")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	bets.AssertNumberOfCalls(t, "GetRecentBetsByParticipant", 1)
}

func TestCheckProspectiveBetHighOddsAndValue(t *testing.T) {
	bets := new(MockBetRepository)
	ledger := new(MockLedgerRepository)
	engine := newTestEngine(bets, ledger)

	// 60% estimated probability at odds 6.0 is both high-odds and
	// positive expected value.
	bets.On("GetRecentBetsByParticipant", mock.Anything, "Arsenal", "Chelsea", 20).
		Return([]*models.Bet{
			recentBet(50, 100, 50),
			recentBet(40, 100, 50),
			recentBet(30, 100, 50),
			recentBet(20, 100, -100),
			recentBet(10, 100, -100),
		}, nil)
	bets.On("GetSettledBets", mock.Anything, mock.Anything).Return([]*models.Bet{}, nil)

	prospective := &models.Bet{
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Odds:     6.0,
		Stake:    10,
	}

	fired, err := engine.CheckProspectiveBet(context.Background(), prospective)
	assert.NoError(t, err)

	types := make(map[AlertType]bool)
	for _, a := range fired {
		types[a.Type] = true
	}
	assert.True(t, types[AlertHighRiskBet], "expected high-odds alert")
	assert.True(t, types[AlertValueBet], "expected value alert")
}
