package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wordflash/wordflash/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) WeeklyStats(ctx context.Context, userID string, fromDate string) ([]models.WeeklyStat, error) {
	args := m.Called(ctx, userID, fromDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WeeklyStat), args.Error(1)
}

func (m *MockStatsRepository) RollupDay(ctx context.Context, practiceDate string) (int64, error) {
	args := m.Called(ctx, practiceDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) DueCounts(ctx context.Context, now time.Time) (map[string]int, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
