package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/services"
)

type statsStub struct{ mock.Mock }

func (m *statsStub) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	args := m.Called(ctx, userID)
	return nil, args.Error(1)
}

func (m *statsStub) Rollup(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type remindersStub struct{ mock.Mock }

func (m *remindersStub) SendDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type practiceStub struct {
	services.PracticeService
	purgedWith time.Duration
}

func (p *practiceStub) Purge(_ context.Context, idle time.Duration) int {
	p.purgedWith = idle
	return 0
}

func TestRollupStats_CoversYesterdayAndToday(t *testing.T) {
	stats := new(statsStub)
	s := New(Config{Location: time.UTC, ReminderHour: 18, SessionTTL: time.Hour}, stats, new(remindersStub), &practiceStub{})
	fixed := time.Date(2025, 4, 2, 0, 5, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	stats.On("Rollup", mock.Anything, fixed.AddDate(0, 0, -1)).Return(int64(3), nil).Once()
	stats.On("Rollup", mock.Anything, fixed).Return(int64(1), nil).Once()

	s.RollupStats()
	stats.AssertExpectations(t)
}

func TestSendRemindersAndPurge(t *testing.T) {
	reminders := new(remindersStub)
	practice := &practiceStub{}
	s := New(Config{Location: time.UTC, ReminderHour: 18, SessionTTL: 2 * time.Hour}, new(statsStub), reminders, practice)

	reminders.On("SendDue", mock.Anything).Return(2, nil).Once()
	s.SendReminders()
	reminders.AssertExpectations(t)

	s.PurgeSessions()
	assert.Equal(t, 2*time.Hour, practice.purgedWith)
}

func TestStartRegistersJobs(t *testing.T) {
	s := New(Config{Location: time.UTC, ReminderHour: 7, SessionTTL: time.Hour}, new(statsStub), new(remindersStub), &practiceStub{})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 3, s.scheduler.Len())
}
