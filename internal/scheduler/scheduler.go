package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/services"
)

const purgeInterval = 10 * time.Minute

// Config controls when the periodic jobs fire.
type Config struct {
	Location     *time.Location
	ReminderHour int
	SessionTTL   time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       Config
	stats     services.StatsService
	reminders services.ReminderService
	practice  services.PracticeService
	log       *logger.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(cfg Config, stats services.StatsService, reminders services.ReminderService, practice services.PracticeService) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := gocron.NewScheduler(cfg.Location)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		cfg:       cfg,
		stats:     stats,
		reminders: reminders,
		practice:  practice,
		log:       logger.Default().WithPrefix("scheduler"),
		now:       time.Now,
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At("00:05").Do(s.RollupStats); err != nil {
		return fmt.Errorf("schedule stats rollup: %w", err)
	}
	if _, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.cfg.ReminderHour)).Do(s.SendReminders); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	if _, err := s.scheduler.Every(purgeInterval).Do(s.PurgeSessions); err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started: %d jobs, reminders at %02d:00 %s", s.scheduler.Len(), s.cfg.ReminderHour, s.cfg.Location)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) jobContext(name string) context.Context {
	return logger.NewContext(context.Background(), s.log.WithField("job", name))
}

// RollupStats aggregates yesterday and today into weekly_stats.
func (s *Scheduler) RollupStats() {
	ctx := s.jobContext("rollup_stats")
	now := s.now().In(s.cfg.Location)
	for _, day := range []time.Time{now.AddDate(0, 0, -1), now} {
		if _, err := s.stats.Rollup(ctx, day); err != nil {
			logger.FromContext(ctx).Error("rollup failed for %s: %v", day.Format("2006-01-02"), err)
		}
	}
}

// SendReminders enqueues reminders for users with due cards.
func (s *Scheduler) SendReminders() {
	ctx := s.jobContext("send_reminders")
	if _, err := s.reminders.SendDue(ctx); err != nil {
		logger.FromContext(ctx).Error("reminder sweep failed: %v", err)
	}
}

// PurgeSessions drops practice sessions idle for longer than the TTL.
func (s *Scheduler) PurgeSessions() {
	s.practice.Purge(s.jobContext("purge_sessions"), s.cfg.SessionTTL)
}
