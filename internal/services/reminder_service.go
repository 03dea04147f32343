package services

import (
	"context"

	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/jobs"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/repository"
)

// ReminderService nudges users who have cards waiting
type ReminderService interface {
	SendDue(ctx context.Context) (int, error)
}

type reminderService struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	queue     jobs.JobQueue
	now       Clock
}

// NewReminderService creates a new ReminderService
func NewReminderService(userRepo repository.UserRepository, statsRepo repository.StatsRepository, queue jobs.JobQueue, now Clock) ReminderService {
	return &reminderService{userRepo: userRepo, statsRepo: statsRepo, queue: queue, now: clockOrDefault(now)}
}

// SendDue enqueues one reminder per opted-in user with due cards and returns
// how many were enqueued.
func (s *reminderService) SendDue(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("reminders")

	users, err := s.userRepo.ListReminderRecipients(ctx)
	if err != nil {
		log.Error("failed to list reminder recipients: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if len(users) == 0 {
		log.Debug("no reminder recipients")
		return 0, nil
	}

	counts, err := s.statsRepo.DueCounts(ctx, s.now())
	if err != nil {
		log.Error("failed to count due flashcards: %v", err)
		return 0, errors.NewInternalError(err)
	}

	enqueued := 0
	for _, u := range users {
		due := counts[u.ID]
		if due == 0 {
			continue
		}
		if err := s.queue.EnqueueReminder(u, due); err != nil {
			log.Warn("failed to enqueue reminder for user %s: %v", u.ID, err)
			continue
		}
		enqueued++
	}
	log.Info("enqueued %d reminders for %d recipients", enqueued, len(users))
	return enqueued, nil
}
