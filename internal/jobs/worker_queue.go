package jobs

import (
	"fmt"

	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/notify"
	"github.com/wordflash/wordflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	notifyPool *worker.Pool
	notifier   notify.Notifier
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(notifyPool *worker.Pool, notifier notify.Notifier) JobQueue {
	return &WorkerQueue{
		notifyPool: notifyPool,
		notifier:   notifier,
	}
}

func (q *WorkerQueue) EnqueueReminder(user models.User, due int) error {
	if user.TelegramChatID == nil {
		return fmt.Errorf("user %s has no telegram chat", user.ID)
	}
	return q.notifyPool.Submit(&worker.ReminderJob{
		Notifier: q.notifier,
		UserID:   user.ID,
		Username: user.Username,
		ChatID:   *user.TelegramChatID,
		Due:      due,
	})
}
