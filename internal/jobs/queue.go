package jobs

import "github.com/wordflash/wordflash/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueReminder(user models.User, due int) error
}
