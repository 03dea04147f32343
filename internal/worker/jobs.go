package worker

import (
	"context"
	"fmt"

	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/notify"
)

// ReminderJob tells one user how many cards are waiting for review.
type ReminderJob struct {
	Notifier notify.Notifier
	UserID   string
	Username string
	ChatID   int64
	Due      int
}

func (j *ReminderJob) Name() string { return "send_reminder" }

func (j *ReminderJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": j.UserID,
		"due":     j.Due,
	})

	if err := j.Notifier.Notify(ctx, j.ChatID, ReminderText(j.Username, j.Due)); err != nil {
		metrics.RemindersSentTotal.WithLabelValues("failed").Inc()
		log.Warn("reminder not delivered: %v", err)
		return err
	}
	metrics.RemindersSentTotal.WithLabelValues("sent").Inc()
	return nil
}

// ReminderText renders the reminder message body.
func ReminderText(username string, due int) string {
	noun := "cards are"
	if due == 1 {
		noun = "card is"
	}
	return fmt.Sprintf("Hi %s! %d %s waiting for review. Keep your streak going!", username, due, noun)
}
