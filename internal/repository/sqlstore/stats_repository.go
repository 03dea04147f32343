package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) WeeklyStats(ctx context.Context, userID string, fromDate string) ([]models.WeeklyStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("getting weekly stats: user_id=%s, from=%s", userID, fromDate)

	var stats []models.WeeklyStat
	err := r.db.SelectContext(ctx, &stats, r.db.Rebind(`
SELECT user_id, practice_date, total_cards_practiced, accuracy_rate, avg_response_time_ms
FROM weekly_stats
WHERE user_id = ? AND practice_date >= ?
ORDER BY practice_date ASC
`), userID, fromDate)
	if err != nil {
		log.Error("failed to get weekly stats: %v", err)
		return nil, err
	}
	log.Debug("found %d weekly stat rows", len(stats))
	return stats, nil
}

// RollupDay recomputes weekly_stats rows for one calendar day from the raw
// practice log. Rerunning it for the same day overwrites the rows.
func (r *statsRepository) RollupDay(ctx context.Context, practiceDate string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("rolling up practice sessions: date=%s", practiceDate)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO weekly_stats (user_id, practice_date, total_cards_practiced, accuracy_rate, avg_response_time_ms)
SELECT user_id,
       practice_date,
       COUNT(*),
       ROUND(100.0 * SUM(CASE WHEN correct THEN 1 ELSE 0 END) / COUNT(*), 1),
       COALESCE(AVG(response_time_ms), 0)
FROM practice_sessions
WHERE practice_date = ?
GROUP BY user_id, practice_date
ON CONFLICT (user_id, practice_date) DO UPDATE SET
    total_cards_practiced = excluded.total_cards_practiced,
    accuracy_rate = excluded.accuracy_rate,
    avg_response_time_ms = excluded.avg_response_time_ms
`), practiceDate)
	if err != nil {
		log.Error("failed to roll up practice sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("rolled up %d user rows for %s", n, practiceDate)
	return n, nil
}

func (r *statsRepository) DueCounts(ctx context.Context, now time.Time) (map[string]int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(`
SELECT user_id, COUNT(*) AS due
FROM flashcards
WHERE next_review_at <= ?
GROUP BY user_id
`), utc(now))
	if err != nil {
		log.Error("failed to count due flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var due int
		if err := rows.Scan(&userID, &due); err != nil {
			return nil, err
		}
		counts[userID] = due
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("due counts computed for %d users", len(counts))
	return counts, nil
}
