package services

import (
	"context"
	"math"
	"time"

	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/mastery"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

const (
	dashboardDays     = 7
	dashboardDueLimit = 10
)

// StatsService handles statistics-related business logic
type StatsService interface {
	Dashboard(ctx context.Context, userID string) (*models.Dashboard, error)
	Rollup(ctx context.Context, day time.Time) (int64, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	cardRepo  repository.FlashcardRepository
	userRepo  repository.UserRepository
	cache     cache.Cache
	ttl       time.Duration
	loc       *time.Location
	now       Clock
}

// NewStatsService creates a new StatsService. A ttl of zero disables caching.
func NewStatsService(
	statsRepo repository.StatsRepository,
	cardRepo repository.FlashcardRepository,
	userRepo repository.UserRepository,
	c cache.Cache,
	ttl time.Duration,
	loc *time.Location,
	now Clock,
) StatsService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &statsService{
		statsRepo: statsRepo,
		cardRepo:  cardRepo,
		userRepo:  userRepo,
		cache:     c,
		ttl:       ttl,
		loc:       locationOrDefault(loc),
		now:       clockOrDefault(now),
	}
}

func (s *statsService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building dashboard: user_id=%s", userID)

	key := cache.StatsKey(userID)
	if s.ttl > 0 {
		var cached models.Dashboard
		hit, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.StatsCacheTotal.WithLabelValues("error").Inc()
			log.Warn("stats cache lookup failed: %v", err)
		case hit:
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	now := s.now().In(s.loc)
	today := mastery.StartOfDay(now)
	from := today.AddDate(0, 0, -(dashboardDays - 1))

	// Today's row is only written by the rollup; refresh it so the chart is current.
	if _, err := s.statsRepo.RollupDay(ctx, mastery.FormatDate(today)); err != nil {
		log.Warn("failed to refresh today's stats: %v", err)
	}

	total, err := s.cardRepo.Count(ctx, models.FlashcardFilter{UserID: userID})
	if err != nil {
		log.Error("failed to count flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	masteredMin := mastery.MasteredLevel
	mastered, err := s.cardRepo.Count(ctx, models.FlashcardFilter{UserID: userID, MinMastery: &masteredMin})
	if err != nil {
		log.Error("failed to count mastered flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	weekly, err := s.statsRepo.WeeklyStats(ctx, userID, mastery.FormatDate(from))
	if err != nil {
		log.Error("failed to load weekly stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	due, err := s.cardRepo.Due(ctx, userID, now, dashboardDueLimit)
	if err != nil {
		log.Error("failed to load due flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	d := &models.Dashboard{
		TotalCards:    total,
		MasteredCards: mastered,
		Streak:        user.Streak,
		WeeklyData:    weekSeries(from, weekly),
		DueCards:      toDueCards(due, ""),
	}
	d.AccuracyRate, d.AvgResponseTime = averages(weekly)
	for _, day := range d.WeeklyData {
		d.WeeklyReviewed += day.Value
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			log.Warn("failed to cache dashboard: %v", err)
		}
	}
	return d, nil
}

// weekSeries lays the stored days onto seven consecutive dates starting at
// from, filling missing days with zero.
func weekSeries(from time.Time, stats []models.WeeklyStat) []models.DayCount {
	byDate := make(map[string]int, len(stats))
	for _, st := range stats {
		byDate[st.PracticeDate] = st.TotalCardsPracticed
	}
	series := make([]models.DayCount, 0, dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		day := from.AddDate(0, 0, i)
		date := mastery.FormatDate(day)
		series = append(series, models.DayCount{
			Date:  date,
			Day:   day.Weekday().String()[:3],
			Value: byDate[date],
		})
	}
	return series
}

// averages returns the mean accuracy in whole percent and the mean response
// time in seconds to one decimal.
func averages(stats []models.WeeklyStat) (int, float64) {
	if len(stats) == 0 {
		return 0, 0
	}
	var acc, ms float64
	for _, st := range stats {
		acc += st.AccuracyRate
		ms += st.AvgResponseTimeMS
	}
	n := float64(len(stats))
	return int(math.Round(acc / n)), math.Round(ms/n/1000*10) / 10
}

func (s *statsService) Rollup(ctx context.Context, day time.Time) (int64, error) {
	log := logger.FromContext(ctx)
	date := mastery.FormatDate(day.In(s.loc))

	n, err := s.statsRepo.RollupDay(ctx, date)
	if err != nil {
		log.Error("failed to roll up %s: %v", date, err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}
