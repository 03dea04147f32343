package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/mastery"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/practice"
	"github.com/wordflash/wordflash/internal/repository"
)

const (
	DuePracticeLimit    = 20
	RandomPracticeLimit = 10
	defaultListLimit    = 50
	maxListLimit        = 200
)

// CreateFlashcardInput is a new card as submitted by a user.
type CreateFlashcardInput struct {
	Foreign   string           `json:"foreign"`
	Native    string           `json:"native"`
	Direction models.Direction `json:"direction"`
}

// SaveResultInput is one finished card from a practice run.
type SaveResultInput struct {
	UserID       string
	FlashcardID  string
	SessionID    string
	Correct      bool
	Attempts     int
	ResponseTime time.Duration
}

// FlashcardService handles flashcard-related business logic
type FlashcardService interface {
	Create(ctx context.Context, userID string, in CreateFlashcardInput) (*models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, int, error)
	Delete(ctx context.Context, id, userID string) error
	DueForPractice(ctx context.Context, userID string) ([]models.DueCard, error)
	RandomForPractice(ctx context.Context, userID string) ([]models.DueCard, error)
	SaveResult(ctx context.Context, in SaveResultInput) (*mastery.Outcome, error)
}

type flashcardService struct {
	cardRepo   repository.FlashcardRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	cache      cache.Cache
	loc        *time.Location
	now        Clock
}

// NewFlashcardService creates a new FlashcardService. Calendar dates are
// computed in loc.
func NewFlashcardService(
	cardRepo repository.FlashcardRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	c cache.Cache,
	loc *time.Location,
	now Clock,
) FlashcardService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &flashcardService{
		cardRepo:   cardRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		cache:      c,
		loc:        locationOrDefault(loc),
		now:        clockOrDefault(now),
	}
}

func (s *flashcardService) Create(ctx context.Context, userID string, in CreateFlashcardInput) (*models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating flashcard: user_id=%s", userID)

	foreign := strings.TrimSpace(in.Foreign)
	native := strings.TrimSpace(in.Native)
	if foreign == "" {
		return nil, errors.NewValidationError("foreign", "cannot be empty")
	}
	if native == "" {
		return nil, errors.NewValidationError("native", "cannot be empty")
	}
	direction := in.Direction
	if direction == "" {
		direction = models.ForeignToNative
	}
	if !direction.Valid() {
		return nil, errors.NewValidationError("direction", "must be foreign-native or native-foreign")
	}

	now := s.now()
	card := models.Flashcard{
		ID:           uuid.NewString(),
		UserID:       userID,
		Foreign:      foreign,
		Native:       native,
		Direction:    direction,
		MasteryLevel: mastery.MinLevel,
		NextReviewAt: now,
		CreatedAt:    now,
	}
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.invalidateStats(ctx, userID)
	return &card, nil
}

func (s *flashcardService) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing flashcards: user_id=%s", filter.UserID)

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.DueOnly {
		now := s.now()
		filter.DueBefore = &now
	}
	if filter.Direction != "" && !filter.Direction.Valid() {
		return nil, 0, errors.NewValidationError("direction", "must be foreign-native or native-foreign")
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count flashcards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *flashcardService) Delete(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting flashcard: id=%s, user_id=%s", id, userID)

	if err := s.cardRepo.Delete(ctx, id, userID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("flashcard", id)
		}
		log.Error("failed to delete flashcard: %v", err)
		return errors.NewInternalError(err)
	}
	s.invalidateStats(ctx, userID)
	return nil
}

func (s *flashcardService) DueForPractice(ctx context.Context, userID string) ([]models.DueCard, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.Due(ctx, userID, s.now(), DuePracticeLimit)
	if err != nil {
		log.Error("failed to load due flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("loaded %d due flashcards", len(cards))
	return toDueCards(cards, ""), nil
}

// RandomForPractice samples cards regardless of schedule and always prompts
// with the native side.
func (s *flashcardService) RandomForPractice(ctx context.Context, userID string) ([]models.DueCard, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.Random(ctx, userID, RandomPracticeLimit)
	if err != nil {
		log.Error("failed to load random flashcards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return toDueCards(cards, models.NativeToForeign), nil
}

func toDueCards(cards []models.Flashcard, force models.Direction) []models.DueCard {
	out := make([]models.DueCard, 0, len(cards))
	for _, c := range cards {
		if force != "" {
			c.Direction = force
		}
		out = append(out, models.DueCard{
			ID:           c.ID,
			Prompt:       c.Prompt(),
			Answer:       c.Answer(),
			Direction:    c.Direction,
			MasteryLevel: c.MasteryLevel,
		})
	}
	return out
}

func (s *flashcardService) SaveResult(ctx context.Context, in SaveResultInput) (*mastery.Outcome, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"flashcard_id": in.FlashcardID,
		"user_id":      in.UserID,
	})
	log.Debug("saving practice result: correct=%t, attempts=%d", in.Correct, in.Attempts)

	if in.FlashcardID == "" {
		return nil, errors.NewValidationError("flashcard_id", "cannot be empty")
	}
	if in.Attempts > practice.MaxAttempts {
		return nil, errors.NewValidationError("attempts", fmt.Sprintf("must be between 1 and %d", practice.MaxAttempts))
	}
	if in.Attempts < 1 {
		in.Attempts = 1
	}

	card, err := s.cardRepo.Get(ctx, in.FlashcardID, in.UserID)
	if err != nil {
		log.Error("failed to load flashcard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", in.FlashcardID)
	}

	user, err := s.userRepo.Get(ctx, in.UserID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", in.UserID)
	}

	var last *time.Time
	if user.LastPracticeDate != nil {
		d, err := mastery.ParseDate(*user.LastPracticeDate, s.loc)
		if err != nil {
			log.Warn("ignoring unparseable last practice date %q: %v", *user.LastPracticeDate, err)
		} else {
			last = &d
		}
	}

	now := s.now().In(s.loc)
	out := mastery.Score(mastery.Input{
		CardID:           card.ID,
		CurrentLevel:     card.MasteryLevel,
		Correct:          in.Correct,
		CurrentStreak:    user.Streak,
		LastPracticeDate: last,
		Now:              now,
	})

	result := models.PracticeResult{
		SessionID:        in.SessionID,
		UserID:           in.UserID,
		FlashcardID:      card.ID,
		Correct:          in.Correct,
		Attempts:         in.Attempts,
		ResponseTimeMS:   in.ResponseTime.Milliseconds(),
		MasteryLevel:     out.Level,
		NextReviewAt:     out.NextReviewAt,
		PracticedAt:      now,
		Streak:           out.Streak,
		LastPracticeDate: mastery.FormatDate(out.LastPracticeDate),
	}
	if err := s.reviewRepo.SaveResult(ctx, result); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("flashcard", in.FlashcardID)
		}
		log.Error("failed to store practice result: %v", err)
		return nil, errors.NewInternalError(err)
	}

	outcome := "incorrect"
	if in.Correct {
		outcome = "correct"
	}
	metrics.ReviewsTotal.WithLabelValues(outcome).Inc()
	metrics.MasteryLevel.Observe(float64(out.Level))

	log.Info("practice result saved: mastery %d -> %d, next review in %d days, streak=%d",
		card.MasteryLevel, out.Level, out.IntervalDays, out.Streak)

	s.invalidateStats(ctx, in.UserID)
	return &out, nil
}

func (s *flashcardService) invalidateStats(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.StatsKey(userID)); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate cached stats: %v", err)
	}
}
