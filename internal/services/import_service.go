package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/importer"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/mastery"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

// ImportSummary reports what a bulk import did.
type ImportSummary struct {
	Created int                 `json:"created"`
	Skipped int                 `json:"skipped"`
	Errors  []importer.RowError `json:"errors"`
}

// ImportService handles bulk flashcard creation from files
type ImportService interface {
	Import(ctx context.Context, userID, filename string, r io.Reader) (*ImportSummary, error)
}

type importService struct {
	cardRepo repository.FlashcardRepository
	userRepo repository.UserRepository
	cache    cache.Cache
	now      Clock
}

// NewImportService creates a new ImportService
func NewImportService(cardRepo repository.FlashcardRepository, userRepo repository.UserRepository, c cache.Cache, now Clock) ImportService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &importService{cardRepo: cardRepo, userRepo: userRepo, cache: c, now: clockOrDefault(now)}
}

// Import creates a card per valid row. Rows matching an existing card, or an
// earlier row of the same file, are skipped.
func (s *importService) Import(ctx context.Context, userID, filename string, r io.Reader) (*ImportSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("import")
	log.Info("importing flashcards: user_id=%s, file=%s", userID, filename)

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	format, err := importer.FormatFromFilename(filename)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	parsed, err := importer.Parse(r, format)
	if err != nil {
		log.Warn("failed to parse import file: %v", err)
		return nil, errors.NewBadRequestError(err.Error())
	}

	summary := &ImportSummary{Errors: parsed.Errors}
	if summary.Errors == nil {
		summary.Errors = []importer.RowError{}
	}

	now := s.now()
	seen := make(map[string]bool, len(parsed.Rows))
	cards := make([]models.Flashcard, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		key := models.MatchKey(row.Foreign, row.Native)
		if seen[key] {
			summary.Skipped++
			continue
		}
		seen[key] = true

		exists, err := s.cardRepo.Exists(ctx, userID, row.Foreign, row.Native)
		if err != nil {
			log.Error("failed to check for duplicate on line %d: %v", row.Line, err)
			return nil, errors.NewInternalError(err)
		}
		if exists {
			summary.Skipped++
			continue
		}

		cards = append(cards, models.Flashcard{
			ID:           uuid.NewString(),
			UserID:       userID,
			Foreign:      row.Foreign,
			Native:       row.Native,
			Direction:    row.Direction,
			MasteryLevel: mastery.MinLevel,
			NextReviewAt: now,
			CreatedAt:    now,
		})
	}

	if len(cards) > 0 {
		if err := s.cardRepo.InsertBatch(ctx, cards); err != nil {
			log.Error("failed to insert imported flashcards: %v", err)
			return nil, errors.NewInternalError(err)
		}
		metrics.ImportedCardsTotal.Add(float64(len(cards)))
		if err := s.cache.Delete(ctx, cache.StatsKey(userID)); err != nil {
			log.Warn("failed to invalidate cached stats: %v", err)
		}
	}
	summary.Created = len(cards)

	log.Info("import finished: created=%d, skipped=%d, errors=%d", summary.Created, summary.Skipped, len(summary.Errors))
	return summary, nil
}
