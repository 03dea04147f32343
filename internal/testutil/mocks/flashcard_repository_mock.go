package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wordflash/wordflash/internal/models"
)

// MockFlashcardRepository is a mock implementation of repository.FlashcardRepository
type MockFlashcardRepository struct {
	mock.Mock
}

func (m *MockFlashcardRepository) Insert(ctx context.Context, card models.Flashcard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockFlashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *MockFlashcardRepository) Get(ctx context.Context, id, userID string) (*models.Flashcard, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) Count(ctx context.Context, filter models.FlashcardFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockFlashcardRepository) Due(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) Random(ctx context.Context, userID string, limit int) ([]models.Flashcard, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) Exists(ctx context.Context, userID, foreign, native string) (bool, error) {
	args := m.Called(ctx, userID, foreign, native)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlashcardRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
