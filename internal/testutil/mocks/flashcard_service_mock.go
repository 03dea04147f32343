package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wordflash/wordflash/internal/mastery"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/services"
)

// MockFlashcardService is a mock implementation of services.FlashcardService
type MockFlashcardService struct {
	mock.Mock
}

func (m *MockFlashcardService) Create(ctx context.Context, userID string, in services.CreateFlashcardInput) (*models.Flashcard, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flashcard), args.Error(1)
}

func (m *MockFlashcardService) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Flashcard), args.Int(1), args.Error(2)
}

func (m *MockFlashcardService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockFlashcardService) DueForPractice(ctx context.Context, userID string) ([]models.DueCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueCard), args.Error(1)
}

func (m *MockFlashcardService) RandomForPractice(ctx context.Context, userID string) ([]models.DueCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueCard), args.Error(1)
}

func (m *MockFlashcardService) SaveResult(ctx context.Context, in services.SaveResultInput) (*mastery.Outcome, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mastery.Outcome), args.Error(1)
}
