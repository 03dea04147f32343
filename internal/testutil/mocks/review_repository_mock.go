package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wordflash/wordflash/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) SaveResult(ctx context.Context, result models.PracticeResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
