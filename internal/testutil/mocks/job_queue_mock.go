package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/wordflash/wordflash/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueReminder(user models.User, due int) error {
	args := m.Called(user, due)
	return args.Error(0)
}
