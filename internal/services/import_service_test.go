package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/services"
	"github.com/wordflash/wordflash/internal/testutil/mocks"
)

func TestImportService_Import(t *testing.T) {
	cards := new(mocks.MockFlashcardRepository)
	users := new(mocks.MockUserRepository)
	now := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	svc := services.NewImportService(cards, users, nil, func() time.Time { return now })

	users.On("Get", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil).Once()
	cards.On("Exists", mock.Anything, "u1", "der Hund", "dog").Return(true, nil).Once()
	cards.On("Exists", mock.Anything, "u1", "die Katze", "cat").Return(false, nil).Once()
	cards.On("Exists", mock.Anything, "u1", "das Haus", "house").Return(false, nil).Once()
	cards.On("InsertBatch", mock.Anything, mock.MatchedBy(func(batch []models.Flashcard) bool {
		return len(batch) == 2 &&
			batch[0].Foreign == "die Katze" && batch[0].Direction == models.NativeToForeign &&
			batch[1].Foreign == "das Haus" && batch[1].NextReviewAt.Equal(now) && batch[1].MasteryLevel == 0
	})).Return(nil).Once()

	input := strings.Join([]string{
		"foreign,native,direction",
		"der Hund,dog",
		"die Katze,cat,native-foreign",
		"das Haus,house",
		"Das Haus,House",
		"der Baum,",
	}, "\n")

	summary, err := svc.Import(context.Background(), "u1", "words.csv", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 6, summary.Errors[0].Line)

	cards.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestImportService_RejectsUnknownFormat(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("Get", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil).Once()

	svc := services.NewImportService(new(mocks.MockFlashcardRepository), users, nil, nil)
	_, err := svc.Import(context.Background(), "u1", "words.pdf", strings.NewReader(""))
	assert.True(t, errors.Is(err, errors.ErrCodeBadRequest))
}

func TestImportService_UnknownUser(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("Get", mock.Anything, "ghost").Return(nil, nil).Once()

	svc := services.NewImportService(new(mocks.MockFlashcardRepository), users, nil, nil)
	_, err := svc.Import(context.Background(), "ghost", "words.csv", strings.NewReader("a,b"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}
