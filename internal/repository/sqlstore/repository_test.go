package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
	"github.com/wordflash/wordflash/internal/repository/sqlstore"
	"github.com/wordflash/wordflash/internal/testutil"
)

type RepositorySuite struct {
	suite.Suite
	db         *sqlx.DB
	users      repository.UserRepository
	flashcards repository.FlashcardRepository
	reviews    repository.ReviewRepository
	stats      repository.StatsRepository
	now        time.Time
}

func (s *RepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.users = sqlstore.NewUserRepository(s.db)
	s.flashcards = sqlstore.NewFlashcardRepository(s.db)
	s.reviews = sqlstore.NewReviewRepository(s.db)
	s.stats = sqlstore.NewStatsRepository(s.db)
	s.now = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *RepositorySuite) createUser(name string) *models.User {
	u, err := s.users.Upsert(context.Background(), name)
	s.Require().NoError(err)
	return u
}

func (s *RepositorySuite) createCard(userID, id, foreign, native string, level int, due time.Time) models.Flashcard {
	card := models.Flashcard{
		ID:           id,
		UserID:       userID,
		Foreign:      foreign,
		Native:       native,
		Direction:    models.ForeignToNative,
		MasteryLevel: level,
		NextReviewAt: due,
		CreatedAt:    s.now,
	}
	s.Require().NoError(s.flashcards.Insert(context.Background(), card))
	return card
}

func (s *RepositorySuite) TestUpsertUser_IsIdempotent() {
	ctx := context.Background()

	first := s.createUser("anna")
	second, err := s.users.Upsert(ctx, "anna")
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(0, second.Streak)
	s.Nil(second.LastPracticeDate)
	s.False(second.RemindersEnabled)

	users, err := s.users.List(ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *RepositorySuite) TestGetUser_NotFoundReturnsNil() {
	u, err := s.users.Get(context.Background(), "missing")
	s.NoError(err)
	s.Nil(u)
}

func (s *RepositorySuite) TestSetTelegramChat() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createUser("ben")

	chatID := int64(4242)
	s.Require().NoError(s.users.SetTelegramChat(ctx, anna.ID, &chatID, true))

	recipients, err := s.users.ListReminderRecipients(ctx)
	s.Require().NoError(err)
	s.Require().Len(recipients, 1)
	s.Equal("anna", recipients[0].Username)
	s.Require().NotNil(recipients[0].TelegramChatID)
	s.Equal(chatID, *recipients[0].TelegramChatID)

	s.ErrorIs(s.users.SetTelegramChat(ctx, "missing", &chatID, true), repository.ErrNotFound)
}

func (s *RepositorySuite) TestFlashcardGet_ScopedToOwner() {
	ctx := context.Background()
	anna := s.createUser("anna")
	ben := s.createUser("ben")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 0, s.now)

	card, err := s.flashcards.Get(ctx, "c1", anna.ID)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Equal("der Hund", card.Foreign)
	s.Equal("dog", card.Native)
	s.True(card.NextReviewAt.Equal(s.now))

	other, err := s.flashcards.Get(ctx, "c1", ben.ID)
	s.NoError(err)
	s.Nil(other)
}

func (s *RepositorySuite) TestDue_OrdersByNextReviewAndLimits() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createCard(anna.ID, "late", "die Katze", "cat", 10, s.now.Add(-1*time.Hour))
	s.createCard(anna.ID, "early", "der Hund", "dog", 20, s.now.Add(-48*time.Hour))
	s.createCard(anna.ID, "future", "das Haus", "house", 30, s.now.Add(24*time.Hour))

	due, err := s.flashcards.Due(ctx, anna.ID, s.now, 20)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Equal("early", due[0].ID)
	s.Equal("late", due[1].ID)

	limited, err := s.flashcards.Due(ctx, anna.ID, s.now, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *RepositorySuite) TestListAndCount_WithFilter() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 85, s.now)
	s.createCard(anna.ID, "c2", "die Katze", "cat", 40, s.now)
	s.createCard(anna.ID, "c3", "der Hundekuchen", "dog biscuit", 90, s.now)

	minMastery := 80
	filter := models.FlashcardFilter{UserID: anna.ID, Search: "HUND", MinMastery: &minMastery, OrderBy: "mastery_level", OrderDir: "asc"}

	cards, err := s.flashcards.List(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal("c1", cards[0].ID)
	s.Equal("c3", cards[1].ID)

	count, err := s.flashcards.Count(ctx, filter)
	s.Require().NoError(err)
	s.Equal(2, count)

	total, err := s.flashcards.Count(ctx, models.FlashcardFilter{UserID: anna.ID})
	s.Require().NoError(err)
	s.Equal(3, total)
}

func (s *RepositorySuite) TestInsertBatchAndExists() {
	ctx := context.Background()
	anna := s.createUser("anna")

	cards := []models.Flashcard{
		{UserID: anna.ID, Foreign: "das Brot", Native: "bread", Direction: models.ForeignToNative, NextReviewAt: s.now},
		{UserID: anna.ID, Foreign: "die Milch", Native: "milk", Direction: models.NativeToForeign, NextReviewAt: s.now},
	}
	s.Require().NoError(s.flashcards.InsertBatch(ctx, cards))

	exists, err := s.flashcards.Exists(ctx, anna.ID, "Das Brot", "BREAD")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.flashcards.Exists(ctx, anna.ID, "das Brot", "loaf")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.flashcards.Insert(ctx, models.Flashcard{
		UserID: anna.ID, Foreign: "Über", Native: "over", Direction: models.ForeignToNative, NextReviewAt: s.now,
	}))
	exists, err = s.flashcards.Exists(ctx, anna.ID, "über", "OVER")
	s.Require().NoError(err)
	s.True(exists, "case folding must cover non-ASCII letters")

	random, err := s.flashcards.Random(ctx, anna.ID, 10)
	s.Require().NoError(err)
	s.Len(random, 3)
}

func (s *RepositorySuite) TestDeleteFlashcard() {
	ctx := context.Background()
	anna := s.createUser("anna")
	ben := s.createUser("ben")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 0, s.now)

	s.ErrorIs(s.flashcards.Delete(ctx, "c1", ben.ID), repository.ErrNotFound)
	s.Require().NoError(s.flashcards.Delete(ctx, "c1", anna.ID))

	card, err := s.flashcards.Get(ctx, "c1", anna.ID)
	s.NoError(err)
	s.Nil(card)
}

func (s *RepositorySuite) TestSaveResult_UpdatesCardSessionAndStreak() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 10, s.now)

	next := s.now.AddDate(0, 0, 1)
	err := s.reviews.SaveResult(ctx, models.PracticeResult{
		SessionID:        "session-1",
		UserID:           anna.ID,
		FlashcardID:      "c1",
		Correct:          true,
		Attempts:         2,
		ResponseTimeMS:   3200,
		MasteryLevel:     15,
		NextReviewAt:     next,
		PracticedAt:      s.now,
		Streak:           3,
		LastPracticeDate: "2025-04-02",
	})
	s.Require().NoError(err)

	card, err := s.flashcards.Get(ctx, "c1", anna.ID)
	s.Require().NoError(err)
	s.Equal(15, card.MasteryLevel)
	s.True(card.NextReviewAt.Equal(next))
	s.Require().NotNil(card.LastPracticedAt)
	s.True(card.LastPracticedAt.Equal(s.now))

	user, err := s.users.Get(ctx, anna.ID)
	s.Require().NoError(err)
	s.Equal(3, user.Streak)
	s.Require().NotNil(user.LastPracticeDate)
	s.Equal("2025-04-02", *user.LastPracticeDate)

	var sessions []models.PracticeSession
	s.Require().NoError(s.db.Select(&sessions, `SELECT id, user_id, flashcard_id, correct, attempts, response_time_ms, practice_date, practiced_at FROM practice_sessions`))
	s.Require().Len(sessions, 1)
	s.True(sessions[0].Correct)
	s.Equal(2, sessions[0].Attempts)
	s.Equal(int64(3200), sessions[0].ResponseTimeMS)
	s.Equal("2025-04-02", sessions[0].PracticeDate)
}

func (s *RepositorySuite) TestSaveResult_UnknownCardLeavesNoTrace() {
	ctx := context.Background()
	anna := s.createUser("anna")

	err := s.reviews.SaveResult(ctx, models.PracticeResult{
		UserID:           anna.ID,
		FlashcardID:      "missing",
		Correct:          true,
		MasteryLevel:     5,
		NextReviewAt:     s.now,
		PracticedAt:      s.now,
		Streak:           1,
		LastPracticeDate: "2025-04-02",
	})
	s.ErrorIs(err, repository.ErrNotFound)

	user, err := s.users.Get(ctx, anna.ID)
	s.Require().NoError(err)
	s.Equal(0, user.Streak)
}

func (s *RepositorySuite) TestRollupDayAndWeeklyStats() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 0, s.now)
	s.createCard(anna.ID, "c2", "die Katze", "cat", 0, s.now)

	save := func(cardID string, correct bool, ms int64) {
		s.Require().NoError(s.reviews.SaveResult(ctx, models.PracticeResult{
			UserID: anna.ID, FlashcardID: cardID, Correct: correct, Attempts: 1, ResponseTimeMS: ms,
			MasteryLevel: 5, NextReviewAt: s.now, PracticedAt: s.now, Streak: 1, LastPracticeDate: "2025-04-02",
		}))
	}
	save("c1", true, 1000)
	save("c2", false, 3000)
	save("c1", true, 2000)
	save("c2", true, 2000)

	n, err := s.stats.RollupDay(ctx, "2025-04-02")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	// Rerunning overwrites instead of duplicating.
	_, err = s.stats.RollupDay(ctx, "2025-04-02")
	s.Require().NoError(err)

	stats, err := s.stats.WeeklyStats(ctx, anna.ID, "2025-03-27")
	s.Require().NoError(err)
	s.Require().Len(stats, 1)
	s.Equal(4, stats[0].TotalCardsPracticed)
	s.InDelta(75.0, stats[0].AccuracyRate, 0.001)
	s.InDelta(2000.0, stats[0].AvgResponseTimeMS, 0.001)

	none, err := s.stats.WeeklyStats(ctx, anna.ID, "2025-04-03")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestDueCounts() {
	ctx := context.Background()
	anna := s.createUser("anna")
	ben := s.createUser("ben")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 0, s.now.Add(-time.Hour))
	s.createCard(anna.ID, "c2", "die Katze", "cat", 0, s.now)
	s.createCard(ben.ID, "c3", "das Haus", "house", 0, s.now.Add(time.Hour))

	counts, err := s.stats.DueCounts(ctx, s.now)
	s.Require().NoError(err)
	s.Equal(map[string]int{anna.ID: 2}, counts)
}

func (s *RepositorySuite) TestDeleteUser_RemovesEverything() {
	ctx := context.Background()
	anna := s.createUser("anna")
	s.createCard(anna.ID, "c1", "der Hund", "dog", 0, s.now)

	s.Require().NoError(s.users.Delete(ctx, anna.ID))

	user, err := s.users.Get(ctx, anna.ID)
	s.NoError(err)
	s.Nil(user)

	count, err := s.flashcards.Count(ctx, models.FlashcardFilter{UserID: anna.ID})
	s.Require().NoError(err)
	s.Zero(count)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}
