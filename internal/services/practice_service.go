package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/metrics"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/practice"
)

// PracticeMode selects which cards a practice run draws.
type PracticeMode string

const (
	ModeDue    PracticeMode = "due"
	ModeRandom PracticeMode = "random"
)

// PracticeState is what clients see of a running session.
type PracticeState struct {
	ID   string       `json:"id"`
	Mode PracticeMode `json:"mode"`
	practice.View
}

// PracticeService runs practice sessions held in memory.
type PracticeService interface {
	Start(ctx context.Context, userID string, mode PracticeMode) (*PracticeState, error)
	Get(ctx context.Context, userID, sessionID string) (*PracticeState, error)
	Answer(ctx context.Context, userID, sessionID, answer string) (*PracticeState, error)
	Reveal(ctx context.Context, userID, sessionID string) (*PracticeState, error)
	Next(ctx context.Context, userID, sessionID string) (*PracticeState, error)
	Purge(ctx context.Context, idle time.Duration) int
	Active() int
}

type practiceEntry struct {
	mu         sync.Mutex
	id         string
	userID     string
	mode       PracticeMode
	session    practice.Session
	shownAt    time.Time
	answeredAt time.Time
	lastSeen   time.Time
}

func (e *practiceEntry) state() *PracticeState {
	return &PracticeState{ID: e.id, Mode: e.mode, View: e.session.View()}
}

type practiceService struct {
	flashcards FlashcardService
	now        Clock

	mu       sync.Mutex
	sessions map[string]*practiceEntry
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(flashcards FlashcardService, now Clock) PracticeService {
	return &practiceService{
		flashcards: flashcards,
		now:        clockOrDefault(now),
		sessions:   make(map[string]*practiceEntry),
	}
}

func (s *practiceService) Start(ctx context.Context, userID string, mode PracticeMode) (*PracticeState, error) {
	log := logger.FromContext(ctx)
	if mode == "" {
		mode = ModeDue
	}
	log.Debug("starting practice: user_id=%s, mode=%s", userID, mode)

	var cards []models.DueCard
	var err error
	switch mode {
	case ModeDue:
		cards, err = s.flashcards.DueForPractice(ctx, userID)
	case ModeRandom:
		cards, err = s.flashcards.RandomForPractice(ctx, userID)
	default:
		return nil, errors.NewValidationError("mode", "must be due or random")
	}
	if err != nil {
		return nil, err
	}

	deck := make([]practice.Card, 0, len(cards))
	for _, c := range cards {
		deck = append(deck, practice.Card{ID: c.ID, Prompt: c.Prompt, Answer: c.Answer})
	}

	now := s.now()
	entry := &practiceEntry{
		id:       uuid.NewString(),
		userID:   userID,
		mode:     mode,
		session:  practice.New(deck),
		shownAt:  now,
		lastSeen: now,
	}

	s.mu.Lock()
	s.sessions[entry.id] = entry
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.PracticeSessionsStarted.WithLabelValues(string(mode)).Inc()
	metrics.ActivePracticeSessions.Set(float64(active))
	log.Info("practice session started: id=%s, cards=%d", entry.id, len(deck))

	return entry.state(), nil
}

// lookup returns the entry locked. Callers must unlock it.
func (s *practiceService) lookup(userID, sessionID string) (*practiceEntry, error) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok || entry.userID != userID {
		return nil, errors.NewNotFoundError("practice session", sessionID)
	}
	entry.mu.Lock()
	entry.lastSeen = s.now()
	return entry, nil
}

func (s *practiceService) Get(ctx context.Context, userID, sessionID string) (*PracticeState, error) {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return entry.state(), nil
}

func (s *practiceService) Answer(ctx context.Context, userID, sessionID, answer string) (*PracticeState, error) {
	log := logger.FromContext(ctx)

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	next, err := entry.session.Submit(answer)
	if err != nil {
		log.Debug("answer rejected: session=%s, err=%v", sessionID, err)
		return nil, sessionError(err)
	}
	if next.Phase() == practice.Revealed {
		entry.answeredAt = s.now()
	}
	entry.session = next
	return entry.state(), nil
}

func (s *practiceService) Reveal(ctx context.Context, userID, sessionID string) (*PracticeState, error) {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	next, err := entry.session.Reveal()
	if err != nil {
		return nil, sessionError(err)
	}
	entry.answeredAt = s.now()
	entry.session = next
	return entry.state(), nil
}

// Next stores the revealed card's result and moves on. The session only
// advances once the result is stored.
func (s *practiceService) Next(ctx context.Context, userID, sessionID string) (*PracticeState, error) {
	log := logger.FromContext(ctx)

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	next, result, err := entry.session.Advance()
	if err != nil {
		return nil, sessionError(err)
	}

	responseTime := entry.answeredAt.Sub(entry.shownAt)
	if responseTime < 0 {
		responseTime = 0
	}
	_, err = s.flashcards.SaveResult(ctx, SaveResultInput{
		UserID:       userID,
		FlashcardID:  result.CardID,
		SessionID:    sessionID,
		Correct:      result.Correct,
		Attempts:     result.Attempts,
		ResponseTime: responseTime,
	})
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCodeNotFound):
		// The card was deleted mid-session; there is nothing to store.
		log.Warn("card gone, advancing without saving: session=%s, card=%s, err=%v", sessionID, result.CardID, err)
	default:
		log.Error("failed to save result, session stays on card: session=%s, err=%v", sessionID, err)
		return nil, err
	}

	entry.session = next
	entry.shownAt = s.now()
	if next.Phase() == practice.Complete {
		r := next.Results()
		log.Info("practice session complete: id=%s, correct=%d, incorrect=%d, avg_attempts=%.1f",
			sessionID, r.Correct, r.Incorrect, r.AverageAttempts())
	}
	return entry.state(), nil
}

// Purge drops sessions not touched for longer than idle. Sessions busy with
// a request are skipped.
func (s *practiceService) Purge(ctx context.Context, idle time.Duration) int {
	log := logger.FromContext(ctx)
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	snapshot := make(map[string]*practiceEntry, len(s.sessions))
	for id, entry := range s.sessions {
		snapshot[id] = entry
	}
	s.mu.Unlock()

	var stale []string
	for id, entry := range snapshot {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
		entry.mu.Unlock()
	}

	s.mu.Lock()
	removed := 0
	for _, id := range stale {
		if s.sessions[id] == snapshot[id] {
			delete(s.sessions, id)
			removed++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	metrics.ActivePracticeSessions.Set(float64(active))
	if removed > 0 {
		log.Info("purged %d idle practice sessions, %d active", removed, active)
	}
	return removed
}

func (s *practiceService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func sessionError(err error) error {
	switch {
	case stderrors.Is(err, practice.ErrEmptyAnswer):
		return errors.NewValidationError("answer", "cannot be empty")
	case stderrors.Is(err, practice.ErrMissingAnswer):
		return errors.NewConflictError("card has no answer to check against", err)
	case stderrors.Is(err, practice.ErrSessionCompleted):
		return errors.NewConflictError("practice session is complete", err)
	case stderrors.Is(err, practice.ErrNotAnswering):
		return errors.NewConflictError("card is not accepting answers", err)
	case stderrors.Is(err, practice.ErrNotRevealed):
		return errors.NewConflictError("card has not been answered yet", err)
	default:
		return errors.NewInternalError(err)
	}
}
