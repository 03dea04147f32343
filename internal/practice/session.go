// Package practice models a practice session as an immutable value. Each
// transition returns a new Session and leaves the receiver untouched, so a
// caller can persist a card result first and only then commit the new state.
package practice

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wordflash/wordflash/internal/mastery"
)

// MaxAttempts is the number of wrong answers after which a card is revealed.
const MaxAttempts = 3

var (
	ErrEmptyAnswer      = errors.New("practice: empty answer")
	ErrMissingAnswer    = errors.New("practice: card has no answer")
	ErrNotAnswering     = errors.New("practice: card is not accepting answers")
	ErrNotRevealed      = errors.New("practice: card has not been revealed")
	ErrSessionCompleted = errors.New("practice: session is complete")
)

// Phase is the state of the card currently on screen.
type Phase int

const (
	Answering Phase = iota
	Revealed
	Complete
)

func (p Phase) String() string {
	switch p {
	case Answering:
		return "answering"
	case Revealed:
		return "revealed"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Card is one prompt/answer pair in a session.
type Card struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Answer string `json:"-"`
}

// Feedback is shown after each submitted answer or reveal.
type Feedback struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// Results aggregates outcomes across advanced cards.
type Results struct {
	Correct       int `json:"correct"`
	Incorrect     int `json:"incorrect"`
	TotalAttempts int `json:"total_attempts"`
}

// AverageAttempts is total attempts per finished card, rounded to one decimal.
func (r Results) AverageAttempts() float64 {
	answered := r.Correct + r.Incorrect
	if answered == 0 || r.TotalAttempts == 0 {
		return 0
	}
	avg := float64(r.TotalAttempts) / float64(answered)
	return math.Round(avg*10) / 10
}

// CardResult is what must be persisted when a card is advanced past.
type CardResult struct {
	CardID   string
	Correct  bool
	Attempts int
}

// Session is the full state of a practice run.
type Session struct {
	cards    []Card
	index    int
	attempts int
	phase    Phase
	feedback *Feedback
	results  Results
}

// New starts a session over cards. An empty deck is complete immediately.
func New(cards []Card) Session {
	s := Session{cards: cards}
	if len(cards) == 0 {
		s.phase = Complete
	}
	return s
}

func (s Session) Phase() Phase        { return s.phase }
func (s Session) Index() int          { return s.index }
func (s Session) Len() int            { return len(s.cards) }
func (s Session) Attempts() int       { return s.attempts }
func (s Session) Results() Results    { return s.results }
func (s Session) Feedback() *Feedback { return s.feedback }

// Current returns the card on screen, or false once the session is complete.
func (s Session) Current() (Card, bool) {
	if s.phase == Complete || s.index >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[s.index], true
}

// Progress is the share of cards already advanced past, in percent.
func (s Session) Progress() float64 {
	if len(s.cards) == 0 {
		return 100
	}
	if s.phase == Complete {
		return 100
	}
	return float64(s.index) / float64(len(s.cards)) * 100
}

// Submit checks an answer for the current card.
func (s Session) Submit(answer string) (Session, error) {
	if s.phase == Complete {
		return s, ErrSessionCompleted
	}
	if s.phase != Answering {
		return s, ErrNotAnswering
	}
	if strings.TrimSpace(answer) == "" {
		return s, ErrEmptyAnswer
	}
	card := s.cards[s.index]
	if strings.TrimSpace(card.Answer) == "" {
		return s, fmt.Errorf("%w: card %s", ErrMissingAnswer, card.ID)
	}

	next := s
	next.attempts++
	switch {
	case mastery.CheckAnswer(answer, card.Answer):
		next.phase = Revealed
		next.feedback = &Feedback{Correct: true, Message: "Correct!"}
	case next.attempts >= MaxAttempts:
		next.phase = Revealed
		next.feedback = revealFeedback(card)
	default:
		next.feedback = &Feedback{Correct: false, Message: "Try again!"}
	}
	return next, nil
}

// Reveal gives up on the current card and shows its answer.
func (s Session) Reveal() (Session, error) {
	if s.phase == Complete {
		return s, ErrSessionCompleted
	}
	if s.phase != Answering {
		return s, ErrNotAnswering
	}
	card := s.cards[s.index]
	if strings.TrimSpace(card.Answer) == "" {
		return s, fmt.Errorf("%w: card %s", ErrMissingAnswer, card.ID)
	}

	next := s
	next.attempts = MaxAttempts
	next.phase = Revealed
	next.feedback = revealFeedback(card)
	return next, nil
}

// Advance moves past a revealed card and returns the result to persist.
func (s Session) Advance() (Session, CardResult, error) {
	if s.phase == Complete {
		return s, CardResult{}, ErrSessionCompleted
	}
	if s.phase != Revealed {
		return s, CardResult{}, ErrNotRevealed
	}

	correct := s.feedback != nil && s.feedback.Correct
	result := CardResult{
		CardID:   s.cards[s.index].ID,
		Correct:  correct,
		Attempts: s.attempts,
	}

	next := s
	if correct {
		next.results.Correct++
	} else {
		next.results.Incorrect++
	}
	next.results.TotalAttempts += s.attempts
	next.attempts = 0
	next.feedback = nil

	if s.index == len(s.cards)-1 {
		next.phase = Complete
	} else {
		next.index++
		next.phase = Answering
	}
	return next, result, nil
}

func revealFeedback(card Card) *Feedback {
	return &Feedback{Correct: false, Message: "The correct answer is: " + card.Answer}
}
