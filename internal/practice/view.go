package practice

// View is a read-only snapshot of a session for rendering.
type View struct {
	Phase           Phase     `json:"phase"`
	Index           int       `json:"index"`
	Total           int       `json:"total"`
	Attempts        int       `json:"attempts"`
	Progress        float64   `json:"progress"`
	Card            *Card     `json:"card,omitempty"`
	Feedback        *Feedback `json:"feedback,omitempty"`
	Results         Results   `json:"results"`
	AverageAttempts float64   `json:"average_attempts"`
	CanReveal       bool      `json:"can_reveal"`
}

// View snapshots the session.
func (s Session) View() View {
	v := View{
		Phase:           s.phase,
		Index:           s.index,
		Total:           len(s.cards),
		Attempts:        s.attempts,
		Progress:        s.Progress(),
		Feedback:        s.feedback,
		Results:         s.results,
		AverageAttempts: s.results.AverageAttempts(),
		CanReveal:       s.phase == Answering,
	}
	if card, ok := s.Current(); ok {
		v.Card = &card
	}
	return v
}
