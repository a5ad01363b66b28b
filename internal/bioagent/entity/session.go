package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session owns the ordered conversation history and the active research
// context. It is mutated only through its own methods; no other component
// touches the turn slice directly.
type Session struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Turns     []*Turn          `json:"turns"`
	Context   *ResearchContext `json:"context,omitempty"`
}

// NewSession creates an empty session with a fresh id.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Turns:     make([]*Turn, 0, 16),
	}
}

// AppendTurn adds a turn to the end of the history. Appends are strictly
// ordered by turn-cycle sequence.
func (s *Session) AppendTurn(t *Turn) {
	s.Turns = append(s.Turns, t)
}

// UpdateContext replaces the research context wholesale. The new context
// takes effect from the next model invocation onward.
func (s *Session) UpdateContext(rc *ResearchContext) {
	s.Context = rc
}

// LastTurn returns the most recent turn, or nil for an empty session.
func (s *Session) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return s.Turns[len(s.Turns)-1]
}

// TurnCount returns the number of recorded turns.
func (s *Session) TurnCount() int {
	return len(s.Turns)
}
