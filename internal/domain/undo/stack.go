package undo

import (
	"errors"
	"sync"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

var ErrEmpty = errors.New("undo stack is empty")

// Stack is a LIFO log of undo entries. It lives for the process only.
type Stack[T any] struct {
	mu      sync.Mutex
	entries []T
}

func (s *Stack[T]) Push(entry T) {
	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()
}

func (s *Stack[T]) Pop() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.entries) == 0 {
		return zero, ErrEmpty
	}
	last := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = zero
	s.entries = s.entries[:len(s.entries)-1]
	return last, nil
}

// Peek returns the newest entry without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.entries) == 0 {
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Stack[T]) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// MinutesChange is the pre-image of one player touched by a minutes
// allocation.
type MinutesChange struct {
	PlayerID        player.ID `json:"playerId"`
	PreviousMinutes int       `json:"previousMinuteValue"`
	PreviousTotal   int       `json:"previousTotal"`
	PreviousMatches int       `json:"previousMatches"`
}

// MinutesEntry reverts one AddMinutes call across all selected players.
type MinutesEntry struct {
	MatchDay  int             `json:"matchDay"`
	PerPlayer []MinutesChange `json:"perPlayer"`
}

// GoalAssistEntry reverts one goal/assist counter change.
type GoalAssistEntry struct {
	PlayerID      player.ID              `json:"playerId"`
	Field         player.GoalAssistField `json:"field"`
	PreviousValue int                    `json:"previousValue"`
}
