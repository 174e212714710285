package undo

import (
	"errors"
	"testing"
)

func TestStack_LIFO(t *testing.T) {
	var s Stack[GoalAssistEntry]

	if _, err := s.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}

	s.Push(GoalAssistEntry{PlayerID: "a", PreviousValue: 1})
	s.Push(GoalAssistEntry{PlayerID: "b", PreviousValue: 2})
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
	if top, ok := s.Peek(); !ok || top.PlayerID != "b" {
		t.Fatalf("unexpected peek %+v", top)
	}

	first, err := s.Pop()
	if err != nil || first.PlayerID != "b" {
		t.Fatalf("expected b first, got %+v %v", first, err)
	}
	second, err := s.Pop()
	if err != nil || second.PlayerID != "a" {
		t.Fatalf("expected a second, got %+v %v", second, err)
	}
	if _, err := s.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty after draining, got %v", err)
	}
}

func TestStack_Clear(t *testing.T) {
	var s Stack[MinutesEntry]
	s.Push(MinutesEntry{MatchDay: 1})
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty stack")
	}
}
