package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

func TestGoalAssistService_FloorDoesNotPushUndo(t *testing.T) {
	svc := newTestServices(t, nil)
	p1 := mustAddPlayer(t, svc, "Alpha", []string{"ST"}, 20, 60)

	result, err := svc.ga.Change(t.Context(), p1.ID, string(player.FieldLeagueGoals), -1)
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if result.Changed || result.Value != 0 {
		t.Fatalf("expected unchanged zero, got %+v", result)
	}
	if svc.ga.PendingUndo() != 0 {
		t.Fatalf("expected no undo entry, got %d", svc.ga.PendingUndo())
	}
}

func TestGoalAssistService_ChangeAndUndo(t *testing.T) {
	svc := newTestServices(t, nil)
	p1 := mustAddPlayer(t, svc, "Alpha", []string{"ST"}, 20, 60)

	for _, delta := range []int{1, 1, 2} {
		if _, err := svc.ga.Change(t.Context(), p1.ID, "clGoals", delta); err != nil {
			t.Fatalf("change: %v", err)
		}
	}
	result, err := svc.ga.Change(t.Context(), p1.ID, "clGoals", -10)
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if !result.Changed || result.Value != 0 {
		t.Fatalf("expected clamp to zero, got %+v", result)
	}

	undone, err := svc.ga.Undo(t.Context())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone.Value != 4 {
		t.Fatalf("expected restore to 4, got %d", undone.Value)
	}
	got, _ := svc.roster.GetPlayer(t.Context(), p1.ID)
	if got.CLGoals != 4 {
		t.Fatalf("expected clGoals 4, got %d", got.CLGoals)
	}
	if svc.ga.PendingUndo() != 3 {
		t.Fatalf("expected 3 pending entries, got %d", svc.ga.PendingUndo())
	}
}

func TestGoalAssistService_Errors(t *testing.T) {
	svc := newTestServices(t, nil)
	p1 := mustAddPlayer(t, svc, "Alpha", []string{"ST"}, 20, 60)

	if _, err := svc.ga.Change(t.Context(), p1.ID, "yellowCards", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ga.Change(t.Context(), "ghost", "cupGoals", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ga.Undo(t.Context()); !errors.Is(err, ErrEmptyUndoStack) {
		t.Fatalf("expected ErrEmptyUndoStack, got %v", err)
	}
}

func TestGoalAssistService_UndoAfterDeleteSkips(t *testing.T) {
	svc := newTestServices(t, nil)
	p1 := mustAddPlayer(t, svc, "Alpha", []string{"ST"}, 20, 60)

	if _, err := svc.ga.Change(t.Context(), p1.ID, "cupAssists", 1); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := svc.roster.DeletePlayer(t.Context(), p1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	undone, err := svc.ga.Undo(t.Context())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone.Changed {
		t.Fatalf("expected no-op undo for removed player")
	}
	if svc.ga.PendingUndo() != 0 {
		t.Fatalf("expected entry consumed")
	}
}
