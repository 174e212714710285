package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/domain/undo"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// GoalAssistResult reports the counter after a change or undo. Changed is
// false when the request was absorbed by the zero floor.
type GoalAssistResult struct {
	PlayerID player.ID              `json:"playerId"`
	Field    player.GoalAssistField `json:"field"`
	Value    int                    `json:"value"`
	Changed  bool                   `json:"changed"`
	Player   *player.Player         `json:"player,omitempty"`
}

type GoalAssistService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewGoalAssistService(workspace *Workspace, logger *logging.Logger) *GoalAssistService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GoalAssistService{workspace: workspace, logger: logger}
}

// Change applies delta to one counter, never going below zero. An undo
// entry is recorded only when the stored value actually changes.
func (s *GoalAssistService) Change(ctx context.Context, id player.ID, rawField string, delta int) (out GoalAssistResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GoalAssistService.Change")
	defer func() { endUsecaseSpan(span, err) }()

	field, err := player.ParseGoalAssistField(rawField)
	if err != nil {
		return GoalAssistResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := findPlayer(w.state.players, id)
	if err != nil {
		return GoalAssistResult{}, err
	}
	current := *w.state.players[idx].GoalAssist(field)
	updated := max(0, current+delta)

	out = GoalAssistResult{PlayerID: id, Field: field, Value: updated}
	if updated == current {
		snapshot := w.state.players[idx].Clone()
		out.Player = &snapshot
		return out, nil
	}

	next := w.state.clone()
	*next.players[idx].GoalAssist(field) = updated
	if err := w.commitLocked(ctx, next, slotstore.Players); err != nil {
		return GoalAssistResult{}, err
	}
	w.gaUndo.Push(undo.GoalAssistEntry{PlayerID: id, Field: field, PreviousValue: current})

	snapshot := next.players[idx].Clone()
	out.Player = &snapshot
	out.Changed = true
	s.logger.InfoContext(ctx, "goal/assist changed", "player_id", id, "field", field, "from", current, "to", updated)
	return out, nil
}

// Undo restores the newest recorded counter change.
func (s *GoalAssistService) Undo(ctx context.Context) (out GoalAssistResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GoalAssistService.Undo")
	defer func() { endUsecaseSpan(span, err) }()

	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, ok := w.gaUndo.Peek()
	if !ok {
		return GoalAssistResult{}, fmt.Errorf("%w: no goal/assist change to undo", ErrEmptyUndoStack)
	}

	out = GoalAssistResult{PlayerID: entry.PlayerID, Field: entry.Field, Value: entry.PreviousValue, Changed: true}
	idx := player.IndexByID(w.state.players, entry.PlayerID)
	if idx < 0 {
		// The player left the roster; the entry is spent without a write.
		_, _ = w.gaUndo.Pop()
		out.Changed = false
		return out, nil
	}

	next := w.state.clone()
	*next.players[idx].GoalAssist(entry.Field) = entry.PreviousValue
	if err := w.commitLocked(ctx, next, slotstore.Players); err != nil {
		return GoalAssistResult{}, err
	}
	_, _ = w.gaUndo.Pop()

	snapshot := next.players[idx].Clone()
	out.Player = &snapshot
	s.logger.InfoContext(ctx, "goal/assist change undone", "player_id", entry.PlayerID, "field", entry.Field)
	return out, nil
}

func (s *GoalAssistService) PendingUndo() int {
	return s.workspace.gaUndo.Len()
}
