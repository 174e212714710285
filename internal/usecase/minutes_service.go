package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/domain/undo"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// MatchDayView reports the minutes cursor. MatchDay is 1-based; Exhausted is
// set once every slot of the season has been passed.
type MatchDayView struct {
	MatchDay    int  `json:"matchDay"`
	Exhausted   bool `json:"exhausted"`
	MaxMinutes  int  `json:"maxMinutes"`
	PendingUndo int  `json:"pendingUndo"`
}

// MinutesResult is the outcome of one allocation or its undo.
type MinutesResult struct {
	MatchDay int             `json:"matchDay"`
	Minutes  int             `json:"minutes,omitempty"`
	Players  []player.Player `json:"players"`
}

type MinutesService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewMinutesService(workspace *Workspace, logger *logging.Logger) *MinutesService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MinutesService{workspace: workspace, logger: logger}
}

func (s *MinutesService) viewLocked() MatchDayView {
	w := s.workspace
	day := w.state.matchDay
	exhausted := day >= player.SeasonDays
	if exhausted {
		day = player.SeasonDays - 1
	}
	return MatchDayView{
		MatchDay:    day + 1,
		Exhausted:   exhausted,
		MaxMinutes:  w.minutesMax,
		PendingUndo: w.minutesUndo.Len(),
	}
}

func (s *MinutesService) MatchDay(ctx context.Context) MatchDayView {
	s.workspace.mu.Lock()
	defer s.workspace.mu.Unlock()
	return s.viewLocked()
}

// SetMatchDay points the cursor at a 1-based season day.
func (s *MinutesService) SetMatchDay(ctx context.Context, day int) (view MatchDayView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MinutesService.SetMatchDay")
	defer func() { endUsecaseSpan(span, err) }()

	idx, err := player.DayIndex(day)
	if err != nil {
		return MatchDayView{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	return s.moveCursor(ctx, func(int) (int, error) { return idx, nil })
}

// AdvanceMatchDay moves the cursor to the next slot. Advancing from the last
// day leaves the cursor exhausted until a rollover or SetMatchDay.
func (s *MinutesService) AdvanceMatchDay(ctx context.Context) (view MatchDayView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MinutesService.AdvanceMatchDay")
	defer func() { endUsecaseSpan(span, err) }()

	return s.moveCursor(ctx, func(current int) (int, error) {
		if current >= player.SeasonDays {
			return 0, fmt.Errorf("%w: season has no match day after %d", ErrOutOfRange, player.SeasonDays)
		}
		return current + 1, nil
	})
}

func (s *MinutesService) moveCursor(ctx context.Context, next func(current int) (int, error)) (MatchDayView, error) {
	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	day, err := next(w.state.matchDay)
	if err != nil {
		return MatchDayView{}, err
	}
	staged := w.state.clone()
	staged.matchDay = day
	if err := w.commitLocked(ctx, staged, slotstore.MatchDayCursor); err != nil {
		return MatchDayView{}, err
	}
	s.logger.InfoContext(ctx, "match day cursor moved", "match_day", day+1)
	return s.viewLocked(), nil
}

func dedupeIDs(ids []player.ID) []player.ID {
	seen := make(map[player.ID]struct{}, len(ids))
	out := make([]player.ID, 0, len(ids))
	for _, id := range ids {
		id = player.ID(strings.TrimSpace(string(id)))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// AddMinutes adds minutes to the cursor slot of every selected player,
// bumps their totals and match counts and records one undo entry for the
// whole selection.
func (s *MinutesService) AddMinutes(ctx context.Context, selected []player.ID, minutes int) (out MinutesResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MinutesService.AddMinutes")
	defer func() { endUsecaseSpan(span, err) }()

	w := s.workspace
	if minutes < 1 || minutes > w.minutesMax {
		return MinutesResult{}, fmt.Errorf("%w: minutes must be between 1 and %d, got %d", ErrOutOfRange, w.minutesMax, minutes)
	}
	ids := dedupeIDs(selected)
	if len(ids) == 0 {
		return MinutesResult{}, fmt.Errorf("%w: select at least one player", ErrInvalidInput)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	matchDay := w.state.matchDay
	if matchDay >= player.SeasonDays {
		return MinutesResult{}, fmt.Errorf("%w: match day cursor is past day %d", ErrOutOfRange, player.SeasonDays)
	}

	next := w.state.clone()
	entry := undo.MinutesEntry{MatchDay: matchDay, PerPlayer: make([]undo.MinutesChange, 0, len(ids))}
	out = MinutesResult{MatchDay: matchDay + 1, Minutes: minutes, Players: make([]player.Player, 0, len(ids))}
	for _, id := range ids {
		idx, err := findPlayer(next.players, id)
		if err != nil {
			return MinutesResult{}, err
		}
		p := &next.players[idx]
		entry.PerPlayer = append(entry.PerPlayer, undo.MinutesChange{
			PlayerID:        p.ID,
			PreviousMinutes: p.Minutes[matchDay],
			PreviousTotal:   p.TotalMinutes,
			PreviousMatches: p.MatchesPlayed,
		})
		p.Minutes[matchDay] += minutes
		p.TotalMinutes += minutes
		p.MatchesPlayed++
		out.Players = append(out.Players, p.Clone())
	}

	if err := w.commitLocked(ctx, next, slotstore.Players); err != nil {
		return MinutesResult{}, err
	}
	w.minutesUndo.Push(entry)

	s.logger.InfoContext(ctx, "minutes added",
		"match_day", matchDay+1,
		"minutes", minutes,
		"players", len(ids),
	)
	return out, nil
}

// UndoAddMinutes restores the pre-image of the newest allocation. Players
// removed since then are skipped.
func (s *MinutesService) UndoAddMinutes(ctx context.Context) (out MinutesResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MinutesService.UndoAddMinutes")
	defer func() { endUsecaseSpan(span, err) }()

	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, ok := w.minutesUndo.Peek()
	if !ok {
		return MinutesResult{}, fmt.Errorf("%w: no minutes change to undo", ErrEmptyUndoStack)
	}

	next := w.state.clone()
	out = MinutesResult{MatchDay: entry.MatchDay + 1, Players: make([]player.Player, 0, len(entry.PerPlayer))}
	for _, change := range entry.PerPlayer {
		idx := player.IndexByID(next.players, change.PlayerID)
		if idx < 0 {
			continue
		}
		p := &next.players[idx]
		p.Minutes[entry.MatchDay] = change.PreviousMinutes
		p.TotalMinutes = change.PreviousTotal
		p.MatchesPlayed = change.PreviousMatches
		out.Players = append(out.Players, p.Clone())
	}

	if err := w.commitLocked(ctx, next, slotstore.Players); err != nil {
		return MinutesResult{}, err
	}
	if _, err := w.minutesUndo.Pop(); err != nil && !errors.Is(err, undo.ErrEmpty) {
		return MinutesResult{}, err
	}

	s.logger.InfoContext(ctx, "minutes change undone", "match_day", entry.MatchDay+1, "players", len(out.Players))
	return out, nil
}
