package httpapi

import (
	"net/http"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

type matchDayRequest struct {
	MatchDay int `json:"matchDay"`
}

type addMinutesRequest struct {
	PlayerIDs []string `json:"playerIds" validate:"dive,required"`
	Minutes   int      `json:"minutes"`
}

type goalAssistRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Field    string `json:"field" validate:"required"`
	Delta    int    `json:"delta" validate:"oneof=-1 1"`
}

func (h *Handler) GetMatchDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetMatchDay")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.minutes.MatchDay(ctx))
}

func (h *Handler) SetMatchDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetMatchDay")
	defer span.End()

	var req matchDayRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.minutes.SetMatchDay(ctx, req.MatchDay)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) AdvanceMatchDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AdvanceMatchDay")
	defer span.End()

	view, err := h.minutes.AdvanceMatchDay(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) AddMinutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddMinutes")
	defer span.End()

	var req addMinutesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ids := make([]player.ID, 0, len(req.PlayerIDs))
	for _, id := range req.PlayerIDs {
		ids = append(ids, player.ID(id))
	}

	result, err := h.minutes.AddMinutes(ctx, ids, req.Minutes)
	if err != nil {
		h.logger.WarnContext(ctx, "add minutes failed", "minutes", req.Minutes, "players", len(ids), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UndoMinutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "UndoMinutes")
	defer span.End()

	result, err := h.minutes.UndoAddMinutes(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ChangeGoalAssist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ChangeGoalAssist")
	defer span.End()

	var req goalAssistRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.goalAssist.Change(ctx, player.ID(req.PlayerID), req.Field, req.Delta)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UndoGoalAssist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "UndoGoalAssist")
	defer span.End()

	result, err := h.goalAssist.Undo(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
