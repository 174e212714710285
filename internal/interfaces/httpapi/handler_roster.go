package httpapi

import (
	"net/http"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

type playerRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Positions []string `json:"positions" validate:"required,min=1,dive,required"`
	Age       *int     `json:"age" validate:"required,min=1"`
	Quality   *int     `json:"quality" validate:"required,min=0,max=100"`
}

func (req playerRequest) toInput() usecase.PlayerInput {
	return usecase.PlayerInput{
		Name:      req.Name,
		Positions: req.Positions,
		Age:       *req.Age,
		Quality:   *req.Quality,
	}
}

type progressRequest struct {
	Value *int `json:"value"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type agedResponse struct {
	Aged int `json:"aged"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListPlayers")
	defer span.End()

	players, err := h.roster.ListPlayers(ctx, r.URL.Query().Get("sort"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddPlayer")
	defer span.End()

	var req playerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roster.AddPlayer(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, created)
}

func (h *Handler) EditPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "EditPlayer")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req playerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.EditPlayer(ctx, id, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "edit player failed", "player_id", string(id), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeletePlayer")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.roster.DeletePlayer(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": string(id)})
}

func (h *Handler) SetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetProgress")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	day, err := intFromPath(r, "day")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req progressRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.SetProgress(ctx, id, day, req.Value)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) SetComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetComment")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req commentRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.SetComment(ctx, id, req.Comment)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) SetTags(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetTags")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req player.Tags
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.SetTags(ctx, id, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) ToggleTag(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ToggleTag")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.ToggleTag(ctx, id, r.PathValue("tag"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) ResetMinutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResetMinutes")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.roster.ResetMinutes(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) AgeAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AgeAll")
	defer span.End()

	aged, err := h.roster.AgeAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, agedResponse{Aged: aged})
}

func (h *Handler) SquadSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SquadSummary")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.roster.SquadSummary(ctx))
}

func (h *Handler) DayAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DayAverages")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.roster.DayAverages(ctx))
}

func (h *Handler) MostImproved(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "MostImproved")
	defer span.End()

	query := r.URL.Query()
	rows, err := h.roster.MostImproved(ctx, query.Get("sort"), query.Get("order"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
