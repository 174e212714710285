package httpapi

import (
	"fmt"
	"net/http"
)

type rolloverRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}

type seasonNumberResponse struct {
	CurrentSeason int `json:"currentSeason"`
}

func (h *Handler) CurrentRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CurrentRanking")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.ranking.Current(ctx))
}

func (h *Handler) RankingBaseline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RankingBaseline")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.ranking.Baseline(ctx))
}

func (h *Handler) RankingTimeSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RankingTimeSeries")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.ranking.TimeSeries(ctx))
}

func (h *Handler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RecordSnapshot")
	defer span.End()

	snapshot, err := h.ranking.RecordSnapshot(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshot)
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListSeasons")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.seasons.ListSeasons(ctx))
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetSeason")
	defer span.End()

	number, err := intFromPath(r, "seasonNumber")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	archive, err := h.seasons.GetSeason(ctx, number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archive)
}

func (h *Handler) CurrentSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CurrentSeason")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, seasonNumberResponse{CurrentSeason: h.seasons.CurrentSeasonNumber(ctx)})
}

func (h *Handler) RolloverSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RolloverSeason")
	defer span.End()

	var req rolloverRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: rollover must be confirmed", err))
		return
	}

	summary, err := h.seasons.Rollover(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season rollover failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, summary)
}
