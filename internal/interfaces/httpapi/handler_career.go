package httpapi

import "net/http"

func (h *Handler) HallOfFame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "HallOfFame")
	defer span.End()

	query := r.URL.Query()
	rows, err := h.career.HallOfFame(ctx, query.Get("metric"), query.Get("join"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) AllTimeLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AllTimeLeaders")
	defer span.End()

	query := r.URL.Query()
	rows, err := h.career.AllTimeLeaders(ctx, query.Get("metric"), query.Get("join"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SearchPlayers")
	defer span.End()

	rows, err := h.career.SearchPlayers(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
