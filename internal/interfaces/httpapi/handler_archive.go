package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

type archivedPatchRequest struct {
	Age           *int    `json:"age,omitempty"`
	TotalMinutes  *int    `json:"totalMinutes,omitempty"`
	MatchesPlayed *int    `json:"matchesPlayed,omitempty"`
	Goals         *int    `json:"goals,omitempty"`
	Assists       *int    `json:"assists,omitempty"`
	ArchiveReason *string `json:"archiveReason,omitempty"`
}

func parseArchivedFilter(r *http.Request) (usecase.ArchivedFilter, error) {
	var filter usecase.ArchivedFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" && raw != "all" {
		category, err := player.ParseCategory(raw)
		if err != nil {
			return usecase.ArchivedFilter{}, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
		}
		filter.Category = category
	}

	ranges := []struct {
		target *usecase.IntRange
		key    string
	}{
		{&filter.Age, "age"},
		{&filter.Minutes, "minutes"},
		{&filter.Matches, "matches"},
		{&filter.Goals, "goals"},
		{&filter.Assists, "assists"},
	}
	for _, rg := range ranges {
		lo, err := optionalIntQuery(r, rg.key+"Min")
		if err != nil {
			return usecase.ArchivedFilter{}, err
		}
		hi, err := optionalIntQuery(r, rg.key+"Max")
		if err != nil {
			return usecase.ArchivedFilter{}, err
		}
		*rg.target = usecase.IntRange{Min: lo, Max: hi}
	}

	return filter, nil
}

func (h *Handler) ArchivePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ArchivePlayer")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	archived, err := h.archive.ArchivePlayer(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archived)
}

func (h *Handler) ListArchived(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListArchived")
	defer span.End()

	filter, err := parseArchivedFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := r.URL.Query()
	rows, err := h.archive.ListArchived(ctx, filter, query.Get("sort"), query.Get("order"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) EditArchived(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "EditArchived")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req archivedPatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.archive.EditArchived(ctx, id, usecase.ArchivedPatch{
		Age:           req.Age,
		TotalMinutes:  req.TotalMinutes,
		MatchesPlayed: req.MatchesPlayed,
		Goals:         req.Goals,
		Assists:       req.Assists,
		ArchiveReason: req.ArchiveReason,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updated)
}

func (h *Handler) DeleteArchived(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeleteArchived")
	defer span.End()

	id, err := playerIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.archive.DeleteArchived(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": string(id)})
}
