package httpapi

import (
	"net/http"
	"time"
)

type trainingTimesRequest struct {
	Times []string `json:"times" validate:"required,dive,required"`
}

type trainingBonusesRequest struct {
	Bonuses map[string]int `json:"bonuses" validate:"required"`
}

func (h *Handler) TrainingSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "TrainingSummary")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.training.Summary(ctx))
}

func (h *Handler) SetTrainingTimes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetTrainingTimes")
	defer span.End()

	var req trainingTimesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.training.SetTimes(ctx, req.Times)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) SetTrainingBonuses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SetTrainingBonuses")
	defer span.End()

	var req trainingBonusesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.training.SetBonuses(ctx, req.Bonuses)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) ResetTrainingBonuses(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResetTrainingBonuses")
	defer span.End()

	summary, err := h.training.ResetBonuses(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// ExportBackup returns the bare backup document, not the envelope, so the
// downloaded file can be posted back unchanged.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ExportBackup")
	defer span.End()

	filename := "squad-tracker-backup-" + time.Now().UTC().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(ctx, w, http.StatusOK, h.backup.Export(ctx))
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ImportBackup")
	defer span.End()

	raw, err := readBody(r, maxBackupBytes)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.backup.Import(ctx, raw); err != nil {
		h.logger.WarnContext(ctx, "backup import rejected", "bytes", len(raw), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"imported": true})
}
