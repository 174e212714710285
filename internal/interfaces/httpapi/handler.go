package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

const maxBackupBytes = 32 << 20

// Services groups the usecase layer consumed by the handlers.
type Services struct {
	Roster     *usecase.RosterService
	Minutes    *usecase.MinutesService
	GoalAssist *usecase.GoalAssistService
	Ranking    *usecase.RankingService
	Seasons    *usecase.SeasonService
	Archive    *usecase.ArchiveService
	Career     *usecase.CareerService
	Training   *usecase.TrainingService
	Backup     *usecase.BackupService
}

type Handler struct {
	roster     *usecase.RosterService
	minutes    *usecase.MinutesService
	goalAssist *usecase.GoalAssistService
	ranking    *usecase.RankingService
	seasons    *usecase.SeasonService
	archive    *usecase.ArchiveService
	career     *usecase.CareerService
	training   *usecase.TrainingService
	backup     *usecase.BackupService
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		roster:     services.Roster,
		minutes:    services.Minutes,
		goalAssist: services.GoalAssist,
		ranking:    services.Ranking,
		seasons:    services.Seasons,
		archive:    services.Archive,
		career:     services.Career,
		training:   services.Training,
		backup:     services.Backup,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest strictly decodes the JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", usecase.ErrInvalidInput, limit)
	}
	return raw, nil
}

func playerIDFromPath(r *http.Request) (player.ID, error) {
	raw := strings.TrimSpace(r.PathValue("playerID"))
	if raw == "" {
		return "", fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput)
	}
	return player.ID(raw), nil
}

func intFromPath(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return v, nil
}

// optionalIntQuery parses an optional integer query parameter; absent or
// blank values yield nil.
func optionalIntQuery(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return &v, nil
}
