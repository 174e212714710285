package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
	"github.com/riskibarqy/squad-tracker/internal/domain/season"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

var rolloverSlots = []slotstore.Name{
	slotstore.Players,
	slotstore.SeasonArchives,
	slotstore.RankingBaseline,
	slotstore.RankingSeries,
	slotstore.MatchDayCursor,
}

type SeasonService struct {
	workspace *Workspace
	logger    *logging.Logger
	now       func() time.Time
}

func NewSeasonService(workspace *Workspace, logger *logging.Logger) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{workspace: workspace, logger: logger, now: time.Now}
}

// Rollover archives the live season and starts a fresh one: lifetime
// counters absorb the season totals, season state is cleared, the ranking
// baseline and time series are emptied and the minutes cursor returns to day
// 1. All five slots are written in one batch; on failure nothing changes.
// Both undo logs are cleared because their entries refer to the closed
// season.
func (s *SeasonService) Rollover(ctx context.Context) (out season.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Rollover")
	defer func() { endUsecaseSpan(span, err) }()

	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	rolled := season.Close(w.state.archives, w.state.players, w.state.baseline, w.state.series, s.now().UTC())

	next := w.state.clone()
	next.archives = rolled.Archives
	next.players = rolled.Players
	next.baseline = ranking.Baseline{}
	next.series = ranking.TimeSeries{}
	next.matchDay = 0
	if err := w.commitLocked(ctx, next, rolloverSlots...); err != nil {
		return season.Summary{}, err
	}
	w.minutesUndo.Clear()
	w.gaUndo.Clear()

	out = rolled.Archives[len(rolled.Archives)-1].Summary()
	s.logger.InfoContext(ctx, "season rolled over", "season_number", out.SeasonNumber, "players", out.PlayerCount)
	return out, nil
}

func (s *SeasonService) ListSeasons(ctx context.Context) []season.Summary {
	var out []season.Summary
	s.workspace.view(func(st *state) {
		out = make([]season.Summary, 0, len(st.archives))
		for _, a := range st.archives {
			out = append(out, a.Summary())
		}
	})
	return out
}

func (s *SeasonService) GetSeason(ctx context.Context, number int) (out season.Archive, err error) {
	s.workspace.view(func(st *state) {
		for _, a := range st.archives {
			if a.SeasonNumber == number {
				out = a.Clone()
				return
			}
		}
		err = fmt.Errorf("%w: season %d", ErrNotFound, number)
	})
	return out, err
}

// CurrentSeasonNumber is the number the live season will be archived under.
func (s *SeasonService) CurrentSeasonNumber(ctx context.Context) int {
	var n int
	s.workspace.view(func(st *state) {
		n = season.NextNumber(st.archives)
	})
	return n
}
