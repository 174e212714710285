package usecase

import (
	"context"

	"github.com/riskibarqy/squad-tracker/internal/domain/powerscore"
	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// Snapshot is the ranking recorded for one season day, with deltas against
// the baseline that was live before the recording.
type Snapshot struct {
	Day     int                   `json:"day"`
	Ranking []ranking.RankedEntry `json:"ranking"`
}

// TimeSeriesView is the chart projection of the live season.
type TimeSeriesView struct {
	CurrentDay int                `json:"currentDay"`
	Days       []int              `json:"days"`
	Series     ranking.TimeSeries `json:"series"`
}

type RankingService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewRankingService(workspace *Workspace, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingService{workspace: workspace, logger: logger}
}

// Current ranks the live roster against the stored baseline without
// modifying either.
func (s *RankingService) Current(ctx context.Context) []ranking.RankedEntry {
	_, span := startUsecaseSpan(ctx, "usecase.RankingService.Current")
	defer span.End()

	var out []ranking.RankedEntry
	s.workspace.view(func(st *state) {
		out = ranking.Compare(powerscore.Rank(st.players), st.baseline)
	})
	return out
}

func (s *RankingService) Baseline(ctx context.Context) ranking.Baseline {
	var out ranking.Baseline
	s.workspace.view(func(st *state) {
		out = st.baseline.Clone()
	})
	if out == nil {
		out = ranking.Baseline{}
	}
	return out
}

func (s *RankingService) TimeSeries(ctx context.Context) TimeSeriesView {
	var out TimeSeriesView
	s.workspace.view(func(st *state) {
		out = TimeSeriesView{
			CurrentDay: ranking.CurrentDay(st.players),
			Days:       st.series.Days(),
			Series:     st.series.Clone(),
		}
	})
	if out.Series == nil {
		out.Series = ranking.TimeSeries{}
	}
	return out
}

// RecordSnapshot writes the current ranking into the time series at the
// current day and makes it the new baseline. Both slots are written in one
// batch.
func (s *RankingService) RecordSnapshot(ctx context.Context) (out Snapshot, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RecordSnapshot")
	defer func() { endUsecaseSpan(span, err) }()

	names := []slotstore.Name{slotstore.RankingBaseline, slotstore.RankingSeries}
	err = s.workspace.mutate(ctx, names, func(next *state) error {
		ranked := powerscore.Rank(next.players)
		day := ranking.CurrentDay(next.players)
		out = Snapshot{Day: day, Ranking: ranking.Compare(ranked, next.baseline)}

		if next.series == nil {
			next.series = ranking.TimeSeries{}
		}
		next.series.Record(day, ranked)
		next.baseline = ranking.Baseline(ranked)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "ranking snapshot recorded", "day", out.Day, "players", len(out.Ranking))
	return out, nil
}
