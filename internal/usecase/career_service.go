package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/squad-tracker/internal/domain/career"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// CareerService serves read-only views that span every archived season.
type CareerService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewCareerService(workspace *Workspace, logger *logging.Logger) *CareerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CareerService{workspace: workspace, logger: logger}
}

func parseLeaderboardArgs(rawMetric, rawJoin string) (career.Metric, career.Join, error) {
	metric, err := career.ParseMetric(rawMetric)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	join, err := career.ParseJoin(rawJoin)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return metric, join, nil
}

func (s *CareerService) HallOfFame(ctx context.Context, rawMetric, rawJoin string) (out []career.Row, err error) {
	_, span := startUsecaseSpan(ctx, "usecase.CareerService.HallOfFame")
	defer func() { endUsecaseSpan(span, err) }()

	metric, join, err := parseLeaderboardArgs(rawMetric, rawJoin)
	if err != nil {
		return nil, err
	}
	s.workspace.view(func(st *state) {
		out = career.HallOfFame(st.archived, st.archives, metric, join)
	})
	return out, nil
}

func (s *CareerService) AllTimeLeaders(ctx context.Context, rawMetric, rawJoin string) (out []career.Row, err error) {
	_, span := startUsecaseSpan(ctx, "usecase.CareerService.AllTimeLeaders")
	defer func() { endUsecaseSpan(span, err) }()

	metric, join, err := parseLeaderboardArgs(rawMetric, rawJoin)
	if err != nil {
		return nil, err
	}
	s.workspace.view(func(st *state) {
		out = career.AllTimeLeaders(st.players, st.archived, st.archives, metric, join)
	})
	return out, nil
}

func (s *CareerService) SearchPlayers(ctx context.Context, query string) (out []career.Row, err error) {
	_, span := startUsecaseSpan(ctx, "usecase.CareerService.SearchPlayers")
	defer func() { endUsecaseSpan(span, err) }()

	s.workspace.view(func(st *state) {
		out, err = career.Search(query, st.archived, st.archives)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return out, nil
}
