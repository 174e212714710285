package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/domain/training"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

type TrainingService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewTrainingService(workspace *Workspace, logger *logging.Logger) *TrainingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TrainingService{workspace: workspace, logger: logger}
}

func (s *TrainingService) Summary(ctx context.Context) training.Summary {
	var out training.Summary
	s.workspace.view(func(st *state) {
		out = training.Summarize(st.times, st.bonuses)
	})
	return out
}

// SetTimes replaces the session labels and clears every entered bonus.
func (s *TrainingService) SetTimes(ctx context.Context, times []string) (out training.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.SetTimes")
	defer func() { endUsecaseSpan(span, err) }()

	normalized, err := training.NormalizeTimes(times)
	if err != nil {
		return training.Summary{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	names := []slotstore.Name{slotstore.TrainingTimes, slotstore.TrainingBonuses}
	err = s.workspace.mutate(ctx, names, func(next *state) error {
		next.times = normalized
		next.bonuses = training.Bonuses{}
		out = training.Summarize(next.times, next.bonuses)
		return nil
	})
	if err != nil {
		return training.Summary{}, err
	}
	s.logger.InfoContext(ctx, "training times updated", "times", normalized)
	return out, nil
}

func (s *TrainingService) SetBonuses(ctx context.Context, bonuses map[string]int) (out training.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.SetBonuses")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.TrainingBonuses}, func(next *state) error {
		normalized, err := training.NormalizeBonuses(next.times, bonuses)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		next.bonuses = normalized
		out = training.Summarize(next.times, next.bonuses)
		return nil
	})
	return out, err
}

func (s *TrainingService) ResetBonuses(ctx context.Context) (out training.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.ResetBonuses")
	defer func() { endUsecaseSpan(span, err) }()

	err = s.workspace.mutate(ctx, []slotstore.Name{slotstore.TrainingBonuses}, func(next *state) error {
		next.bonuses = training.Bonuses{}
		out = training.Summarize(next.times, next.bonuses)
		return nil
	})
	return out, err
}
