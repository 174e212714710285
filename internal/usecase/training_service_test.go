package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/squad-tracker/internal/domain/training"
)

func TestTrainingService_SummaryAndBonuses(t *testing.T) {
	svc := newTestServices(t, nil)

	summary := svc.training.Summary(t.Context())
	if len(summary.Times) != training.SessionCount || summary.RangeLow != 94 || summary.RangeHigh != 99 {
		t.Fatalf("unexpected default summary %+v", summary)
	}

	summary, err := svc.training.SetBonuses(t.Context(), map[string]int{"23:10": 3, "5:10": 2})
	if err != nil {
		t.Fatalf("set bonuses: %v", err)
	}
	if summary.Sum != 5 || summary.RangeLow != 89 || summary.RangeHigh != 94 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if _, err := svc.training.SetBonuses(t.Context(), map[string]int{"9:99": 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown session, got %v", err)
	}

	summary, err = svc.training.ResetBonuses(t.Context())
	if err != nil || summary.Sum != 0 {
		t.Fatalf("expected reset, got %+v %v", summary, err)
	}
}

func TestTrainingService_SetTimesClearsBonuses(t *testing.T) {
	svc := newTestServices(t, nil)
	if _, err := svc.training.SetBonuses(t.Context(), map[string]int{"2:10": 4}); err != nil {
		t.Fatalf("set bonuses: %v", err)
	}

	times := []string{"0:30", "3:30", "6:30", "9:30", "12:30", "15:30", "18:30", "21:30"}
	summary, err := svc.training.SetTimes(t.Context(), times)
	if err != nil {
		t.Fatalf("set times: %v", err)
	}
	if summary.Sum != 0 || summary.Times[0] != "0:30" {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := svc.training.SetTimes(t.Context(), []string{"noon"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	bad := append([]string(nil), times...)
	bad[3] = "9.30"
	if _, err := svc.training.SetTimes(t.Context(), bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad label, got %v", err)
	}
}
