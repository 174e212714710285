package training

import (
	"errors"
	"testing"
)

func TestNormalizeTimes(t *testing.T) {
	times, err := NormalizeTimes([]string{" 1:00", "2:00", "3:00", "4:00", "5:00", "6:00", "7:00", "22:45"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if times[0] != "1:00" {
		t.Fatalf("expected trimmed label, got %q", times[0])
	}

	if _, err := NormalizeTimes([]string{"1:00"}); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime for short list, got %v", err)
	}
	bad := DefaultTimes()
	bad[3] = "8.10"
	if _, err := NormalizeTimes(bad); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime for bad label, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	times := DefaultTimes()
	summary := Summarize(times, Bonuses{"23:10": 2, "5:10": 1, "stale": 9})
	if summary.Sum != 3 || summary.RangeLow != 91 || summary.RangeHigh != 96 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Bonuses) != SessionCount {
		t.Fatalf("expected a value per session, got %d", len(summary.Bonuses))
	}

	empty := Summarize(times, nil)
	if empty.RangeLow != 94 || empty.RangeHigh != 99 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
}

func TestNormalizeBonuses(t *testing.T) {
	times := DefaultTimes()
	if _, err := NormalizeBonuses(times, Bonuses{"9:99": 1}); !errors.Is(err, ErrInvalidBonus) {
		t.Fatalf("expected unknown session error, got %v", err)
	}
	if _, err := NormalizeBonuses(times, Bonuses{"2:10": -1}); !errors.Is(err, ErrInvalidBonus) {
		t.Fatalf("expected negative bonus error, got %v", err)
	}
	out, err := NormalizeBonuses(times, Bonuses{"2:10": 4})
	if err != nil || out["2:10"] != 4 {
		t.Fatalf("unexpected result %v %v", out, err)
	}
}
