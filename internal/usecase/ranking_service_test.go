package usecase

import (
	"testing"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
)

func TestRankingService_RecordSnapshotOverwritesDay(t *testing.T) {
	svc := newTestServices(t, nil)
	a := mustAddPlayer(t, svc, "Ann", []string{"ST"}, 20, 60)
	b := mustAddPlayer(t, svc, "Bob", []string{"DC"}, 27, 70)
	reading := 62
	if _, err := svc.roster.SetProgress(t.Context(), a.ID, 4, &reading); err != nil {
		t.Fatalf("progress: %v", err)
	}

	first, err := svc.ranking.RecordSnapshot(t.Context())
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if first.Day != 4 {
		t.Fatalf("expected day 4, got %d", first.Day)
	}

	if _, err := svc.ga.Change(t.Context(), b.ID, "leagueGoals", 3); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.minutes.AddMinutes(t.Context(), []player.ID{b.ID}, 90); err != nil {
		t.Fatalf("minutes: %v", err)
	}
	second, err := svc.ranking.RecordSnapshot(t.Context())
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	view := svc.ranking.TimeSeries(t.Context())
	if len(view.Days) != 1 || view.Days[0] != 4 {
		t.Fatalf("expected a single day 4 entry, got %v", view.Days)
	}
	entries := view.Series[4]
	if len(entries) != len(second.Ranking) {
		t.Fatalf("expected %d entries, got %d", len(second.Ranking), len(entries))
	}
	for i, e := range entries {
		if e.PlayerID != second.Ranking[i].PlayerID || e.PowerScore != second.Ranking[i].PowerScore {
			t.Fatalf("entry %d does not match second computation: %+v", i, e)
		}
	}

	bob := second.Ranking[0]
	if bob.PlayerID != b.ID || bob.Delta.PowerScore == nil || *bob.Delta.PowerScore <= 0 {
		t.Fatalf("expected Bob on top with a positive delta, got %+v", bob)
	}

	raw, err := svc.store.Get(t.Context(), slotstore.RankingSeries)
	if err != nil {
		t.Fatalf("series slot: %v", err)
	}
	var persisted ranking.TimeSeries
	if err := sonic.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if len(persisted) != 1 || len(persisted[4]) != 2 {
		t.Fatalf("unexpected persisted series %+v", persisted)
	}
}

func TestRankingService_CurrentDoesNotMutateBaseline(t *testing.T) {
	svc := newTestServices(t, nil)
	a := mustAddPlayer(t, svc, "Ann", []string{"ST"}, 20, 60)

	current := svc.ranking.Current(t.Context())
	if len(current) != 1 || current[0].Delta.New || current[0].Delta.Rank != nil {
		t.Fatalf("empty baseline yields no deltas, got %+v", current)
	}
	if len(svc.ranking.Baseline(t.Context())) != 0 {
		t.Fatalf("current ranking must not write a baseline")
	}

	if _, err := svc.ranking.RecordSnapshot(t.Context()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	newcomer := mustAddPlayer(t, svc, "Cid", []string{"GK"}, 35, 90)
	current = svc.ranking.Current(t.Context())
	for _, entry := range current {
		switch entry.PlayerID {
		case newcomer.ID:
			if !entry.Delta.New || entry.Delta.Rank != nil {
				t.Fatalf("expected newcomer flagged new without rank delta, got %+v", entry.Delta)
			}
		case a.ID:
			if entry.Delta.Rank == nil || *entry.Delta.Rank != -1 {
				t.Fatalf("expected Ann to drop one place, got %+v", entry.Delta)
			}
		}
	}
}
