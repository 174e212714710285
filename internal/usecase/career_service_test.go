package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riskibarqy/squad-tracker/internal/domain/career"
	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

func TestCareerService_AllTimeLeadersAcrossSeasons(t *testing.T) {
	svc := newTestServices(t, nil)
	ann := mustAddPlayer(t, svc, "Ann Lee", []string{"ST"}, 20, 60)
	bob := mustAddPlayer(t, svc, "Bob Ray", []string{"GK"}, 30, 70)

	if _, err := svc.minutes.AddMinutes(t.Context(), []player.ID{ann.ID, bob.ID}, 90); err != nil {
		t.Fatalf("minutes: %v", err)
	}
	if _, err := svc.seasons.Rollover(t.Context()); err != nil {
		t.Fatalf("rollover: %v", err)
	}
	if _, err := svc.minutes.AddMinutes(t.Context(), []player.ID{ann.ID}, 45); err != nil {
		t.Fatalf("minutes: %v", err)
	}
	if _, err := svc.archive.ArchivePlayer(t.Context(), bob.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	leaders, err := svc.career.AllTimeLeaders(t.Context(), "totalMinutes", "")
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	if len(leaders) != 2 || leaders[0].PlayerID != ann.ID || leaders[0].TotalMinutes != 135 || leaders[0].Status != career.StatusActive {
		t.Fatalf("unexpected leaders %+v", leaders)
	}

	again, _ := svc.career.AllTimeLeaders(t.Context(), "totalMinutes", "")
	if !reflect.DeepEqual(leaders, again) {
		t.Fatalf("repeated queries must return identical ordering")
	}

	fame, err := svc.career.HallOfFame(t.Context(), "", "id")
	if err != nil {
		t.Fatalf("hall of fame: %v", err)
	}
	if len(fame) != 1 || fame[0].SeasonsLabel != "1-2" {
		t.Fatalf("expected Bob with seasons 1-2, got %+v", fame)
	}

	if _, err := svc.career.HallOfFame(t.Context(), "saves", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown metric, got %v", err)
	}
	if _, err := svc.career.AllTimeLeaders(t.Context(), "", "email"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown join, got %v", err)
	}
}

func TestCareerService_SearchPlayers(t *testing.T) {
	svc := newTestServices(t, nil)
	mustAddPlayer(t, svc, "Ann Lee", []string{"ST"}, 20, 60)
	if _, err := svc.seasons.Rollover(t.Context()); err != nil {
		t.Fatalf("rollover: %v", err)
	}

	rows, err := svc.career.SearchPlayers(t.Context(), "ANN")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].SeasonsLabel != "1" {
		t.Fatalf("unexpected search rows %+v", rows)
	}
	if _, err := svc.career.SearchPlayers(t.Context(), "a"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short query, got %v", err)
	}
}
