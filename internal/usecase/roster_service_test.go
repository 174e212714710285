package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
)

func TestRosterService_AddAndEditKeepsInitialQuality(t *testing.T) {
	svc := newTestServices(t, nil)
	created := mustAddPlayer(t, svc, " Alpha ", []string{"st", "AMC"}, 19, 60)

	if created.ID != "p1" || created.Name != "Alpha" || created.InitialQuality != 60 {
		t.Fatalf("unexpected created player: %+v", created)
	}
	if created.PrimaryPosition() != player.PositionST {
		t.Fatalf("expected primary ST, got %s", created.PrimaryPosition())
	}

	edited, err := svc.roster.EditPlayer(t.Context(), created.ID, PlayerInput{Name: "Alpha Prime", Positions: []string{"MC"}, Age: 20, Quality: 72})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Quality != 72 || edited.InitialQuality != 60 || edited.Name != "Alpha Prime" {
		t.Fatalf("unexpected edited player: %+v", edited)
	}
	if stored := storedPlayers(t, svc.store); stored[0].Name != "Alpha Prime" {
		t.Fatalf("edit was not persisted: %+v", stored)
	}
}

func TestRosterService_Validation(t *testing.T) {
	svc := newTestServices(t, nil)
	tests := []struct {
		name string
		in   PlayerInput
	}{
		{name: "blank name", in: PlayerInput{Name: " ", Positions: []string{"ST"}, Age: 20, Quality: 50}},
		{name: "no positions", in: PlayerInput{Name: "A", Age: 20, Quality: 50}},
		{name: "four positions", in: PlayerInput{Name: "A", Positions: []string{"ST", "AMC", "AML", "AMR"}, Age: 20, Quality: 50}},
		{name: "unknown position", in: PlayerInput{Name: "A", Positions: []string{"SW"}, Age: 20, Quality: 50}},
		{name: "duplicate position", in: PlayerInput{Name: "A", Positions: []string{"ST", "st"}, Age: 20, Quality: 50}},
		{name: "quality above 100", in: PlayerInput{Name: "A", Positions: []string{"ST"}, Age: 20, Quality: 101}},
		{name: "zero age", in: PlayerInput{Name: "A", Positions: []string{"ST"}, Age: 0, Quality: 50}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.roster.AddPlayer(t.Context(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRosterService_ProgressCommentTags(t *testing.T) {
	svc := newTestServices(t, nil)
	p := mustAddPlayer(t, svc, "Alpha", []string{"ST"}, 20, 60)

	value := 64
	got, err := svc.roster.SetProgress(t.Context(), p.ID, 3, &value)
	if err != nil {
		t.Fatalf("set progress: %v", err)
	}
	if got.CurrentQuality() != 64 {
		t.Fatalf("expected current quality 64, got %d", got.CurrentQuality())
	}
	value = 99
	if got.Progress[2] == nil || *got.Progress[2] != 64 {
		t.Fatalf("returned player must not alias the caller value")
	}

	if _, err := svc.roster.SetProgress(t.Context(), p.ID, 0, &value); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for day 0, got %v", err)
	}
	bad := 101
	if _, err := svc.roster.SetProgress(t.Context(), p.ID, 1, &bad); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for reading 101, got %v", err)
	}
	cleared, err := svc.roster.SetProgress(t.Context(), p.ID, 3, nil)
	if err != nil || cleared.Progress[2] != nil {
		t.Fatalf("expected cleared reading, got %v %v", cleared.Progress[2], err)
	}

	if got, _ := svc.roster.SetComment(t.Context(), p.ID, "  needs rest "); got.Comment != "needs rest" {
		t.Fatalf("unexpected comment %q", got.Comment)
	}
	toggled, err := svc.roster.ToggleTag(t.Context(), p.ID, "hotProspect")
	if err != nil || !toggled.Tags.HotProspect {
		t.Fatalf("expected hotProspect on, got %+v %v", toggled.Tags, err)
	}
	if _, err := svc.roster.ToggleTag(t.Context(), p.ID, "captain"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown tag, got %v", err)
	}
	set, err := svc.roster.SetTags(t.Context(), p.ID, player.Tags{Keep: true})
	if err != nil || !set.Tags.Keep || set.Tags.HotProspect {
		t.Fatalf("unexpected tags %+v %v", set.Tags, err)
	}
}

func TestRosterService_AgeAllAndResetMinutes(t *testing.T) {
	svc := newTestServices(t, nil)
	young := mustAddPlayer(t, svc, "Young", []string{"ST"}, 44, 60)
	old := mustAddPlayer(t, svc, "Old", []string{"GK"}, 45, 60)

	aged, err := svc.roster.AgeAll(t.Context())
	if err != nil || aged != 1 {
		t.Fatalf("expected one player aged, got %d %v", aged, err)
	}
	if p, _ := svc.roster.GetPlayer(t.Context(), young.ID); p.Age != 45 {
		t.Fatalf("expected 45, got %d", p.Age)
	}
	if p, _ := svc.roster.GetPlayer(t.Context(), old.ID); p.Age != 45 {
		t.Fatalf("expected capped at 45, got %d", p.Age)
	}

	if _, err := svc.minutes.AddMinutes(t.Context(), []player.ID{young.ID}, 90); err != nil {
		t.Fatalf("add minutes: %v", err)
	}
	reset, err := svc.roster.ResetMinutes(t.Context(), young.ID)
	if err != nil {
		t.Fatalf("reset minutes: %v", err)
	}
	if reset.TotalMinutes != 0 || reset.MatchesPlayed != 0 || reset.Minutes.Sum() != 0 {
		t.Fatalf("expected cleared minutes, got %+v", reset)
	}
}

func TestRosterService_ListPlayersOrdering(t *testing.T) {
	svc := newTestServices(t, nil)
	st := mustAddPlayer(t, svc, "Striker", []string{"ST"}, 20, 50)
	gk := mustAddPlayer(t, svc, "Keeper", []string{"GK"}, 30, 60)
	mc := mustAddPlayer(t, svc, "Mid", []string{"MC"}, 25, 80)
	dc := mustAddPlayer(t, svc, "Centre", []string{"DC", "DR"}, 27, 70)

	byPosition, err := svc.roster.ListPlayers(t.Context(), "position")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []player.ID{gk.ID, dc.ID, mc.ID, st.ID}
	for i, id := range want {
		if byPosition[i].ID != id {
			t.Fatalf("position order[%d]: want %s got %s", i, id, byPosition[i].ID)
		}
	}

	byQuality, err := svc.roster.ListPlayers(t.Context(), "quality")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want = []player.ID{mc.ID, dc.ID, gk.ID, st.ID}
	for i, id := range want {
		if byQuality[i].ID != id {
			t.Fatalf("quality order[%d]: want %s got %s", i, id, byQuality[i].ID)
		}
	}

	if _, err := svc.roster.ListPlayers(t.Context(), "age"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_SummaryAndDayAverages(t *testing.T) {
	svc := newTestServices(t, nil)
	if summary := svc.roster.SquadSummary(t.Context()); summary.Count != 0 || summary.AverageQuality != nil {
		t.Fatalf("expected empty summary, got %+v", summary)
	}

	a := mustAddPlayer(t, svc, "A", []string{"ST"}, 20, 60)
	b := mustAddPlayer(t, svc, "B", []string{"GK"}, 30, 70)
	for _, reading := range []struct {
		id    player.ID
		day   int
		value int
	}{
		{a.ID, 1, 60}, {b.ID, 1, 70}, {a.ID, 2, 66},
	} {
		v := reading.value
		if _, err := svc.roster.SetProgress(t.Context(), reading.id, reading.day, &v); err != nil {
			t.Fatalf("set progress: %v", err)
		}
	}

	summary := svc.roster.SquadSummary(t.Context())
	if summary.Count != 2 || *summary.AverageQuality != 65 || *summary.AverageAge != 25 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	days := svc.roster.DayAverages(t.Context())
	if len(days) != player.SeasonDays {
		t.Fatalf("expected %d days, got %d", player.SeasonDays, len(days))
	}
	if *days[0].Average != 65 || days[0].Readings != 2 || days[0].Change != nil {
		t.Fatalf("unexpected day 1: %+v", days[0])
	}
	if *days[1].Average != 66 || *days[1].Change != 1 {
		t.Fatalf("unexpected day 2: %+v", days[1])
	}
	if days[2].Average != nil {
		t.Fatalf("expected no average on day 3")
	}
}

func TestRosterService_MostImproved(t *testing.T) {
	svc := newTestServices(t, nil)
	a := mustAddPlayer(t, svc, "Ann", []string{"ST"}, 20, 50)
	b := mustAddPlayer(t, svc, "Bob", []string{"GK"}, 30, 60)
	up, down := 60, 58
	if _, err := svc.roster.SetProgress(t.Context(), a.ID, 1, &up); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if _, err := svc.roster.SetProgress(t.Context(), b.ID, 1, &down); err != nil {
		t.Fatalf("progress: %v", err)
	}

	rows, err := svc.roster.MostImproved(t.Context(), "", "")
	if err != nil {
		t.Fatalf("most improved: %v", err)
	}
	if rows[0].PlayerID != a.ID || rows[0].Improvement != 10 || rows[0].ImprovementPercent != 20 || rows[0].Rank != 1 {
		t.Fatalf("unexpected top row %+v", rows[0])
	}

	rows, err = svc.roster.MostImproved(t.Context(), "player", "desc")
	if err != nil || rows[0].Name != "Bob" {
		t.Fatalf("expected Bob first by name desc, got %+v %v", rows, err)
	}
	if _, err := svc.roster.MostImproved(t.Context(), "height", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown sort, got %v", err)
	}
	if _, err := svc.roster.MostImproved(t.Context(), "", "sideways"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown order, got %v", err)
	}
}
