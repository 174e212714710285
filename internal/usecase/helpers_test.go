package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("p%d", g.next), nil
}

type testServices struct {
	store     *memory.SlotStore
	workspace *Workspace
	roster    *RosterService
	minutes   *MinutesService
	ga        *GoalAssistService
	ranking   *RankingService
	seasons   *SeasonService
	archive   *ArchiveService
	career    *CareerService
	training  *TrainingService
	backup    *BackupService
}

func newTestServices(t *testing.T, seed map[slotstore.Name][]byte) *testServices {
	t.Helper()

	logger := logging.NewNop()
	store := memory.NewSlotStore(seed)
	workspace := NewWorkspace(store, WorkspaceOptions{Logger: logger})
	if _, err := workspace.Load(t.Context()); err != nil {
		t.Fatalf("load workspace: %v", err)
	}

	seasons := NewSeasonService(workspace, logger)
	seasons.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	return &testServices{
		store:     store,
		workspace: workspace,
		roster:    NewRosterService(workspace, &sequenceIDGenerator{}, logger),
		minutes:   NewMinutesService(workspace, logger),
		ga:        NewGoalAssistService(workspace, logger),
		ranking:   NewRankingService(workspace, logger),
		seasons:   seasons,
		archive:   NewArchiveService(workspace, logger),
		career:    NewCareerService(workspace, logger),
		training:  NewTrainingService(workspace, logger),
		backup:    NewBackupService(workspace, logger),
	}
}

func mustAddPlayer(t *testing.T, svc *testServices, name string, positions []string, age, quality int) player.Player {
	t.Helper()
	p, err := svc.roster.AddPlayer(t.Context(), PlayerInput{Name: name, Positions: positions, Age: age, Quality: quality})
	if err != nil {
		t.Fatalf("add player %s: %v", name, err)
	}
	return p
}

func storedPlayers(t *testing.T, store slotstore.Store) []player.Player {
	t.Helper()
	raw, err := store.Get(t.Context(), slotstore.Players)
	if err != nil {
		t.Fatalf("get players slot: %v", err)
	}
	var players []player.Player
	if err := sonic.Unmarshal(raw, &players); err != nil {
		t.Fatalf("decode players slot: %v", err)
	}
	return players
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := sonic.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
