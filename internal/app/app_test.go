package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/squad-tracker/internal/config"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
	"github.com/riskibarqy/squad-tracker/internal/usecase"
)

func TestNew_SQLitePersistsAcrossRestarts(t *testing.T) {
	cfg := config.Config{
		StorageDriver:           config.StorageSQLite,
		SQLitePath:              filepath.Join(t.TempDir(), "squad.db"),
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		MinutesMaxPerAllocation: 90,
		HTTPAddr:                ":0",
		CORSAllowedOrigins:      []string{"*"},
	}

	first, err := New(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := first.Services.Roster.AddPlayer(t.Context(), usecase.PlayerInput{
		Name: "Ann", Positions: []string{"ST"}, Age: 20, Quality: 60,
	}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := first.NewHTTPServer(cfg); err != nil {
		t.Fatalf("http server: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := New(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	players, err := second.Services.Roster.ListPlayers(t.Context(), "")
	if err != nil || len(players) != 1 || players[0].Name != "Ann" {
		t.Fatalf("expected persisted roster, got %+v %v", players, err)
	}
	if !second.Report.DerivedMatchDay {
		t.Fatalf("expected the match-day cursor to be derived on first reload")
	}
}

func TestNew_ReadReplicaCachesSlotReads(t *testing.T) {
	cfg := config.Config{
		StorageDriver:           config.StorageSQLite,
		SQLitePath:              filepath.Join(t.TempDir(), "squad.db"),
		CacheEnabled:            true,
		CacheTTL:                time.Hour,
		MinutesMaxPerAllocation: 90,
	}

	writer, err := New(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	t.Cleanup(func() { _ = writer.Close() })

	cached, err := New(t.Context(), cfg, logging.NewNop(), AsReadReplica())
	if err != nil {
		t.Fatalf("new cached replica: %v", err)
	}
	t.Cleanup(func() { _ = cached.Close() })

	uncachedCfg := cfg
	uncachedCfg.CacheEnabled = false
	uncached, err := New(t.Context(), uncachedCfg, logging.NewNop(), AsReadReplica())
	if err != nil {
		t.Fatalf("new uncached replica: %v", err)
	}
	t.Cleanup(func() { _ = uncached.Close() })

	if _, err := writer.Services.Roster.AddPlayer(t.Context(), usecase.PlayerInput{
		Name: "Ann", Positions: []string{"ST"}, Age: 20, Quality: 60,
	}); err != nil {
		t.Fatalf("add player: %v", err)
	}

	for _, replica := range []*App{cached, uncached} {
		if err := replica.Workspace.Refresh(t.Context()); err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}

	players, err := cached.Services.Roster.ListPlayers(t.Context(), "")
	if err != nil || len(players) != 0 {
		t.Fatalf("cached replica should serve the roster read at startup, got %+v %v", players, err)
	}
	players, err = uncached.Services.Roster.ListPlayers(t.Context(), "")
	if err != nil || len(players) != 1 {
		t.Fatalf("uncached replica should see the write, got %+v %v", players, err)
	}
}

func TestNew_MemoryAndServerAddr(t *testing.T) {
	a, err := New(t.Context(), config.Config{StorageDriver: config.StorageMemory}, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close memory app: %v", err)
	}
	if _, err := a.NewHTTPServer(config.Config{}); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
	if _, err := New(t.Context(), config.Config{StorageDriver: "etcd"}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
