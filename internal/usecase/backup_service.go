package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/squad-tracker/internal/domain/player"
	"github.com/riskibarqy/squad-tracker/internal/domain/ranking"
	"github.com/riskibarqy/squad-tracker/internal/domain/season"
	"github.com/riskibarqy/squad-tracker/internal/domain/slotstore"
	"github.com/riskibarqy/squad-tracker/internal/domain/training"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

const (
	backupKeyPlayers    = "players"
	backupKeyArchives   = "archives"
	backupKeyBonuses    = "trainingBonuses"
	backupKeyBaseline   = "powerRankingHistory"
	backupKeyTimeSeries = "powerRankingTimeSeries"
)

var backupKeys = []string{
	backupKeyPlayers,
	backupKeyArchives,
	backupKeyBonuses,
	backupKeyBaseline,
	backupKeyTimeSeries,
}

var importSlots = []slotstore.Name{
	slotstore.Players,
	slotstore.SeasonArchives,
	slotstore.TrainingBonuses,
	slotstore.RankingBaseline,
	slotstore.RankingSeries,
	slotstore.MatchDayCursor,
}

// Backup is the portable export document.
type Backup struct {
	Players                []player.Player    `json:"players"`
	Archives               []season.Archive   `json:"archives"`
	TrainingBonuses        training.Bonuses   `json:"trainingBonuses"`
	PowerRankingHistory    ranking.Baseline   `json:"powerRankingHistory"`
	PowerRankingTimeSeries ranking.TimeSeries `json:"powerRankingTimeSeries"`
}

type BackupService struct {
	workspace *Workspace
	logger    *logging.Logger
}

func NewBackupService(workspace *Workspace, logger *logging.Logger) *BackupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BackupService{workspace: workspace, logger: logger}
}

func (s *BackupService) Export(ctx context.Context) Backup {
	_, span := startUsecaseSpan(ctx, "usecase.BackupService.Export")
	defer span.End()

	var out Backup
	s.workspace.view(func(st *state) {
		out = Backup{
			Players:                nonNilPlayers(player.CloneAll(st.players)),
			Archives:               season.CloneAll(st.archives),
			TrainingBonuses:        st.bonuses.Clone(),
			PowerRankingHistory:    st.baseline.Clone(),
			PowerRankingTimeSeries: st.series.Clone(),
		}
	})
	if out.Archives == nil {
		out.Archives = []season.Archive{}
	}
	if out.TrainingBonuses == nil {
		out.TrainingBonuses = training.Bonuses{}
	}
	if out.PowerRankingHistory == nil {
		out.PowerRankingHistory = ranking.Baseline{}
	}
	if out.PowerRankingTimeSeries == nil {
		out.PowerRankingTimeSeries = ranking.TimeSeries{}
	}
	return out
}

// DecodeBackup parses an export document. Every key must be present, non-null
// and of the right shape; any violation is ErrImportFormat.
func DecodeBackup(raw []byte) (Backup, error) {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return Backup{}, fmt.Errorf("%w: %w", ErrImportFormat, crerr.Wrap(err, "parse backup"))
	}
	for _, key := range backupKeys {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return Backup{}, fmt.Errorf("%w: %w", ErrImportFormat, crerr.Newf("backup is missing %q", key))
		}
	}

	var out Backup
	targets := map[string]any{
		backupKeyPlayers:    &out.Players,
		backupKeyArchives:   &out.Archives,
		backupKeyBonuses:    &out.TrainingBonuses,
		backupKeyBaseline:   &out.PowerRankingHistory,
		backupKeyTimeSeries: &out.PowerRankingTimeSeries,
	}
	for _, key := range backupKeys {
		if err := sonic.Unmarshal(fields[key], targets[key]); err != nil {
			return Backup{}, fmt.Errorf("%w: %w", ErrImportFormat, crerr.Wrapf(err, "decode %s", key))
		}
	}

	seen := make(map[player.ID]struct{}, len(out.Players))
	for i, p := range out.Players {
		if p.ID == "" {
			return Backup{}, fmt.Errorf("%w: %w", ErrImportFormat, crerr.Newf("player at index %d has no id", i))
		}
		if _, dup := seen[p.ID]; dup {
			return Backup{}, fmt.Errorf("%w: %w", ErrImportFormat, crerr.Newf("duplicate player id %s", p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	out.Players = normalizeLoaded(nonNilPlayers(out.Players), false)
	return out, nil
}

// Import replaces the live data set with a backup. The five backed-up slots
// plus the derived minutes cursor are written in one batch; the archived
// players collection is left alone. Both undo logs are cleared.
func (s *BackupService) Import(ctx context.Context, raw []byte) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.Import")
	defer func() { endUsecaseSpan(span, err) }()

	backup, err := DecodeBackup(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "backup rejected", "error", err)
		return err
	}

	for i := range backup.Players {
		p := &backup.Players[i]
		positions, changed := player.NormalizePositions(p.Positions)
		if changed {
			s.logger.WarnContext(ctx, "backup player positions normalized",
				"player_id", p.ID,
				"before", p.Positions,
				"after", positions,
			)
			p.Positions = positions
		}
		if len(positions) == 0 {
			s.logger.WarnContext(ctx, "backup player has no position", "player_id", p.ID)
		}
	}

	w := s.workspace
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.state.clone()
	next.players = backup.Players
	next.archives = backup.Archives
	next.bonuses = backup.TrainingBonuses
	next.baseline = backup.PowerRankingHistory
	next.series = backup.PowerRankingTimeSeries
	next.matchDay = legacyMatchDay(next.players)
	if err := w.commitLocked(ctx, next, importSlots...); err != nil {
		return err
	}
	w.minutesUndo.Clear()
	w.gaUndo.Clear()

	s.logger.InfoContext(ctx, "backup imported",
		"players", len(backup.Players),
		"season_archives", len(backup.Archives),
	)
	return nil
}
